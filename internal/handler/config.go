package handler

import (
	"errors"
	"net/http"

	"github.com/ismailhaddouche/PiControl/internal/apierror"
	"github.com/ismailhaddouche/PiControl/internal/dto"
	"github.com/ismailhaddouche/PiControl/internal/middleware"
	"github.com/ismailhaddouche/PiControl/internal/service"

	"github.com/gin-gonic/gin"
)

type ConfigHandler struct{ svc service.ConfigService }

func NewConfigHandler(svc service.ConfigService) *ConfigHandler {
	return &ConfigHandler{svc: svc}
}

func (h *ConfigHandler) Get(c *gin.Context) {
	entry, err := h.svc.Get(c.Request.Context(), c.Param("key"))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, apierror.New("config key not found"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to read config"))
		return
	}
	c.JSON(http.StatusOK, dto.ConfigEntryResponse{Key: entry.Key, Value: entry.Value})
}

func (h *ConfigHandler) Set(c *gin.Context) {
	var req dto.SetConfigRequest
	if !bindAndValidate(c, &req) {
		return
	}
	key := c.Param("key")
	if err := h.svc.Set(c.Request.Context(), key, req.Value, middleware.Actor(c)); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to write config"))
		return
	}
	c.JSON(http.StatusOK, dto.ConfigEntryResponse{Key: key, Value: req.Value})
}

func (h *ConfigHandler) List(c *gin.Context) {
	entries, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list config"))
		return
	}
	out := make([]dto.ConfigEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ConfigEntryResponse{Key: e.Key, Value: e.Value})
	}
	c.JSON(http.StatusOK, out)
}
