package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ismailhaddouche/PiControl/internal/apierror"
	"github.com/ismailhaddouche/PiControl/internal/service"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct{ svc service.AuditRecorder }

func NewAuditHandler(svc service.AuditRecorder) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// List returns the most recent administrative actions, newest first.
func (h *AuditHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit < 1 || limit > 1000 {
		limit = 100
	}
	entries, err := h.svc.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list audit entries"))
		return
	}

	out := make([]gin.H, 0, len(entries))
	for _, e := range entries {
		out = append(out, gin.H{
			"id":        e.ID.String(),
			"timestamp": e.Timestamp.UTC().Format(time.RFC3339),
			"actor":     e.Actor,
			"action":    e.Action,
			"details":   e.Details,
		})
	}
	c.JSON(http.StatusOK, out)
}
