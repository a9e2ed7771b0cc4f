package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/ismailhaddouche/PiControl/internal/apierror"
	"github.com/ismailhaddouche/PiControl/internal/dto"
	"github.com/ismailhaddouche/PiControl/internal/middleware"
	"github.com/ismailhaddouche/PiControl/internal/model"
	"github.com/ismailhaddouche/PiControl/internal/service"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct{ svc service.EmployeeService }

func NewEmployeeHandler(svc service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

func toEmployeeResponse(emp *model.Employee) dto.EmployeeResponse {
	resp := dto.EmployeeResponse{
		DocumentID: emp.DocumentID,
		Name:       emp.Name,
		RFIDUID:    emp.RFIDUID,
	}
	if emp.ArchivedAt != nil {
		s := emp.ArchivedAt.UTC().Format(time.RFC3339)
		resp.ArchivedAt = &s
	}
	return resp
}

// writeServiceError maps the service sentinels onto HTTP statuses.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New("employee not found"))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
	}
}

// Upsert godoc
// @Summary Creates or updates an employee, optionally binding an RFID tag
// @Tags employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.UpsertEmployeeRequest true "Employee data"
// @Success 200 {object} dto.EmployeeResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/employees [put]
func (h *EmployeeHandler) Upsert(c *gin.Context) {
	var req dto.UpsertEmployeeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	emp, err := h.svc.Upsert(c.Request.Context(), req.DocumentID, req.Name, req.RFIDUID, middleware.Actor(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEmployeeResponse(emp))
}

// List godoc
// @Summary Lists employees; ?active=true restricts to active tag holders
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.EmployeeResponse
// @Router /v1/employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	emps, err := h.svc.List(c.Request.Context(), activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list employees"))
		return
	}
	out := make([]dto.EmployeeResponse, 0, len(emps))
	for i := range emps {
		out = append(out, toEmployeeResponse(&emps[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	emp, err := h.svc.Get(c.Request.Context(), c.Param("document_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEmployeeResponse(emp))
}

// AssignTag binds a tag to the employee; a null rfid_uid removes the tag and
// archives them. A tag held by someone else is taken over and the previous
// holder archived.
func (h *EmployeeHandler) AssignTag(c *gin.Context) {
	var req dto.AssignTagRequest
	if !bindAndValidate(c, &req) {
		return
	}
	emp, err := h.svc.AssignTag(c.Request.Context(), c.Param("document_id"), req.RFIDUID, middleware.Actor(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEmployeeResponse(emp))
}

func (h *EmployeeHandler) Archive(c *gin.Context) {
	emp, err := h.svc.Archive(c.Request.Context(), c.Param("document_id"), middleware.Actor(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEmployeeResponse(emp))
}

func (h *EmployeeHandler) Restore(c *gin.Context) {
	emp, err := h.svc.Restore(c.Request.Context(), c.Param("document_id"), middleware.Actor(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEmployeeResponse(emp))
}
