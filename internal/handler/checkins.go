package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ismailhaddouche/PiControl/internal/apierror"
	"github.com/ismailhaddouche/PiControl/internal/dto"
	"github.com/ismailhaddouche/PiControl/internal/middleware"
	"github.com/ismailhaddouche/PiControl/internal/model"
	"github.com/ismailhaddouche/PiControl/internal/rfid"
	"github.com/ismailhaddouche/PiControl/internal/service"

	"github.com/gin-gonic/gin"
)

type CheckInHandler struct {
	svc    service.CheckInService
	reader *rfid.Service
}

func NewCheckInHandler(svc service.CheckInService, reader *rfid.Service) *CheckInHandler {
	return &CheckInHandler{svc: svc, reader: reader}
}

func toCheckInResponse(ev *model.CheckIn, emp *model.Employee, message string) dto.CheckInResponse {
	resp := dto.CheckInResponse{
		ID:         ev.ID.String(),
		EmployeeID: ev.EmployeeID,
		Type:       string(ev.Type),
		Timestamp:  ev.Timestamp.UTC().Format(time.RFC3339),
		Message:    message,
	}
	if emp != nil {
		resp.EmployeeName = emp.Name
	}
	return resp
}

// Scan godoc
// @Summary Accepts a raw reader scan for asynchronous processing
// @Tags checkins
// @Accept json
// @Produce json
// @Param body body dto.ScanRequest true "Scanned tag UID"
// @Success 202
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/checkins [post]
func (h *CheckInHandler) Scan(c *gin.Context) {
	var req dto.ScanRequest
	if !bindAndValidate(c, &req) {
		return
	}
	// Same path as a hardware read: assign mode, pending slot, scan queue.
	h.reader.HandleScan(c.Request.Context(), req.RFIDUID)
	c.JSON(http.StatusAccepted, gin.H{"accepted": true})
}

// Manual records a check-in on behalf of an employee; the authenticated admin
// is attributed in the audit log.
func (h *CheckInHandler) Manual(c *gin.Context) {
	var req dto.ManualCheckInRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ev, emp, message, err := h.svc.CheckInByID(c.Request.Context(), req.DocumentID, middleware.Actor(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCheckInResponse(ev, emp, message))
}

// ListByEmployee returns the chronological events for one employee, optionally
// bounded by ?start and ?end.
func (h *CheckInHandler) ListByEmployee(c *gin.Context) {
	start, end, ok := parseTimeRange(c)
	if !ok {
		return
	}
	events, err := h.svc.ListByEmployee(c.Request.Context(), c.Param("document_id"), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list check-ins"))
		return
	}
	out := make([]dto.CheckInResponse, 0, len(events))
	for i := range events {
		out = append(out, toCheckInResponse(&events[i], nil, ""))
	}
	c.JSON(http.StatusOK, out)
}

// ListRecent returns the latest events across all employees (or one, with
// ?document_id=), newest first.
func (h *CheckInHandler) ListRecent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 500 {
		limit = 50
	}
	events, err := h.svc.ListRecent(c.Request.Context(), c.Query("document_id"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list check-ins"))
		return
	}
	out := make([]dto.CheckInResponse, 0, len(events))
	for i := range events {
		out = append(out, toCheckInResponse(&events[i], nil, ""))
	}
	c.JSON(http.StatusOK, out)
}
