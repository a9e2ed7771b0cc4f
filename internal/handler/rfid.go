package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/ismailhaddouche/PiControl/internal/apierror"
	"github.com/ismailhaddouche/PiControl/internal/dto"
	"github.com/ismailhaddouche/PiControl/internal/middleware"
	"github.com/ismailhaddouche/PiControl/internal/rfid"
	"github.com/ismailhaddouche/PiControl/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RFIDHandler exposes the tag-assignment workflow: arm assign mode, read the
// pending slot, bind the pending tag to an employee, and watch reader events.
type RFIDHandler struct {
	reader    *rfid.Service
	pending   *rfid.PendingStore
	events    *rfid.Broadcaster
	employees service.EmployeeService
}

func NewRFIDHandler(reader *rfid.Service, pending *rfid.PendingStore, events *rfid.Broadcaster, employees service.EmployeeService) *RFIDHandler {
	return &RFIDHandler{reader: reader, pending: pending, events: events, employees: employees}
}

// ArmAssignMode arms (or disarms, with ?armed=false) assign mode; the next
// scanned tag lands in the pending slot instead of producing a check-in.
func (h *RFIDHandler) ArmAssignMode(c *gin.Context) {
	armed := c.DefaultQuery("armed", "true") != "false"
	h.reader.SetAssignMode(armed)
	c.JSON(http.StatusOK, gin.H{"assign_mode": armed})
}

// GetPending reports whether a scanned tag is waiting to be bound.
func (h *RFIDHandler) GetPending(c *gin.Context) {
	tag, err := h.pending.Get(c.Request.Context())
	if errors.Is(err, rfid.ErrNoPending) {
		c.JSON(http.StatusOK, dto.PendingResponse{Pending: false})
		return
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, apierror.New("pending store unavailable"))
		return
	}
	c.JSON(http.StatusOK, dto.PendingResponse{
		Pending:   true,
		RFIDUID:   tag.RFIDUID,
		Timestamp: tag.Timestamp,
	})
}

// AssignPending binds the pending tag to the given employee. The tag takeover
// rules apply: a previous holder is stripped and archived.
func (h *RFIDHandler) AssignPending(c *gin.Context) {
	var req dto.AssignPendingRequest
	if !bindAndValidate(c, &req) {
		return
	}

	tag, err := h.pending.Get(c.Request.Context())
	if errors.Is(err, rfid.ErrNoPending) {
		c.JSON(http.StatusConflict, apierror.New("no pending tag: arm assign mode and scan a badge first"))
		return
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, apierror.New("pending store unavailable"))
		return
	}

	uid := tag.RFIDUID
	emp, err := h.employees.AssignTag(c.Request.Context(), req.DocumentID, &uid, middleware.Actor(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if err := h.pending.Clear(c.Request.Context()); err != nil {
		// the slot carries a TTL and expires on its own
		log.Warn().Err(err).Msg("failed to clear pending rfid slot")
	}

	ev := rfid.NewEvent("rfid_assigned", uid)
	ev.EmployeeID = emp.DocumentID
	ev.EmployeeName = emp.Name
	h.events.Publish(ev)

	c.JSON(http.StatusOK, toEmployeeResponse(emp))
}

// MockScan injects a UID through the exact hardware path. Used by the admin
// panel when no physical reader is attached.
func (h *RFIDHandler) MockScan(c *gin.Context) {
	var req dto.ScanRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.reader.HandleScan(c.Request.Context(), req.RFIDUID)
	c.JSON(http.StatusAccepted, gin.H{"accepted": true, "assign_mode": h.reader.AssignMode()})
}

// Events streams reader events (check-ins, unknown tags, assignments) over
// Server-Sent Events until the client disconnects.
func (h *RFIDHandler) Events(c *gin.Context) {
	ch, cancel := h.events.Subscribe()
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("message", ev)
			return true
		}
	})
}
