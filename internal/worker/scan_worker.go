package worker

// scan_worker.go
// Processes badge scans from QueueScan: resolves the tag to an employee,
// records the alternating entry/exit event, and broadcasts the outcome to
// connected panels. An unknown tag produces a distinct rfid_unknown event so
// the UI can give different feedback than a successful check-in.

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ismailhaddouche/PiControl/internal/rfid"
	"github.com/ismailhaddouche/PiControl/internal/service"

	"github.com/rs/zerolog/log"
)

type ScanWorker struct {
	checkins service.CheckInService
	events   *rfid.Broadcaster
}

func NewScanWorker(checkins service.CheckInService, events *rfid.Broadcaster) *ScanWorker {
	return &ScanWorker{checkins: checkins, events: events}
}

func (w *ScanWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ScanJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("scan_worker: invalid payload")
		return
	}
	if payload.RFIDUID == "" {
		log.Warn().Msg("scan_worker: empty rfid_uid — skipping")
		return
	}

	event, emp, message, err := w.checkins.CheckInByTag(ctx, payload.RFIDUID)
	if errors.Is(err, service.ErrNotFound) {
		log.Info().Str("rfid_uid", payload.RFIDUID).Msg("scan_worker: unknown tag")
		w.events.Publish(rfid.NewEvent("rfid_unknown", payload.RFIDUID))
		return
	}
	if err != nil {
		// fire-and-forget: the scan is dropped, the employee can tap again
		log.Error().Err(err).Str("rfid_uid", payload.RFIDUID).Msg("scan_worker: check-in failed — scan dropped")
		return
	}

	ev := rfid.NewEvent("checkin", payload.RFIDUID)
	ev.EmployeeID = emp.DocumentID
	ev.EmployeeName = emp.Name
	ev.CheckinType = string(event.Type)
	ev.Message = message
	w.events.Publish(ev)

	log.Info().
		Str("employee_id", emp.DocumentID).
		Str("type", string(event.Type)).
		Msg("scan_worker: check-in recorded")
}
