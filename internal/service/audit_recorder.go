package service

import (
	"context"
	"time"

	"github.com/ismailhaddouche/PiControl/internal/model"
	"github.com/ismailhaddouche/PiControl/internal/repository"

	"github.com/rs/zerolog/log"
)

// Audit action tags written by the services.
const (
	AuditCreateEmployee  = "create_employee"
	AuditUpdateEmployee  = "update_employee"
	AuditAssignRFID      = "assign_rfid"
	AuditReassignRFID    = "reassign_rfid"
	AuditArchiveEmployee = "archive_employee"
	AuditRestoreEmployee = "restore_employee"
	AuditManualCheckIn   = "manual_checkin"
	AuditSetConfig       = "set_config"
)

// AuditRecorder appends administrative actions to the audit trail.
// Recording is strictly best-effort: the primary mutation has already
// committed by the time Record is called, and a failed audit write must never
// surface to the caller — it is logged and swallowed.
type AuditRecorder interface {
	// Record writes one entry. A nil actor means the action was not performed
	// by an authenticated admin (e.g. a hardware scan) and no entry is written.
	Record(ctx context.Context, actor *string, action, details string)
	ListRecent(ctx context.Context, limit int) ([]model.AuditEntry, error)
}

type auditRecorder struct {
	repo repository.AuditRepository
}

func NewAuditRecorder(repo repository.AuditRepository) AuditRecorder {
	return &auditRecorder{repo: repo}
}

func (a *auditRecorder) Record(ctx context.Context, actor *string, action, details string) {
	if actor == nil || *actor == "" {
		return
	}
	entry := &model.AuditEntry{
		Timestamp: time.Now().UTC(),
		Actor:     *actor,
		Action:    action,
		Details:   details,
	}
	if err := a.repo.Append(ctx, entry); err != nil {
		log.Error().
			Err(err).
			Str("actor", *actor).
			Str("action", action).
			Msg("audit write failed — entry dropped")
	}
}

func (a *auditRecorder) ListRecent(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	return a.repo.ListRecent(ctx, limit)
}
