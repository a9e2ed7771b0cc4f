package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ismailhaddouche/PiControl/internal/model"
	"github.com/ismailhaddouche/PiControl/internal/repository"
)

// CheckInService decides entry vs. exit for each badge tap and records the
// event. The per-employee state (NO_HISTORY / LAST_WAS_ENTRY / LAST_WAS_EXIT)
// is never stored — it is derived from the most recent event on every call.
type CheckInService interface {
	// CheckInByTag resolves the active holder of rfidUID and records the next
	// event. ErrNotFound when no active employee holds the tag.
	CheckInByTag(ctx context.Context, rfidUID string) (*model.CheckIn, *model.Employee, string, error)
	// CheckInByID records the next event for the employee with documentID.
	// A non-nil actor writes a manual_checkin audit entry.
	CheckInByID(ctx context.Context, documentID string, actor *string) (*model.CheckIn, *model.Employee, string, error)
	ListByEmployee(ctx context.Context, documentID string, start, end *time.Time) ([]model.CheckIn, error)
	ListRecent(ctx context.Context, documentID string, limit int) ([]model.CheckIn, error)
}

type checkInService struct {
	employees repository.EmployeeRepository
	checkins  repository.CheckInRepository
	audit     AuditRecorder
	// empLocks makes the read-last-event / insert-next-event sequence atomic
	// per employee. Without it two simultaneous scans of the same badge could
	// both observe LAST_WAS_EXIT and both insert an entry.
	empLocks *keyedMutex
}

func NewCheckInService(employees repository.EmployeeRepository, checkins repository.CheckInRepository, audit AuditRecorder) CheckInService {
	return &checkInService{
		employees: employees,
		checkins:  checkins,
		audit:     audit,
		empLocks:  newKeyedMutex(),
	}
}

func (s *checkInService) CheckInByTag(ctx context.Context, rfidUID string) (*model.CheckIn, *model.Employee, string, error) {
	emp, err := s.employees.FindByTag(ctx, rfidUID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, "", ErrNotFound
	}
	if err != nil {
		return nil, nil, "", err
	}
	return s.record(ctx, emp, nil)
}

func (s *checkInService) CheckInByID(ctx context.Context, documentID string, actor *string) (*model.CheckIn, *model.Employee, string, error) {
	emp, err := s.employees.FindByDocumentID(ctx, model.NormalizeDocumentID(documentID))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, "", ErrNotFound
	}
	if err != nil {
		return nil, nil, "", err
	}
	if emp.Archived() {
		return nil, nil, "", ErrNotFound
	}
	return s.record(ctx, emp, actor)
}

func (s *checkInService) record(ctx context.Context, emp *model.Employee, actor *string) (*model.CheckIn, *model.Employee, string, error) {
	unlock := s.empLocks.Lock(emp.DocumentID)
	defer unlock()

	next := model.CheckTypeEntry
	last, err := s.checkins.Last(ctx, emp.DocumentID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		// no history: first event is an entry
	case err != nil:
		return nil, nil, "", err
	case last.Type == model.CheckTypeEntry:
		next = model.CheckTypeExit
	}

	event := &model.CheckIn{
		EmployeeID: emp.DocumentID,
		Type:       next,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.checkins.Insert(ctx, event); err != nil {
		return nil, nil, "", err
	}

	message := fmt.Sprintf("Welcome, %s!", emp.Name)
	if next == model.CheckTypeExit {
		message = fmt.Sprintf("Goodbye, %s!", emp.Name)
	}
	s.audit.Record(ctx, actor, AuditManualCheckIn,
		fmt.Sprintf("employee %s: %s recorded", emp.DocumentID, next))
	return event, emp, message, nil
}

func (s *checkInService) ListByEmployee(ctx context.Context, documentID string, start, end *time.Time) ([]model.CheckIn, error) {
	return s.checkins.ListByEmployee(ctx, model.NormalizeDocumentID(documentID), start, end)
}

func (s *checkInService) ListRecent(ctx context.Context, documentID string, limit int) ([]model.CheckIn, error) {
	if documentID != "" {
		documentID = model.NormalizeDocumentID(documentID)
	}
	return s.checkins.ListRecent(ctx, documentID, limit)
}
