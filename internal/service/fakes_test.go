package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ismailhaddouche/PiControl/internal/model"
	"github.com/ismailhaddouche/PiControl/internal/repository"

	"github.com/google/uuid"
)

// ── In-memory EmployeeRepository ─────────────────────────────────────────────

type fakeEmployeeRepo struct {
	mu        sync.Mutex
	employees map[string]*model.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[string]*model.Employee)}
}

func (r *fakeEmployeeRepo) Create(_ context.Context, e *model.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	cp := *e
	r.employees[e.DocumentID] = &cp
	return nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, e *model.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.employees[e.DocumentID] = &cp
	return nil
}

func (r *fakeEmployeeRepo) FindByDocumentID(_ context.Context, documentID string) (*model.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[model.NormalizeDocumentID(documentID)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEmployeeRepo) FindByTag(_ context.Context, rfidUID string) (*model.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.employees {
		if e.RFIDUID != nil && *e.RFIDUID == rfidUID && e.ArchivedAt == nil {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeEmployeeRepo) List(_ context.Context, activeOnly bool) ([]model.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Employee
	for _, e := range r.employees {
		if activeOnly && (e.RFIDUID == nil || e.ArchivedAt != nil) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DocumentID < out[j].DocumentID })
	return out, nil
}

func (r *fakeEmployeeRepo) ReassignTag(_ context.Context, rfidUID, keepDocumentID string, now time.Time) (*model.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.employees {
		if e.RFIDUID != nil && *e.RFIDUID == rfidUID && e.DocumentID != keepDocumentID {
			e.RFIDUID = nil
			e.ArchivedAt = &now
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

var _ repository.EmployeeRepository = (*fakeEmployeeRepo)(nil)

// ── In-memory CheckInRepository ──────────────────────────────────────────────

type fakeCheckInRepo struct {
	mu     sync.Mutex
	events []model.CheckIn
}

func newFakeCheckInRepo() *fakeCheckInRepo { return &fakeCheckInRepo{} }

func (r *fakeCheckInRepo) Insert(_ context.Context, c *model.CheckIn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.events = append(r.events, *c)
	return nil
}

// Last returns the most recently inserted event for the employee. Insertion
// order stands in for timestamp order, which also disambiguates events that
// land on the same nanosecond under concurrency.
func (r *fakeCheckInRepo) Last(_ context.Context, employeeID string) (*model.CheckIn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].EmployeeID == employeeID {
			cp := r.events[i]
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCheckInRepo) ListByEmployee(_ context.Context, employeeID string, start, end *time.Time) ([]model.CheckIn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CheckIn
	for _, ev := range r.events {
		if ev.EmployeeID != employeeID {
			continue
		}
		if start != nil && ev.Timestamp.Before(*start) {
			continue
		}
		if end != nil && ev.Timestamp.After(*end) {
			continue
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *fakeCheckInRepo) ListRecent(_ context.Context, employeeID string, limit int) ([]model.CheckIn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CheckIn
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		if employeeID == "" || r.events[i].EmployeeID == employeeID {
			out = append(out, r.events[i])
		}
	}
	return out, nil
}

var _ repository.CheckInRepository = (*fakeCheckInRepo)(nil)

// ── In-memory AuditRepository ────────────────────────────────────────────────

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []model.AuditEntry
	failErr error // non-nil makes Append fail
}

func newFakeAuditRepo() *fakeAuditRepo { return &fakeAuditRepo{} }

func (r *fakeAuditRepo) Append(_ context.Context, e *model.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.entries = append(r.entries, *e)
	return nil
}

func (r *fakeAuditRepo) ListRecent(_ context.Context, limit int) ([]model.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.AuditEntry
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

func (r *fakeAuditRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

var _ repository.AuditRepository = (*fakeAuditRepo)(nil)

// ── In-memory ConfigRepository ───────────────────────────────────────────────

type fakeConfigRepo struct {
	mu     sync.Mutex
	values map[string]model.ConfigEntry
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{values: make(map[string]model.ConfigEntry)}
}

func (r *fakeConfigRepo) Get(_ context.Context, key string) (*model.ConfigEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.values[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r *fakeConfigRepo) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = model.ConfigEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	return nil
}

func (r *fakeConfigRepo) List(_ context.Context) ([]model.ConfigEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.ConfigEntry, 0, len(r.values))
	for _, e := range r.values {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

var _ repository.ConfigRepository = (*fakeConfigRepo)(nil)

func strptr(s string) *string { return &s }
