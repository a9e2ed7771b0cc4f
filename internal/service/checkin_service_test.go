package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/ismailhaddouche/PiControl/internal/model"
	"github.com/ismailhaddouche/PiControl/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEmployee(t *testing.T, repo *fakeEmployeeRepo, docID, name string, tag *string) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &model.Employee{
		DocumentID: model.NormalizeDocumentID(docID),
		Name:       name,
		RFIDUID:    tag,
	}))
}

func TestCheckInAlternation(t *testing.T) {
	employees := newFakeEmployeeRepo()
	checkins := newFakeCheckInRepo()
	svc := service.NewCheckInService(employees, checkins, service.NewAuditRecorder(newFakeAuditRepo()))
	seedEmployee(t, employees, "12345678", "Alice Pérez", strptr("AA:BB:CC:DD"))

	// First tap: no history → entry
	ev, emp, msg, err := svc.CheckInByTag(context.Background(), "AA:BB:CC:DD")
	require.NoError(t, err)
	assert.Equal(t, model.CheckTypeEntry, ev.Type)
	assert.Equal(t, "Alice Pérez", emp.Name)
	assert.Equal(t, "Welcome, Alice Pérez!", msg)

	// Second tap: last was entry → exit
	ev, _, msg, err = svc.CheckInByTag(context.Background(), "AA:BB:CC:DD")
	require.NoError(t, err)
	assert.Equal(t, model.CheckTypeExit, ev.Type)
	assert.Equal(t, "Goodbye, Alice Pérez!", msg)

	// Third tap: back to entry
	ev, _, _, err = svc.CheckInByTag(context.Background(), "AA:BB:CC:DD")
	require.NoError(t, err)
	assert.Equal(t, model.CheckTypeEntry, ev.Type)

	require.Len(t, checkins.events, 3)
	assert.Equal(t, model.CheckTypeEntry, checkins.events[0].Type)
	assert.Equal(t, model.CheckTypeExit, checkins.events[1].Type)
	assert.Equal(t, model.CheckTypeEntry, checkins.events[2].Type)
}

func TestCheckInUnknownTagRecordsNothing(t *testing.T) {
	employees := newFakeEmployeeRepo()
	checkins := newFakeCheckInRepo()
	svc := service.NewCheckInService(employees, checkins, service.NewAuditRecorder(newFakeAuditRepo()))

	_, _, _, err := svc.CheckInByTag(context.Background(), "99:99:99:99")
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Empty(t, checkins.events)
}

func TestCheckInArchivedTagIsUnknown(t *testing.T) {
	employees := newFakeEmployeeRepo()
	checkins := newFakeCheckInRepo()
	svc := service.NewCheckInService(employees, checkins, service.NewAuditRecorder(newFakeAuditRepo()))

	// An archived employee never holds a tag, but even a stale tag lookup must
	// not resolve to them.
	seedEmployee(t, employees, "111", "Bob", strptr("TAG-1"))
	emp, err := employees.FindByDocumentID(context.Background(), "111")
	require.NoError(t, err)
	now := emp.CreatedAt
	emp.ArchivedAt = &now
	require.NoError(t, employees.Update(context.Background(), emp))

	_, _, _, err = svc.CheckInByTag(context.Background(), "TAG-1")
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, _, _, err = svc.CheckInByID(context.Background(), "111", nil)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestManualCheckInNormalizesDocumentID(t *testing.T) {
	employees := newFakeEmployeeRepo()
	checkins := newFakeCheckInRepo()
	svc := service.NewCheckInService(employees, checkins, service.NewAuditRecorder(newFakeAuditRepo()))
	seedEmployee(t, employees, "A1", "Carla", nil)

	ev, _, _, err := svc.CheckInByID(context.Background(), "  a1  ", nil)
	require.NoError(t, err)
	assert.Equal(t, "A1", ev.EmployeeID)
}

func TestManualCheckInAudited(t *testing.T) {
	employees := newFakeEmployeeRepo()
	checkins := newFakeCheckInRepo()
	auditRepo := newFakeAuditRepo()
	svc := service.NewCheckInService(employees, checkins, service.NewAuditRecorder(auditRepo))
	seedEmployee(t, employees, "222", "Dana", strptr("TAG-2"))

	// Hardware path: no actor, no audit row
	_, _, _, err := svc.CheckInByTag(context.Background(), "TAG-2")
	require.NoError(t, err)
	assert.Empty(t, auditRepo.entries)

	// Admin path: attributed
	_, _, _, err = svc.CheckInByID(context.Background(), "222", strptr("admin"))
	require.NoError(t, err)
	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, service.AuditManualCheckIn, auditRepo.entries[0].Action)
	assert.Equal(t, "admin", auditRepo.entries[0].Actor)
}

func TestConcurrentTapsStrictlyAlternate(t *testing.T) {
	employees := newFakeEmployeeRepo()
	checkins := newFakeCheckInRepo()
	svc := service.NewCheckInService(employees, checkins, service.NewAuditRecorder(newFakeAuditRepo()))
	seedEmployee(t, employees, "333", "Eve", strptr("TAG-3"))

	const taps = 20
	var wg sync.WaitGroup
	for i := 0; i < taps; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _, err := svc.CheckInByTag(context.Background(), "TAG-3")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, checkins.events, taps)
	for i, ev := range checkins.events {
		want := model.CheckTypeEntry
		if i%2 == 1 {
			want = model.CheckTypeExit
		}
		assert.Equalf(t, want, ev.Type, "event %d out of sequence", i)
	}
}
