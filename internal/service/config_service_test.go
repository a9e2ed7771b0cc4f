package service_test

import (
	"context"
	"testing"

	"github.com/ismailhaddouche/PiControl/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigSetGetAndAudit(t *testing.T) {
	repo := newFakeConfigRepo()
	auditRepo := newFakeAuditRepo()
	svc := service.NewConfigService(repo, service.NewAuditRecorder(auditRepo))

	require.NoError(t, svc.Set(context.Background(), "retention_days", "90", strptr("admin")))
	require.NoError(t, svc.Set(context.Background(), "retention_days", "30", strptr("admin")))

	entry, err := svc.Get(context.Background(), "retention_days")
	require.NoError(t, err)
	assert.Equal(t, "30", entry.Value, "last writer wins")

	assert.Equal(t, []string{service.AuditSetConfig, service.AuditSetConfig}, auditRepo.actions())
}

func TestConfigGetMissingKey(t *testing.T) {
	svc := service.NewConfigService(newFakeConfigRepo(), service.NewAuditRecorder(newFakeAuditRepo()))

	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, service.ErrNotFound)
}
