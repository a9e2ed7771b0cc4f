//go:build integration

package e2e

// End-to-end integration tests using real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// Covered flows:
//   - badge scan → async check-in → recent events → manual exit → hours report
//   - tag takeover archives the previous holder
//   - assign mode → pending slot → tag bound to employee

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ismailhaddouche/PiControl/internal/config"
	"github.com/ismailhaddouche/PiControl/internal/infra"
	"github.com/ismailhaddouche/PiControl/internal/model"
	"github.com/ismailhaddouche/PiControl/internal/repository"
	"github.com/ismailhaddouche/PiControl/internal/rfid"
	"github.com/ismailhaddouche/PiControl/internal/router"
	"github.com/ismailhaddouche/PiControl/internal/service"
	"github.com/ismailhaddouche/PiControl/internal/worker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("picontrol_test"),
		tcPostgres.WithUsername("picontrol"),
		tcPostgres.WithPassword("picontrol"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed admin user
	hash, err := bcrypt.GenerateFromPassword([]byte("picontrol2026"), 12)
	require.NoError(t, err)
	userRepo := repository.NewUserRepository(db)
	require.NoError(t, userRepo.Create(ctx, &model.User{
		ID:           uuid.New(),
		Username:     "admin",
		PasswordHash: string(hash),
		IsAdmin:      true,
	}))

	// Wire the same graph as cmd/server
	workerCtx, cancel := context.WithCancel(ctx)
	t.Cleanup(cancel)

	employeeRepo := repository.NewEmployeeRepository(db)
	checkinRepo := repository.NewCheckInRepository(db)
	audit := service.NewAuditRecorder(repository.NewAuditRepository(db))
	checkinSvc := service.NewCheckInService(employeeRepo, checkinRepo, audit)

	dispatcher := worker.NewDispatcher(rdb)
	events := rfid.NewBroadcaster()
	pending := rfid.NewPendingStore(rdb)

	worker.StartWorkerPool(workerCtx, rdb, &worker.WorkerHandlers{
		Scan:  worker.NewScanWorker(checkinSvc, events),
		Email: worker.NewEmailWorker(infra.NewMailer(cfg)),
	}, cfg.WorkerPoolSize)

	reader := rfid.NewService(rfid.NewMockSource(), dispatcher, pending, events)
	reader.Start()
	t.Cleanup(reader.Stop)

	r := router.New(cfg, db, rdb, router.Deps{
		CheckIns:   checkinSvc,
		Reader:     reader,
		Pending:    pending,
		Events:     events,
		Dispatcher: dispatcher,
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "picontrol2026"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_CheckInFlow(t *testing.T) {
	env := setupTestEnv(t)

	// Register an employee with a badge
	empResp := do(t, env.server, "PUT", "/v1/employees",
		jsonBody(t, map[string]any{
			"document_id": "12345678",
			"name":        "Alice Pérez",
			"rfid_uid":    "AA:BB:CC:DD",
		}), env.token)
	require.Equal(t, http.StatusOK, empResp.StatusCode)
	empResp.Body.Close()

	// Badge tap — processed asynchronously by the worker pool
	scanResp := do(t, env.server, "POST", "/v1/checkins",
		jsonBody(t, map[string]any{"rfid_uid": "AA:BB:CC:DD"}), "")
	require.Equal(t, http.StatusAccepted, scanResp.StatusCode)
	scanResp.Body.Close()

	type checkin struct {
		EmployeeID string `json:"employee_id"`
		Type       string `json:"type"`
	}
	var recent []checkin
	require.Eventually(t, func() bool {
		resp := do(t, env.server, "GET", "/v1/checkins?limit=10", nil, env.token)
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return false
		}
		recent = nil
		decodeJSON(t, resp, &recent)
		return len(recent) == 1
	}, 10*time.Second, 100*time.Millisecond)
	assert.Equal(t, "entry", recent[0].Type)
	assert.Equal(t, "12345678", recent[0].EmployeeID)

	// Manual exit by the admin
	manualResp := do(t, env.server, "POST", "/v1/checkins/manual",
		jsonBody(t, map[string]any{"document_id": "12345678"}), env.token)
	require.Equal(t, http.StatusCreated, manualResp.StatusCode)
	var manual struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	decodeJSON(t, manualResp, &manual)
	assert.Equal(t, "exit", manual.Type)
	assert.Equal(t, "Goodbye, Alice Pérez!", manual.Message)

	// Hours report over the closed pair
	reportResp := do(t, env.server, "GET", "/v1/reports/hours/12345678", nil, env.token)
	require.Equal(t, http.StatusOK, reportResp.StatusCode)
	var report struct {
		EmployeeID string  `json:"employee_id"`
		TotalHours float64 `json:"total_hours"`
		Periods    []any   `json:"periods"`
	}
	decodeJSON(t, reportResp, &report)
	assert.Equal(t, "12345678", report.EmployeeID)
	assert.Len(t, report.Periods, 1)
}

func TestE2E_TagTakeover(t *testing.T) {
	env := setupTestEnv(t)

	for _, e := range []map[string]any{
		{"document_id": "AAA", "name": "Old Holder", "rfid_uid": "11:22:33:44"},
		{"document_id": "BBB", "name": "New Holder", "rfid_uid": "11:22:33:44"},
	} {
		resp := do(t, env.server, "PUT", "/v1/employees", jsonBody(t, e), env.token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	resp := do(t, env.server, "GET", "/v1/employees/AAA", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var old struct {
		RFIDUID    *string `json:"rfid_uid"`
		ArchivedAt *string `json:"archived_at"`
	}
	decodeJSON(t, resp, &old)
	assert.Nil(t, old.RFIDUID)
	assert.NotNil(t, old.ArchivedAt)

	resp = do(t, env.server, "GET", "/v1/employees/BBB", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var current struct {
		RFIDUID *string `json:"rfid_uid"`
	}
	decodeJSON(t, resp, &current)
	require.NotNil(t, current.RFIDUID)
	assert.Equal(t, "11:22:33:44", *current.RFIDUID)
}

func TestE2E_PendingAssignment(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "PUT", "/v1/employees",
		jsonBody(t, map[string]any{"document_id": "CCC", "name": "Carla"}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Arm assign mode, then scan an unknown badge
	resp = do(t, env.server, "POST", "/v1/rfid/assign-mode", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "POST", "/v1/rfid/mock-scan",
		jsonBody(t, map[string]any{"rfid_uid": "55:66:77:88"}), env.token)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "GET", "/v1/rfid/pending", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pending struct {
		Pending bool   `json:"pending"`
		RFIDUID string `json:"rfid_uid"`
	}
	decodeJSON(t, resp, &pending)
	require.True(t, pending.Pending)
	assert.Equal(t, "55:66:77:88", pending.RFIDUID)

	// Bind the pending tag
	resp = do(t, env.server, "POST", "/v1/rfid/assign",
		jsonBody(t, map[string]any{"document_id": "CCC"}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var bound struct {
		RFIDUID *string `json:"rfid_uid"`
	}
	decodeJSON(t, resp, &bound)
	require.NotNil(t, bound.RFIDUID)
	assert.Equal(t, "55:66:77:88", *bound.RFIDUID)

	// Slot is cleared after binding
	resp = do(t, env.server, "GET", "/v1/rfid/pending", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &pending)
	assert.False(t, pending.Pending)
}
