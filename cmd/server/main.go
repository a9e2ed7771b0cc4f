package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ismailhaddouche/PiControl/internal/config"
	"github.com/ismailhaddouche/PiControl/internal/infra"
	"github.com/ismailhaddouche/PiControl/internal/repository"
	"github.com/ismailhaddouche/PiControl/internal/rfid"
	"github.com/ismailhaddouche/PiControl/internal/router"
	"github.com/ismailhaddouche/PiControl/internal/service"
	"github.com/ismailhaddouche/PiControl/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Shared pieces wired here (composition root) so the worker pool and the
	// HTTP layer see the same instances. CheckInService in particular must be
	// a singleton: it serializes concurrent taps per employee.
	// First-run hint: the panel is unusable until an admin exists.
	if ok, err := repository.NewUserRepository(db).AnyAdminExists(ctx); err == nil && !ok {
		log.Warn().Msg("no admin user found — run ./cmd/seedadmin to create one")
	}

	employeeRepo := repository.NewEmployeeRepository(db)
	checkinRepo := repository.NewCheckInRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	audit := service.NewAuditRecorder(auditRepo)
	checkinSvc := service.NewCheckInService(employeeRepo, checkinRepo, audit)

	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	events := rfid.NewBroadcaster()
	pending := rfid.NewPendingStore(rdb)

	workerHandlers := &worker.WorkerHandlers{
		Scan:  worker.NewScanWorker(checkinSvc, events),
		Email: worker.NewEmailWorker(mailer),
	}
	worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)

	// Tag source: a physical reader device, or the in-process mock used in
	// development and exercised through POST /v1/rfid/mock-scan.
	var source rfid.TagSource
	if cfg.RFIDEnabled {
		source, err = rfid.OpenDevice(cfg.RFIDDevice)
		if err != nil {
			log.Fatal().Err(err).Str("device", cfg.RFIDDevice).Msg("failed to open RFID reader")
		}
	} else {
		source = rfid.NewMockSource()
		log.Info().Msg("RFID hardware disabled — using mock tag source")
	}
	reader := rfid.NewService(source, dispatcher, pending, events)
	reader.Start()

	r := router.New(cfg, db, rdb, router.Deps{
		CheckIns:   checkinSvc,
		Reader:     reader,
		Pending:    pending,
		Events:     events,
		Dispatcher: dispatcher,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("PiControl backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	reader.Stop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
