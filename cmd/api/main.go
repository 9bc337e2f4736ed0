package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	"medicine-cabinet/internal/adapters/auth/gateway"
	"medicine-cabinet/internal/adapters/notify/webhook"
	mem "medicine-cabinet/internal/adapters/storage/memory"
	pg "medicine-cabinet/internal/adapters/storage/postgres"
	"medicine-cabinet/internal/config"
	"medicine-cabinet/internal/domain/alerts"
	"medicine-cabinet/internal/domain/doselogs"
	"medicine-cabinet/internal/domain/medicines"
	"medicine-cabinet/internal/middleware"
	"medicine-cabinet/internal/platform/logger"
	"medicine-cabinet/internal/ports/auth"
	"medicine-cabinet/internal/router"
	"medicine-cabinet/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    "medicine-cabinet",
	})

	// Verifier opcional: sin gateway configurado corre en modo dev
	var verifier auth.AuthVerifier
	if cfg.AuthBaseURL != "" {
		client, err := gateway.NewClient(gateway.Config{
			BaseURL: cfg.AuthBaseURL,
			APIKey:  cfg.AuthAPIKey,
			Timeout: cfg.HTTPTimeout,
		})
		if err != nil {
			log.Error("auth gateway config invalid", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		verifier = gateway.NewVerifier(client)
	} else {
		log.Warn("no auth gateway configured, running in dev mode", nil)
	}

	notifier := webhook.New(webhook.Config{
		URL:     cfg.AlertWebhookURL,
		Timeout: cfg.HTTPTimeout,
	})

	// Repos: pg si hay DSN, si no in-memory (dev)
	var (
		db        *sql.DB
		medsRepo  medicines.Repository
		dosesRepo doselogs.Repository
		acksRepo  alerts.Repository
	)
	if cfg.DBDSN != "" {
		db, err = pg.Open(cfg.DBDSN)
		if err != nil {
			log.Error("postgres open failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer db.Close()
		medsRepo = pg.NewMedicinesRepo(db)
		dosesRepo = pg.NewDoseLogsRepo(db)
		acksRepo = pg.NewAlertsRepo(db)
	} else {
		log.Warn("no DB_DSN configured, using in-memory storage", nil)
		medsRepo = mem.NewMedicinesRepo()
		dosesRepo = mem.NewDoseLogsRepo()
		acksRepo = mem.NewAlertsRepo()
	}

	acksSvc := alerts.NewService(acksRepo)

	// Barrido diario de vencimientos
	sweep := scheduler.New(medsRepo, acksSvc, notifier, log, cfg.SoonWindowDays)
	if err := sweep.Start(cfg.SweepTimes); err != nil {
		log.Error("scheduler start failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer sweep.Stop()

	limiter := middleware.NewRateLimiter(cfg.RateLimitRate, cfg.RateLimitCapacity)
	defer limiter.Stop()

	r := router.NewRouter(router.Options{
		AuthVerifier:   verifier,
		Logger:         log,
		Notifier:       notifier,
		SoonWindowDays: cfg.SoonWindowDays,
		RateLimiter:    limiter,
		CORSOrigins:    cfg.CORSOrigins,
		MedicinesRepo:  medsRepo,
		DoseLogsRepo:   dosesRepo,
		AlertsRepo:     acksRepo,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": srv.Addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
