package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "medicine-cabinet/internal/adapters/storage/memory"
	pg "medicine-cabinet/internal/adapters/storage/postgres"
	"medicine-cabinet/internal/domain/alerts"
	"medicine-cabinet/internal/domain/cabinet"
	"medicine-cabinet/internal/domain/doselogs"
	"medicine-cabinet/internal/domain/medicines"
	"medicine-cabinet/internal/metrics"
	"medicine-cabinet/internal/middleware"
	"medicine-cabinet/internal/platform/logger"
	"medicine-cabinet/internal/ports/auth"
	"medicine-cabinet/internal/ports/notify"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: nil => logger no-op (tests)
	Logger logger.Logger

	// Opcional: nil => sin notificaciones de stock bajo
	Notifier notify.Notifier

	// 0 => default del módulo cabinet
	SoonWindowDays int

	// nil => sin rate limiting (tests)
	RateLimiter *middleware.RateLimiter

	CORSOrigins []string

	// Opcional: repos pre-armados (main los comparte con el scheduler).
	// Si vienen nil, el router arma los suyos (pg si hay DB, si no memory).
	MedicinesRepo medicines.Repository
	DoseLogsRepo  doselogs.Repository
	AlertsRepo    alerts.Repository
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)

	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Debug-User-ID"},
			MaxAge:         300,
		}))
	}

	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Handler)
	}

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	medsRepo := opts.MedicinesRepo
	dosesRepo := opts.DoseLogsRepo
	acksRepo := opts.AlertsRepo

	if medsRepo == nil || dosesRepo == nil || acksRepo == nil {
		// Si no te pasan DB explícita, intenta por env (para dev/handoff)
		db := opts.DB
		if db == nil {
			if dsn := os.Getenv("DB_DSN"); dsn != "" {
				opened, err := pg.Open(dsn)
				if err == nil {
					db = opened
				}
			}
		}

		if db != nil {
			medsRepo = pg.NewMedicinesRepo(db)
			dosesRepo = pg.NewDoseLogsRepo(db)
			acksRepo = pg.NewAlertsRepo(db)
		} else {
			medsRepo = mem.NewMedicinesRepo()
			dosesRepo = mem.NewDoseLogsRepo()
			acksRepo = mem.NewAlertsRepo()
		}
	}

	// Services por módulo
	medsSvc := medicines.NewService(medsRepo)
	dosesSvc := doselogs.NewService(dosesRepo)
	acksSvc := alerts.NewService(acksRepo)
	cabinetSvc := cabinet.NewService(medsSvc, dosesSvc, acksSvc, opts.Notifier, log, opts.SoonWindowDays)

	// Rutas por módulo
	medicines.RegisterRoutes(r, medsSvc)
	doselogs.RegisterRoutes(r, dosesSvc)
	alerts.RegisterRoutes(r, acksSvc, medsSvc)
	cabinet.RegisterRoutes(r, cabinetSvc)

	return r
}
