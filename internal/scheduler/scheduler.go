// Package scheduler corre el barrido diario de vencimientos: clasifica todos
// los medicamentos y avisa (una sola vez, vía acks idempotentes) los que están
// vencidos o por vencer.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"medicine-cabinet/internal/domain/alerts"
	"medicine-cabinet/internal/domain/medicines"
	"medicine-cabinet/internal/metrics"
	"medicine-cabinet/internal/platform/logger"
	"medicine-cabinet/internal/ports/notify"

	"github.com/go-co-op/gocron"
)

type Scheduler struct {
	meds     medicines.Repository
	acks     *alerts.Service
	notifier notify.Notifier
	log      logger.Logger

	window int
	sched  *gocron.Scheduler
	now    func() time.Time
}

func New(meds medicines.Repository, acks *alerts.Service, notifier notify.Notifier, log logger.Logger, soonWindowDays int) *Scheduler {
	return &Scheduler{
		meds:     meds,
		acks:     acks,
		notifier: notifier,
		log:      log,
		window:   soonWindowDays,
		sched:    gocron.NewScheduler(time.UTC),
		now:      time.Now,
	}
}

// Start agenda el barrido en los horarios dados ("08:00" o "08:00;20:00")
// y lo corre una vez al arrancar.
func (s *Scheduler) Start(times string) error {
	if err := s.Sweep(context.Background()); err != nil {
		s.log.Error("initial expiry sweep failed", map[string]any{"error": err.Error()})
	}

	_, err := s.sched.Every(1).Days().At(times).Do(func() {
		if err := s.Sweep(context.Background()); err != nil {
			s.log.Error("expiry sweep failed", map[string]any{"error": err.Error()})
		}
	})
	if err != nil {
		return fmt.Errorf("schedule expiry sweep: %w", err)
	}

	s.sched.StartAsync()
	return nil
}

func (s *Scheduler) Stop() {
	s.sched.Stop()
}

// Sweep recorre todos los medicamentos y notifica los vencidos/por vencer
// que aún no tienen ack. El ack se marca recién después de notificar bien:
// si el canal falla, el próximo barrido reintenta.
func (s *Scheduler) Sweep(ctx context.Context) error {
	meds, err := s.meds.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list medicines: %w", err)
	}

	today := s.now()
	notified := 0

	for _, m := range meds {
		bucket := medicines.ClassifyExpiry(m.ExpiryDate, today, s.window)
		if bucket == medicines.ExpirySafe {
			continue
		}

		shown, err := s.acks.WasShown(ctx, m.OwnerUserID, m.ID)
		if err != nil {
			s.log.Warn("ack lookup failed, skipping medicine", map[string]any{
				"medicine_id": m.ID,
				"error":       err.Error(),
			})
			continue
		}
		if shown {
			continue
		}

		kind := notify.KindExpiringSoon
		if bucket == medicines.ExpiryExpired {
			kind = notify.KindExpired
		}

		err = s.notifier.Notify(ctx, notify.Alert{
			Kind:       kind,
			UserID:     m.OwnerUserID,
			MedicineID: m.ID,
			Medicine:   m.Name,
			Detail:     fmt.Sprintf("expires %s", m.ExpiryDate.Format("2006-01-02")),
		})
		if err != nil {
			s.log.Warn("alert delivery failed", map[string]any{
				"medicine_id": m.ID,
				"error":       err.Error(),
			})
			continue
		}

		if err := s.acks.MarkShown(ctx, m.OwnerUserID, m.ID); err != nil {
			s.log.Warn("ack mark failed", map[string]any{
				"medicine_id": m.ID,
				"error":       err.Error(),
			})
		}

		metrics.ExpiryAlertsSentTotal.WithLabelValues(string(kind)).Inc()
		notified++
	}

	s.log.Info("expiry sweep done", map[string]any{
		"medicines": len(meds),
		"notified":  notified,
	})
	return nil
}
