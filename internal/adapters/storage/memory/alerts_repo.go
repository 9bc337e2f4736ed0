package memory

import (
	"context"
	"errors"
	"sync"

	"medicine-cabinet/internal/domain/alerts"
)

type alertsRepo struct {
	mu sync.RWMutex
	// clave compuesta userID + "\x00" + medicineID
	byKey map[string]alerts.Ack
}

func NewAlertsRepo() alerts.Repository {
	return &alertsRepo{
		byKey: make(map[string]alerts.Ack),
	}
}

func ackKey(userID, medicineID string) string {
	return userID + "\x00" + medicineID
}

func (r *alertsRepo) Upsert(ctx context.Context, a alerts.Ack) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.UserID == "" || a.MedicineID == "" {
		return errors.New("ack user and medicine required")
	}

	k := ackKey(a.UserID, a.MedicineID)
	if _, exists := r.byKey[k]; exists {
		// idempotente: conserva el ShownAt original
		return nil
	}
	r.byKey[k] = a
	return nil
}

func (r *alertsRepo) Get(ctx context.Context, userID, medicineID string) (alerts.Ack, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byKey[ackKey(userID, medicineID)]
	if !ok {
		return alerts.Ack{}, alerts.ErrNotFound
	}
	return a, nil
}

func (r *alertsRepo) ListByUser(ctx context.Context, userID string) ([]alerts.Ack, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]alerts.Ack, 0)
	for _, a := range r.byKey {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}
