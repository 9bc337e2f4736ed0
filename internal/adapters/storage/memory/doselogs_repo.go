package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"medicine-cabinet/internal/domain/doselogs"
)

type doseLogsRepo struct {
	mu   sync.RWMutex
	byID map[string]doselogs.DoseLog
}

func NewDoseLogsRepo() doselogs.Repository {
	return &doseLogsRepo{
		byID: make(map[string]doselogs.DoseLog),
	}
}

func (r *doseLogsRepo) Create(ctx context.Context, d doselogs.DoseLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.ID == "" {
		return errors.New("dose log id required")
	}
	if _, exists := r.byID[d.ID]; exists {
		return errors.New("dose log already exists")
	}

	r.byID[d.ID] = d
	return nil
}

func (r *doseLogsRepo) ListByUserAndDate(ctx context.Context, userID string, day time.Time) ([]doselogs.DoseLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]doselogs.DoseLog, 0)
	for _, d := range r.byID {
		if d.UserID != userID {
			continue
		}
		if !d.LogDate.Equal(day) {
			continue
		}
		out = append(out, d)
	}

	// Orden por recorded_at asc (orden de toma)
	sort.Slice(out, func(i, j int) bool {
		return out[i].RecordedAt.Before(out[j].RecordedAt)
	})

	return out, nil
}
