package alerts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("ack not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// MarkShown es idempotente: marcar dos veces la misma alerta no es error
// y conserva el ShownAt original.
func (s *Service) MarkShown(ctx context.Context, userID, medicineID string) error {
	userID = strings.TrimSpace(userID)
	medicineID = strings.TrimSpace(medicineID)
	if userID == "" || medicineID == "" {
		return ErrInvalidInput
	}

	return s.repo.Upsert(ctx, Ack{
		ID:         uuid.NewString(),
		UserID:     userID,
		MedicineID: medicineID,
		ShownAt:    s.now(),
	})
}

func (s *Service) WasShown(ctx context.Context, userID, medicineID string) (bool, error) {
	_, err := s.repo.Get(ctx, userID, medicineID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Service) Get(ctx context.Context, userID, medicineID string) (Ack, error) {
	return s.repo.Get(ctx, strings.TrimSpace(userID), strings.TrimSpace(medicineID))
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Ack, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID)
}
