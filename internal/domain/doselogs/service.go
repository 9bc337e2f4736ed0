package doselogs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
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

type RecordInput struct {
	MedicineID string
	Slot       string
	Quantity   int
}

func (s *Service) Record(ctx context.Context, userID string, in RecordInput) (DoseLog, error) {
	if strings.TrimSpace(userID) == "" {
		return DoseLog{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.MedicineID) == "" {
		return DoseLog{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Slot) == "" {
		return DoseLog{}, ErrInvalidInput
	}
	if in.Quantity <= 0 {
		return DoseLog{}, ErrInvalidInput
	}

	now := s.now()
	d := DoseLog{
		ID:         uuid.NewString(),
		UserID:     userID,
		MedicineID: in.MedicineID,
		Slot:       strings.TrimSpace(in.Slot),
		Quantity:   in.Quantity,
		LogDate:    dateOnly(now),
		RecordedAt: now,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return DoseLog{}, err
	}
	return d, nil
}

// ListToday devuelve todas las tomas del día del usuario, de todos sus
// medicamentos. Tradeoff deliberado: traer ancho y filtrar en memoria,
// en vez de pedir una clave compuesta al backend.
func (s *Service) ListToday(ctx context.Context, userID string) ([]DoseLog, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUserAndDate(ctx, userID, dateOnly(s.now()))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
