package medicines

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("medicine not found")
	ErrInsufficientStock = errors.New("insufficient stock")
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

type CreateInput struct {
	Name        string
	Category    string
	TabletCount int
	ExpiryDate  time.Time
	Slots       []string
	Threshold   int
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Medicine, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Medicine{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Medicine{}, ErrInvalidInput
	}
	if in.TabletCount < 0 {
		return Medicine{}, ErrInvalidInput
	}
	if in.ExpiryDate.IsZero() {
		return Medicine{}, ErrInvalidInput
	}
	if in.Threshold < 0 {
		return Medicine{}, ErrInvalidInput
	}

	slots, err := normalizeSlots(in.Slots)
	if err != nil {
		return Medicine{}, err
	}

	now := s.now()
	m := Medicine{
		ID:                uuid.NewString(),
		OwnerUserID:       ownerUserID,
		Name:              strings.TrimSpace(in.Name),
		Category:          strings.TrimSpace(in.Category),
		TabletCount:       in.TabletCount,
		ExpiryDate:        dateOnly(in.ExpiryDate),
		Slots:             slots,
		LowStockThreshold: in.Threshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Medicine{}, err
	}
	return m, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Medicine, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medicine{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Medicine, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// Restock registra una tira nueva: suma unidades y reemplaza el vencimiento.
// La fecha nueva manda aunque sea anterior a la actual (es la tira que el
// usuario tiene en la mano).
func (s *Service) Restock(ctx context.Context, id string, newExpiry time.Time, addQuantity int) (Medicine, error) {
	if addQuantity <= 0 {
		return Medicine{}, ErrInvalidInput
	}
	if newExpiry.IsZero() {
		return Medicine{}, ErrInvalidInput
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Medicine{}, err
	}

	m.TabletCount += addQuantity
	m.ExpiryDate = dateOnly(newExpiry)
	m.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, m); err != nil {
		return Medicine{}, err
	}
	return m, nil
}

// Decrement aplica una toma sobre el stock. Valida acá además del handler:
// el stock nunca queda negativo.
func (s *Service) Decrement(ctx context.Context, id string, quantity int) (Medicine, bool, error) {
	if quantity <= 0 {
		return Medicine{}, false, ErrInvalidInput
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Medicine{}, false, err
	}
	if quantity > m.TabletCount {
		return Medicine{}, false, ErrInsufficientStock
	}

	newCount, lowStock := ApplyDose(m.TabletCount, quantity, m.Threshold())
	m.TabletCount = newCount
	m.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, m); err != nil {
		return Medicine{}, false, err
	}
	return m, lowStock, nil
}

// Increment devuelve unidades al stock sin tocar el vencimiento. Lo usa la
// orquestación de tomas como compensación cuando falla un paso posterior al
// descuento.
func (s *Service) Increment(ctx context.Context, id string, quantity int) (Medicine, error) {
	if quantity <= 0 {
		return Medicine{}, ErrInvalidInput
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Medicine{}, err
	}

	m.TabletCount += quantity
	m.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, m); err != nil {
		return Medicine{}, err
	}
	return m, nil
}

func (s *Service) Remove(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

// normalizeSlots limpia espacios, descarta vacíos y rechaza duplicados.
func normalizeSlots(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			return nil, ErrInvalidInput
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}
