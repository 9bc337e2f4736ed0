package alerts

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testRepo struct {
	byKey map[string]Ack
}

func newTestRepo() *testRepo {
	return &testRepo{byKey: map[string]Ack{}}
}

func key(userID, medicineID string) string { return userID + "|" + medicineID }

func (r *testRepo) Upsert(ctx context.Context, a Ack) error {
	k := key(a.UserID, a.MedicineID)
	if _, ok := r.byKey[k]; ok {
		return nil
	}
	r.byKey[k] = a
	return nil
}

func (r *testRepo) Get(ctx context.Context, userID, medicineID string) (Ack, error) {
	a, ok := r.byKey[key(userID, medicineID)]
	if !ok {
		return Ack{}, ErrNotFound
	}
	return a, nil
}

func (r *testRepo) ListByUser(ctx context.Context, userID string) ([]Ack, error) {
	out := make([]Ack, 0)
	for _, a := range r.byKey {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func TestService_MarkShown_Idempotent(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	first := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }

	if err := svc.MarkShown(ctx, "user-1", "med-a"); err != nil {
		t.Fatalf("first mark: %v", err)
	}

	// Segunda marca, más tarde: no es error y conserva el ShownAt original
	svc.now = func() time.Time { return first.Add(2 * time.Hour) }
	if err := svc.MarkShown(ctx, "user-1", "med-a"); err != nil {
		t.Fatalf("second mark must be idempotent: %v", err)
	}

	a, err := svc.Get(ctx, "user-1", "med-a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !a.ShownAt.Equal(first) {
		t.Errorf("shown_at = %v, want original %v", a.ShownAt, first)
	}
}

func TestService_MarkShown_Validation(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	if err := svc.MarkShown(ctx, "", "med-a"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty user: expected ErrInvalidInput, got %v", err)
	}
	if err := svc.MarkShown(ctx, "user-1", " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank medicine: expected ErrInvalidInput, got %v", err)
	}
}

func TestService_WasShown(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	shown, err := svc.WasShown(ctx, "user-1", "med-a")
	if err != nil {
		t.Fatalf("was shown: %v", err)
	}
	if shown {
		t.Fatalf("expected not shown before mark")
	}

	if err := svc.MarkShown(ctx, "user-1", "med-a"); err != nil {
		t.Fatalf("mark: %v", err)
	}

	shown, err = svc.WasShown(ctx, "user-1", "med-a")
	if err != nil {
		t.Fatalf("was shown: %v", err)
	}
	if !shown {
		t.Fatalf("expected shown after mark")
	}

	// Otro usuario con el mismo medicamento: independiente
	shown, _ = svc.WasShown(ctx, "user-2", "med-a")
	if shown {
		t.Fatalf("acks must be per user")
	}
}
