package alerts

import "context"

type Repository interface {
	// Upsert guarda el ack si no existe; si ya existe para (user, medicine)
	// no cambia nada y no es error.
	Upsert(ctx context.Context, a Ack) error
	Get(ctx context.Context, userID, medicineID string) (Ack, error)
	ListByUser(ctx context.Context, userID string) ([]Ack, error)
}
