package medicines

import "context"

type Repository interface {
	Create(ctx context.Context, m Medicine) error
	Update(ctx context.Context, m Medicine) error
	GetByID(ctx context.Context, id string) (Medicine, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Medicine, error)
	ListAll(ctx context.Context) ([]Medicine, error)
	Delete(ctx context.Context, id string) error
}
