package doselogs

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, d DoseLog) error
	// ListByUserAndDate trae el set completo del día para el usuario
	// (todos los medicamentos). El filtrado fino se hace en memoria.
	ListByUserAndDate(ctx context.Context, userID string, day time.Time) ([]DoseLog, error)
}
