package medicines

import "time"

// DefaultLowStockThreshold es el umbral de stock bajo si el registro no define uno.
const DefaultLowStockThreshold = 5

// Medicine representa un medicamento registrado en el botiquín del usuario.
type Medicine struct {
	ID          string
	OwnerUserID string

	Name     string
	Category string

	// TabletCount es el stock actual en unidades. Nunca negativo.
	TabletCount int

	// ExpiryDate es fecha calendario (medianoche UTC, sin hora).
	ExpiryDate time.Time

	// Slots son las horas de toma configuradas ("08:00", "14:00", ...).
	// Etiquetas opacas: no se parsean, solo se comparan por igualdad.
	Slots []string

	// LowStockThreshold: si es 0, aplica DefaultLowStockThreshold.
	LowStockThreshold int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Threshold devuelve el umbral efectivo de stock bajo.
func (m Medicine) Threshold() int {
	if m.LowStockThreshold > 0 {
		return m.LowStockThreshold
	}
	return DefaultLowStockThreshold
}
