package doselogs

import "time"

// DoseLog es el registro de una toma. Append-only: esta pantalla nunca
// edita ni borra entradas, solo las crea y las lee.
type DoseLog struct {
	ID         string
	UserID     string
	MedicineID string

	// Slot es la etiqueta de horario configurada ("08:00"). Opaca.
	Slot string

	Quantity int

	// LogDate es la fecha calendario de la toma (medianoche UTC).
	LogDate time.Time

	RecordedAt time.Time
}
