package alerts

import "time"

// Ack registra que ya se le mostró al usuario la alerta de vencimiento de un
// medicamento, para no repetirla. Una por (user, medicine).
type Ack struct {
	ID string

	UserID     string
	MedicineID string

	ShownAt time.Time
}
