package notify

import "context"

// Kind distingue el motivo de la notificación.
type Kind string

const (
	KindExpired      Kind = "expired"
	KindExpiringSoon Kind = "expiring_soon"
	KindLowStock     Kind = "low_stock"
)

// Alert es el payload mínimo que entiende el canal de notificaciones.
type Alert struct {
	Kind       Kind
	UserID     string
	MedicineID string
	Medicine   string
	Detail     string
}

// Notifier entrega alertas fuera del proceso (webhook, push, etc).
// Las fallas son del canal: el caller loguea y sigue, nunca corta el flujo.
type Notifier interface {
	Notify(ctx context.Context, a Alert) error
}
