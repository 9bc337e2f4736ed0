package webhook

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"medicine-cabinet/internal/platform/httpclient"
	"medicine-cabinet/internal/ports/notify"
)

var (
	ErrNotConfigured = errors.New("webhook notifier not configured")
)

// Notifier implementa notify.Notifier posteando JSON a una URL configurada.
// Si no hay URL, Notify es no-op: el servicio funciona igual sin canal.
type Notifier struct {
	client *httpclient.Client
	url    string
}

type Config struct {
	URL     string
	Timeout time.Duration
}

func New(cfg Config) *Notifier {
	return &Notifier{
		client: httpclient.New(cfg.Timeout),
		url:    strings.TrimSpace(cfg.URL),
	}
}

// NewWithClient permite inyectar el http client (para tests).
func NewWithClient(client *httpclient.Client, url string) *Notifier {
	return &Notifier{
		client: client,
		url:    strings.TrimSpace(url),
	}
}

func (n *Notifier) IsConfigured() bool {
	return n != nil && n.url != ""
}

type alertPayload struct {
	Kind       string `json:"kind"`
	UserID     string `json:"user_id"`
	MedicineID string `json:"medicine_id"`
	Medicine   string `json:"medicine"`
	Detail     string `json:"detail,omitempty"`
	SentAt     string `json:"sent_at"`
}

func (n *Notifier) Notify(ctx context.Context, a notify.Alert) error {
	if !n.IsConfigured() {
		// no-op deliberado: sin canal configurado no hay nada que entregar
		return nil
	}

	payload := alertPayload{
		Kind:       string(a.Kind),
		UserID:     a.UserID,
		MedicineID: a.MedicineID,
		Medicine:   a.Medicine,
		Detail:     a.Detail,
		SentAt:     time.Now().UTC().Format(time.RFC3339),
	}

	return n.client.DoJSON(ctx, http.MethodPost, n.url, nil, payload, nil)
}
