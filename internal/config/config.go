package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config agrupa toda la configuración del servicio, leída de env vars
// (con .env opcional vía godotenv para dev).
type Config struct {
	Port string

	// DB_DSN vacío => repos in-memory (dev/tests)
	DBDSN string

	LogLevel  string
	LogFormat string

	// Ventana de "vence pronto" en días
	SoonWindowDays int

	// Webhook de alertas; vacío => notifier no-op
	AlertWebhookURL string

	// Gateway de auth; vacío => modo dev (X-Debug-User-ID)
	AuthBaseURL string
	AuthAPIKey  string

	CORSOrigins []string

	RateLimitRate     float64
	RateLimitCapacity int64

	// Horarios del barrido de vencimientos, formato gocron "HH:MM;HH:MM"
	SweepTimes string

	HTTPTimeout time.Duration
}

// Load carga .env si existe y arma el Config validado.
func Load() (Config, error) {
	// .env es opcional: en prod las vars vienen del entorno
	_ = godotenv.Load()

	cfg := Config{
		Port:            envOr("PORT", "8080"),
		DBDSN:           strings.TrimSpace(os.Getenv("DB_DSN")),
		LogLevel:        envOr("LOG_LEVEL", "info"),
		LogFormat:       envOr("LOG_FORMAT", "text"),
		AlertWebhookURL: strings.TrimSpace(os.Getenv("ALERT_WEBHOOK_URL")),
		AuthBaseURL:     strings.TrimSpace(os.Getenv("AUTH_BASE_URL")),
		AuthAPIKey:      strings.TrimSpace(os.Getenv("AUTH_API_KEY")),
		SweepTimes:      envOr("SWEEP_TIMES", "08:00"),
		HTTPTimeout:     10 * time.Second,
	}

	var err error
	if cfg.SoonWindowDays, err = envInt("SOON_WINDOW_DAYS", 3); err != nil {
		return Config{}, err
	}
	if cfg.SoonWindowDays < 0 {
		return Config{}, fmt.Errorf("SOON_WINDOW_DAYS must be >= 0")
	}

	rate, err := envInt("RATE_LIMIT_RATE", 10)
	if err != nil {
		return Config{}, err
	}
	cfg.RateLimitRate = float64(rate)

	capacity, err := envInt("RATE_LIMIT_CAPACITY", 100)
	if err != nil {
		return Config{}, err
	}
	cfg.RateLimitCapacity = int64(capacity)

	if origins := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("PORT must be numeric: %q", cfg.Port)
	}

	return cfg, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %q", key, v)
	}
	return n, nil
}
