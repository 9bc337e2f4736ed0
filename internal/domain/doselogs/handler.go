package doselogs

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"medicine-cabinet/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/doses/today", listTodayHandler(svc))
}

type doseLogResponse struct {
	ID         string    `json:"id"`
	MedicineID string    `json:"medicine_id"`
	Slot       string    `json:"slot"`
	Quantity   int       `json:"quantity"`
	LogDate    string    `json:"log_date"`
	RecordedAt time.Time `json:"recorded_at"`
}

func listTodayHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListToday(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]doseLogResponse, 0, len(items))
		for _, d := range items {
			out = append(out, toDoseLogResponse(d))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func toDoseLogResponse(d DoseLog) doseLogResponse {
	return doseLogResponse{
		ID:         d.ID,
		MedicineID: d.MedicineID,
		Slot:       d.Slot,
		Quantity:   d.Quantity,
		LogDate:    d.LogDate.Format("2006-01-02"),
		RecordedAt: d.RecordedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
