package alerts

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"medicine-cabinet/internal/domain/medicines"
	"medicine-cabinet/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, medsSvc *medicines.Service) {
	// Ack de alerta de vencimiento (idempotente)
	r.Post("/medicines/{medicineID}/alert-ack", markShownHandler(svc, medsSvc))
}

type ackResponse struct {
	MedicineID string    `json:"medicine_id"`
	ShownAt    time.Time `json:"shown_at"`
}

func markShownHandler(svc *Service, medsSvc *medicines.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		medicineID := chi.URLParam(r, "medicineID")
		m, err := medsSvc.GetByID(r.Context(), medicineID)
		if err != nil || m.OwnerUserID != claims.UserID {
			http.Error(w, "medicine not found", http.StatusNotFound)
			return
		}

		if err := svc.MarkShown(r.Context(), claims.UserID, m.ID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		a, err := svc.Get(r.Context(), claims.UserID, m.ID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, ackResponse{
			MedicineID: a.MedicineID,
			ShownAt:    a.ShownAt,
		})
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
