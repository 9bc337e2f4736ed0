package cabinet

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"medicine-cabinet/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	// View compuesto de la pantalla (cards ya clasificadas)
	r.Get("/cabinet", viewHandler(svc))

	// Registrar toma (orquesta log + descuento de stock)
	r.Post("/medicines/{medicineID}/doses", takeDoseHandler(svc))
}

type itemResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	TabletCount int    `json:"tablet_count"`
	ExpiryDate  string `json:"expiry_date"`

	ExpiryBucket   string   `json:"expiry_bucket"`
	StockStatus    string   `json:"stock_status"`
	LowStock       bool     `json:"low_stock"`
	AvailableSlots []string `json:"available_slots"`
	AlertShown     bool     `json:"alert_shown"`
}

type viewResponse struct {
	Items    []itemResponse `json:"items"`
	Degraded bool           `json:"degraded"`
}

type takeDoseRequest struct {
	Slot     string `json:"slot"`
	Quantity int    `json:"quantity"`
}

type takeDoseResponse struct {
	LogID      string    `json:"log_id"`
	MedicineID string    `json:"medicine_id"`
	Slot       string    `json:"slot"`
	Quantity   int       `json:"quantity"`
	NewCount   int       `json:"new_count"`
	LowStock   bool      `json:"low_stock"`
	RecordedAt time.Time `json:"recorded_at"`
}

func viewHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		view, err := svc.BuildView(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := viewResponse{
			Items:    make([]itemResponse, 0, len(view.Items)),
			Degraded: view.Degraded,
		}
		for _, it := range view.Items {
			out.Items = append(out.Items, itemResponse{
				ID:             it.Medicine.ID,
				Name:           it.Medicine.Name,
				Category:       it.Medicine.Category,
				TabletCount:    it.Medicine.TabletCount,
				ExpiryDate:     it.Medicine.ExpiryDate.Format("2006-01-02"),
				ExpiryBucket:   string(it.ExpiryBucket),
				StockStatus:    string(it.StockStatus),
				LowStock:       it.LowStock,
				AvailableSlots: it.AvailableSlots,
				AlertShown:     it.AlertShown,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func takeDoseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req takeDoseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		medicineID := chi.URLParam(r, "medicineID")
		res, err := svc.TakeDose(r.Context(), claims.UserID, medicineID, req.Slot, req.Quantity)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				http.Error(w, "medicine not found", http.StatusNotFound)
			case errors.Is(err, ErrSlotTaken):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, ErrUnknownSlot), errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrInsufficientStock):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, takeDoseResponse{
			LogID:      res.Log.ID,
			MedicineID: res.Log.MedicineID,
			Slot:       res.Log.Slot,
			Quantity:   res.Log.Quantity,
			NewCount:   res.NewCount,
			LowStock:   res.LowStock,
			RecordedAt: res.Log.RecordedAt,
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
