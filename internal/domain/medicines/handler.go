package medicines

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
	r.Route("/medicines", func(mr chi.Router) {
		mr.Post("/", createMedicineHandler(svc))
		mr.Get("/", listMedicinesHandler(svc))

		mr.Get("/{medicineID}", getMedicineHandler(svc))
		mr.Delete("/{medicineID}", removeMedicineHandler(svc))

		// Tira nueva: suma unidades y renueva vencimiento
		mr.Post("/{medicineID}/strips", restockHandler(svc))
	})
}

type createMedicineRequest struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	TabletCount int      `json:"tablet_count"`
	ExpiryDate  string   `json:"expiry_date"` // YYYY-MM-DD
	Slots       []string `json:"slots"`
	Threshold   int      `json:"low_stock_threshold"` // opcional, default 5
}

type restockRequest struct {
	NewExpiry   string `json:"new_expiry"` // YYYY-MM-DD
	AddQuantity int    `json:"add_quantity"`
}

type medicineResponse struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category,omitempty"`
	TabletCount int       `json:"tablet_count"`
	ExpiryDate  string    `json:"expiry_date"`
	Slots       []string  `json:"slots"`
	Threshold   int       `json:"low_stock_threshold"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func createMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createMedicineRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		expiry, err := parseDate(req.ExpiryDate)
		if err != nil {
			http.Error(w, "expiry_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		m, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:        req.Name,
			Category:    req.Category,
			TabletCount: req.TabletCount,
			ExpiryDate:  expiry,
			Slots:       req.Slots,
			Threshold:   req.Threshold,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toMedicineResponse(m))
	}
}

func listMedicinesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]medicineResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicineResponse(m))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, ok := ownedMedicine(w, r, svc)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, toMedicineResponse(m))
	}
}

func restockHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, ok := ownedMedicine(w, r, svc)
		if !ok {
			return
		}

		var req restockRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		expiry, err := parseDate(req.NewExpiry)
		if err != nil {
			http.Error(w, "new_expiry must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		updated, err := svc.Restock(r.Context(), m.ID, expiry, req.AddQuantity)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "medicine not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toMedicineResponse(updated))
	}
}

func removeMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, ok := ownedMedicine(w, r, svc)
		if !ok {
			return
		}

		if err := svc.Remove(r.Context(), m.ID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ownedMedicine resuelve el medicamento de la URL y exige que el usuario
// autenticado sea el dueño. Devuelve 404 (no 403) para no filtrar existencia.
func ownedMedicine(w http.ResponseWriter, r *http.Request, svc *Service) (Medicine, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return Medicine{}, false
	}

	id := chi.URLParam(r, "medicineID")
	m, err := svc.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, "medicine not found", http.StatusNotFound)
		return Medicine{}, false
	}
	if m.OwnerUserID != claims.UserID {
		http.Error(w, "medicine not found", http.StatusNotFound)
		return Medicine{}, false
	}

	return m, true
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(s))
}

func toMedicineResponse(m Medicine) medicineResponse {
	return medicineResponse{
		ID:          m.ID,
		OwnerUserID: m.OwnerUserID,
		Name:        m.Name,
		Category:    m.Category,
		TabletCount: m.TabletCount,
		ExpiryDate:  m.ExpiryDate.Format("2006-01-02"),
		Slots:       m.Slots,
		Threshold:   m.Threshold(),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
