package cabinet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medicine-cabinet/internal/domain/alerts"
	"medicine-cabinet/internal/domain/doselogs"
	"medicine-cabinet/internal/domain/medicines"
	"medicine-cabinet/internal/metrics"
	"medicine-cabinet/internal/platform/logger"
	"medicine-cabinet/internal/ports/notify"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("medicine not found")
	ErrSlotTaken         = errors.New("dose already logged for slot")
	ErrUnknownSlot       = errors.New("slot not configured")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// DefaultSoonWindowDays es la ventana de "vence pronto" si no se configura otra.
const DefaultSoonWindowDays = 3

// Service es el contenedor de estado de la pantalla del botiquín:
// fetch -> derivar -> acción -> re-fetch, sin estado mutable propio.
// Compone medicamentos + tomas del día + acks en ítems ya clasificados.
type Service struct {
	meds     *medicines.Service
	doses    *doselogs.Service
	acks     *alerts.Service
	notifier notify.Notifier
	log      logger.Logger
	now      func() time.Time
	window   int
}

func NewService(meds *medicines.Service, doses *doselogs.Service, acks *alerts.Service, notifier notify.Notifier, log logger.Logger, soonWindowDays int) *Service {
	if soonWindowDays <= 0 {
		soonWindowDays = DefaultSoonWindowDays
	}
	return &Service{
		meds:     meds,
		doses:    doses,
		acks:     acks,
		notifier: notifier,
		log:      log,
		now:      time.Now,
		window:   soonWindowDays,
	}
}

// Item es un medicamento ya clasificado, listo para pintar una card.
type Item struct {
	Medicine medicines.Medicine

	ExpiryBucket   medicines.ExpiryBucket
	StockStatus    medicines.StockStatus
	LowStock       bool
	AvailableSlots []string
	AlertShown     bool
}

// View es el estado derivado completo de la pantalla.
type View struct {
	Items []Item

	// Degraded indica que las tomas del día no se pudieron leer y el view
	// se armó asumiendo día sin tomas. Nunca bloquea la pantalla.
	Degraded bool
}

// BuildView arma el estado de la pantalla para el usuario.
// Si falla la lectura de tomas del día, degrada a "sin tomas conocidas":
// una falla transitoria de lectura jamás impide registrar una toma.
func (s *Service) BuildView(ctx context.Context, userID string) (View, error) {
	if strings.TrimSpace(userID) == "" {
		return View{}, ErrInvalidInput
	}

	meds, err := s.meds.ListByOwner(ctx, userID)
	if err != nil {
		return View{}, err
	}

	taken, degraded := s.todaysDoses(ctx, userID)

	ackedSet := map[string]struct{}{}
	if acked, err := s.acks.ListByUser(ctx, userID); err == nil {
		for _, a := range acked {
			ackedSet[a.MedicineID] = struct{}{}
		}
	}

	today := s.now()
	items := make([]Item, 0, len(meds))
	for _, m := range meds {
		_, acked := ackedSet[m.ID]
		items = append(items, Item{
			Medicine:       m,
			ExpiryBucket:   medicines.ClassifyExpiry(m.ExpiryDate, today, s.window),
			StockStatus:    medicines.StockStatusOf(m.TabletCount, m.Threshold()),
			LowStock:       medicines.IsLowStock(m.TabletCount, m.Threshold()),
			AvailableSlots: medicines.AvailableSlots(m, taken),
			AlertShown:     acked,
		})
	}

	return View{Items: items, Degraded: degraded}, nil
}

// DoseResult es lo que la UI necesita tras registrar una toma.
type DoseResult struct {
	Log      doselogs.DoseLog
	NewCount int
	LowStock bool
}

// TakeDose registra una toma: valida slot y stock, crea el log y descuenta.
// Sin updates optimistas: si algo falla, el estado previo queda intacto y la
// UI re-consulta el view completo.
func (s *Service) TakeDose(ctx context.Context, userID, medicineID, slot string, quantity int) (DoseResult, error) {
	slot = strings.TrimSpace(slot)
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(medicineID) == "" || slot == "" {
		return DoseResult{}, ErrInvalidInput
	}
	if quantity <= 0 {
		return DoseResult{}, ErrInvalidInput
	}

	m, err := s.meds.GetByID(ctx, medicineID)
	if err != nil {
		if errors.Is(err, medicines.ErrNotFound) || errors.Is(err, medicines.ErrInvalidInput) {
			return DoseResult{}, ErrNotFound
		}
		// Falla de infraestructura: no disfrazarla de 404
		return DoseResult{}, err
	}
	if m.OwnerUserID != userID {
		return DoseResult{}, ErrNotFound
	}

	configured := false
	for _, sl := range m.Slots {
		if sl == slot {
			configured = true
			break
		}
	}
	if !configured {
		return DoseResult{}, ErrUnknownSlot
	}

	if quantity > m.TabletCount {
		return DoseResult{}, ErrInsufficientStock
	}

	// Chequeo de duplicado con degradación: si no se puede leer el día,
	// se asume sin tomas y se deja pasar (nunca bloquear por una lectura).
	taken, _ := s.todaysDoses(ctx, userID)
	for _, d := range taken {
		if d.MedicineID == m.ID && d.Slot == slot {
			return DoseResult{}, ErrSlotTaken
		}
	}

	// Descuento primero, log después: si el descuento falla no queda ningún
	// log huérfano bloqueando el slot por el resto del día.
	updated, lowStock, err := s.meds.Decrement(ctx, m.ID, quantity)
	if err != nil {
		if errors.Is(err, medicines.ErrInsufficientStock) {
			return DoseResult{}, ErrInsufficientStock
		}
		return DoseResult{}, err
	}

	entry, err := s.doses.Record(ctx, userID, doselogs.RecordInput{
		MedicineID: m.ID,
		Slot:       slot,
		Quantity:   quantity,
	})
	if err != nil {
		// Compensación best-effort: sin log registrado la toma no ocurrió,
		// el stock descontado tiene que volver.
		if _, rerr := s.meds.Increment(ctx, m.ID, quantity); rerr != nil {
			s.log.Error("stock restore failed after dose log error", map[string]any{
				"medicine_id": m.ID,
				"quantity":    quantity,
				"error":       rerr.Error(),
			})
		}
		return DoseResult{}, err
	}

	metrics.DosesRecordedTotal.Inc()

	if lowStock {
		s.log.Warn("medicine entered low stock", map[string]any{
			"medicine_id": updated.ID,
			"count":       updated.TabletCount,
		})
		// Best effort: un canal caído no afecta el registro de la toma.
		if s.notifier != nil {
			if err := s.notifier.Notify(ctx, notify.Alert{
				Kind:       notify.KindLowStock,
				UserID:     userID,
				MedicineID: updated.ID,
				Medicine:   updated.Name,
				Detail:     fmt.Sprintf("%d tablets left", updated.TabletCount),
			}); err != nil {
				s.log.Warn("low stock alert delivery failed", map[string]any{
					"medicine_id": updated.ID,
					"error":       err.Error(),
				})
			}
		}
	}

	return DoseResult{
		Log:      entry,
		NewCount: updated.TabletCount,
		LowStock: lowStock,
	}, nil
}

// todaysDoses lee las tomas del día y las proyecta a referencias mínimas.
// degraded=true significa que la lectura falló y se devuelve set vacío.
func (s *Service) todaysDoses(ctx context.Context, userID string) ([]medicines.LoggedDose, bool) {
	logs, err := s.doses.ListToday(ctx, userID)
	if err != nil {
		s.log.Warn("today dose logs unavailable, degrading to empty set", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, true
	}

	out := make([]medicines.LoggedDose, 0, len(logs))
	for _, d := range logs {
		out = append(out, medicines.LoggedDose{MedicineID: d.MedicineID, Slot: d.Slot})
	}
	return out, false
}
