package medicines

import "time"

// Funciones puras de clasificación. Sin efectos, sin fallas:
// el handler/servicio decide qué hacer con el resultado.

// LoggedDose es la referencia mínima a una toma ya registrada hoy.
// Se usa para filtrar slots en memoria sin depender del módulo doselogs.
type LoggedDose struct {
	MedicineID string
	Slot       string
}

// ClassifyExpiry compara a granularidad de fecha calendario (la hora se ignora).
// expired si expiry < today; expiring_soon si expiry <= today + soonWindowDays.
func ClassifyExpiry(expiry, today time.Time, soonWindowDays int) ExpiryBucket {
	exp := dateOnly(expiry)
	now := dateOnly(today)

	if exp.Before(now) {
		return ExpiryExpired
	}
	if !exp.After(now.AddDate(0, 0, soonWindowDays)) {
		return ExpirySoon
	}
	return ExpirySafe
}

// IsLowStock: stock bajo si 0 < count <= threshold.
// count == 0 NO es stock bajo: es sin-stock, ver StockStatusOf.
func IsLowStock(count, threshold int) bool {
	return count > 0 && count <= threshold
}

// StockStatusOf expone el tri-estado completo (out_of_stock / low / ok).
func StockStatusOf(count, threshold int) StockStatus {
	switch {
	case count <= 0:
		return StockOut
	case count <= threshold:
		return StockLow
	default:
		return StockOK
	}
}

// AvailableSlots devuelve los slots configurados del medicamento que aún no
// tienen toma registrada hoy. taken es el set completo del día (todos los
// medicamentos): se filtra acá en memoria para no exigir un índice compuesto
// (medicine_id, slot) en el backend.
func AvailableSlots(m Medicine, taken []LoggedDose) []string {
	out := make([]string, 0, len(m.Slots))
	for _, slot := range m.Slots {
		used := false
		for _, d := range taken {
			if d.MedicineID == m.ID && d.Slot == slot {
				used = true
				break
			}
		}
		if !used {
			out = append(out, slot)
		}
	}
	return out
}

// ApplyDose descuenta quantity del stock y avisa si el resultado cae en
// (0, threshold]. Asume quantity <= count (lo valida el caller).
func ApplyDose(count, quantity, threshold int) (newCount int, lowStock bool) {
	newCount = count - quantity
	lowStock = IsLowStock(newCount, threshold) && !IsLowStock(count, threshold)
	return newCount, lowStock
}

// dateOnly trunca a medianoche UTC para comparar solo la fecha.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
