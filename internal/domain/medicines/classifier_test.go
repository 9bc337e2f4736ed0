package medicines

import (
	"reflect"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClassifyExpiry(t *testing.T) {
	today := day(2025, 6, 15)
	window := 3

	cases := []struct {
		name   string
		expiry time.Time
		want   ExpiryBucket
	}{
		{"well in the past", day(2024, 1, 1), ExpiryExpired},
		{"yesterday", day(2025, 6, 14), ExpiryExpired},
		{"today", day(2025, 6, 15), ExpirySoon},
		{"in 2 days", day(2025, 6, 17), ExpirySoon},
		{"window boundary (3 days)", day(2025, 6, 18), ExpirySoon},
		{"just past the window", day(2025, 6, 19), ExpirySafe},
		{"far future", day(2026, 1, 1), ExpirySafe},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyExpiry(tc.expiry, today, window)
			if got != tc.want {
				t.Fatalf("ClassifyExpiry(%s) = %s, want %s", tc.expiry.Format("2006-01-02"), got, tc.want)
			}
		})
	}
}

func TestClassifyExpiry_IgnoresTimeOfDay(t *testing.T) {
	// Vence hoy a las 00:00 pero "ahora" son las 23:59: sigue sin estar vencido.
	today := time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC)
	expiry := day(2025, 6, 15)

	if got := ClassifyExpiry(expiry, today, 3); got == ExpiryExpired {
		t.Fatalf("same calendar day must not be expired, got %s", got)
	}

	// Y al revés: expiry con hora tardía de ayer sigue vencido hoy.
	expiry = time.Date(2025, 6, 14, 23, 59, 0, 0, time.UTC)
	if got := ClassifyExpiry(expiry, today, 3); got != ExpiryExpired {
		t.Fatalf("previous calendar day must be expired, got %s", got)
	}
}

func TestIsLowStock(t *testing.T) {
	cases := []struct {
		count, threshold int
		want             bool
	}{
		{0, 5, false}, // sin stock no es "stock bajo"
		{1, 5, true},
		{5, 5, true}, // borde inclusivo
		{6, 5, false},
		{100, 5, false},
	}

	for _, tc := range cases {
		if got := IsLowStock(tc.count, tc.threshold); got != tc.want {
			t.Errorf("IsLowStock(%d, %d) = %v, want %v", tc.count, tc.threshold, got, tc.want)
		}
	}
}

func TestStockStatusOf(t *testing.T) {
	cases := []struct {
		count int
		want  StockStatus
	}{
		{0, StockOut},
		{1, StockLow},
		{5, StockLow},
		{6, StockOK},
	}

	for _, tc := range cases {
		if got := StockStatusOf(tc.count, 5); got != tc.want {
			t.Errorf("StockStatusOf(%d, 5) = %s, want %s", tc.count, got, tc.want)
		}
	}
}

func TestAvailableSlots(t *testing.T) {
	m := Medicine{
		ID:    "med-a",
		Slots: []string{"08:00", "14:00", "20:00"},
	}

	taken := []LoggedDose{
		{MedicineID: "med-a", Slot: "08:00"},
		{MedicineID: "med-a", Slot: "20:00"},
		// Tomas de otro medicamento no deben afectar
		{MedicineID: "med-b", Slot: "14:00"},
	}

	got := AvailableSlots(m, taken)
	want := []string{"14:00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AvailableSlots = %v, want %v", got, want)
	}
}

func TestAvailableSlots_EmptyLogs(t *testing.T) {
	m := Medicine{
		ID:    "med-a",
		Slots: []string{"08:00", "20:00"},
	}

	got := AvailableSlots(m, nil)
	if !reflect.DeepEqual(got, m.Slots) {
		t.Fatalf("with no logs all slots must be available, got %v", got)
	}
}

func TestApplyDose(t *testing.T) {
	// 6 -> 5 cruza al rango bajo: señal
	newCount, low := ApplyDose(6, 1, 5)
	if newCount != 5 || !low {
		t.Fatalf("ApplyDose(6,1,5) = (%d, %v), want (5, true)", newCount, low)
	}

	// 5 -> 4 ya estaba bajo: sin señal nueva
	newCount, low = ApplyDose(5, 1, 5)
	if newCount != 4 || low {
		t.Fatalf("ApplyDose(5,1,5) = (%d, %v), want (4, false)", newCount, low)
	}

	// 10 -> 8 sigue ok
	newCount, low = ApplyDose(10, 2, 5)
	if newCount != 8 || low {
		t.Fatalf("ApplyDose(10,2,5) = (%d, %v), want (8, false)", newCount, low)
	}

	// nunca negativo con quantity <= count
	newCount, _ = ApplyDose(3, 3, 5)
	if newCount != 0 {
		t.Fatalf("ApplyDose(3,3,5) count = %d, want 0", newCount)
	}
}
