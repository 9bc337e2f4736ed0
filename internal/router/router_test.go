package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medicine-cabinet/internal/router"
)

func TestHTTP_EndToEnd_CabinetFlow(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil, SoonWindowDays: 3}))
	defer ts.Close()

	userID := "user-1"
	otherID := "user-2"

	// 1) Alta de un medicamento que vence en 2 días (ventana 3 => expiring_soon)
	medID := createMedicine(t, ts.URL, userID, map[string]any{
		"name":         "Amoxicillin",
		"category":     "antibiotic",
		"tablet_count": 6,
		"expiry_date":  time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02"),
		"slots":        []string{"08:00", "14:00", "20:00"},
	})

	// 2) Otro usuario no lo ve ni lo puede tocar
	{
		st, _ := doReq(t, ts.URL, "GET", "/medicines/"+medID, otherID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for other user, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "DELETE", "/medicines/"+medID, otherID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 delete by other user, got %d", st)
		}
	}

	// 3) View inicial: clasificado y con todos los slots
	{
		st, body := doReq(t, ts.URL, "GET", "/cabinet", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 cabinet, got %d body=%s", st, string(body))
		}
		view := decodeView(t, body)
		if len(view.Items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(view.Items))
		}
		it := view.Items[0]
		if it.ExpiryBucket != "expiring_soon" {
			t.Fatalf("bucket = %s, want expiring_soon", it.ExpiryBucket)
		}
		if it.StockStatus != "ok" || it.LowStock {
			t.Fatalf("stock = %s low=%v, want ok/false", it.StockStatus, it.LowStock)
		}
		if len(it.AvailableSlots) != 3 {
			t.Fatalf("available = %v, want 3 slots", it.AvailableSlots)
		}
	}

	// 4) Toma a las 08:00: baja a 5 => señal de stock bajo
	{
		st, body := doReq(t, ts.URL, "POST", "/medicines/"+medID+"/doses", userID, map[string]any{
			"slot":     "08:00",
			"quantity": 1,
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 dose, got %d body=%s", st, string(body))
		}
		var res struct {
			NewCount int  `json:"new_count"`
			LowStock bool `json:"low_stock"`
		}
		_ = json.Unmarshal(body, &res)
		if res.NewCount != 5 || !res.LowStock {
			t.Fatalf("dose result = %+v, want count 5 + low stock", res)
		}
	}

	// 5) Mismo slot de nuevo: 409
	{
		st, _ := doReq(t, ts.URL, "POST", "/medicines/"+medID+"/doses", userID, map[string]any{
			"slot":     "08:00",
			"quantity": 1,
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 duplicate slot, got %d", st)
		}
	}

	// 6) Slot no configurado: 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/medicines/"+medID+"/doses", userID, map[string]any{
			"slot":     "11:00",
			"quantity": 1,
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 unknown slot, got %d", st)
		}
	}

	// 7) El view refleja la toma y el stock bajo
	{
		_, body := doReq(t, ts.URL, "GET", "/cabinet", userID, nil)
		view := decodeView(t, body)
		it := view.Items[0]
		if it.TabletCount != 5 || it.StockStatus != "low" || !it.LowStock {
			t.Fatalf("after dose: %+v", it)
		}
		if len(it.AvailableSlots) != 2 {
			t.Fatalf("available after dose = %v", it.AvailableSlots)
		}
	}

	// 8) Las tomas del día se listan
	{
		st, body := doReq(t, ts.URL, "GET", "/doses/today", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 doses/today, got %d", st)
		}
		var logs []struct {
			MedicineID string `json:"medicine_id"`
			Slot       string `json:"slot"`
		}
		_ = json.Unmarshal(body, &logs)
		if len(logs) != 1 || logs[0].Slot != "08:00" || logs[0].MedicineID != medID {
			t.Fatalf("today logs = %+v", logs)
		}
	}

	// 9) Ack de alerta: idempotente
	{
		st, _ := doReq(t, ts.URL, "POST", "/medicines/"+medID+"/alert-ack", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 alert-ack, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "POST", "/medicines/"+medID+"/alert-ack", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 repeated alert-ack, got %d", st)
		}

		_, body := doReq(t, ts.URL, "GET", "/cabinet", userID, nil)
		view := decodeView(t, body)
		if !view.Items[0].AlertShown {
			t.Fatalf("alert_shown must be true after ack")
		}
	}

	// 10) Tira nueva: suma stock y renueva vencimiento => safe y sin stock bajo
	{
		st, body := doReq(t, ts.URL, "POST", "/medicines/"+medID+"/strips", userID, map[string]any{
			"new_expiry":   time.Now().UTC().AddDate(1, 0, 0).Format("2006-01-02"),
			"add_quantity": 16,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 restock, got %d body=%s", st, string(body))
		}

		_, body = doReq(t, ts.URL, "GET", "/cabinet", userID, nil)
		view := decodeView(t, body)
		it := view.Items[0]
		if it.TabletCount != 21 || it.ExpiryBucket != "safe" || it.LowStock {
			t.Fatalf("after restock: %+v", it)
		}
	}

	// 11) Baja del medicamento
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/medicines/"+medID, userID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete, got %d", st)
		}

		_, body := doReq(t, ts.URL, "GET", "/cabinet", userID, nil)
		view := decodeView(t, body)
		if len(view.Items) != 0 {
			t.Fatalf("cabinet must be empty after delete, got %+v", view.Items)
		}
	}
}

func TestHTTP_RequiresUser(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	// Sin X-Debug-User-ID y sin verifier => 401 en rutas protegidas
	for _, path := range []string{"/medicines", "/cabinet", "/doses/today"} {
		st, _ := doReq(t, ts.URL, "GET", path, "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 on %s without user, got %d", path, st)
		}
	}

	// /health queda abierto
	st, _ := doReq(t, ts.URL, "GET", "/health", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 health, got %d", st)
	}
}

func TestHTTP_CreateMedicine_RejectsBadExpiry(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	st, _ := doReq(t, ts.URL, "POST", "/medicines", "user-1", map[string]any{
		"name":        "Ibuprofen",
		"expiry_date": "15-06-2025",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad expiry format, got %d", st)
	}
}

type viewBody struct {
	Items []struct {
		ID             string   `json:"id"`
		TabletCount    int      `json:"tablet_count"`
		ExpiryBucket   string   `json:"expiry_bucket"`
		StockStatus    string   `json:"stock_status"`
		LowStock       bool     `json:"low_stock"`
		AvailableSlots []string `json:"available_slots"`
		AlertShown     bool     `json:"alert_shown"`
	} `json:"items"`
	Degraded bool `json:"degraded"`
}

func decodeView(t *testing.T, body []byte) viewBody {
	t.Helper()
	var v viewBody
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("decode view: %v body=%s", err, string(body))
	}
	return v
}

func createMedicine(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/medicines", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create medicine, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create medicine: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
