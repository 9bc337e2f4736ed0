package medicines

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"medicine-cabinet/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// createFailRepo delega todo menos Create, que siempre falla.
type createFailRepo struct {
	*testRepo
}

func (createFailRepo) Create(ctx context.Context, m Medicine) error {
	return errors.New("backend unavailable")
}

func newTestServer(t *testing.T, repo Repository) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Use(middleware.AuthContext(nil))
	RegisterRoutes(r, NewService(repo))
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url, userID, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Debug-User-ID", userID)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestCreateHandler_RepoFailureIs500(t *testing.T) {
	ts := newTestServer(t, createFailRepo{newTestRepo()})

	body := `{"name":"Ibuprofen","tablet_count":10,"expiry_date":"2027-01-01","slots":["08:00"]}`
	resp := postJSON(t, ts.URL+"/medicines", "user-1", body)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
}

func TestCreateHandler_InvalidInputIs400(t *testing.T) {
	ts := newTestServer(t, newTestRepo())

	// Sin nombre: rechazo de validación, no error de infraestructura
	body := `{"name":"","tablet_count":10,"expiry_date":"2027-01-01"}`
	resp := postJSON(t, ts.URL+"/medicines", "user-1", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
