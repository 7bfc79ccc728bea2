package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chitieu/internal/core"
	"chitieu/internal/store"
	"chitieu/internal/store/kv"
	"chitieu/internal/store/local"
	"chitieu/internal/theme"
	"chitieu/internal/tracker"
)

func newTestServer(t *testing.T, st store.Store) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctrl := tracker.New(st, nil, logger)
	// Failing stores are under test; the initial load may legitimately error.
	_ = ctrl.Load(context.Background())
	srv := NewServer("127.0.0.1:0", ctrl, theme.New(kv.NewMemory()), logger)
	t.Cleanup(func() { srv.rateLimiter.stop() })
	return srv
}

func emptyLocalStore() store.Store {
	return local.New(kv.NewMemory(), 0, false)
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestCreateThenList(t *testing.T) {
	srv := newTestServer(t, emptyLocalStore())

	rec := do(t, srv, http.MethodPost, "/api/expenses",
		`{"description":"Coffee","amount":4.5,"category":"Food","date":"2024-06-14"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}
	var created map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created["id"] == "" {
		t.Fatalf("expected non-empty id, got %v", created)
	}

	rec = do(t, srv, http.MethodGet, "/api/expenses", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var expenses []core.Expense
	if err := json.Unmarshal(rec.Body.Bytes(), &expenses); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(expenses) != 1 || expenses[0].ID != created["id"] {
		t.Fatalf("created expense missing from list: %+v", expenses)
	}
	if expenses[0].Description != "Coffee" || expenses[0].Amount.Cents != 450 {
		t.Fatalf("stored fields wrong: %+v", expenses[0])
	}
}

func TestCreateRejectsInvalidDraft(t *testing.T) {
	srv := newTestServer(t, emptyLocalStore())

	tests := []struct {
		name string
		body string
	}{
		{name: "zero amount", body: `{"description":"x","amount":0,"category":"Food","date":"2024-06-14"}`},
		{name: "empty description", body: `{"description":"  ","amount":1,"category":"Food","date":"2024-06-14"}`},
		{name: "unknown category", body: `{"description":"x","amount":1,"category":"Gadgets","date":"2024-06-14"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/api/expenses", tc.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
			}
		})
	}

	// Rejected drafts never reach the store.
	rec := do(t, srv, http.MethodGet, "/api/expenses", "")
	var expenses []core.Expense
	_ = json.Unmarshal(rec.Body.Bytes(), &expenses)
	if len(expenses) != 0 {
		t.Fatalf("rejected drafts were persisted: %+v", expenses)
	}
}

func TestCreateMalformedBody(t *testing.T) {
	srv := newTestServer(t, emptyLocalStore())
	rec := do(t, srv, http.MethodPost, "/api/expenses", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDeleteReturnsNoContent(t *testing.T) {
	srv := newTestServer(t, emptyLocalStore())

	rec := do(t, srv, http.MethodPost, "/api/expenses",
		`{"description":"Coffee","amount":4.5,"category":"Food","date":"2024-06-14"}`)
	var created map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &created)

	rec = do(t, srv, http.MethodDelete, "/api/expenses/"+created["id"], "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	// Absent id deletes are also a success on the local variant.
	rec = do(t, srv, http.MethodDelete, "/api/expenses/"+created["id"], "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("repeat delete status = %d", rec.Code)
	}
}

type downStore struct{}

func (downStore) List(context.Context) ([]core.Expense, error) {
	return nil, fmt.Errorf("%w: connection refused", store.ErrUnavailable)
}

func (downStore) Create(context.Context, core.Expense) (string, error) {
	return "", fmt.Errorf("%w: connection refused", store.ErrUnavailable)
}

func (downStore) Delete(context.Context, string) error {
	return fmt.Errorf("%w: connection refused", store.ErrUnavailable)
}

func TestUnavailableStoreMapsTo503(t *testing.T) {
	srv := newTestServer(t, downStore{})

	rec := do(t, srv, http.MethodPost, "/api/expenses",
		`{"description":"Coffee","amount":4.5,"category":"Food","date":"2024-06-14"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("create status = %d", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if !strings.HasPrefix(body["error"], "cannot add expense: ") {
		t.Fatalf("error %q lacks operation prefix", body["error"])
	}

	rec = do(t, srv, http.MethodDelete, "/api/expenses/x", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("delete status = %d", rec.Code)
	}
}

func TestViewAppliesFilterParams(t *testing.T) {
	srv := newTestServer(t, emptyLocalStore())

	for _, body := range []string{
		`{"description":"Coffee","amount":4.5,"category":"Food","date":"2024-06-14"}`,
		`{"description":"Bus","amount":2,"category":"Transport","date":"2024-05-01"}`,
	} {
		if rec := do(t, srv, http.MethodPost, "/api/expenses", body); rec.Code != http.StatusCreated {
			t.Fatalf("create status = %d", rec.Code)
		}
	}

	rec := do(t, srv, http.MethodGet, "/api/view?category=Food&month=2024-06", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("view status = %d", rec.Code)
	}
	var view tracker.View
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if len(view.Filtered) != 1 || view.Filtered[0].Category != core.Food {
		t.Fatalf("filtered = %+v", view.Filtered)
	}
	if view.Total.Cents != 450 {
		t.Fatalf("total = %d, want 450", view.Total.Cents)
	}
	if len(view.Expenses) != 2 {
		t.Fatalf("full list should stay complete, got %d", len(view.Expenses))
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	srv := newTestServer(t, emptyLocalStore())
	rec := do(t, srv, http.MethodGet, "/api/categories", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var cats []categoryInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &cats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cats) != 8 {
		t.Fatalf("expected 8 categories, got %d", len(cats))
	}
	for _, c := range cats {
		if c.Value == "" || c.Color == "" {
			t.Fatalf("incomplete entry %+v", c)
		}
	}
}

func TestThemeEndpoints(t *testing.T) {
	srv := newTestServer(t, emptyLocalStore())

	rec := do(t, srv, http.MethodGet, "/api/theme", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["theme"] != "" {
		t.Fatalf("expected unset preference, got %q", body["theme"])
	}

	if rec := do(t, srv, http.MethodPut, "/api/theme", `{"theme":"dark"}`); rec.Code != http.StatusNoContent {
		t.Fatalf("put status = %d", rec.Code)
	}
	rec = do(t, srv, http.MethodGet, "/api/theme", "")
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["theme"] != theme.Dark {
		t.Fatalf("theme = %q, want dark", body["theme"])
	}

	if rec := do(t, srv, http.MethodPut, "/api/theme", `{"theme":"sepia"}`); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid preference status = %d", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, emptyLocalStore())
	for _, target := range []string{"/healthz", "/readyz"} {
		if rec := do(t, srv, http.MethodGet, target, ""); rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", target, rec.Code)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t, emptyLocalStore())
	rec := do(t, srv, http.MethodGet, "/api/view", "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("X-Frame-Options = %q", got)
	}
}
