package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Simplici0/sellercalc/internal/db"
	"github.com/Simplici0/sellercalc/internal/migrations"
	"github.com/Simplici0/sellercalc/internal/pricing"
	"github.com/Simplici0/sellercalc/internal/store"
)

const testPassword = "bms_seller"

func newTestServer(t *testing.T) (*httptest.Server, *server) {
	t.Helper()

	database, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "server-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := migrations.Up(database.DB, nil); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	srv := &server{
		auth:   newAuthService(testPassword, "test-secret"),
		store:  store.New(database),
		logger: zerolog.Nop(),
	}
	r := chi.NewRouter()
	srv.routes(r)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts, srv
}

func sessionCookie(srv *server) *http.Cookie {
	return &http.Cookie{Name: sessionCookieName, Value: srv.auth.createSessionValue(sessionSubject)}
}

func doJSON(t *testing.T, srv *server, method, url string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = strings.NewReader(string(data))
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(sessionCookie(srv))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestAPIRequiresLogin(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/defaults")
	if err != nil {
		t.Fatalf("get defaults: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	ts, _ := newTestServer(t)

	bad, err := http.PostForm(ts.URL+"/login", url.Values{"password": {"salah"}})
	if err != nil {
		t.Fatalf("post login: %v", err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", bad.StatusCode)
	}

	good, err := http.PostForm(ts.URL+"/login", url.Values{"password": {testPassword}})
	if err != nil {
		t.Fatalf("post login: %v", err)
	}
	good.Body.Close()
	if good.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", good.StatusCode)
	}

	var session *http.Cookie
	for _, c := range good.Cookies() {
		if c.Name == sessionCookieName {
			session = c
		}
	}
	if session == nil || session.Value == "" {
		t.Fatalf("expected session cookie, got %+v", good.Cookies())
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/defaults", nil)
	req.AddCookie(session)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get defaults: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with session, got %d", resp.StatusCode)
	}
}

func TestComputeReturnsUnboundedReturnsAsInfinity(t *testing.T) {
	ts, srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, ts.URL+"/api/compute", pricing.DefaultInput())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if raw["targetRequiredReturn"] != "Infinity" {
		t.Fatalf("targetRequiredReturn = %v, want \"Infinity\"", raw["targetRequiredReturn"])
	}
	if price, _ := raw["sellingPrice"].(float64); price < 37244.99 || price > 37245.01 {
		t.Fatalf("sellingPrice = %v, want ~37245", raw["sellingPrice"])
	}
}

func TestLoginStateReportsGateAndSession(t *testing.T) {
	ts, srv := newTestServer(t)

	resp, err := http.Get(ts.URL + "/login")
	if err != nil {
		t.Fatalf("get login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var anon loginState
	if err := json.NewDecoder(resp.Body).Decode(&anon); err != nil {
		t.Fatalf("decode login state: %v", err)
	}
	if !anon.Enabled || anon.Authenticated {
		t.Fatalf("unexpected anonymous state: %+v", anon)
	}

	withSession := doJSON(t, srv, http.MethodGet, ts.URL+"/login", nil)
	var state loginState
	if err := json.NewDecoder(withSession.Body).Decode(&state); err != nil {
		t.Fatalf("decode login state: %v", err)
	}
	if !state.Enabled || !state.Authenticated {
		t.Fatalf("unexpected session state: %+v", state)
	}
}

func TestComputeRejectsUnencodableResult(t *testing.T) {
	ts, srv := newTestServer(t)

	in := pricing.DefaultInput()
	in.Fees.PlatformCommission = 1e306

	resp := doJSON(t, srv, http.MethodPost, ts.URL+"/api/compute", in)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected json error, got %q", ct)
	}
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error == "" {
		t.Fatalf("expected an error message")
	}
}

func TestComputeRejectsUnknownMode(t *testing.T) {
	ts, srv := newTestServer(t)

	in := pricing.DefaultInput()
	in.Markup.Mode = "ratio"

	resp := doJSON(t, srv, http.MethodPost, ts.URL+"/api/compute", in)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCalculationLifecycle(t *testing.T) {
	ts, srv := newTestServer(t)

	missingName := doJSON(t, srv, http.MethodPost, ts.URL+"/api/calculations", pricing.DefaultInput())
	if missingName.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without productName, got %d", missingName.StatusCode)
	}

	for _, name := range []string{"Kemeja Polos", "Celana Chino"} {
		in := pricing.DefaultInput()
		in.ProductName = name
		resp := doJSON(t, srv, http.MethodPost, ts.URL+"/api/calculations", in)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create %q: expected 201, got %d", name, resp.StatusCode)
		}
	}

	resp := doJSON(t, srv, http.MethodGet, ts.URL+"/api/calculations?q=kemeja", nil)
	var listed []store.Calculation
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].ProductName != "Kemeja Polos" {
		t.Fatalf("unexpected filtered list: %+v", listed)
	}
	id := listed[0].ID

	text := doJSON(t, srv, http.MethodGet, ts.URL+"/api/calculations/"+strconv.FormatInt(id, 10)+"/text", nil)
	if !strings.Contains(text.Header.Get("Content-Type"), "text/plain") {
		t.Fatalf("expected text/plain, got %q", text.Header.Get("Content-Type"))
	}
	body, _ := io.ReadAll(text.Body)
	for _, expected := range []string{"Produk: Kemeja Polos", "Harga Jual: Rp 37.245", "Target ROI Ideal: ∞", "Biaya Iklan Final (+PPN 11%)"} {
		if !strings.Contains(string(body), expected) {
			t.Fatalf("expected report to contain %q, got:\n%s", expected, body)
		}
	}

	del := doJSON(t, srv, http.MethodDelete, ts.URL+"/api/calculations/"+strconv.FormatInt(id, 10), nil)
	if del.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 on delete, got %d", del.StatusCode)
	}
	again := doJSON(t, srv, http.MethodGet, ts.URL+"/api/calculations/"+strconv.FormatInt(id, 10), nil)
	if again.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", again.StatusCode)
	}

	bad := doJSON(t, srv, http.MethodGet, ts.URL+"/api/calculations/abc", nil)
	if bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid id, got %d", bad.StatusCode)
	}
}
