package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrSnakeDoc/beanstalk/internal/config"
	"github.com/MrSnakeDoc/beanstalk/internal/domain"
	"github.com/MrSnakeDoc/beanstalk/internal/httpserver/deps"
	"github.com/MrSnakeDoc/beanstalk/internal/journal"
	"github.com/MrSnakeDoc/beanstalk/internal/logger"
	"github.com/MrSnakeDoc/beanstalk/internal/metrics"
	"github.com/MrSnakeDoc/beanstalk/internal/store"
	"github.com/MrSnakeDoc/beanstalk/internal/store/memory"
)

var fixedNow = time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC)

type unreachableGateway struct{ *memory.Store }

func (unreachableGateway) Ping(context.Context) error { return errors.New("connection refused") }

func newTestDeps(mutate ...func(d *deps.Deps)) deps.Deps {
	gw := memory.New()
	d := deps.Deps{
		Logger:          logger.NewNop(),
		StartTime:       fixedNow,
		Version:         "test",
		TimeNow:         func() time.Time { return fixedNow },
		Journal:         journal.New(domain.DefaultClassifier(), gw),
		Gateway:         gw,
		Metrics:         metrics.NewWithRegistry(prometheus.NewRegistry()),
		RateLimitBurst:  100,
		RateLimitPerMin: 100,
	}
	for _, m := range mutate {
		m(&d)
	}
	return d
}

func newTestHandler(d deps.Deps) http.Handler {
	return New(&config.Config{ListenPort: ":0"}, d.Logger, d).Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSubmitDeed(t *testing.T) {
	h := newTestHandler(newTestDeps())

	rec := do(t, h, http.MethodPost, "/api/deeds", `{"text":"Donated money to the food bank"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}

	var res journal.Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Entry.Category != domain.Charity || res.Entry.Points != 50 {
		t.Errorf("entry = %+v, want charity/50", res.Entry)
	}
	if res.Snapshot.TotalPoints != 50 || res.Snapshot.Streak != 1 {
		t.Errorf("snapshot = %+v", res.Snapshot)
	}
	if got := res.Snapshot.LastLogDate.String(); got != "2024-03-14" {
		t.Errorf("last_log_date = %s, want 2024-03-14", got)
	}
}

func TestSubmitDeedRejected(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "blank text", body: `{"text":"   "}`},
		{name: "missing text", body: `{}`},
		{name: "invalid json", body: `{"text":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDeps()
			rec := do(t, newTestHandler(d), http.MethodPost, "/api/deeds", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if n := len(d.Journal.Snapshot().Entries); n != 0 {
				t.Errorf("journal holds %d entries, want 0", n)
			}
		})
	}
}

func TestListDeedsEmpty(t *testing.T) {
	rec := do(t, newTestHandler(newTestDeps()), http.MethodGet, "/api/deeds", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `"last_log_date":null`) || !strings.Contains(body, `"entries":[]`) {
		t.Errorf("empty journal = %s, want a null last_log_date and no entries", body)
	}
}

func TestListDeeds(t *testing.T) {
	h := newTestHandler(newTestDeps())
	do(t, h, http.MethodPost, "/api/deeds", `{"text":"donated blood"}`)
	do(t, h, http.MethodPost, "/api/deeds", `{"text":"I ran 5 miles"}`)

	rec := do(t, h, http.MethodGet, "/api/deeds", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var snap journal.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	if snap.TotalPoints != 60 || len(snap.Entries) != 2 || snap.Entries[0].Category != domain.SelfCare {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestPreview(t *testing.T) {
	h := newTestHandler(newTestDeps())

	if rec := do(t, h, http.MethodGet, "/api/preview?text=hug", ""); rec.Code != http.StatusNoContent {
		t.Errorf("short text status = %d, want 204", rec.Code)
	}

	rec := do(t, h, http.MethodGet, "/api/preview?text=hugged+mom", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Category domain.Category `json:"category"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Category.ID != domain.Kindness {
		t.Errorf("category = %q, want kindness", body.Category.ID)
	}
}

func TestCategories(t *testing.T) {
	rec := do(t, newTestHandler(newTestDeps()), http.MethodGet, "/api/categories", "")
	if !strings.Contains(rec.Body.String(), `"id":"general","label":"Good Deed","points":10,"keywords":[]`) {
		t.Errorf("general should list an empty keyword array: %s", rec.Body)
	}

	var cats []domain.Category
	if err := json.NewDecoder(rec.Body).Decode(&cats); err != nil {
		t.Fatal(err)
	}
	if len(cats) != 5 || cats[0].ID != domain.Charity || cats[4].ID != domain.General {
		t.Errorf("categories = %+v", cats)
	}
}

func TestResetDeeds(t *testing.T) {
	d := newTestDeps()
	h := newTestHandler(d)
	do(t, h, http.MethodPost, "/api/deeds", `{"text":"volunteered"}`)

	if rec := do(t, h, http.MethodDelete, "/api/deeds", ""); rec.Code != http.StatusPreconditionRequired {
		t.Errorf("unconfirmed status = %d, want 428", rec.Code)
	}
	if len(d.Journal.Snapshot().Entries) != 1 {
		t.Fatal("unconfirmed reset cleared the journal")
	}

	if rec := do(t, h, http.MethodDelete, "/api/deeds?confirm=true", ""); rec.Code != http.StatusNoContent {
		t.Errorf("confirmed status = %d, want 204", rec.Code)
	}
	if len(d.Journal.Snapshot().Entries) != 0 {
		t.Error("confirmed reset kept entries")
	}
	if v, ok, _ := d.Gateway.Load(context.Background(), store.KeyDeeds); ok {
		t.Errorf("gateway still holds deeds: %q", v)
	}
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestHandler(newTestDeps()), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("healthz = %d %s", rec.Code, rec.Body)
	}
}

func TestReadyz(t *testing.T) {
	if rec := do(t, newTestHandler(newTestDeps()), http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Errorf("ready status = %d, want 200", rec.Code)
	}

	d := newTestDeps(func(d *deps.Deps) { d.Gateway = unreachableGateway{memory.New()} })
	if rec := do(t, newTestHandler(d), http.MethodGet, "/readyz", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("unreachable status = %d, want 503", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(newTestDeps())
	do(t, h, http.MethodPost, "/api/deeds", `{"text":"went to the gym"}`)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `beanstalk_journal_deeds_total{category="selfcare"} 1`) {
		t.Errorf("metrics missing deed counter:\n%s", rec.Body)
	}
}

func TestOperationalEndpointsRestricted(t *testing.T) {
	h := newTestHandler(newTestDeps(func(d *deps.Deps) { d.AllowedCIDRS = []string{"10.0.0.0/8"} }))

	// httptest requests come from 192.0.2.1
	for _, path := range []string{"/readyz", "/metrics"} {
		if rec := do(t, h, http.MethodGet, path, ""); rec.Code != http.StatusForbidden {
			t.Errorf("%s status = %d, want 403", path, rec.Code)
		}
	}
	if rec := do(t, h, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", rec.Code)
	}
}

func TestAPIRequiresToken(t *testing.T) {
	secret := []byte("s3cret")
	h := newTestHandler(newTestDeps(func(d *deps.Deps) { d.APISecret = secret }))

	if rec := do(t, h, http.MethodGet, "/api/deeds", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", rec.Code)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "me",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(secret)
	if err != nil {
		t.Fatal(err)
	}

	rec := do(t, h, http.MethodPost, "/api/deeds", `{"text":"shared lunch"}`, "Authorization", "Bearer "+token)
	if rec.Code != http.StatusCreated {
		t.Errorf("valid token status = %d, want 201", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("healthz must stay public, got %d", rec.Code)
	}
}

func TestSubmitRateLimited(t *testing.T) {
	h := newTestHandler(newTestDeps(func(d *deps.Deps) {
		d.RateLimitBurst = 2
		d.RateLimitPerMin = 1
	}))

	for i := 0; i < 2; i++ {
		if rec := do(t, h, http.MethodPost, "/api/deeds", `{"text":"read a chapter"}`); rec.Code != http.StatusCreated {
			t.Fatalf("request %d status = %d, want 201", i, rec.Code)
		}
	}

	rec := do(t, h, http.MethodPost, "/api/deeds", `{"text":"read a chapter"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}

	// reads are not throttled
	if rec := do(t, h, http.MethodGet, "/api/deeds", ""); rec.Code != http.StatusOK {
		t.Errorf("GET status = %d, want 200", rec.Code)
	}
}
