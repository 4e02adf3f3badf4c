// Package testutil provides test utilities and helpers.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// SampleAnalysis is a governance analysis in the shape current producers
// send, with sections under their Spanish key names.
const SampleAnalysis = `{
  "resumen_ejecutivo": {"calidad": "media", "riesgos": ["pii sin clasificar"]},
  "metadata_campos": {
    "id_cliente": {"tipo": "int", "pii": false},
    "email": {"tipo": "string", "pii": true, "reglas": ["mask", "hash"]},
    "segmento": "categorico"
  },
  "controles_gobierno_minimo": {"owner": "equipo-datos", "retencion_dias": 365}
}`

// LatestFunc answers the n-th (1-based) request to /governance/latest.
type LatestFunc func(n int) (status int, body string)

// FakeAPI is an httptest server that stands in for the analysis API.
type FakeAPI struct {
	*httptest.Server

	mu           sync.Mutex
	healthCalls  int
	latestCalls  int
	requestIDs   []string
	latestAnswer LatestFunc
	healthDelay  time.Duration
}

// NewFakeAPI starts a fake API whose latest endpoint is answered by fn.
// The server is closed when the test ends.
func NewFakeAPI(t *testing.T, fn LatestFunc) *FakeAPI {
	t.Helper()

	api := &FakeAPI{latestAnswer: fn}
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.healthCalls++
		delay := api.healthDelay
		api.mu.Unlock()
		if delay > 0 {
			time.Sleep(delay)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("/governance/latest", func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.latestCalls++
		n := api.latestCalls
		api.requestIDs = append(api.requestIDs, r.Header.Get("X-Request-ID"))
		api.mu.Unlock()

		status, body := api.latestAnswer(n)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})

	api.Server = httptest.NewServer(mux)
	t.Cleanup(api.Close)
	return api
}

// Always answers every latest request with the same response.
func Always(status int, body string) LatestFunc {
	return func(int) (int, string) { return status, body }
}

// SetHealthDelay makes the liveness endpoint answer after d, like a
// deployment that is still waking up.
func (a *FakeAPI) SetHealthDelay(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.healthDelay = d
}

// HealthCalls returns how many warmup pings were received.
func (a *FakeAPI) HealthCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.healthCalls
}

// LatestCalls returns how many latest requests were received.
func (a *FakeAPI) LatestCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.latestCalls
}

// RequestIDs returns the X-Request-ID headers of latest requests.
func (a *FakeAPI) RequestIDs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.requestIDs...)
}

// RecordBody builds a latest response body for a stored record.
func RecordBody(dataset, analysis string) string {
	return `{"dataset":"` + dataset + `","analysis":` + analysis + `,"timestamp":"2025-05-06T07:08:09Z"}`
}

// EmptyBody is the latest response before anything was submitted.
const EmptyBody = `{"status":"empty","message":"no analysis submitted yet"}`
