package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_CountsRequestsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/v1/venues/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{}"))
	})

	// Two ids, one route pattern: the label must not explode per venue.
	for _, path := range []string{"/v1/venues/1", "/v1/venues/2"} {
		req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rr.Code)
		}
	}

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/v1/venues/{id}", "200"))
	if val < 2 {
		t.Errorf("expected both requests under the route pattern, got %f", val)
	}
}

func TestMiddleware_RecordsErrorStatuses(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/v1/works/search", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/works/search", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/v1/works/search", "503"))
	if val < 1 {
		t.Errorf("expected 503 counted, got %f", val)
	}
}

func TestMiddleware_ObservesDuration(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	r.ServeHTTP(httptest.NewRecorder(), req)

	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected request duration observations")
	}
}

func TestMiddleware_InFlightReturnsToZero(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if testutil.ToFloat64(httpInFlight) < 1 {
			t.Error("expected in-flight gauge incremented during request")
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	r.ServeHTTP(httptest.NewRecorder(), req)

	if testutil.ToFloat64(httpInFlight) != 0 {
		t.Errorf("expected in-flight gauge back to zero, got %f", testutil.ToFloat64(httpInFlight))
	}
}

func TestStatusWriter_DefaultsTo200OnImplicitWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec, status: http.StatusOK}

	if _, err := sw.Write([]byte("body")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if sw.status != http.StatusOK {
		t.Errorf("expected implicit 200, got %d", sw.status)
	}
}

func TestStatusWriter_FirstHeaderWins(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec, status: http.StatusOK}

	sw.WriteHeader(http.StatusNotFound)
	sw.WriteHeader(http.StatusInternalServerError)

	if sw.status != http.StatusNotFound {
		t.Errorf("expected first status recorded, got %d", sw.status)
	}
}

func TestNormalizePath(t *testing.T) {
	if got := normalizePath(""); got != "unknown" {
		t.Errorf("expected unknown for empty pattern, got %q", got)
	}
	if got := normalizePath("/v1/venues"); got != "/v1/venues" {
		t.Errorf("expected pattern passthrough, got %q", got)
	}
}
