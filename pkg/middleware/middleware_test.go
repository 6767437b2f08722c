package middleware

import (
	"bufio"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func okHandler(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	})
}

func TestPrometheus_CountsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	handler := Prometheus(WithRegistry(reg))(okHandler(http.StatusTeapot, "short"))

	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
		if rr.Code != http.StatusTeapot {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusTeapot)
		}
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	var sawCounter bool
	for _, mf := range families {
		if mf.GetName() != "lumen_http_requests_total" {
			continue
		}
		sawCounter = true
		for _, m := range mf.GetMetric() {
			var code string
			for _, l := range m.GetLabel() {
				if l.GetName() == "code" {
					code = l.GetValue()
				}
			}
			if code != "418" {
				t.Fatalf("code label = %q, want 418", code)
			}
			if got := m.GetCounter().GetValue(); got != 3 {
				t.Fatalf("requests_total = %v, want 3", got)
			}
		}
	}
	if !sawCounter {
		t.Fatal("lumen_http_requests_total not registered")
	}
}

func TestPrometheus_DefaultStatusIsOK(t *testing.T) {
	reg := prometheus.NewRegistry()
	// Handler writes the body without calling WriteHeader.
	handler := Prometheus(WithRegistry(reg))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("implicit 200"))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	families, _ := reg.Gather()
	for _, mf := range families {
		if mf.GetName() != "lumen_http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "code" && l.GetValue() != "200" {
					t.Fatalf("code label = %q, want 200", l.GetValue())
				}
			}
		}
	}
}

func TestPrometheus_CustomNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	handler := Prometheus(
		WithRegistry(reg),
		WithNamespace("demo"),
		WithSubsystem("web"),
		WithBuckets([]float64{0.1, 1}),
	)(okHandler(http.StatusOK, "ok"))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	families, _ := reg.Gather()
	var found bool
	for _, mf := range families {
		if strings.HasPrefix(mf.GetName(), "demo_web_") {
			found = true
		}
	}
	if !found {
		t.Fatal("metrics with demo_web_ prefix not found")
	}
}

func TestOpenTelemetry_PassesThrough(t *testing.T) {
	// No tracer provider installed: global no-op provider must still pass
	// the request through untouched.
	handler := OpenTelemetry()(okHandler(http.StatusCreated, "made"))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/things", nil))

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusCreated)
	}
	if rr.Body.String() != "made" {
		t.Fatalf("body = %q", rr.Body.String())
	}
}

func TestOpenTelemetry_FilterSkips(t *testing.T) {
	var filtered bool
	handler := OpenTelemetry(
		WithRequestFilter(func(r *http.Request) bool {
			filtered = true
			return false
		}),
	)(okHandler(http.StatusOK, "ok"))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/skip", nil))

	if !filtered {
		t.Fatal("filter was not invoked")
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

// hijackableRecorder simulates a server connection that supports Hijack.
type hijackableRecorder struct {
	*httptest.ResponseRecorder
	hijacked bool
}

func (h *hijackableRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h.hijacked = true
	c, _ := net.Pipe()
	return c, bufio.NewReadWriter(bufio.NewReader(c), bufio.NewWriter(c)), nil
}

func TestPrometheus_PreservesHijacker(t *testing.T) {
	reg := prometheus.NewRegistry()
	handler := Prometheus(WithRegistry(reg))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Fatal("wrapped writer does not implement http.Hijacker")
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			t.Fatalf("Hijack: %v", err)
		}
		conn.Close()
	}))

	rec := &hijackableRecorder{ResponseRecorder: httptest.NewRecorder()}
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if !rec.hijacked {
		t.Fatal("Hijack did not reach the underlying writer")
	}
}

func TestOpenTelemetry_PreservesHijacker(t *testing.T) {
	handler := OpenTelemetry()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := w.(http.Hijacker); !ok {
			t.Fatal("wrapped writer does not implement http.Hijacker")
		}
	}))

	rec := &hijackableRecorder{ResponseRecorder: httptest.NewRecorder()}
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
}
