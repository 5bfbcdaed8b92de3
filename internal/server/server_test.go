package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/agbru/hardyz/internal/config"
	"github.com/agbru/hardyz/internal/logging"
	"github.com/agbru/hardyz/internal/scan"
	"github.com/agbru/hardyz/internal/service"
	svcmocks "github.com/agbru/hardyz/internal/service/mocks"
	"github.com/agbru/hardyz/internal/store"
	"github.com/agbru/hardyz/internal/zeta"
	"github.com/agbru/hardyz/pkg/models"
)

func quietLogger() logging.Logger {
	return logging.NewLogger(io.Discard, "server")
}

// createTestServer builds a server over mock calculators keyed em and rs.
func createTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	registry := map[string]zeta.Calculator{
		"em": &zeta.MockCalculator{Value: 1.5, MethodKind: zeta.EulerMaclaurin, Label: "Euler-Maclaurin"},
		"rs": &zeta.MockCalculator{Value: -0.25, MethodKind: zeta.RiemannSiegel, Label: "Riemann-Siegel"},
	}
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	s := NewServer(zeta.NewTestFactory(registry), config.AppConfig{Port: "0"}, opts...)
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, http.NoBody))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid JSON %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHandleZ(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedBody   string
	}{
		{"default method", "?t=100", http.StatusOK, `"method":"em"`},
		{"by key", "?t=1000&method=rs", http.StatusOK, `"z":-0.25`},
		{"missing t", "", http.StatusBadRequest, "Missing 't' parameter"},
		{"invalid t", "?t=abc", http.StatusBadRequest, "must be a finite number"},
		{"infinite t", "?t=Inf", http.StatusBadRequest, "must be a finite number"},
		{"above limit", "?t=1e9", http.StatusBadRequest, "limit exceeded"},
		{"unknown method", "?t=1&method=nope", http.StatusBadRequest, "unknown method"},
	}

	s := createTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, "/z"+tt.query)
			if rec.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.expectedStatus, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.expectedBody) {
				t.Errorf("body %q does not contain %q", rec.Body.String(), tt.expectedBody)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
		})
	}
}

func TestHandleZ_Cached(t *testing.T) {
	s := createTestServer(t)
	first := decode[models.ZResponse](t, get(t, s, "/z?t=42"))
	second := decode[models.ZResponse](t, get(t, s, "/z?t=42"))
	if first.Cached || !second.Cached {
		t.Errorf("cached flags = %v, %v; want false, true", first.Cached, second.Cached)
	}
	if second.Z != 1.5 || second.Theta != zeta.Theta(42.0) {
		t.Errorf("unexpected cached response %+v", second)
	}
}

func TestHandleBlock(t *testing.T) {
	s := createTestServer(t)

	rec := get(t, s, "/block?start=10&length=1&points=5&method=rs")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	resp := decode[models.BlockResponse](t, rec)
	if resp.Points != 5 || len(resp.Values) != 5 || resp.Method != "rs" || resp.SignChanges != 0 {
		t.Errorf("unexpected response %+v", resp)
	}

	for _, q := range []string{
		"?length=1&points=5",
		"?start=10&length=1",
		"?start=10&length=1&points=0",
		"?start=10&length=1&points=1000000",
	} {
		if rec := get(t, s, "/block"+q); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, rec.Code)
		}
	}
}

func TestHandleTheta(t *testing.T) {
	s := createTestServer(t)
	resp := decode[models.ThetaResponse](t, get(t, s, "/theta?t=100"))
	if resp.Theta != zeta.Theta(100.0) {
		t.Errorf("theta = %v, want %v", resp.Theta, zeta.Theta(100.0))
	}
	if rec := get(t, s, "/theta?t=1e300"); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleBernoulli(t *testing.T) {
	s := createTestServer(t)
	resp := decode[models.BernoulliResponse](t, get(t, s, "/bernoulli?n=3"))
	want := []float64{1, -0.5, 1.0 / 6}
	if resp.N != 3 || len(resp.Values) != 3 {
		t.Fatalf("unexpected response %+v", resp)
	}
	for i, v := range want {
		if diff := resp.Values[i] - v; diff > 1e-15 || diff < -1e-15 {
			t.Errorf("B_%d = %v, want %v", i, resp.Values[i], v)
		}
	}
	for _, q := range []string{"", "?n=0", "?n=x", "?n=100000"} {
		if rec := get(t, s, "/bernoulli"+q); rec.Code != http.StatusBadRequest {
			t.Errorf("%q: status = %d, want 400", q, rec.Code)
		}
	}
}

func TestHandleGram(t *testing.T) {
	s := createTestServer(t)
	resp := decode[models.GramResponse](t, get(t, s, "/gram?n=2"))
	if len(resp.Points) != 2 || resp.Points[1].Index != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if g := resp.Points[0].T; g < 17.8455 || g > 17.8456 {
		t.Errorf("g_0 = %v", g)
	}
}

func TestHandleZeros(t *testing.T) {
	catalog, err := store.Open(store.InMemoryConfig())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { catalog.Close() })

	s := NewServer(zeta.NewDefaultFactory(), config.AppConfig{Port: "0"}, WithLogger(quietLogger()), WithCatalog(catalog))
	t.Cleanup(s.rateLimiter.Stop)

	rec := get(t, s, "/zeros?from=10&to=30&step=0.05")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	scanned := decode[models.ZerosResponse](t, rec)
	if scanned.Source != "scan" || len(scanned.Zeros) != 3 {
		t.Fatalf("unexpected scan response %+v", scanned)
	}
	if z := scanned.Zeros[0].T; z < 14.1347 || z > 14.1348 {
		t.Errorf("first zero = %v", z)
	}

	stored := decode[models.ZerosResponse](t, get(t, s, "/zeros?from=10&to=20&source=catalog"))
	if stored.Source != "catalog" || len(stored.Zeros) != 1 || stored.Zeros[0].T != scanned.Zeros[0].T {
		t.Errorf("unexpected catalog response %+v", stored)
	}

	for _, q := range []string{"?from=10", "?from=30&to=10", "?from=0&to=1e6", "?from=1&to=2&source=cache", "?from=1&to=2&step=-1", "?from=1000&to=1100&step=1e-7"} {
		if rec := get(t, s, "/zeros"+q); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400 (%s)", q, rec.Code, rec.Body.String())
		}
	}
}

func TestHandleZeros_NoCatalog(t *testing.T) {
	s := createTestServer(t)
	if rec := get(t, s, "/zeros?from=10&to=11&source=catalog"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleMethods(t *testing.T) {
	s := NewServer(zeta.NewDefaultFactory(), config.AppConfig{}, WithLogger(quietLogger()))
	t.Cleanup(s.rateLimiter.Stop)

	resp := decode[models.MethodsResponse](t, get(t, s, "/methods"))
	if len(resp.Methods) != 3 {
		t.Fatalf("got %d methods, want 3", len(resp.Methods))
	}
	defaults := 0
	for _, m := range resp.Methods {
		if m.Default {
			defaults++
			if m.Key != "em" || m.Name != "Euler-Maclaurin" {
				t.Errorf("unexpected default %+v", m)
			}
		}
	}
	if defaults != 1 {
		t.Errorf("%d default methods, want 1", defaults)
	}
}

func TestHandleHealth(t *testing.T) {
	s := createTestServer(t)
	resp := decode[models.HealthResponse](t, get(t, s, "/health"))
	if resp.Status != "healthy" || resp.Timestamp == 0 {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestHandleMetrics(t *testing.T) {
	s := createTestServer(t)
	get(t, s, "/health")
	rec := get(t, s, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "hardyz_requests_total") {
		t.Error("metrics output should contain hardyz_requests_total")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := createTestServer(t)
	for _, path := range []string{"/z", "/block", "/theta", "/bernoulli", "/gram", "/zeros", "/methods", "/health", "/metrics"} {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, http.NoBody))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST %s: status = %d, want 405", path, rec.Code)
		}
	}
}

func TestStatusFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		want int
	}{
		{ParseError{Message: "x", StatusCode: http.StatusBadRequest}, http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", service.ErrLimitExceeded), http.StatusBadRequest},
		{&zeta.UnknownCalculatorError{Name: "x"}, http.StatusBadRequest},
		{zeta.ErrInvalidPoints, http.StatusBadRequest},
		{scan.ErrInvalidOptions, http.StatusBadRequest},
		{service.ErrNoCatalog, http.StatusNotFound},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

// TestWithService routes the handlers to a mocked service.
func TestWithService(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := svcmocks.NewMockService(ctrl)
	svc.EXPECT().Evaluate(gomock.Any(), "os", 5.0).
		Return(service.Evaluation{T: 5, Z: 0.75, Method: zeta.OdlyzkoSchonhage}, nil)
	svc.EXPECT().Evaluate(gomock.Any(), "", 6.0).Return(service.Evaluation{}, errors.New("diverged"))
	svc.EXPECT().Zeros(gomock.Any(), "rs", 1.0, 2.0, 0.0).Return(&scan.Result{Method: zeta.RiemannSiegel, From: 1, To: 2}, nil)

	s := createTestServer(t, WithService(svc))

	resp := decode[models.ZResponse](t, get(t, s, "/z?t=5&method=os"))
	if resp.Z != 0.75 || resp.Method != "os" {
		t.Errorf("unexpected response %+v", resp)
	}
	if rec := get(t, s, "/z?t=6"); rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), "diverged") {
		t.Errorf("service error: status = %d body = %s", rec.Code, rec.Body.String())
	}
	zeros := decode[models.ZerosResponse](t, get(t, s, "/zeros?from=1&to=2&method=rs"))
	if zeros.Method != "rs" || len(zeros.Zeros) != 0 {
		t.Errorf("unexpected zeros response %+v", zeros)
	}
}

func TestWithTimeouts(t *testing.T) {
	timeouts := Timeouts{RequestTimeout: time.Millisecond, ShutdownTimeout: time.Second, ReadTimeout: 2 * time.Second, WriteTimeout: 3 * time.Second, IdleTimeout: 4 * time.Second}
	s := createTestServer(t, WithTimeouts(timeouts))
	if s.timeouts != timeouts {
		t.Errorf("timeouts = %+v", s.timeouts)
	}
	if s.httpServer.ReadTimeout != 2*time.Second || s.httpServer.IdleTimeout != 4*time.Second {
		t.Error("http.Server timeouts not applied")
	}
}

func TestWithMaxT(t *testing.T) {
	s := createTestServer(t, WithMaxT(50))
	if rec := get(t, s, "/z?t=60"); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if rec := get(t, s, "/z?t=40"); rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestServerRateLimiting(t *testing.T) {
	s := createTestServer(t, WithRateLimiter(NewRateLimiter(RateLimiterConfig{RequestsPerMinute: 60, Burst: 2})))
	codes := []int{get(t, s, "/health").Code, get(t, s, "/health").Code, get(t, s, "/health").Code}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}
}

func TestServerConcurrentRequests(t *testing.T) {
	s := createTestServer(t, WithRateLimiter(NewRateLimiter(RateLimiterConfig{RequestsPerMinute: 10_000})))
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Get(fmt.Sprintf("%s/z?t=%d", ts.URL, 10+i))
			if err != nil {
				errs <- err
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				errs <- fmt.Errorf("t=%d: status %d", 10+i, resp.StatusCode)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestServer_Start_GracefulShutdown(t *testing.T) {
	s := createTestServer(t)
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	time.Sleep(50 * time.Millisecond)
	s.shutdownSignal <- os.Interrupt

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Start() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
