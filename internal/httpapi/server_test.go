package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"aurorad/internal/manager"
	"aurorad/internal/metrics"
	"aurorad/pkg/types"
)

type mockService struct {
	health     types.HealthResponse
	info       types.ModelInfoResponse
	infoErr    error
	preds      []float64
	predictErr error
	reloadErr  error
	predicted  int
}

func (m *mockService) Health() types.HealthResponse { return m.health }
func (m *mockService) Info() (types.ModelInfoResponse, error) {
	return m.info, m.infoErr
}
func (m *mockService) Predict(ctx context.Context, inputs [][]float64) ([]float64, error) {
	m.predicted++
	if m.predictErr != nil {
		return nil, m.predictErr
	}
	return m.preds, nil
}
func (m *mockService) Reload(ctx context.Context) error { return m.reloadErr }

func newTestMux(svc Service) http.Handler {
	return NewMux(svc, metrics.New())
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(w, req)
	return w
}

func TestHealthHandler(t *testing.T) {
	svc := &mockService{health: types.HealthResponse{Status: "ok", ModelLoaded: true}}
	r := newTestMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("content-type=%s", ct)
	}
	var body types.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Status != "ok" || !body.ModelLoaded {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestHealthAlways200(t *testing.T) {
	svc := &mockService{health: types.HealthResponse{Status: "degraded"}}
	r := newTestMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestModelInfoHandler(t *testing.T) {
	svc := &mockService{info: types.ModelInfoResponse{Name: "california-housing", Version: "1.0", Features: 8}}
	r := newTestMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/model/info", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.ModelInfoResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Name != "california-housing" || body.Features != 8 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestModelInfoNotFound(t *testing.T) {
	svc := &mockService{}
	svc.infoErr = infoUnavailableErr(t)
	r := newTestMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/model/info", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
}

// infoUnavailableErr obtains the manager's metadata-unavailable error by
// asking a manager with nothing loaded.
func infoUnavailableErr(t *testing.T) error {
	t.Helper()
	m := manager.New(manager.Config{ModelPath: "/nonexistent", MetadataPath: "/nonexistent"}, metrics.New(), zerolog.Nop())
	_, err := m.Info()
	if !manager.IsMetadataUnavailable(err) {
		t.Fatalf("expected metadata unavailable, got %v", err)
	}
	return err
}

func TestPredictSuccess(t *testing.T) {
	svc := &mockService{preds: []float64{4.5}}
	r := newTestMux(svc)
	w := postJSON(t, r, "/predict", `{"inputs":[[1,2,3,4,5,6,7,8]]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var body types.PredictResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Predictions) != 1 || body.Predictions[0] != 4.5 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestPredictBadJSON(t *testing.T) {
	svc := &mockService{}
	r := newTestMux(svc)
	w := postJSON(t, r, "/predict", "not-json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
	if svc.predicted != 0 {
		t.Fatalf("model invoked on bad JSON")
	}
}

func TestPredictMissingContentType(t *testing.T) {
	svc := &mockService{}
	r := newTestMux(svc)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/predict", bytes.NewBufferString(`{"inputs":[[1]]}`))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestPredictErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", manager.ErrValidation("input 0 has 7 features, expected 8"), http.StatusBadRequest},
		{"generic", errors.New("matrix dimension mismatch"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			svc := &mockService{predictErr: c.err}
			r := newTestMux(svc)
			w := postJSON(t, r, "/predict", `{"inputs":[[1,2,3,4,5,6,7]]}`)
			if w.Code != c.want {
				t.Fatalf("status=%d, want %d", w.Code, c.want)
			}
			var body types.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("json: %v", err)
			}
			if body.Error != c.err.Error() || body.Code != c.want {
				t.Fatalf("unexpected body: %+v", body)
			}
		})
	}
}

func TestPredictNotLoadedMaps503(t *testing.T) {
	// A real manager with no model produces the not-loaded error.
	mgr := manager.New(manager.Config{ModelPath: "/nonexistent", MetadataPath: "/nonexistent"}, metrics.New(), zerolog.Nop())
	r := newTestMux(mgr)
	w := postJSON(t, r, "/predict", `{"inputs":[[1,2,3,4,5,6,7,8]]}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestReloadSuccess(t *testing.T) {
	svc := &mockService{}
	r := newTestMux(svc)
	w := postJSON(t, r, "/model/reload", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.ReloadResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Status != "reloaded" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestReloadFailureMaps500(t *testing.T) {
	svc := &mockService{reloadErr: errors.New("failed to reload model: open /m: no such file")}
	r := newTestMux(svc)
	w := postJSON(t, r, "/model/reload", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "failed to reload model") {
		t.Fatalf("body=%s", w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	mtx := metrics.New()
	r := NewMux(&mockService{}, mtx)
	// drive one request through the middleware first
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "aurora_http_requests_total") {
		t.Fatalf("expected aurora_http_requests_total in metrics output")
	}
}
