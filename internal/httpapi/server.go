package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"aurorad/internal/manager"
	"aurorad/internal/metrics"
	"aurorad/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Health() types.HealthResponse
	Info() (types.ModelInfoResponse, error)
	Predict(ctx context.Context, inputs [][]float64) ([]float64, error)
	Reload(ctx context.Context) error
}

type server struct {
	svc Service
}

// NewMux builds the router with all routes and middlewares registered.
func NewMux(svc Service, mtx *metrics.Metrics) http.Handler {
	s := &server{svc: svc}

	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	r.Use(metricsMiddleware(mtx))
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", mtx.Handler().ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(requireAPIKey)
		r.Get("/model/info", s.handleModelInfo)
		r.Post("/model/reload", s.handleReload)
		r.Post("/predict", s.handlePredict)
	})

	MountSwagger(r)
	return r
}

// handleHealth reports serving state. It always answers 200; degradation
// shows up in the body only.
//
// @Summary  Service health
// @Produce  json
// @Success  200 {object} types.HealthResponse
// @Router   /health [get]
func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Health())
}

// handleModelInfo returns the loaded model metadata.
//
// @Summary  Model metadata
// @Produce  json
// @Success  200 {object} types.ModelInfoResponse
// @Failure  401 {object} types.ErrorResponse
// @Failure  404 {object} types.ErrorResponse
// @Security ApiKeyAuth
// @Router   /model/info [get]
func (s *server) handleModelInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.svc.Info()
	if err != nil {
		if manager.IsMetadataUnavailable(err) {
			writeJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// handlePredict validates and forwards rows to the loaded model.
//
// @Summary  Run predictions
// @Accept   json
// @Produce  json
// @Param    request body types.PredictRequest true "feature rows"
// @Success  200 {object} types.PredictResponse
// @Failure  400 {object} types.ErrorResponse
// @Failure  401 {object} types.ErrorResponse
// @Failure  500 {object} types.ErrorResponse
// @Failure  503 {object} types.ErrorResponse
// @Security ApiKeyAuth
// @Router   /predict [post]
func (s *server) handlePredict(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req types.PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	start := time.Now()
	// Join server base context with request context so shutdown cancels work too.
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	preds, err := s.svc.Predict(ctx, req.Inputs)
	if err != nil {
		// Client disconnect or shutdown: nothing left to answer.
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			return
		}
		status := predictErrorStatus(err)
		writeJSONError(w, status, err.Error())
		logErr(err, "predict end status=%d dur=%s", status, time.Since(start))
		return
	}
	writeJSON(w, http.StatusOK, types.PredictResponse{Predictions: preds})
	logf("predict end status=200 rows=%d dur=%s", len(req.Inputs), time.Since(start))
}

func predictErrorStatus(err error) int {
	switch {
	case manager.IsNotLoaded(err):
		return http.StatusServiceUnavailable
	case manager.IsValidation(err):
		return http.StatusBadRequest
	default:
		if he, ok := err.(HTTPError); ok {
			return he.StatusCode()
		}
		return http.StatusInternalServerError
	}
}

// handleReload re-runs the load sequence, rolling back on failure.
//
// @Summary  Reload the model from disk
// @Produce  json
// @Success  200 {object} types.ReloadResponse
// @Failure  401 {object} types.ErrorResponse
// @Failure  500 {object} types.ErrorResponse
// @Security ApiKeyAuth
// @Router   /model/reload [post]
func (s *server) handleReload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	if err := s.svc.Reload(ctx); err != nil {
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			return
		}
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, types.ReloadResponse{
		Status:  "reloaded",
		Message: "model reloaded successfully",
	})
}
