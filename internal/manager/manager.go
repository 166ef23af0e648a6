package manager

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"aurorad/internal/metrics"
	"aurorad/internal/registry"
	"aurorad/pkg/types"
)

// State represents the model lifecycle state.
type State string

const (
	StateUnloaded State = "unloaded"
	StateLoaded   State = "loaded"
	StateDegraded State = "degraded"
)

// defaultFeatureCount is assumed when metadata is absent or does not
// declare a feature count.
const defaultFeatureCount = 8

// unknownLabel is the metric label used when metadata gives no value.
const unknownLabel = "unknown"

// Config holds the artifact locations the manager loads from.
type Config struct {
	ModelPath    string
	MetadataPath string
}

// Manager owns the single process-wide model reference and its metadata.
// The pair is swapped atomically under mu: readers see either the full old
// snapshot or the full new one, never a half-initialized model.
type Manager struct {
	mu       sync.RWMutex
	state    State
	model    registry.Predictor
	meta     types.ModelMetadata
	loadedAt time.Time

	cfg Config
	mtx *metrics.Metrics
	log zerolog.Logger
}

// New constructs a Manager in the unloaded state. Call Load to run the
// startup sequence.
func New(cfg Config, mtx *metrics.Metrics, log zerolog.Logger) *Manager {
	return &Manager{
		state: StateUnloaded,
		cfg:   cfg,
		mtx:   mtx,
		log:   log,
	}
}

// snapshot is an immutable view of everything a reader needs.
type snapshot struct {
	state    State
	model    registry.Predictor
	meta     types.ModelMetadata
	loadedAt time.Time
}

func (m *Manager) read() snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return snapshot{state: m.state, model: m.model, meta: m.meta, loadedAt: m.loadedAt}
}

func (m *Manager) commit(s snapshot) {
	m.mu.Lock()
	m.state = s.state
	m.model = s.model
	m.meta = s.meta
	m.loadedAt = s.loadedAt
	m.mu.Unlock()
}

// State returns the current lifecycle state.
func (m *Manager) State() State { return m.read().state }

// Load runs the full load sequence: metadata first, then the model
// artifact. Failures are logged and leave the manager degraded rather than
// crashing the process; the error is returned for the caller's benefit.
func (m *Manager) Load() error {
	meta := m.loadMetadata()

	m.log.Info().Str("path", m.cfg.ModelPath).Msg("loading model")
	start := time.Now()
	mdl, err := registry.LoadModel(m.cfg.ModelPath)
	if err != nil {
		m.log.Error().Err(err).Str("path", m.cfg.ModelPath).Msg("failed to load model")
		m.commit(snapshot{state: StateDegraded, meta: meta})
		m.mtx.ModelVersion.WithLabelValues(nameLabel(meta), versionLabel(meta)).Set(0)
		return err
	}

	m.commit(snapshot{state: StateLoaded, model: mdl, meta: meta, loadedAt: time.Now()})
	m.mtx.ModelLoadTime.SetToCurrentTime()
	m.mtx.ModelVersion.WithLabelValues(nameLabel(meta), versionLabel(meta)).Set(1)
	m.log.Info().
		Str("model", nameLabel(meta)).
		Str("version", versionLabel(meta)).
		Dur("load_time", time.Since(start)).
		Msg("model loaded")
	return nil
}

// loadMetadata reads the metadata descriptor. Missing or malformed files
// are non-fatal: the manager continues with empty metadata.
func (m *Manager) loadMetadata() types.ModelMetadata {
	meta, err := registry.LoadMetadata(m.cfg.MetadataPath)
	if err != nil {
		m.log.Warn().Err(err).Str("path", m.cfg.MetadataPath).Msg("model metadata unavailable")
		return types.ModelMetadata{}
	}
	m.log.Info().Str("model", meta.ModelName).Str("version", meta.Version).Msg("loaded model metadata")
	return meta
}

// Reload re-runs the load sequence. On failure the previous model and
// metadata are restored together, so a manager that was serving keeps
// serving the old artifact. Single attempt, no retry loop.
func (m *Manager) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	prev := m.read()
	m.commit(snapshot{state: StateUnloaded})

	if err := m.Load(); err != nil {
		m.commit(prev)
		m.log.Error().Err(err).Msg("reload failed, previous model restored")
		return fmt.Errorf("failed to reload model: %w", err)
	}
	return nil
}

// Predict validates the request shape against the metadata's feature count
// and invokes the loaded model. Every failure path increments the error
// counter before returning.
func (m *Manager) Predict(ctx context.Context, inputs [][]float64) ([]float64, error) {
	s := m.read()
	version := versionLabel(s.meta)

	if s.model == nil {
		m.mtx.RequestsTotal.WithLabelValues("error", version).Inc()
		return nil, notLoadedError{}
	}
	if len(inputs) == 0 {
		m.mtx.RequestsTotal.WithLabelValues("error", version).Inc()
		return nil, ErrValidation("empty input")
	}
	expected := s.meta.FeatureCount
	if expected <= 0 {
		expected = defaultFeatureCount
	}
	for i, row := range inputs {
		if len(row) != expected {
			m.mtx.RequestsTotal.WithLabelValues("error", version).Inc()
			return nil, ErrValidation(fmt.Sprintf("input %d has %d features, expected %d", i, len(row), expected))
		}
	}
	if err := ctx.Err(); err != nil {
		m.mtx.RequestsTotal.WithLabelValues("error", version).Inc()
		return nil, err
	}

	start := time.Now()
	preds, err := s.model.Predict(inputs)
	if err != nil {
		m.mtx.RequestsTotal.WithLabelValues("error", version).Inc()
		return nil, predictionError{cause: err}
	}
	m.mtx.RequestsTotal.WithLabelValues("success", version).Inc()
	m.mtx.RequestLatency.WithLabelValues(version).Observe(time.Since(start).Seconds())
	return preds, nil
}

// Health reports the serving state. It never fails: degradation shows up
// in the body only.
func (m *Manager) Health() types.HealthResponse {
	s := m.read()
	resp := types.HealthResponse{
		Status:         "degraded",
		ModelLoaded:    s.model != nil,
		ModelPath:      m.cfg.ModelPath,
		MetadataLoaded: !s.meta.Empty(),
	}
	if s.model != nil {
		resp.Status = "ok"
	}
	if !s.meta.Empty() {
		resp.ModelName = s.meta.ModelName
		resp.ModelVersion = s.meta.Version
		r2 := s.meta.R2Score
		resp.R2Score = &r2
	}
	return resp
}

// Info returns the loaded metadata, or a metadata-unavailable error when
// none is present.
func (m *Manager) Info() (types.ModelInfoResponse, error) {
	s := m.read()
	if s.meta.Empty() {
		return types.ModelInfoResponse{}, metadataUnavailableError{}
	}
	return types.ModelInfoResponse{
		Name:      s.meta.ModelName,
		Version:   s.meta.Version,
		Algorithm: s.meta.Algorithm,
		R2Score:   s.meta.R2Score,
		TrainedAt: s.meta.TrainedAt,
		Features:  s.meta.FeatureCount,
	}, nil
}

func nameLabel(meta types.ModelMetadata) string {
	if meta.ModelName == "" {
		return unknownLabel
	}
	return meta.ModelName
}

func versionLabel(meta types.ModelMetadata) string {
	if meta.Version == "" {
		return unknownLabel
	}
	return meta.Version
}
