package registry

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"

	"aurorad/internal/common/fsutil"
	"aurorad/pkg/types"
)

// Predictor is the contract a loaded model artifact satisfies. The handle
// is opaque to callers: it is replaced wholesale on reload, never mutated.
type Predictor interface {
	Predict(rows [][]float64) ([]float64, error)
}

// LinearModel is the on-disk artifact format: a gob-encoded linear
// regression with one coefficient per feature.
type LinearModel struct {
	Algorithm    string
	Coefficients []float64
	Intercept    float64
}

// Predict computes the dot product of each row with the coefficient
// vector plus the intercept.
func (m *LinearModel) Predict(rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(m.Coefficients) {
			return nil, fmt.Errorf("row %d has %d values, model expects %d", i, len(row), len(m.Coefficients))
		}
		v := m.Intercept
		for j, x := range row {
			v += m.Coefficients[j] * x
		}
		out[i] = v
	}
	return out, nil
}

// LoadModel reads and gob-decodes a model artifact from path.
func LoadModel(path string) (Predictor, error) {
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()
	var m LinearModel
	if err := gob.NewDecoder(f).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if len(m.Coefficients) == 0 {
		return nil, fmt.Errorf("decode model: empty coefficient vector")
	}
	return &m, nil
}

// WriteModel gob-encodes a model artifact to path. Used by tooling and
// tests that need to materialize an artifact on disk.
func WriteModel(path string, m *LinearModel) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create model: %w", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(m); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	return nil
}

// LoadMetadata reads and parses the metadata JSON descriptor from path.
// Callers decide whether a missing or malformed file is fatal; here it is
// just an error.
func LoadMetadata(path string) (types.ModelMetadata, error) {
	var meta types.ModelMetadata
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return meta, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return meta, fmt.Errorf("read metadata: %w", err)
	}
	if err := json.Unmarshal(b, &meta); err != nil {
		return meta, fmt.Errorf("parse metadata: %w", err)
	}
	return meta, nil
}
