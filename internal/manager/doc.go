// Package manager owns the model lifecycle: loading the artifact and its
// metadata, atomic replacement on reload with rollback, and prediction with
// request-shape validation and metric accounting. It is structured into
// small files by concern:
//
//   - manager.go: Manager type, load/reload/predict/health/info.
//   - errors.go: error types and helpers (IsNotLoaded, IsValidation, ...).
//
// External packages should use public methods only (New, Load, Reload,
// Predict, Health, Info, State). Internal types are subject to change.
package manager
