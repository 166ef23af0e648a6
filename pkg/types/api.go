package types

// PredictRequest is the payload for POST /predict.
type PredictRequest struct {
	// Rows of feature values. Every row must have exactly the feature
	// count declared by the model metadata.
	// example: [[8.3252,41,6.9841,1.0238,322,2.5556,37.88,-122.23]]
	Inputs [][]float64 `json:"inputs"`
}

// PredictResponse wraps the predictions returned by POST /predict.
type PredictResponse struct {
	// One predicted value per input row, in order.
	// example: [4.526]
	Predictions []float64 `json:"predictions"`
}

// HealthResponse is returned by GET /health. It always carries HTTP 200;
// degradation is reported in the body, not the status code.
type HealthResponse struct {
	// "ok" when a model is loaded, "degraded" otherwise.
	// example: ok
	Status string `json:"status" example:"ok"`
	// Whether a model artifact is currently loaded.
	// example: true
	ModelLoaded bool `json:"model_loaded" example:"true"`
	// Configured path of the model artifact.
	// example: /models/california-housing/latest/model.bin
	ModelPath string `json:"model_path" example:"/models/california-housing/latest/model.bin"`
	// Whether model metadata was loaded.
	// example: true
	MetadataLoaded bool `json:"metadata_loaded" example:"true"`
	// Metadata fields, present only when metadata was loaded.
	ModelName    string   `json:"model_name,omitempty" example:"california-housing"`
	ModelVersion string   `json:"model_version,omitempty" example:"1.0"`
	R2Score      *float64 `json:"r2_score,omitempty" example:"0.82"`
}

// ModelInfoResponse is returned by GET /model/info.
type ModelInfoResponse struct {
	// example: california-housing
	Name string `json:"name" example:"california-housing"`
	// example: 1.0
	Version string `json:"version" example:"1.0"`
	// example: gradient-boosting
	Algorithm string `json:"algorithm" example:"gradient-boosting"`
	// example: 0.82
	R2Score float64 `json:"r2_score" example:"0.82"`
	// example: 2024-05-01T12:00:00Z
	TrainedAt string `json:"trained_at" example:"2024-05-01T12:00:00Z"`
	// example: 8
	Features int `json:"features" example:"8"`
}

// ReloadResponse is returned by a successful POST /model/reload.
type ReloadResponse struct {
	// example: reloaded
	Status string `json:"status" example:"reloaded"`
	// example: model reloaded successfully
	Message string `json:"message" example:"model reloaded successfully"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: model not loaded
	Error string `json:"error" example:"model not loaded"`
	// HTTP status code.
	// example: 503
	Code int `json:"code" example:"503"`
}
