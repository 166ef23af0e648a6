package types

// ModelMetadata is the descriptor stored alongside a trained model artifact.
// It is loaded wholesale from a JSON file; absent fields stay zero-valued.
type ModelMetadata struct {
	// Model name as recorded by the training pipeline.
	// example: california-housing
	ModelName string `json:"model_name" example:"california-housing"`
	// Model version string.
	// example: 1.0
	Version string `json:"version" example:"1.0"`
	// Training algorithm identifier.
	// example: gradient-boosting
	Algorithm string `json:"algorithm" example:"gradient-boosting"`
	// R² score on the holdout set.
	// example: 0.82
	R2Score float64 `json:"r2_score" example:"0.82"`
	// Timestamp (free-form string) of the training run.
	// example: 2024-05-01T12:00:00Z
	TrainedAt string `json:"trained_at" example:"2024-05-01T12:00:00Z"`
	// Number of input features per prediction row.
	// example: 8
	FeatureCount int `json:"feature_count" example:"8"`
}

// Empty reports whether no metadata fields were populated.
func (m ModelMetadata) Empty() bool {
	return m == ModelMetadata{}
}
