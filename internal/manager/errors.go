package manager

// notLoadedError signals a prediction attempt with no model loaded (503).
type notLoadedError struct{}

func (notLoadedError) Error() string { return "model not loaded" }

// IsNotLoaded reports whether err means no model is available.
func IsNotLoaded(err error) bool {
	_, ok := err.(notLoadedError)
	return ok
}

// validationError signals a malformed request shape (400).
type validationError struct{ msg string }

func (e validationError) Error() string { return e.msg }

// ErrValidation constructs a validationError.
func ErrValidation(msg string) error { return validationError{msg: msg} }

// IsValidation reports whether err is a request-shape failure.
func IsValidation(err error) bool {
	_, ok := err.(validationError)
	return ok
}

// metadataUnavailableError signals that no metadata is loaded (404).
type metadataUnavailableError struct{}

func (metadataUnavailableError) Error() string { return "model metadata not available" }

// IsMetadataUnavailable reports whether err means metadata is absent.
func IsMetadataUnavailable(err error) bool {
	_, ok := err.(metadataUnavailableError)
	return ok
}

// predictionError wraps an opaque failure from the model's predict call (500).
type predictionError struct{ cause error }

func (e predictionError) Error() string { return e.cause.Error() }
func (e predictionError) Unwrap() error { return e.cause }

// IsPredictionFailure reports whether err came from the model itself.
func IsPredictionFailure(err error) bool {
	_, ok := err.(predictionError)
	return ok
}
