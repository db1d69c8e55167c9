package models

import "errors"

// Completion failure taxonomy shared by all provider implementations. These
// live here rather than in internal/ai so that provider subpackages can wrap
// them without importing the package that constructs providers.
var (
	ErrProviderUnavailable = errors.New("ai provider unavailable")
	ErrInferenceTimeout    = errors.New("ai inference timeout")
	ErrUpstreamStatus      = errors.New("ai provider returned error status")
	ErrInvalidResponse     = errors.New("ai provider returned invalid response")
)
