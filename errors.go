package llmgrading

import (
	"errors"

	"github.com/zacharyhorvitz/fk-diffusion-steering/gemini"
	"github.com/zacharyhorvitz/fk-diffusion-steering/inputs"
)

var (
	// ErrUnsupportedMetric is returned when a requested metric is not in the recognized set
	ErrUnsupportedMetric = errors.New("unsupported metric")
	// ErrGenerationFailed is returned when the scoring model request fails
	ErrGenerationFailed = errors.New("grading generation failed")
	// ErrMalformedResponse is returned when the structured payload does not parse or is empty
	ErrMalformedResponse = errors.New("malformed grading response")
)

// ErrInvalidImage is returned when an image cannot be decoded or re-encoded
var ErrInvalidImage = inputs.ErrInvalidImage

// ErrMissingAPIKey is returned when the credential environment variable is absent at construction
var ErrMissingAPIKey = gemini.ErrMissingAPIKey
