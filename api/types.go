package api

import (
	"context"
	"fmt"
)

// Score is one aspect assessment produced by the scoring model.
// The explanation is the model's short justification for the value.
type Score struct {
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

// Grading is the structured result for one (prompt, image) pair.
// The shape is closed: exactly these six aspects, enforced by the
// response schema on the model side and by this struct on ours.
type Grading struct {
	AccuracyToPrompt             Score `json:"accuracy_to_prompt"`
	CreativityAndOriginality     Score `json:"creativity_and_originality"`
	VisualQualityAndRealism      Score `json:"visual_quality_and_realism"`
	ConsistencyAndCohesion       Score `json:"consistency_and_cohesion"`
	EmotionalOrThematicResonance Score `json:"emotional_or_thematic_resonance"`
	OverallScore                 Score `json:"overall_score"`
}

// Metric names one of the six graded aspects.
type Metric string

const (
	MetricAccuracyToPrompt             Metric = "accuracy_to_prompt"
	MetricCreativityAndOriginality     Metric = "creativity_and_originality"
	MetricVisualQualityAndRealism      Metric = "visual_quality_and_realism"
	MetricConsistencyAndCohesion       Metric = "consistency_and_cohesion"
	MetricEmotionalOrThematicResonance Metric = "emotional_or_thematic_resonance"
	MetricOverallScore                 Metric = "overall_score"
)

// Metrics returns the recognized metric names in canonical order.
// The returned slice is a fresh copy and safe to modify.
func Metrics() []Metric {
	return []Metric{
		MetricAccuracyToPrompt,
		MetricCreativityAndOriginality,
		MetricVisualQualityAndRealism,
		MetricConsistencyAndCohesion,
		MetricEmotionalOrThematicResonance,
		MetricOverallScore,
	}
}

// Select returns the Score for the given metric.
// The switch is exhaustive over the Metric constants; unknown names
// are rejected here rather than silently mapped to a zero value.
func (g Grading) Select(m Metric) (Score, error) {
	switch m {
	case MetricAccuracyToPrompt:
		return g.AccuracyToPrompt, nil
	case MetricCreativityAndOriginality:
		return g.CreativityAndOriginality, nil
	case MetricVisualQualityAndRealism:
		return g.VisualQualityAndRealism, nil
	case MetricConsistencyAndCohesion:
		return g.ConsistencyAndCohesion, nil
	case MetricEmotionalOrThematicResonance:
		return g.EmotionalOrThematicResonance, nil
	case MetricOverallScore:
		return g.OverallScore, nil
	default:
		return Score{}, fmt.Errorf("unknown metric %q", string(m))
	}
}

// Part is one typed unit of multimodal request content: either text
// or raw bytes with a mime type. Exactly one of the two forms is set.
type Part struct {
	Text     string
	Data     []byte
	MIMEType string
}

// GenerateConfig carries the fixed generation configuration for a
// structured grading request.
type GenerateConfig struct {
	// SystemInstruction is the grading rubric given to the model.
	SystemInstruction string
	// ResponseSchema is a JSON schema the response must conform to.
	ResponseSchema map[string]any
	// Seed reduces response nondeterminism across identical requests.
	Seed int32
	// MaxOutputTokens bounds the length of the generated response.
	MaxOutputTokens int32
}

// MultimodalGenerator is an interface for structured generation over
// multimodal content
// This interface must be implemented by library consumers
// A Gemini implementation is provided in the gemini subpackage
type MultimodalGenerator interface {
	// GenerateStructured sends the ordered parts as a single user-role
	// message and returns the raw schema-constrained JSON payload
	GenerateStructured(ctx context.Context, parts []Part, cfg GenerateConfig) ([]byte, error)
}

// ModerationCategories contains all supported moderation category names
// These are developer-friendly names that map to Google Cloud Natural Language API categories
var ModerationCategories []string = []string{
	"Toxic",
	"Derogatory",
	"Violent",
	"Sexual",
	"Insult",
	"Profanity",
	"DeathHarmTragedy",
	"FirearmsWeapons",
	"PublicSafety",
	"Health",
	"ReligionBelief",
	"IllicitDrugs",
	"WarConflict",
	"Finance",
	"Politics",
	"Legal",
}

// ModerationCategory represents a safety category with confidence score
type ModerationCategory struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// ModerationResult represents the result of content moderation
type ModerationResult struct {
	Categories []ModerationCategory `json:"categories"`
}

// ModerationProvider is an interface for content moderation
// This interface must be implemented by library consumers
// A Google Cloud Natural Language implementation is provided in the gemini subpackage
type ModerationProvider interface {
	// Moderate analyzes content for safety and returns moderation results
	// Returns the moderation result or an error
	Moderate(ctx context.Context, content string) (*ModerationResult, error)
}
