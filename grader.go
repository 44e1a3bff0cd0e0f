package llmgrading

import (
	"context"
	"encoding/json"
	"fmt"
	"image"

	"google.golang.org/genai"

	"github.com/zacharyhorvitz/fk-diffusion-steering/api"
	"github.com/zacharyhorvitz/fk-diffusion-steering/gemini"
	"github.com/zacharyhorvitz/fk-diffusion-steering/inputs"
)

type Score = api.Score
type Grading = api.Grading
type Metric = api.Metric

const (
	MetricAccuracyToPrompt             = api.MetricAccuracyToPrompt
	MetricCreativityAndOriginality     = api.MetricCreativityAndOriginality
	MetricVisualQualityAndRealism      = api.MetricVisualQualityAndRealism
	MetricConsistencyAndCohesion       = api.MetricConsistencyAndCohesion
	MetricEmotionalOrThematicResonance = api.MetricEmotionalOrThematicResonance
	MetricOverallScore                 = api.MetricOverallScore
)

// Metrics returns the recognized metric names in canonical order.
func Metrics() []Metric {
	return api.Metrics()
}

const defaultMaxOutputTokens = 300

// ScoreOptions configures a single grading request.
type ScoreOptions struct {
	// Metric selects which aspect score to return; defaults to MetricOverallScore
	Metric Metric
	// MaxOutputTokens bounds the model response length; defaults to 300
	MaxOutputTokens int32
}

// Grader wraps a multimodal generator and grades text-to-image outputs
// against a fixed six-aspect rubric. Each call is an independent
// request/response cycle; the grader holds no state beyond its
// configuration and is safe to share between goroutines.
type Grader struct {
	generator api.MultimodalGenerator
}

// GraderOptions configures Grader creation
type GraderOptions struct {
	generator api.MultimodalGenerator
}

// WithGenerator sets the multimodal generator for the grader
func WithGenerator(generator api.MultimodalGenerator) func(*GraderOptions) {
	return func(opts *GraderOptions) {
		opts.generator = generator
	}
}

// NewGrader creates a new Grader using functional options.
func NewGrader(opts ...func(*GraderOptions)) *Grader {
	options := &GraderOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return &Grader{generator: options.generator}
}

// GeminiOptions configures Gemini Grader creation
type GeminiOptions struct {
	genaiClient *genai.Client
	modelName   string
}

// WithGenaiClient sets the Gemini client for the grader
func WithGenaiClient(client *genai.Client) func(*GeminiOptions) {
	return func(opts *GeminiOptions) {
		opts.genaiClient = client
	}
}

// WithModelName sets the model name for the grader
func WithModelName(modelName string) func(*GeminiOptions) {
	return func(opts *GeminiOptions) {
		opts.modelName = modelName
	}
}

// NewGeminiGrader creates a Grader backed by a Gemini client and model name.
// Example model: "gemini-2.0-flash".
func NewGeminiGrader(opts ...func(*GeminiOptions)) *Grader {
	options := &GeminiOptions{}
	for _, opt := range opts {
		opt(options)
	}

	var graderOptions []func(*GraderOptions)

	// Only add the generator if a client is provided
	if options.genaiClient != nil && options.modelName != "" {
		graderOptions = append(graderOptions, WithGenerator(gemini.NewGenerator(options.genaiClient, options.modelName)))
	}

	return NewGrader(graderOptions...)
}

// Grade submits the given (prompt, image) pairs as one request and
// returns the full structured grading for each pair, in pair order.
// Pair i is prompts[i] with images[i]; the counts must match.
func (g *Grader) Grade(ctx context.Context, prompts []string, images []image.Image, opts ScoreOptions) ([]Grading, error) {
	if g.generator == nil {
		return nil, fmt.Errorf("multimodal generator is required")
	}
	if len(prompts) != len(images) {
		return nil, fmt.Errorf("prompt/image count mismatch: %d prompts, %d images", len(prompts), len(images))
	}
	if len(prompts) == 0 {
		return nil, fmt.Errorf("at least one (prompt, image) pair is required")
	}

	maxTokens := opts.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxOutputTokens
	}

	// One flat part sequence: pair order is the correspondence contract
	// between input pair i and grading element i.
	var parts []api.Part
	for i := range prompts {
		pairParts, err := inputs.Prepare(prompts[i], images[i])
		if err != nil {
			return nil, fmt.Errorf("pair %d: %w", i, err)
		}
		parts = append(parts, pairParts...)
	}

	cfg := api.GenerateConfig{
		SystemInstruction: verifierPrompt,
		ResponseSchema:    gradingResponseSchema(),
		Seed:              gradingSeed,
		MaxOutputTokens:   maxTokens,
	}

	payload, err := g.generator.GenerateStructured(ctx, parts, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	var gradings []Grading
	if err := json.Unmarshal(payload, &gradings); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(gradings) == 0 {
		return nil, fmt.Errorf("%w: empty grading sequence", ErrMalformedResponse)
	}

	return gradings, nil
}

// Score grades the given pairs and returns the numeric value of the
// requested metric for the first pair, discarding explanations. Callers
// needing rationale or per-pair results should use Grade.
// The metric is validated before any network interaction.
func (g *Grader) Score(ctx context.Context, prompts []string, images []image.Image, opts ScoreOptions) (float64, error) {
	if opts.Metric == "" {
		opts.Metric = MetricOverallScore
	}
	if !validMetric(opts.Metric) {
		return 0, fmt.Errorf("%w: %q (supported: %v)", ErrUnsupportedMetric, string(opts.Metric), Metrics())
	}

	gradings, err := g.Grade(ctx, prompts, images, opts)
	if err != nil {
		return 0, err
	}

	selected, err := gradings[0].Select(opts.Metric)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedMetric, err)
	}
	return selected.Score, nil
}

// ScoreOne is the single-pair convenience form of Score.
func (g *Grader) ScoreOne(ctx context.Context, prompt string, img image.Image, opts ScoreOptions) (float64, error) {
	return g.Score(ctx, []string{prompt}, []image.Image{img}, opts)
}

func validMetric(m Metric) bool {
	switch m {
	case MetricAccuracyToPrompt,
		MetricCreativityAndOriginality,
		MetricVisualQualityAndRealism,
		MetricConsistencyAndCohesion,
		MetricEmotionalOrThematicResonance,
		MetricOverallScore:
		return true
	}
	return false
}
