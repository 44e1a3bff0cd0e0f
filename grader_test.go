package llmgrading

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"github.com/zacharyhorvitz/fk-diffusion-steering/api"
)

// mockGenerator is a simple mock for unit tests. It records every
// request so tests can assert on the grading protocol without any
// network interaction.
type mockGenerator struct {
	response string
	err      error

	calls     int
	lastParts []api.Part
	lastCfg   api.GenerateConfig
}

func (m *mockGenerator) GenerateStructured(ctx context.Context, parts []api.Part, cfg api.GenerateConfig) ([]byte, error) {
	m.calls++
	m.lastParts = parts
	m.lastCfg = cfg
	if m.err != nil {
		return nil, m.err
	}
	return []byte(m.response), nil
}

// gradingJSON renders one grading object with the given aspect scores.
// Aspects not present in scores default to 5.0.
func gradingJSON(scores map[Metric]float64) string {
	fields := make([]string, 0, len(api.Metrics()))
	for _, m := range api.Metrics() {
		v, ok := scores[m]
		if !ok {
			v = 5.0
		}
		fields = append(fields, fmt.Sprintf(`%q: {"score": %v, "explanation": "because"}`, string(m), v))
	}
	return "{" + strings.Join(fields, ", ") + "}"
}

// redCircleImage draws a red circle on a white background, the canonical
// test subject for the prompt "a red circle on white background".
func redCircleImage(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	cx, cy, r := size/2, size/2, size/3
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				img.Set(x, y, color.RGBA{R: 255, A: 255})
			}
		}
	}
	return img
}

func TestScore_Unit(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		response  string
		genErr    error
		metric    Metric
		wantScore float64
		wantErr   error
	}{
		{
			name:      "accuracy metric",
			response:  "[" + gradingJSON(map[Metric]float64{MetricAccuracyToPrompt: 9.0}) + "]",
			metric:    MetricAccuracyToPrompt,
			wantScore: 9.0,
		},
		{
			name:      "default metric is overall score",
			response:  "[" + gradingJSON(map[Metric]float64{MetricOverallScore: 7.5}) + "]",
			metric:    "",
			wantScore: 7.5,
		},
		{
			name:      "explicit overall score",
			response:  "[" + gradingJSON(map[Metric]float64{MetricOverallScore: 7.5, MetricAccuracyToPrompt: 2.0}) + "]",
			metric:    MetricOverallScore,
			wantScore: 7.5,
		},
		{
			name:     "unsupported metric",
			response: "[" + gradingJSON(nil) + "]",
			metric:   "prettiness",
			wantErr:  ErrUnsupportedMetric,
		},
		{
			name:     "empty grading sequence",
			response: "[]",
			metric:   MetricOverallScore,
			wantErr:  ErrMalformedResponse,
		},
		{
			name:     "invalid JSON payload",
			response: "not json at all",
			metric:   MetricOverallScore,
			wantErr:  ErrMalformedResponse,
		},
		{
			name:    "transport failure",
			genErr:  fmt.Errorf("connection reset"),
			metric:  MetricOverallScore,
			wantErr: ErrGenerationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockGenerator{response: tt.response, err: tt.genErr}
			grader := NewGrader(WithGenerator(mock))

			got, err := grader.ScoreOne(ctx, "a red circle on white background", redCircleImage(32), ScoreOptions{Metric: tt.metric})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Score() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Score() unexpected error = %v", err)
			}
			if got != tt.wantScore {
				t.Errorf("Score() = %v, want %v", got, tt.wantScore)
			}
		})
	}
}

func TestScore_AllMetrics(t *testing.T) {
	ctx := context.Background()

	scores := map[Metric]float64{
		MetricAccuracyToPrompt:             9.0,
		MetricCreativityAndOriginality:     3.5,
		MetricVisualQualityAndRealism:      8.0,
		MetricConsistencyAndCohesion:       7.0,
		MetricEmotionalOrThematicResonance: 4.5,
		MetricOverallScore:                 6.5,
	}
	mock := &mockGenerator{response: "[" + gradingJSON(scores) + "]"}
	grader := NewGrader(WithGenerator(mock))

	for _, metric := range Metrics() {
		got, err := grader.ScoreOne(ctx, "a red circle on white background", redCircleImage(32), ScoreOptions{Metric: metric})
		if err != nil {
			t.Fatalf("Score(%s) unexpected error = %v", metric, err)
		}
		if got != scores[metric] {
			t.Errorf("Score(%s) = %v, want %v", metric, got, scores[metric])
		}
		if got < 0 || got > 10 {
			t.Errorf("Score(%s) = %v, out of [0, 10]", metric, got)
		}
	}
}

func TestScore_UnsupportedMetricSkipsNetwork(t *testing.T) {
	ctx := context.Background()

	mock := &mockGenerator{response: "[" + gradingJSON(nil) + "]"}
	grader := NewGrader(WithGenerator(mock))

	_, err := grader.ScoreOne(ctx, "prompt", redCircleImage(16), ScoreOptions{Metric: "sparkle"})
	if !errors.Is(err, ErrUnsupportedMetric) {
		t.Fatalf("Score() error = %v, want %v", err, ErrUnsupportedMetric)
	}
	if mock.calls != 0 {
		t.Errorf("generator called %d times before metric validation, want 0", mock.calls)
	}

	// The message carries both the offending name and the recognized set
	msg := err.Error()
	if !strings.Contains(msg, "sparkle") {
		t.Errorf("error %q does not name the offending metric", msg)
	}
	if !strings.Contains(msg, string(MetricOverallScore)) {
		t.Errorf("error %q does not list the recognized set", msg)
	}
}

func TestScore_Idempotent(t *testing.T) {
	ctx := context.Background()

	mock := &mockGenerator{response: "[" + gradingJSON(map[Metric]float64{MetricOverallScore: 6.25}) + "]"}
	grader := NewGrader(WithGenerator(mock))

	first, err := grader.ScoreOne(ctx, "a red circle on white background", redCircleImage(32), ScoreOptions{})
	if err != nil {
		t.Fatalf("first Score() unexpected error = %v", err)
	}
	second, err := grader.ScoreOne(ctx, "a red circle on white background", redCircleImage(32), ScoreOptions{})
	if err != nil {
		t.Fatalf("second Score() unexpected error = %v", err)
	}
	if first != second {
		t.Errorf("Score() not idempotent: %v then %v", first, second)
	}
	if mock.calls != 2 {
		t.Errorf("generator calls = %d, want 2 (no caching)", mock.calls)
	}
}

func TestScore_RequestShape(t *testing.T) {
	ctx := context.Background()

	mock := &mockGenerator{response: "[" + gradingJSON(nil) + "]"}
	grader := NewGrader(WithGenerator(mock))

	if _, err := grader.ScoreOne(ctx, "a red circle on white background", redCircleImage(16), ScoreOptions{}); err != nil {
		t.Fatalf("Score() unexpected error = %v", err)
	}

	if len(mock.lastParts) != 2 {
		t.Fatalf("parts = %d, want 2 (text then image)", len(mock.lastParts))
	}
	if mock.lastParts[0].Text != "a red circle on white background" {
		t.Errorf("first part is not the prompt text: %+v", mock.lastParts[0])
	}
	if mock.lastParts[1].MIMEType != "image/png" || len(mock.lastParts[1].Data) == 0 {
		t.Errorf("second part is not PNG image bytes: mime=%q len=%d", mock.lastParts[1].MIMEType, len(mock.lastParts[1].Data))
	}

	cfg := mock.lastCfg
	if cfg.SystemInstruction == "" {
		t.Error("system instruction missing from generation config")
	}
	if cfg.Seed != 1994 {
		t.Errorf("seed = %d, want 1994", cfg.Seed)
	}
	if cfg.MaxOutputTokens != 300 {
		t.Errorf("default MaxOutputTokens = %d, want 300", cfg.MaxOutputTokens)
	}
	if cfg.ResponseSchema == nil {
		t.Error("response schema missing from generation config")
	}

	// Explicit token budget is threaded through
	if _, err := grader.ScoreOne(ctx, "prompt", redCircleImage(16), ScoreOptions{MaxOutputTokens: 1024}); err != nil {
		t.Fatalf("Score() unexpected error = %v", err)
	}
	if mock.lastCfg.MaxOutputTokens != 1024 {
		t.Errorf("MaxOutputTokens = %d, want 1024", mock.lastCfg.MaxOutputTokens)
	}
}

func TestGrade_Batch(t *testing.T) {
	ctx := context.Background()

	response := "[" +
		gradingJSON(map[Metric]float64{MetricOverallScore: 8.0}) + ", " +
		gradingJSON(map[Metric]float64{MetricOverallScore: 3.0}) +
		"]"
	mock := &mockGenerator{response: response}
	grader := NewGrader(WithGenerator(mock))

	prompts := []string{"a red circle on white background", "a blue square on black background"}
	images := []image.Image{redCircleImage(16), redCircleImage(16)}

	gradings, err := grader.Grade(ctx, prompts, images, ScoreOptions{})
	if err != nil {
		t.Fatalf("Grade() unexpected error = %v", err)
	}
	if len(gradings) != 2 {
		t.Fatalf("Grade() returned %d gradings, want 2", len(gradings))
	}
	if gradings[0].OverallScore.Score != 8.0 || gradings[1].OverallScore.Score != 3.0 {
		t.Errorf("Grade() pair order not preserved: %v, %v", gradings[0].OverallScore.Score, gradings[1].OverallScore.Score)
	}
	if gradings[0].OverallScore.Explanation == "" {
		t.Error("Grade() dropped the explanation text")
	}

	// Parts arrive as one flat sequence in pair order: text, image, text, image
	if len(mock.lastParts) != 4 {
		t.Fatalf("parts = %d, want 4", len(mock.lastParts))
	}
	if mock.lastParts[0].Text != prompts[0] || mock.lastParts[2].Text != prompts[1] {
		t.Error("prompt parts out of pair order")
	}
	if len(mock.lastParts[1].Data) == 0 || len(mock.lastParts[3].Data) == 0 {
		t.Error("image parts missing encoded bytes")
	}

	// Score consumes element 0 of the batch
	score, err := grader.Score(ctx, prompts, images, ScoreOptions{})
	if err != nil {
		t.Fatalf("Score() unexpected error = %v", err)
	}
	if score != 8.0 {
		t.Errorf("Score() = %v, want first pair's overall 8.0", score)
	}
}

func TestGrade_InputValidation(t *testing.T) {
	ctx := context.Background()
	mock := &mockGenerator{response: "[" + gradingJSON(nil) + "]"}

	tests := []struct {
		name    string
		grader  *Grader
		prompts []string
		images  []image.Image
	}{
		{
			name:    "no generator",
			grader:  NewGrader(),
			prompts: []string{"p"},
			images:  []image.Image{redCircleImage(8)},
		},
		{
			name:    "count mismatch",
			grader:  NewGrader(WithGenerator(mock)),
			prompts: []string{"p", "q"},
			images:  []image.Image{redCircleImage(8)},
		},
		{
			name:    "no pairs",
			grader:  NewGrader(WithGenerator(mock)),
			prompts: nil,
			images:  nil,
		},
		{
			name:    "nil image",
			grader:  NewGrader(WithGenerator(mock)),
			prompts: []string{"p"},
			images:  []image.Image{nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.grader.Grade(ctx, tt.prompts, tt.images, ScoreOptions{}); err == nil {
				t.Error("Grade() expected error but got none")
			}
		})
	}
}

func TestGrade_InvalidImageError(t *testing.T) {
	ctx := context.Background()
	mock := &mockGenerator{response: "[" + gradingJSON(nil) + "]"}
	grader := NewGrader(WithGenerator(mock))

	_, err := grader.Grade(ctx, []string{"p"}, []image.Image{nil}, ScoreOptions{})
	if !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("Grade() error = %v, want %v", err, ErrInvalidImage)
	}
	if mock.calls != 0 {
		t.Errorf("generator called %d times for an unencodable pair, want 0", mock.calls)
	}
}
