package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"

	"google.golang.org/genai"

	"github.com/zacharyhorvitz/fk-diffusion-steering/api"
)

// ErrMissingAPIKey is returned by ClientFromEnv when GEMINI_API_KEY is not set
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// DefaultModel is the scoring model used when no other is configured.
const DefaultModel = "gemini-2.0-flash"

// ClientFromEnv constructs a Gemini API client from the GEMINI_API_KEY
// environment variable. A missing key is a configuration error surfaced
// here, at construction, rather than on the first request.
func ClientFromEnv(ctx context.Context) (*genai.Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	return genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
}

// Generator wraps a genai.Client to implement the MultimodalGenerator interface
type Generator struct {
	client    *genai.Client
	modelName string
}

// NewGenerator creates a new Gemini generator
// client: genai.Client from google.golang.org/genai
// modelName: the model to use (e.g., "gemini-2.0-flash")
func NewGenerator(client *genai.Client, modelName string) *Generator {
	return &Generator{
		client:    client,
		modelName: modelName,
	}
}

// GenerateStructured implements MultimodalGenerator.GenerateStructured.
// All parts are sent as a single user-role content; the response is the
// raw JSON payload constrained by cfg.ResponseSchema.
func (g *Generator) GenerateStructured(ctx context.Context, parts []api.Part, cfg api.GenerateConfig) ([]byte, error) {
	genaiParts := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if len(p.Data) > 0 {
			genaiParts = append(genaiParts, genai.NewPartFromBytes(p.Data, p.MIMEType))
			continue
		}
		genaiParts = append(genaiParts, &genai.Part{Text: p.Text})
	}

	content := &genai.Content{
		Role:  genai.RoleUser,
		Parts: genaiParts,
	}

	seed := cfg.Seed
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Seed:             &seed,
		MaxOutputTokens:  cfg.MaxOutputTokens,
	}
	if cfg.SystemInstruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: cfg.SystemInstruction}},
		}
	}
	if cfg.ResponseSchema != nil {
		config.ResponseJsonSchema = cfg.ResponseSchema
	}

	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.modelName,
		[]*genai.Content{content},
		config,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates returned")
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("no text in response")
	}

	return []byte(text), nil
}

// Verify that Generator implements MultimodalGenerator
var _ api.MultimodalGenerator = (*Generator)(nil)
