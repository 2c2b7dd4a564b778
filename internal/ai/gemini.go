package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	DefaultGeminiModel      = "gemini-2.0-flash"
	DefaultGeminiAPIVersion = "v1beta"
)

// Gemini completes prompts through the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini returns a Gemini provider. An empty model uses the default and
// an empty baseURL uses the SDK's endpoint.
func NewGemini(ctx context.Context, apiKey, model, baseURL string) (*Gemini, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("API key required for Gemini provider")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    baseURL,
			APIVersion: DefaultGeminiAPIVersion,
		},
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Name() string {
	return "gemini"
}

func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		// Parsing tasks want the most likely answer.
		&genai.GenerateContentConfig{Temperature: genai.Ptr(float32(0))},
	)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", fmt.Errorf("%w: empty response", ErrBadResponse)
	}
	return out, nil
}
