package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient implements Provider on the Gemini API
type GeminiClient struct {
	client         *genai.Client
	model          string
	embeddingModel string
}

// NewGemini creates a Gemini provider
func NewGemini(ctx context.Context, cfg Config) (*GeminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiClient{
		client:         client,
		model:          cfg.Model,
		embeddingModel: cfg.EmbeddingModel,
	}, nil
}

// Generate implements Generator
func (g *GeminiClient) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(opts.Temperature),
		TopP:        genai.Ptr(opts.TopP),
	}
	if opts.TopK > 0 {
		config.TopK = genai.Ptr(float32(opts.TopK))
	}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens)
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return result.Text(), nil
}

// Embed implements Embedder
func (g *GeminiClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		resp, err := g.client.Models.EmbedContent(ctx, g.embeddingModel, genai.Text(text), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to generate embedding: %w", err)
		}
		if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
			return nil, fmt.Errorf("received empty embedding from API")
		}
		out = append(out, resp.Embeddings[0].Values)
	}
	return out, nil
}
