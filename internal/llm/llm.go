// Package llm wraps the text generation and embedding providers used by the
// legal assistant. Gemini goes through google.golang.org/genai, everything
// OpenAI-compatible (OpenAI, Groq) through go-openai.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// Options tunes one generation call
type Options struct {
	Temperature float32
	TopP        float32
	TopK        int
	MaxTokens   int
}

// Generator produces a completion for a prompt
type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// Embedder turns texts into vectors
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Provider is both a Generator and an Embedder
type Provider interface {
	Generator
	Embedder
}

// Config selects and configures a provider
type Config struct {
	Provider       string // gemini, openai
	APIKey         string
	BaseURL        string
	Model          string
	EmbeddingModel string
}

// New builds the configured provider
func New(ctx context.Context, cfg Config) (Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("llm api key not configured")
	}

	switch strings.ToLower(cfg.Provider) {
	case "", "gemini":
		return NewGemini(ctx, cfg)
	case "openai", "groq":
		return NewOpenAI(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
