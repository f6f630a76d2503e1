// Package llm provides provider-agnostic access to remote language models
// that return structured JSON. Concrete clients differ only in wire shape;
// retry, pacing, and response recovery follow one shared policy.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/brandpulse/sentiment-pipeline/internal/platform/config"
)

// ProviderName identifies an LLM provider.
type ProviderName string

// Provider name constants.
const (
	ProviderOpenAI ProviderName = "openai"
	ProviderGemini ProviderName = "gemini"
	ProviderMock   ProviderName = "mock"
)

// Configuration errors, raised before any request is attempted.
var (
	ErrMissingAPIKey   = errors.New("missing API key")
	ErrUnknownProvider = errors.New("unknown LLM provider")
)

// Client is the provider-agnostic contract for one prompt/response exchange.
// Generate returns the decoded JSON value the model produced: a
// map[string]any when the model behaved, but possibly a slice or a raw
// string when it did not. Callers pass the value through schema repair and
// must not assume a shape.
type Client interface {
	Name() ProviderName
	Generate(ctx context.Context, prompt string) (any, error)
}

// New builds the client selected by cfg.LLMProvider. A missing credential is
// a configuration error here, not a per-request failure.
func New(cfg *config.Config, logger *zerolog.Logger) (Client, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	switch ProviderName(cfg.LLMProvider) {
	case ProviderOpenAI:
		return NewOpenAI(cfg, logger)
	case ProviderGemini:
		return NewGemini(cfg, logger)
	case ProviderMock:
		return NewMock(nil), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.LLMProvider)
	}
}
