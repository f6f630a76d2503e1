package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/brandpulse/sentiment-pipeline/internal/platform/config"
	"github.com/brandpulse/sentiment-pipeline/internal/platform/observability"
)

const (
	geminiRateLimiterBurst = 1
	geminiTemperature      = 0.0
	maxErrorBodyBytes      = 200
)

type geminiClient struct {
	httpClient *http.Client
	apiKey     string
	model      string
	endpoint   string
	maxTokens  int
	limiter    *rate.Limiter
	retry      RetryPolicy
	logger     *zerolog.Logger
}

// NewGemini creates the Gemini-backed client speaking the generateContent
// REST shape directly.
func NewGemini(cfg *config.Config, logger *zerolog.Logger) (Client, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("gemini: %w (set GEMINI_API_KEY)", ErrMissingAPIKey)
	}

	return &geminiClient{
		httpClient: &http.Client{Timeout: cfg.LLMTimeout},
		apiKey:     cfg.GeminiAPIKey,
		model:      cfg.GeminiModel,
		endpoint:   cfg.GeminiEndpoint,
		maxTokens:  cfg.LLMMaxTokens,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), geminiRateLimiterBurst),
		retry: RetryPolicy{
			MaxAttempts:  cfg.LLMMaxAttempts,
			InitialDelay: cfg.LLMRetryDelay,
			MaxDelay:     cfg.LLMMaxRetryDelay,
		},
		logger: logger,
	}, nil
}

func (c *geminiClient) Name() ProviderName {
	return ProviderGemini
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType"`
}

func (c *geminiClient) Generate(ctx context.Context, prompt string) (any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:      geminiTemperature,
			MaxOutputTokens:  c.maxTokens,
			ResponseMimeType: "application/json",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling gemini request: %w", err)
	}

	var text string

	err = c.retry.Do(ctx, func(ctx context.Context) error {
		raw, attemptErr := c.post(ctx, body)
		if attemptErr != nil {
			observability.LLMAttempts.WithLabelValues(string(ProviderGemini), observability.OutcomeError).Inc()
			return attemptErr
		}

		observability.LLMAttempts.WithLabelValues(string(ProviderGemini), observability.OutcomeOK).Inc()

		text = extractGeminiText(raw)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	c.logger.Debug().Str("content", text).Msg("LLM response")

	return decodeModelOutput(text), nil
}

// post performs one attempt and classifies the outcome for the retry policy.
func (c *geminiClient) post(ctx context.Context, body []byte) ([]byte, error) {
	url := fmt.Sprintf(c.endpoint, c.model) + "?key=" + c.apiKey

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building gemini request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errTransport, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", errTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Body: truncate(string(payload), maxErrorBodyBytes)}
	}

	return payload, nil
}

// geminiResponse mirrors the parts of a generateContent response we consume.
// Content is kept raw because the API has returned both an object with a
// parts list and a bare parts array in the wild.
type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content json.RawMessage `json:"content"`
	Text    string          `json:"text"`
}

type geminiResponsePart struct {
	Text         string          `json:"text"`
	JSON         json.RawMessage `json:"json"`
	FunctionCall *struct {
		Args json.RawMessage `json:"args"`
	} `json:"functionCall"`
}

// extractGeminiText digs the generated text out of the response, falling
// back through the known shapes and finally to an empty string. Parsing
// failures here are not errors: schema repair owns malformed output.
func extractGeminiText(raw []byte) string {
	var resp geminiResponse
	if err := json.Unmarshal(raw, &resp); err != nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]

	if text := extractFromParts(candidate.Content); text != "" {
		return text
	}

	return candidate.Text
}

func extractFromParts(content json.RawMessage) string {
	if len(content) == 0 {
		return ""
	}

	var parts []geminiResponsePart

	var wrapper struct {
		Parts []geminiResponsePart `json:"parts"`
	}

	if err := json.Unmarshal(content, &wrapper); err == nil && len(wrapper.Parts) > 0 {
		parts = wrapper.Parts
	} else if err := json.Unmarshal(content, &parts); err != nil {
		return ""
	}

	if len(parts) == 0 {
		return ""
	}

	first := parts[0]

	switch {
	case first.Text != "":
		return first.Text
	case len(first.JSON) > 0:
		return string(first.JSON)
	case first.FunctionCall != nil && len(first.FunctionCall.Args) > 0:
		return string(first.FunctionCall.Args)
	default:
		return ""
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return strings.TrimSpace(s[:n])
}

var _ Client = (*geminiClient)(nil)
