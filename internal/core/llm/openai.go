package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/brandpulse/sentiment-pipeline/internal/platform/config"
	"github.com/brandpulse/sentiment-pipeline/internal/platform/observability"
)

const openaiRateLimiterBurst = 1

// ErrEmptyCompletion indicates the API returned no choices.
var ErrEmptyCompletion = errors.New("completion contained no choices")

type openaiClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
	retry   RetryPolicy
	logger  *zerolog.Logger
}

// NewOpenAI creates the OpenAI-backed client. A missing key is a
// configuration error raised here, before any batch starts.
func NewOpenAI(cfg *config.Config, logger *zerolog.Logger) (Client, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("openai: %w (set OPENAI_API_KEY)", ErrMissingAPIKey)
	}

	return &openaiClient{
		client:  openai.NewClient(cfg.OpenAIAPIKey),
		model:   cfg.OpenAIModel,
		timeout: cfg.LLMTimeout,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), openaiRateLimiterBurst),
		retry: RetryPolicy{
			MaxAttempts:  cfg.LLMMaxAttempts,
			InitialDelay: cfg.LLMRetryDelay,
			MaxDelay:     cfg.LLMMaxRetryDelay,
		},
		logger: logger,
	}, nil
}

func (c *openaiClient) Name() ProviderName {
	return ProviderOpenAI
}

func (c *openaiClient) Generate(ctx context.Context, prompt string) (any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	var content string

	err := c.retry.Do(ctx, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.client.CreateChatCompletion(attemptCtx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			// go-openai omits a zero temperature from the request body;
			// smallest nonzero keeps decoding effectively deterministic.
			Temperature: math.SmallestNonzeroFloat32,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		})
		if err != nil {
			observability.LLMAttempts.WithLabelValues(string(ProviderOpenAI), observability.OutcomeError).Inc()
			return classifyOpenAIError(err)
		}

		observability.LLMAttempts.WithLabelValues(string(ProviderOpenAI), observability.OutcomeOK).Inc()

		if len(resp.Choices) == 0 {
			return ErrEmptyCompletion
		}

		content = resp.Choices[0].Message.Content

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("openai completion: %w", err)
	}

	c.logger.Debug().Str("content", content).Msg("LLM response")

	return decodeModelOutput(content), nil
}

// classifyOpenAIError maps SDK errors onto the shared retry taxonomy.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &StatusError{Code: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	if errors.Is(err, context.Canceled) {
		return err
	}

	return fmt.Errorf("%w: %w", errTransport, err)
}

var _ Client = (*openaiClient)(nil)
