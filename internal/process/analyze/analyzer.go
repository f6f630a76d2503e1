package analyze

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/brandpulse/sentiment-pipeline/internal/core/domain"
	"github.com/brandpulse/sentiment-pipeline/internal/core/llm"
	"github.com/brandpulse/sentiment-pipeline/internal/platform/observability"
)

// Analyzer runs one (text, context) request through the semantic model and
// schema repair. It is safe for concurrent use.
type Analyzer struct {
	client   llm.Client
	prompts  *PromptBuilder
	repairer *Repairer
	logger   *zerolog.Logger
}

func NewAnalyzer(client llm.Client, prompts *PromptBuilder, repairer *Repairer, logger *zerolog.Logger) *Analyzer {
	return &Analyzer{
		client:   client,
		prompts:  prompts,
		repairer: repairer,
		logger:   logger,
	}
}

// Repairer exposes the analyzer's repairer so callers can build the
// canonical empty result for degraded items.
func (a *Analyzer) Repairer() *Repairer {
	return a.repairer
}

// AnalyzeText produces a fully repaired AnalysisResult for the text. Empty
// or whitespace input short-circuits to the canonical empty result without
// touching the model. The returned error is non-nil only for gateway
// failures; malformed model output is absorbed by repair, never surfaced.
func (a *Analyzer) AnalyzeText(ctx context.Context, text, itemContext string) (domain.AnalysisResult, error) {
	if strings.TrimSpace(text) == "" {
		return a.repairer.EmptyResult(), nil
	}

	start := time.Now()

	prompt := a.prompts.Build(text, itemContext)

	raw, err := a.client.Generate(ctx, prompt)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("llm generate: %w", err)
	}

	observability.AnalysisDuration.Observe(time.Since(start).Seconds())

	return a.repairer.Repair(raw), nil
}
