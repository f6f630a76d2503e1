package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandpulse/sentiment-pipeline/internal/core/domain"
	"github.com/brandpulse/sentiment-pipeline/internal/core/llm"
	"github.com/brandpulse/sentiment-pipeline/internal/process/analyze"
	"github.com/brandpulse/sentiment-pipeline/internal/process/relevance"
)

var pipelineFields = []string{"product_quality", "user_experience"}

func newTestPipeline(t *testing.T, client llm.Client) *Pipeline {
	t.Helper()

	logger := zerolog.Nop()

	vocab := relevance.Vocabulary{
		BrandToken:       "taboola",
		GenericPhrases:   []string{"i realize"},
		StrongIndicators: []string{"taboola widget"},
		RelevantTerms:    []string{"advertising", "publisher"},
		Communities:      map[string]struct{}{"adops": {}},
		MinContentLength: 150,
	}

	router := relevance.NewRouter(relevance.NewScorer(vocab), 0.8, "realize", &logger)

	repairer := analyze.NewRepairer(pipelineFields)
	prompts := analyze.NewPromptBuilder("taboola", pipelineFields, 2000)
	analyzer := analyze.NewAnalyzer(client, prompts, repairer, &logger)
	orchestrator := analyze.NewOrchestrator(analyzer, 2, 0, &logger)

	return New(router, orchestrator, repairer, &logger)
}

func TestPipeline_EndToEnd(t *testing.T) {
	mock := llm.NewMock(nil)
	mock.GenerateFn = func(_ context.Context, prompt string) (any, error) {
		sentiment := "neutral"
		if strings.Contains(prompt, "awful") {
			sentiment = "negative"
		}

		return map[string]any{
			"overall_sentiment": sentiment,
			"reasoning":         "model judgment",
		}, nil
	}

	items := []domain.Item{
		{ID: "a", Body: "cooking tips for beginners"},                    // rejected: no mention
		{ID: "b", Body: "the taboola widget keeps crashing"},             // auto-accepted
		{ID: "c", Body: "taboola advertising is awful for a publisher"},  // analyzed
		{ID: "d", Body: "I realize taboola exists"},                      // rejected: generic phrase
		{ID: "e", Body: "taboola advertising works fine for publishers"}, // analyzed
	}

	p := newTestPipeline(t, mock)

	processed, stats := p.Run(context.Background(), items)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.Rejected)
	assert.Equal(t, 1, stats.AutoAccepted)
	assert.Equal(t, 2, stats.Analyzed)

	require.Len(t, processed, 3)

	// Survivors keep input order.
	assert.Equal(t, "b", processed[0].Item.ID)
	assert.Equal(t, "c", processed[1].Item.ID)
	assert.Equal(t, "e", processed[2].Item.ID)

	// Auto-accepted item bypassed the model and carries filter metadata.
	auto := processed[0]
	require.NotNil(t, auto.Filter)
	assert.True(t, auto.Filter.FilterAutoAccepted)
	assert.InDelta(t, 9.0, auto.Filter.RelevanceScore, 1e-9)
	assert.Equal(t, domain.SentimentNeutral, auto.Analysis.OverallSentiment)
	assert.Contains(t, auto.Analysis.Reasoning, "Auto-accepted by filter")

	// Analyzed items carry model judgments and no filter metadata.
	assert.Nil(t, processed[1].Filter)
	assert.Equal(t, domain.SentimentNegative, processed[1].Analysis.OverallSentiment)
	assert.Equal(t, domain.SentimentNeutral, processed[2].Analysis.OverallSentiment)

	// Exactly one model call per needs-review item.
	assert.Equal(t, int32(2), mock.Calls.Load())
}

func TestPipeline_AllRejected(t *testing.T) {
	mock := llm.NewMock(nil)
	p := newTestPipeline(t, mock)

	processed, stats := p.Run(context.Background(), []domain.Item{
		{ID: "a", Body: "nothing relevant here"},
		{ID: "b", Body: "I realize taboola exists"},
	})

	assert.Empty(t, processed)
	assert.Equal(t, 2, stats.Rejected)
	assert.Zero(t, mock.Calls.Load())
}

func TestPipeline_ItemFailureDegrades(t *testing.T) {
	mock := llm.NewMock(nil)
	mock.GenerateFn = func(_ context.Context, prompt string) (any, error) {
		if strings.Contains(prompt, "poison") {
			return nil, assert.AnError
		}

		return map[string]any{"overall_sentiment": "positive"}, nil
	}

	p := newTestPipeline(t, mock)

	processed, _ := p.Run(context.Background(), []domain.Item{
		{ID: "a", Body: "taboola advertising poison for a publisher"},
		{ID: "b", Body: "taboola advertising helps a publisher"},
	})

	require.Len(t, processed, 2)
	assert.Equal(t, domain.SentimentNeutral, processed[0].Analysis.OverallSentiment)
	assert.Equal(t, "Empty or invalid text", processed[0].Analysis.Reasoning)
	assert.Equal(t, domain.SentimentPositive, processed[1].Analysis.OverallSentiment)
}
