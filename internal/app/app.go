// Package app wires the pipeline's dependencies together and runs one
// end-to-end analysis pass: ingest, route, analyze, aggregate, export.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/brandpulse/sentiment-pipeline/internal/core/domain"
	"github.com/brandpulse/sentiment-pipeline/internal/core/llm"
	"github.com/brandpulse/sentiment-pipeline/internal/ingest"
	"github.com/brandpulse/sentiment-pipeline/internal/output/export"
	"github.com/brandpulse/sentiment-pipeline/internal/output/report"
	"github.com/brandpulse/sentiment-pipeline/internal/platform/config"
	"github.com/brandpulse/sentiment-pipeline/internal/platform/observability"
	"github.com/brandpulse/sentiment-pipeline/internal/process/analyze"
	"github.com/brandpulse/sentiment-pipeline/internal/process/pipeline"
	"github.com/brandpulse/sentiment-pipeline/internal/process/relevance"
)

// App holds the process-wide dependencies.
type App struct {
	cfg    *config.Config
	logger *zerolog.Logger
}

func New(cfg *config.Config, logger *zerolog.Logger) *App {
	return &App{cfg: cfg, logger: logger}
}

// StartHealthServer serves liveness and metrics endpoints until ctx is done.
func (a *App) StartHealthServer(ctx context.Context) error {
	return observability.NewServer(a.cfg.HealthPort, a.logger).Start(ctx)
}

// Run analyzes the payload at inputPath and writes run artifacts to
// outputDir. A positive limit caps how many extracted items are processed.
func (a *App) Run(ctx context.Context, inputPath, outputDir string, limit int) error {
	doc, err := ingest.Load(inputPath)
	if err != nil {
		return err
	}

	items := ingest.NewExtractor(a.cfg.MinCommentLength, *a.logger).Extract(doc)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	if len(items) == 0 {
		return fmt.Errorf("no analyzable items in %s", inputPath)
	}

	client, err := llm.New(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("llm client: %w", err)
	}

	processed, stats := a.buildPipeline(client).Run(ctx, items)

	if err := ctx.Err(); err != nil {
		return err
	}

	a.logger.Info().
		Int("processed", len(processed)).
		Int("rejected", stats.Rejected).
		Int("auto_accepted", stats.AutoAccepted).
		Int("analyzed", stats.Analyzed).
		Msg("analysis complete")

	return a.export(processed, outputDir)
}

func (a *App) buildPipeline(client llm.Client) *pipeline.Pipeline {
	scorer := relevance.NewScorer(relevance.VocabularyFromConfig(a.cfg))
	router := relevance.NewRouter(scorer, a.cfg.AutoAcceptThreshold, a.cfg.ProductToken, a.logger)

	repairer := analyze.NewRepairer(a.cfg.AnalysisFields)
	prompts := analyze.NewPromptBuilder(a.cfg.BrandToken, a.cfg.AnalysisFields, a.cfg.MaxPromptChars)
	analyzer := analyze.NewAnalyzer(client, prompts, repairer, a.logger)

	orchestrator := analyze.NewOrchestrator(analyzer, a.cfg.LLMMaxWorkers, a.cfg.LLMRequestDelay, a.logger)
	orchestrator.SetProgress(func(completed, total int) {
		a.logger.Info().Int("completed", completed).Int("total", total).Msg("batch progress")
	})

	return pipeline.New(router, orchestrator, repairer, a.logger)
}

func (a *App) export(processed []domain.ProcessedItem, outputDir string) error {
	engine := report.FromConfig(a.cfg)

	summary := engine.Summarize(processed)
	themes := engine.TopThemes(processed)
	fields := engine.FieldDistributions(processed)
	trends := engine.Trends(processed, a.cfg.TrendPeriod)

	writer := export.NewWriter(outputDir, *a.logger)

	return writer.WriteAll(processed, summary, themes, fields, trends)
}
