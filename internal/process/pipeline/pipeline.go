// Package pipeline drives items through staged relevance routing and
// semantic analysis, producing the merged processed stream.
package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/brandpulse/sentiment-pipeline/internal/core/domain"
	"github.com/brandpulse/sentiment-pipeline/internal/process/analyze"
	"github.com/brandpulse/sentiment-pipeline/internal/process/relevance"
)

// Stats summarizes one run's routing and analysis volume.
type Stats struct {
	Total        int
	Rejected     int
	AutoAccepted int
	Analyzed     int
}

// Pipeline composes the heuristic router with the batch analyzer. Rejected
// items are dropped; auto-accepted items carry a synthetic analysis plus
// filter metadata; everything else goes through the semantic model.
type Pipeline struct {
	router       *relevance.Router
	orchestrator *analyze.Orchestrator
	repairer     *analyze.Repairer
	logger       *zerolog.Logger
}

func New(router *relevance.Router, orchestrator *analyze.Orchestrator, repairer *analyze.Repairer, logger *zerolog.Logger) *Pipeline {
	return &Pipeline{
		router:       router,
		orchestrator: orchestrator,
		repairer:     repairer,
		logger:       logger,
	}
}

// Run processes items end to end. The returned slice preserves the input
// order of the surviving items; every input item either appears exactly once
// or was rejected. Input items are never mutated.
func (p *Pipeline) Run(ctx context.Context, items []domain.Item) ([]domain.ProcessedItem, Stats) {
	outcome := p.router.Route(items)

	stats := Stats{
		Total:        len(items),
		Rejected:     len(outcome.Rejected),
		AutoAccepted: len(outcome.AutoAccepted),
		Analyzed:     len(outcome.NeedsReview),
	}

	p.logger.Info().
		Int("total", stats.Total).
		Int("rejected", stats.Rejected).
		Int("auto_accepted", stats.AutoAccepted).
		Int("needs_review", stats.Analyzed).
		Msg("items routed")

	processed := make(map[string]domain.ProcessedItem, stats.AutoAccepted+stats.Analyzed)

	for _, routed := range outcome.AutoAccepted {
		meta := p.router.AutoAcceptMetadata(routed.Item, routed.Reason)
		analysis := p.repairer.EmptyResult()
		analysis.Reasoning = meta.RawModelResponse

		processed[routed.Item.ID] = domain.ProcessedItem{
			Item:     routed.Item,
			Analysis: analysis,
			Filter:   &meta,
		}
	}

	if len(outcome.NeedsReview) > 0 {
		requests := make([]analyze.Request, len(outcome.NeedsReview))
		for i, item := range outcome.NeedsReview {
			requests[i] = analyze.Request{Text: item.Text(), Context: item.Context}
		}

		results := p.orchestrator.Run(ctx, requests)

		for i, item := range outcome.NeedsReview {
			processed[item.ID] = domain.ProcessedItem{Item: item, Analysis: results[i]}
		}
	}

	merged := make([]domain.ProcessedItem, 0, len(processed))
	for _, item := range items {
		if record, ok := processed[item.ID]; ok {
			merged = append(merged, record)
			delete(processed, item.ID)
		}
	}

	return merged, stats
}
