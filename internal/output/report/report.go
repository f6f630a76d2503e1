// Package report computes read-only aggregates over processed items:
// sentiment distributions, top themes with representative quotes, and
// time-bucketed trends.
package report

import (
	"github.com/brandpulse/sentiment-pipeline/internal/core/domain"
	"github.com/brandpulse/sentiment-pipeline/internal/platform/config"
)

const (
	defaultTopThemes  = 3
	maxQuotesPerTheme = 3
	maxPhrasesPerItem = 2
	maxQuoteChars     = 200
	topLanguages      = 5
)

// Engine aggregates processed items. It never mutates its input.
type Engine struct {
	fields  []string
	lowConf float64
	medConf float64
	topN    int
}

func NewEngine(fields []string, lowConf, medConf float64, topN int) *Engine {
	if topN <= 0 {
		topN = defaultTopThemes
	}

	return &Engine{fields: fields, lowConf: lowConf, medConf: medConf, topN: topN}
}

// FromConfig builds an engine with the process thresholds.
func FromConfig(cfg *config.Config) *Engine {
	return NewEngine(cfg.AnalysisFields, cfg.LowConfThreshold, cfg.MediumConfThreshold, cfg.TopThemes)
}

// OverallDistribution returns the percentage of items per overall sentiment
// category. Categories nobody hit are omitted.
func (e *Engine) OverallDistribution(items []domain.ProcessedItem) map[string]float64 {
	counts := map[string]int{}
	for _, item := range items {
		counts[item.Analysis.OverallSentiment]++
	}

	return toPercentages(counts, len(items))
}

// FieldDistribution is the sentiment spread for one analysis field,
// restricted to confident mentions.
type FieldDistribution struct {
	Percentages   map[string]float64 `json:"percentages"`
	TotalMentions int                `json:"total_mentions"`
}

// FieldDistributions computes per-field sentiment percentages over entries
// whose confidence exceeds the low threshold.
func (e *Engine) FieldDistributions(items []domain.ProcessedItem) map[string]FieldDistribution {
	distributions := make(map[string]FieldDistribution, len(e.fields))

	for _, field := range e.fields {
		counts := map[string]int{}
		total := 0

		for _, item := range items {
			fs, ok := item.Analysis.FieldSentiments[field]
			if !ok || fs.Confidence <= e.lowConf {
				continue
			}

			counts[fs.Sentiment]++
			total++
		}

		distributions[field] = FieldDistribution{
			Percentages:   toPercentages(counts, total),
			TotalMentions: total,
		}
	}

	return distributions
}

func toPercentages(counts map[string]int, total int) map[string]float64 {
	pct := make(map[string]float64, len(counts))
	if total == 0 {
		return pct
	}

	for sentiment, count := range counts {
		pct[sentiment] = float64(count) / float64(total) * 100
	}

	return pct
}
