package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/brandpulse/sentiment-pipeline/internal/core/domain"
)

// EdgeCaseCounts tallies flagged content across a run.
type EdgeCaseCounts struct {
	Sarcastic      int `json:"sarcastic"`
	MixedSentiment int `json:"mixed_sentiment"`
	NonEnglish     int `json:"non_english"`
	Spam           int `json:"spam"`
}

// LanguageShare is one language's share of the analyzed items.
type LanguageShare struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

// Summary is the run-level report written alongside the processed items.
type Summary struct {
	RunID            string                       `json:"run_id"`
	GeneratedAt      time.Time                    `json:"generated_at"`
	TotalItems       int                          `json:"total_items"`
	Posts            int                          `json:"posts"`
	Comments         int                          `json:"comments"`
	Communities      int                          `json:"communities"`
	EarliestItem     time.Time                    `json:"earliest_item,omitempty"`
	LatestItem       time.Time                    `json:"latest_item,omitempty"`
	OverallSentiment map[string]string            `json:"overall_sentiment"`
	FieldSentiments  map[string]FieldDistribution `json:"field_sentiments"`
	EdgeCases        EdgeCaseCounts               `json:"edge_cases"`
	TopLanguages     []LanguageShare              `json:"top_languages"`
	TopThemes        map[string][]ThemeSummary    `json:"top_themes"`
}

// Summarize builds the run summary. Percentages in OverallSentiment are
// pre-formatted for display.
func (e *Engine) Summarize(items []domain.ProcessedItem) Summary {
	summary := Summary{
		RunID:            uuid.NewString(),
		GeneratedAt:      time.Now().UTC(),
		TotalItems:       len(items),
		OverallSentiment: formatPercentages(e.OverallDistribution(items)),
		FieldSentiments:  e.FieldDistributions(items),
		TopThemes:        e.TopThemes(items),
	}

	communities := map[string]struct{}{}
	languages := map[string]int{}

	for _, item := range items {
		switch item.Item.Context {
		case domain.ContextPost:
			summary.Posts++
		case domain.ContextComment:
			summary.Comments++
		}

		if item.Item.Community != "" {
			communities[item.Item.Community] = struct{}{}
		}

		if !item.Item.CreatedAt.IsZero() {
			if summary.EarliestItem.IsZero() || item.Item.CreatedAt.Before(summary.EarliestItem) {
				summary.EarliestItem = item.Item.CreatedAt
			}
			if item.Item.CreatedAt.After(summary.LatestItem) {
				summary.LatestItem = item.Item.CreatedAt
			}
		}

		edge := item.Analysis.EdgeCases
		if edge.IsSarcastic {
			summary.EdgeCases.Sarcastic++
		}
		if edge.HasMixedSentiment {
			summary.EdgeCases.MixedSentiment++
		}
		if edge.IsNonEnglish {
			summary.EdgeCases.NonEnglish++
		}
		if edge.IsSpam {
			summary.EdgeCases.Spam++
		}

		if edge.Language != "" {
			languages[edge.Language]++
		}
	}

	summary.Communities = len(communities)
	summary.TopLanguages = topLanguageShares(languages)

	return summary
}

func formatPercentages(pct map[string]float64) map[string]string {
	formatted := make(map[string]string, len(pct))
	for sentiment, value := range pct {
		formatted[sentiment] = fmt.Sprintf("%.1f%%", value)
	}

	return formatted
}

func topLanguageShares(languages map[string]int) []LanguageShare {
	shares := make([]LanguageShare, 0, len(languages))
	for language, count := range languages {
		shares = append(shares, LanguageShare{Language: language, Count: count})
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}

		return shares[i].Language < shares[j].Language
	})

	if len(shares) > topLanguages {
		shares = shares[:topLanguages]
	}

	return shares
}
