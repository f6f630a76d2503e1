package report

import (
	"sort"
	"time"

	"github.com/brandpulse/sentiment-pipeline/internal/core/domain"
)

// Trend bucketing periods.
const (
	PeriodDay  = "day"
	PeriodWeek = "week"
)

// FieldTrend is one field's sentiment spread within a time bucket.
type FieldTrend struct {
	Mentions    int                `json:"mentions"`
	Percentages map[string]float64 `json:"percentages"`
}

// TrendRow is one time bucket of sentiment trends. Buckets with zero items
// are omitted entirely, never zero-filled.
type TrendRow struct {
	Period     time.Time             `json:"period"`
	TotalItems int                   `json:"total_items"`
	AvgScore   float64               `json:"avg_score"`
	OverallPct map[string]float64    `json:"overall_pct"`
	Fields     map[string]FieldTrend `json:"fields"`
}

// Trends groups items by day or ISO week (from each item's timestamp) and
// computes per-bucket overall percentages plus per-field spreads for fields
// with at least one confident mention in that bucket. Items without a
// timestamp are skipped.
func (e *Engine) Trends(items []domain.ProcessedItem, period string) []TrendRow {
	buckets := map[time.Time][]domain.ProcessedItem{}

	for _, item := range items {
		if item.Item.CreatedAt.IsZero() {
			continue
		}

		key := bucketStart(item.Item.CreatedAt, period)
		buckets[key] = append(buckets[key], item)
	}

	rows := make([]TrendRow, 0, len(buckets))
	for start, group := range buckets {
		rows = append(rows, e.buildTrendRow(start, group))
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Period.Before(rows[j].Period)
	})

	return rows
}

func (e *Engine) buildTrendRow(start time.Time, group []domain.ProcessedItem) TrendRow {
	overallCounts := map[string]int{}
	scoreSum := 0

	for _, item := range group {
		overallCounts[item.Analysis.OverallSentiment]++
		scoreSum += item.Item.Score
	}

	// Overall percentages are emitted for every category so trend series
	// stay comparable across buckets.
	overallPct := make(map[string]float64, len(domain.SentimentCategories))
	for _, sentiment := range domain.SentimentCategories {
		overallPct[sentiment] = float64(overallCounts[sentiment]) / float64(len(group)) * 100
	}

	fields := map[string]FieldTrend{}

	for _, field := range e.fields {
		counts := map[string]int{}
		mentions := 0

		for _, item := range group {
			fs, ok := item.Analysis.FieldSentiments[field]
			if !ok || fs.Confidence <= e.lowConf {
				continue
			}

			counts[fs.Sentiment]++
			mentions++
		}

		if mentions == 0 {
			continue
		}

		fields[field] = FieldTrend{
			Mentions:    mentions,
			Percentages: toPercentages(counts, mentions),
		}
	}

	return TrendRow{
		Period:     start,
		TotalItems: len(group),
		AvgScore:   float64(scoreSum) / float64(len(group)),
		OverallPct: overallPct,
		Fields:     fields,
	}
}

// bucketStart truncates a timestamp to the start of its day or ISO week
// (Monday 00:00 UTC).
func bucketStart(t time.Time, period string) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	if period != PeriodWeek {
		return day
	}

	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday closes the ISO week
	}

	return day.AddDate(0, 0, -(weekday - 1))
}
