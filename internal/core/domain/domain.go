// Package domain holds the data model shared across the sentiment pipeline.
package domain

import (
	"strings"
	"time"
)

// Sentiment categories produced by the analyzer.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
	SentimentMixed    = "mixed"
)

// SentimentCategories lists every valid sentiment value.
var SentimentCategories = []string{SentimentPositive, SentimentNeutral, SentimentNegative, SentimentMixed}

// ValidSentiment reports whether s is one of the canonical categories.
func ValidSentiment(s string) bool {
	for _, c := range SentimentCategories {
		if s == c {
			return true
		}
	}

	return false
}

// Item context values.
const (
	ContextPost    = "post"
	ContextComment = "comment"
)

// Item is a single piece of social-media content entering the pipeline.
// Items are immutable once created; ID is the dedup key within a run.
type Item struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Body      string    `json:"body,omitempty"`
	Context   string    `json:"context"`
	Community string    `json:"community,omitempty"`
	Author    string    `json:"author,omitempty"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	URL       string    `json:"url,omitempty"`
	ParentID  string    `json:"parent_id,omitempty"`
}

// Text returns the combined title and body, trimmed.
func (i Item) Text() string {
	return strings.TrimSpace(strings.TrimSpace(i.Title) + " " + strings.TrimSpace(i.Body))
}

// ScoreResult is the outcome of the heuristic relevance ladder for one item.
type ScoreResult struct {
	Accept     bool
	Confidence float64
	Reason     string
}

// RoutedItem pairs an item with the score that routed it.
type RoutedItem struct {
	Item       Item
	Confidence float64
	Reason     string
}

// RoutingOutcome partitions a batch of items into three disjoint buckets.
// Every input item appears in exactly one bucket, in input order.
type RoutingOutcome struct {
	Rejected     []RoutedItem
	AutoAccepted []RoutedItem
	NeedsReview  []Item
}

// FilterMetadata is the synthetic relevance record attached to items that
// bypassed semantic analysis on heuristic confidence alone.
type FilterMetadata struct {
	IsRelevant         bool    `json:"is_relevant"`
	MentionsBrand      bool    `json:"mentions_brand"`
	MentionsProduct    bool    `json:"mentions_product"`
	RelevanceScore     float64 `json:"relevance_score"`
	RawModelResponse   string  `json:"raw_model_response"`
	FilterAutoAccepted bool    `json:"filter_auto_accepted"`
}

// FieldSentiment is the per-field judgment inside an AnalysisResult.
type FieldSentiment struct {
	Sentiment  string   `json:"sentiment"`
	Confidence float64  `json:"confidence"`
	KeyPhrases []string `json:"key_phrases"`
}

// EdgeCases flags content that needs special downstream handling.
type EdgeCases struct {
	IsSarcastic       bool   `json:"is_sarcastic"`
	HasMixedSentiment bool   `json:"has_mixed_sentiment"`
	IsNonEnglish      bool   `json:"is_non_english"`
	Language          string `json:"language"`
	IsSpam            bool   `json:"is_spam"`
}

// Theme is a topic the model attached to a piece of content.
type Theme struct {
	Theme     string  `json:"theme"`
	Relevance float64 `json:"relevance"`
}

// AnalysisResult is a fully populated sentiment judgment. Schema repair
// guarantees every configured field is present, so consumers never need
// optional-field checks.
type AnalysisResult struct {
	OverallSentiment string                    `json:"overall_sentiment"`
	FieldSentiments  map[string]FieldSentiment `json:"field_sentiments"`
	EdgeCases        EdgeCases                 `json:"edge_cases"`
	Themes           []Theme                   `json:"themes"`
	Reasoning        string                    `json:"reasoning"`
}

// ProcessedItem couples an input item with its analysis. Filter is set only
// for items that were auto-accepted by the heuristic stage.
type ProcessedItem struct {
	Item     Item            `json:"item"`
	Analysis AnalysisResult  `json:"analysis"`
	Filter   *FilterMetadata `json:"llm_filter,omitempty"`
}
