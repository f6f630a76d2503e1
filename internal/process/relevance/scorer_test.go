package relevance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brandpulse/sentiment-pipeline/internal/core/domain"
)

func testVocabulary() Vocabulary {
	return Vocabulary{
		BrandToken:       "taboola",
		GenericPhrases:   []string{"i realize", "just realized"},
		StrongIndicators: []string{"taboola realize", "taboola widget"},
		RelevantTerms:    []string{"advertising", "publisher", "monetization", "cpc"},
		Communities:      map[string]struct{}{"adops": {}, "advertising": {}},
		MinContentLength: 150,
	}
}

func TestScorer_Ladder(t *testing.T) {
	scorer := NewScorer(testVocabulary())

	tests := []struct {
		name           string
		item           domain.Item
		wantAccept     bool
		wantConfidence float64
		wantReason     string
	}{
		{
			name:           "no brand mention",
			item:           domain.Item{Body: "some unrelated discussion about cooking"},
			wantAccept:     false,
			wantConfidence: ConfidenceNoMention,
			wantReason:     "No brand mention",
		},
		{
			name:           "generic phrase rejects despite brand",
			item:           domain.Item{Body: "I realize taboola exists but whatever"},
			wantAccept:     false,
			wantConfidence: ConfidenceGenericPhrase,
			wantReason:     "Generic phrase: i realize",
		},
		{
			// Ladder order is a hard invariant: the generic-phrase check
			// precedes the strong-indicator check.
			name:           "generic phrase beats strong indicator",
			item:           domain.Item{Body: "I realize the taboola widget is everywhere"},
			wantAccept:     false,
			wantConfidence: ConfidenceGenericPhrase,
			wantReason:     "Generic phrase: i realize",
		},
		{
			name:           "strong indicator wins over term counting",
			item:           domain.Item{Body: "The Taboola widget ruined our advertising and publisher monetization"},
			wantAccept:     true,
			wantConfidence: ConfidenceStrong,
			wantReason:     "Strong indicator: taboola widget",
		},
		{
			name:           "three relevant terms",
			item:           domain.Item{Body: "taboola handles advertising for every publisher via cpc"},
			wantAccept:     true,
			wantConfidence: ConfidenceStrongContext,
			wantReason:     "Strong context (3 relevant terms)",
		},
		{
			name:           "two relevant terms",
			item:           domain.Item{Body: "taboola advertising for a publisher"},
			wantAccept:     true,
			wantConfidence: ConfidenceMediumContext,
			wantReason:     "Medium context (2 relevant terms)",
		},
		{
			name:           "one relevant term",
			item:           domain.Item{Body: "taboola does advertising"},
			wantAccept:     true,
			wantConfidence: ConfidenceWeakContext,
			wantReason:     "Weak context (1 relevant term)",
		},
		{
			name:           "community match without terms",
			item:           domain.Item{Body: "anyone here using taboola?", Community: "AdOps"},
			wantAccept:     true,
			wantConfidence: ConfidenceCommunity,
			wantReason:     "Relevant community: AdOps",
		},
		{
			name:           "long content without other signals",
			item:           domain.Item{Body: "taboola " + strings.Repeat("filler words here ", 10)},
			wantAccept:     true,
			wantConfidence: ConfidenceSubstantial,
			wantReason:     "Brand mentioned with substantial content",
		},
		{
			name:           "short brand mention only",
			item:           domain.Item{Body: "taboola, huh"},
			wantAccept:     false,
			wantConfidence: ConfidenceInsufficient,
			wantReason:     "Insufficient relevance signals",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(tt.item)

			assert.Equal(t, tt.wantAccept, got.Accept)
			assert.InDelta(t, tt.wantConfidence, got.Confidence, 1e-9)
			assert.Equal(t, tt.wantReason, got.Reason)
		})
	}
}

func TestScorer_TitleCountsAsContent(t *testing.T) {
	scorer := NewScorer(testVocabulary())

	got := scorer.Score(domain.Item{Title: "Taboola Realize pricing", Body: ""})

	assert.True(t, got.Accept)
	assert.InDelta(t, ConfidenceStrong, got.Confidence, 1e-9)
}

func TestScorer_Deterministic(t *testing.T) {
	scorer := NewScorer(testVocabulary())
	item := domain.Item{Body: "taboola advertising for a publisher"}

	first := scorer.Score(item)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, scorer.Score(item))
	}
}
