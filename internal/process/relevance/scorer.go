// Package relevance implements the staged relevance filter: a deterministic
// confidence ladder plus the router that decides which items earn a call to
// the semantic model.
package relevance

import (
	"fmt"
	"strings"

	"github.com/brandpulse/sentiment-pipeline/internal/core/domain"
	"github.com/brandpulse/sentiment-pipeline/internal/platform/config"
)

// Ladder confidences, in priority order. The order is a hard invariant:
// later rules are only consulted when earlier ones did not match.
const (
	ConfidenceNoMention      = 0.0
	ConfidenceGenericPhrase  = 0.1
	ConfidenceStrongContext  = 0.85
	ConfidenceStrong         = 0.95
	ConfidenceMediumContext  = 0.65
	ConfidenceWeakContext    = 0.45
	ConfidenceCommunity      = 0.6
	ConfidenceSubstantial    = 0.4
	ConfidenceInsufficient   = 0.2
	strongContextTermCount   = 3
	mediumContextTermCount   = 2
)

// Vocabulary is the injected scoring data. Nothing brand-specific lives in
// code; see config for the default lists.
type Vocabulary struct {
	BrandToken       string
	GenericPhrases   []string
	StrongIndicators []string
	RelevantTerms    []string
	Communities      map[string]struct{}
	MinContentLength int
}

// VocabularyFromConfig builds the scorer vocabulary from process config.
func VocabularyFromConfig(cfg *config.Config) Vocabulary {
	communities := make(map[string]struct{}, len(cfg.RelevantCommunities))
	for _, c := range cfg.RelevantCommunities {
		communities[strings.ToLower(c)] = struct{}{}
	}

	return Vocabulary{
		BrandToken:       strings.ToLower(cfg.BrandToken),
		GenericPhrases:   lowered(cfg.GenericPhrases),
		StrongIndicators: lowered(cfg.StrongIndicators),
		RelevantTerms:    lowered(cfg.RelevantTerms),
		Communities:      communities,
		MinContentLength: cfg.MinContentLength,
	}
}

func lowered(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}

	return out
}

// Scorer is a pure, deterministic relevance classifier. No I/O, no state.
type Scorer struct {
	vocab Vocabulary
}

func NewScorer(vocab Vocabulary) *Scorer {
	return &Scorer{vocab: vocab}
}

// Score walks the confidence ladder, first match wins. The reason names the
// exact phrase, term count, or signal that fired, for audit logging.
func (s *Scorer) Score(item domain.Item) domain.ScoreResult {
	content := strings.ToLower(item.Text())

	if !strings.Contains(content, s.vocab.BrandToken) {
		return domain.ScoreResult{Accept: false, Confidence: ConfidenceNoMention, Reason: "No brand mention"}
	}

	for _, phrase := range s.vocab.GenericPhrases {
		if strings.Contains(content, phrase) {
			return domain.ScoreResult{Accept: false, Confidence: ConfidenceGenericPhrase, Reason: "Generic phrase: " + phrase}
		}
	}

	for _, indicator := range s.vocab.StrongIndicators {
		if strings.Contains(content, indicator) {
			return domain.ScoreResult{Accept: true, Confidence: ConfidenceStrong, Reason: "Strong indicator: " + indicator}
		}
	}

	termCount := 0

	for _, term := range s.vocab.RelevantTerms {
		if strings.Contains(content, term) {
			termCount++
		}
	}

	switch {
	case termCount >= strongContextTermCount:
		return domain.ScoreResult{Accept: true, Confidence: ConfidenceStrongContext, Reason: fmt.Sprintf("Strong context (%d relevant terms)", termCount)}
	case termCount >= mediumContextTermCount:
		return domain.ScoreResult{Accept: true, Confidence: ConfidenceMediumContext, Reason: fmt.Sprintf("Medium context (%d relevant terms)", termCount)}
	case termCount >= 1:
		return domain.ScoreResult{Accept: true, Confidence: ConfidenceWeakContext, Reason: fmt.Sprintf("Weak context (%d relevant term)", termCount)}
	}

	if _, ok := s.vocab.Communities[strings.ToLower(item.Community)]; ok {
		return domain.ScoreResult{Accept: true, Confidence: ConfidenceCommunity, Reason: "Relevant community: " + item.Community}
	}

	if len(content) > s.vocab.MinContentLength {
		return domain.ScoreResult{Accept: true, Confidence: ConfidenceSubstantial, Reason: "Brand mentioned with substantial content"}
	}

	return domain.ScoreResult{Accept: false, Confidence: ConfidenceInsufficient, Reason: "Insufficient relevance signals"}
}
