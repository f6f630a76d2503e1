// Package analyze turns routed items into sentiment judgments: prompt
// building, LLM invocation, total schema repair of untrusted model output,
// and bounded-concurrency batch orchestration.
package analyze

import (
	"github.com/brandpulse/sentiment-pipeline/internal/core/domain"
)

// Repair defaults.
const (
	reasoningRepaired   = "Analysis completed"
	reasoningEmptyInput = "Empty or invalid text"
	defaultLanguage     = "en"
	unknownLanguage     = "unknown"
	maxThemes           = 3
)

// Repairer normalizes untrusted model output into a guaranteed-valid
// AnalysisResult. Repair is total: it never fails, and every configured
// field is present in its output.
type Repairer struct {
	fields []string
}

func NewRepairer(fields []string) *Repairer {
	return &Repairer{fields: fields}
}

// EmptyResult is the canonical neutral result used for empty input and for
// item-level failures inside a batch.
func (r *Repairer) EmptyResult() domain.AnalysisResult {
	fieldSentiments := make(map[string]domain.FieldSentiment, len(r.fields))
	for _, field := range r.fields {
		fieldSentiments[field] = emptyFieldSentiment()
	}

	return domain.AnalysisResult{
		OverallSentiment: domain.SentimentNeutral,
		FieldSentiments:  fieldSentiments,
		EdgeCases:        domain.EdgeCases{Language: unknownLanguage},
		Themes:           []domain.Theme{},
		Reasoning:        reasoningEmptyInput,
	}
}

// Repair validates raw model output against the fixed schema, backfilling
// anything absent or malformed. Non-mapping input (a list, a string, nil)
// is discarded and treated as an empty object, so repair of garbage equals
// repair of {}.
func (r *Repairer) Repair(raw any) domain.AnalysisResult {
	obj, ok := asMapping(raw)
	if !ok {
		obj = map[string]any{}
	}

	result := domain.AnalysisResult{
		OverallSentiment: repairSentiment(obj["overall_sentiment"]),
		FieldSentiments:  r.repairFieldSentiments(obj["field_sentiments"]),
		EdgeCases:        repairEdgeCases(obj["edge_cases"]),
		Themes:           repairThemes(obj["themes"]),
		Reasoning:        stringOr(obj["reasoning"], reasoningRepaired),
	}

	return result
}

// asMapping unwraps the raw value to a JSON object. A list is searched for
// its first object element before giving up.
func asMapping(raw any) (map[string]any, bool) {
	switch v := raw.(type) {
	case map[string]any:
		return v, true
	case []any:
		for _, el := range v {
			if m, ok := el.(map[string]any); ok {
				return m, true
			}
		}

		return nil, false
	default:
		return nil, false
	}
}

func repairSentiment(raw any) string {
	if s, ok := raw.(string); ok && domain.ValidSentiment(s) {
		return s
	}

	return domain.SentimentNeutral
}

// repairFieldSentiments accepts either a mapping keyed by field name or a
// sequence of per-field records; records without a "field" key align
// positionally to the canonical field list. Every canonical field missing
// from the output is synthesized neutral.
func (r *Repairer) repairFieldSentiments(raw any) map[string]domain.FieldSentiment {
	byField := map[string]map[string]any{}

	switch v := raw.(type) {
	case map[string]any:
		for name, entry := range v {
			if m, ok := entry.(map[string]any); ok {
				byField[name] = m
			}
		}
	case []any:
		r.collectListEntries(v, byField)
	}

	result := make(map[string]domain.FieldSentiment, len(r.fields))
	for _, field := range r.fields {
		entry, ok := byField[field]
		if !ok {
			result[field] = emptyFieldSentiment()
			continue
		}

		result[field] = domain.FieldSentiment{
			Sentiment:  repairSentiment(entry["sentiment"]),
			Confidence: clampUnit(floatOr(entry["confidence"], 0)),
			KeyPhrases: stringSlice(entry["key_phrases"]),
		}
	}

	return result
}

func (r *Repairer) collectListEntries(entries []any, byField map[string]map[string]any) {
	matched := false

	for _, el := range entries {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}

		if name, ok := m["field"].(string); ok && r.isCanonicalField(name) {
			byField[name] = m
			matched = true
		}
	}

	if matched {
		return
	}

	// No field keys at all: align positionally to the canonical list.
	for i, field := range r.fields {
		if i >= len(entries) {
			break
		}

		if m, ok := entries[i].(map[string]any); ok {
			byField[field] = m
		}
	}
}

func (r *Repairer) isCanonicalField(name string) bool {
	for _, f := range r.fields {
		if f == name {
			return true
		}
	}

	return false
}

func repairEdgeCases(raw any) domain.EdgeCases {
	m, ok := raw.(map[string]any)
	if !ok {
		return domain.EdgeCases{Language: defaultLanguage}
	}

	return domain.EdgeCases{
		IsSarcastic:       boolOr(m["is_sarcastic"]),
		HasMixedSentiment: boolOr(m["has_mixed_sentiment"]),
		IsNonEnglish:      boolOr(m["is_non_english"]),
		Language:          stringOr(m["language"], defaultLanguage),
		IsSpam:            boolOr(m["is_spam"]),
	}
}

func repairThemes(raw any) []domain.Theme {
	entries, ok := raw.([]any)
	if !ok {
		return []domain.Theme{}
	}

	themes := make([]domain.Theme, 0, maxThemes)

	for _, el := range entries {
		if len(themes) == maxThemes {
			break
		}

		m, ok := el.(map[string]any)
		if !ok {
			continue
		}

		name, ok := m["theme"].(string)
		if !ok || name == "" {
			continue
		}

		themes = append(themes, domain.Theme{
			Theme:     name,
			Relevance: clampUnit(floatOr(m["relevance"], 0)),
		})
	}

	return themes
}

func emptyFieldSentiment() domain.FieldSentiment {
	return domain.FieldSentiment{
		Sentiment:  domain.SentimentNeutral,
		Confidence: 0,
		KeyPhrases: []string{},
	}
}

func stringOr(raw any, fallback string) string {
	if s, ok := raw.(string); ok && s != "" {
		return s
	}

	return fallback
}

func boolOr(raw any) bool {
	b, _ := raw.(bool)
	return b
}

func floatOr(raw any, fallback float64) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return fallback
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}

	if v > 1 {
		return 1
	}

	return v
}

func stringSlice(raw any) []string {
	entries, ok := raw.([]any)
	if !ok {
		return []string{}
	}

	out := make([]string, 0, len(entries))

	for _, el := range entries {
		if s, ok := el.(string); ok {
			out = append(out, s)
		}
	}

	return out
}
