package analyze

import (
	"fmt"
	"strings"
)

// Prompt texture: two worked examples anchor the schema, then the target
// text. Kept deliberately compact; the JSON response format is enforced by
// the provider request, not prose.
const promptHeader = `Analyze sentiment for this %s about %s (ad tech company).

Analyze these specific fields:
%s

Return JSON with keys: overall_sentiment (one of positive, neutral, negative, mixed),
field_sentiments (object keyed by field name, each value {"sentiment", "confidence" 0-1, "key_phrases" []}),
edge_cases ({"is_sarcastic", "has_mixed_sentiment", "is_non_english", "language", "is_spam"}),
themes (array of {"theme", "relevance" 0-1}, at most 3), reasoning (string).`

const promptExamples = `EXAMPLES:

Example 1 (Sarcasm):
TEXT: "Oh great, more clickbait widgets. Just wonderful how they clutter every website."
OUTPUT: {"overall_sentiment":"negative","field_sentiments":{"product_quality":{"sentiment":"negative","confidence":0.9,"key_phrases":["clickbait"]},"user_experience":{"sentiment":"negative","confidence":0.95,"key_phrases":["clutter every website"]}},"edge_cases":{"is_sarcastic":true,"has_mixed_sentiment":false,"is_non_english":false,"language":"en","is_spam":false},"themes":[{"theme":"ad_intrusiveness","relevance":0.9}],"reasoning":"Sarcastic negative sentiment about ad quality and intrusiveness"}

Example 2 (Positive):
TEXT: "Implemented the platform last quarter. Revenue up 40% and publishers love the dashboard."
OUTPUT: {"overall_sentiment":"positive","field_sentiments":{"financial_performance":{"sentiment":"positive","confidence":0.95,"key_phrases":["revenue up 40%"]},"publisher_relations":{"sentiment":"positive","confidence":0.85,"key_phrases":["publishers love"]},"user_experience":{"sentiment":"positive","confidence":0.8,"key_phrases":["love the dashboard"]}},"edge_cases":{"is_sarcastic":false,"has_mixed_sentiment":false,"is_non_english":false,"language":"en","is_spam":false},"themes":[{"theme":"platform_success","relevance":0.9}],"reasoning":"Strong positive sentiment about financial results and publisher satisfaction"}`

const promptFooter = `IMPORTANT:
- Only analyze fields relevant to the text (set confidence=0 if not mentioned)
- Detect sarcasm carefully like in Example 1
- Flag mixed sentiment if positive AND negative present
- Be concise but accurate`

// PromptBuilder assembles the analysis prompt for one item.
type PromptBuilder struct {
	brand    string
	fields   []string
	maxChars int
}

func NewPromptBuilder(brand string, fields []string, maxChars int) *PromptBuilder {
	return &PromptBuilder{brand: brand, fields: fields, maxChars: maxChars}
}

// Build renders the prompt for the given text and context ("post" or
// "comment"). Text longer than the configured limit is truncated.
func (b *PromptBuilder) Build(text, context string) string {
	if b.maxChars > 0 && len(text) > b.maxChars {
		text = text[:b.maxChars]
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(promptHeader, context, b.brand, strings.Join(b.fields, ", ")))
	sb.WriteString("\n\n")
	sb.WriteString(promptExamples)
	sb.WriteString("\n\nNow analyze this text:\nTEXT: ")
	sb.WriteString(text)
	sb.WriteString("\n\n")
	sb.WriteString(promptFooter)

	return sb.String()
}
