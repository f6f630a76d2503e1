package report

import (
	"sort"

	"github.com/brandpulse/sentiment-pipeline/internal/core/domain"
)

const commentLinkBase = "https://www.reddit.com/comments/"

// Quote is a representative excerpt supporting a theme.
type Quote struct {
	Text      string `json:"text"`
	Sentiment string `json:"sentiment"`
	Score     int    `json:"score"`
	Link      string `json:"link"`
}

// ThemeSummary is one ranked theme for a field.
type ThemeSummary struct {
	Theme     string  `json:"theme"`
	Frequency int     `json:"frequency"`
	Quotes    []Quote `json:"representative_quotes"`
}

// TopThemes groups key phrases from medium-confidence entries by phrase
// text, ranks them by (frequency, summed item score) descending, and keeps
// the top N themes per field with up to three quotes each.
func (e *Engine) TopThemes(items []domain.ProcessedItem) map[string][]ThemeSummary {
	byField := map[string]map[string][]Quote{}

	for _, item := range items {
		for _, field := range e.fields {
			fs, ok := item.Analysis.FieldSentiments[field]
			if !ok || fs.Confidence <= e.medConf {
				continue
			}

			phrases := fs.KeyPhrases
			if len(phrases) > maxPhrasesPerItem {
				phrases = phrases[:maxPhrasesPerItem]
			}

			for _, phrase := range phrases {
				if byField[field] == nil {
					byField[field] = map[string][]Quote{}
				}

				byField[field][phrase] = append(byField[field][phrase], buildQuote(item, fs.Sentiment))
			}
		}
	}

	top := make(map[string][]ThemeSummary, len(byField))
	for field, themes := range byField {
		top[field] = e.rankThemes(themes)
	}

	return top
}

func (e *Engine) rankThemes(themes map[string][]Quote) []ThemeSummary {
	type scoredTheme struct {
		name   string
		quotes []Quote
		score  int
	}

	scored := make([]scoredTheme, 0, len(themes))

	for name, quotes := range themes {
		sum := 0
		for _, q := range quotes {
			sum += q.Score
		}

		scored = append(scored, scoredTheme{name: name, quotes: quotes, score: sum})
	}

	sort.Slice(scored, func(i, j int) bool {
		if len(scored[i].quotes) != len(scored[j].quotes) {
			return len(scored[i].quotes) > len(scored[j].quotes)
		}

		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}

		return scored[i].name < scored[j].name
	})

	if len(scored) > e.topN {
		scored = scored[:e.topN]
	}

	summaries := make([]ThemeSummary, 0, len(scored))

	for _, st := range scored {
		sort.Slice(st.quotes, func(i, j int) bool {
			return st.quotes[i].Score > st.quotes[j].Score
		})

		quotes := st.quotes
		if len(quotes) > maxQuotesPerTheme {
			quotes = quotes[:maxQuotesPerTheme]
		}

		summaries = append(summaries, ThemeSummary{
			Theme:     st.name,
			Frequency: len(st.quotes),
			Quotes:    quotes,
		})
	}

	return summaries
}

func buildQuote(item domain.ProcessedItem, sentiment string) Quote {
	text := item.Item.Text()
	if len(text) > maxQuoteChars {
		text = text[:maxQuoteChars]
	}

	link := item.Item.URL
	if link == "" {
		link = commentLinkBase + item.Item.ID
	}

	return Quote{
		Text:      text,
		Sentiment: sentiment,
		Score:     item.Item.Score,
		Link:      link,
	}
}
