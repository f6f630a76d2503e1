// Package ingest parses captured social-media payload documents into the
// flat item stream the pipeline consumes.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/rs/zerolog"

	"github.com/brandpulse/sentiment-pipeline/internal/core/domain"
)

const (
	defaultMinCommentLength = 20
	botMarker               = "I am a bot"
)

// Timestamp accepts unix seconds (int or float) or any common string form.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var seconds float64
	if err := json.Unmarshal(data, &seconds); err == nil {
		if seconds > 0 {
			t.Time = time.Unix(int64(seconds), 0).UTC()
		}

		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp %s: %w", data, err)
	}

	if raw == "" {
		return nil
	}

	parsed, err := dateparse.ParseAny(raw)
	if err != nil {
		return fmt.Errorf("timestamp %q: %w", raw, err)
	}

	t.Time = parsed.UTC()

	return nil
}

// Post is one captured submission.
type Post struct {
	ID        string    `json:"id"`
	Community string    `json:"subreddit"`
	Title     string    `json:"title"`
	Body      string    `json:"selftext"`
	Author    string    `json:"author"`
	URL       string    `json:"url"`
	Permalink string    `json:"permalink"`
	CreatedAt Timestamp `json:"created_utc"`
	Score     int       `json:"score"`
}

// Comment is one captured reply under a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	ParentID  string    `json:"parent_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt Timestamp `json:"created_utc"`
	Score     int       `json:"score"`
	Depth     int       `json:"depth"`
}

// Thread is a post bundled with its collected comments.
type Thread struct {
	Post     Post      `json:"post"`
	Comments []Comment `json:"comments"`
}

// Document is the top-level captured payload.
type Document struct {
	Query       string    `json:"query,omitempty"`
	CollectedAt Timestamp `json:"collected_at,omitempty"`
	Posts       []Thread  `json:"posts"`
}

// Load reads and decodes a payload document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode payload %s: %w", path, err)
	}

	return &doc, nil
}

// Extractor flattens payload documents into items.
type Extractor struct {
	minCommentLen int
	logger        zerolog.Logger
	seen          map[string]struct{}
}

func NewExtractor(minCommentLen int, logger zerolog.Logger) *Extractor {
	if minCommentLen <= 0 {
		minCommentLen = defaultMinCommentLength
	}

	return &Extractor{
		minCommentLen: minCommentLen,
		logger:        logger.With().Str("component", "ingest").Logger(),
		seen:          map[string]struct{}{},
	}
}

// Extract returns the document's posts and comments as a flat ordered list.
// IDs already seen in this extractor's lifetime are skipped, as are bot
// comments and comments at or under the minimum length. Posts with no text
// after joining title and body are dropped.
func (e *Extractor) Extract(doc *Document) []domain.Item {
	var items []domain.Item

	skipped := 0

	for _, thread := range doc.Posts {
		post := thread.Post

		if e.duplicate(post.ID) {
			skipped++
			continue
		}

		item := domain.Item{
			ID:        post.ID,
			Title:     post.Title,
			Body:      post.Body,
			Context:   domain.ContextPost,
			Community: post.Community,
			Author:    post.Author,
			Score:     post.Score,
			CreatedAt: post.CreatedAt.Time,
			URL:       post.URL,
		}
		if item.Text() != "" {
			items = append(items, item)
		}

		for _, comment := range thread.Comments {
			if e.duplicate(comment.ID) {
				skipped++
				continue
			}

			if !e.keepComment(comment.Body) {
				skipped++
				continue
			}

			items = append(items, domain.Item{
				ID:        comment.ID,
				Body:      comment.Body,
				Context:   domain.ContextComment,
				Community: post.Community,
				Author:    comment.Author,
				Score:     comment.Score,
				CreatedAt: comment.CreatedAt.Time,
				ParentID:  firstNonEmpty(comment.PostID, post.ID),
			})
		}
	}

	e.logger.Info().
		Int("items", len(items)).
		Int("skipped", skipped).
		Msg("payload extracted")

	return items
}

func (e *Extractor) duplicate(id string) bool {
	if id == "" {
		return false
	}

	if _, ok := e.seen[id]; ok {
		return true
	}

	e.seen[id] = struct{}{}

	return false
}

func (e *Extractor) keepComment(body string) bool {
	body = strings.TrimSpace(body)

	return len(body) > e.minCommentLen && !strings.Contains(body, botMarker)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
