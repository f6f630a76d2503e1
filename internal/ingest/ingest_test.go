package ingest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandpulse/sentiment-pipeline/internal/core/domain"
)

const testPayload = `{
  "query": "taboola",
  "posts": [
    {
      "post": {
        "id": "post1",
        "subreddit": "adops",
        "title": "Taboola experience",
        "selftext": "We switched to their platform last month.",
        "author": "alice",
        "url": "https://example.com/post1",
        "created_utc": 1704067200,
        "score": 42
      },
      "comments": [
        {
          "id": "c1",
          "post_id": "post1",
          "author": "bob",
          "body": "Their dashboard is genuinely useful for reporting.",
          "created_utc": 1704067300,
          "score": 5
        },
        {
          "id": "c2",
          "post_id": "post1",
          "author": "AutoModerator",
          "body": "I am a bot, and this action was performed automatically.",
          "created_utc": 1704067400,
          "score": 1
        },
        {
          "id": "c3",
          "post_id": "post1",
          "author": "carol",
          "body": "nice",
          "created_utc": 1704067500,
          "score": 2
        }
      ]
    },
    {
      "post": {
        "id": "post1",
        "subreddit": "adops",
        "title": "Duplicate post",
        "selftext": "Should be skipped.",
        "created_utc": 1704070000,
        "score": 1
      },
      "comments": []
    },
    {
      "post": {
        "id": "post2",
        "subreddit": "marketing",
        "title": "",
        "selftext": "",
        "created_utc": "2024-01-02T10:00:00Z",
        "score": 3
      },
      "comments": [
        {
          "id": "c4",
          "author": "dave",
          "body": "Empty posts should not block their comments from coming through.",
          "created_utc": 1704189600,
          "score": 9
        }
      ]
    }
  ]
}`

func writePayload(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, os.WriteFile(path, []byte(testPayload), 0o600))

	return path
}

func newTestExtractor() *Extractor {
	return NewExtractor(20, zerolog.Nop())
}

func TestLoad(t *testing.T) {
	doc, err := Load(writePayload(t))

	require.NoError(t, err)
	assert.Equal(t, "taboola", doc.Query)
	assert.Len(t, doc.Posts, 3)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))

	require.Error(t, err)
}

func TestExtract(t *testing.T) {
	doc, err := Load(writePayload(t))
	require.NoError(t, err)

	items := newTestExtractor().Extract(doc)

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	// post1 once (dedup), c1 kept, c2 is a bot, c3 too short, post2 has no
	// text, c4 kept.
	assert.Equal(t, []string{"post1", "c1", "c4"}, ids)

	post := items[0]
	assert.Equal(t, domain.ContextPost, post.Context)
	assert.Equal(t, "adops", post.Community)
	assert.Equal(t, "Taboola experience We switched to their platform last month.", post.Text())
	assert.Equal(t, 42, post.Score)
	assert.Equal(t, time.Unix(1704067200, 0).UTC(), post.CreatedAt)

	comment := items[1]
	assert.Equal(t, domain.ContextComment, comment.Context)
	assert.Equal(t, "post1", comment.ParentID)
	assert.Equal(t, "adops", comment.Community)

	orphan := items[2]
	assert.Equal(t, "post2", orphan.ParentID, "post id backfills a missing post_id")
}

func TestExtract_DedupAcrossDocuments(t *testing.T) {
	doc, err := Load(writePayload(t))
	require.NoError(t, err)

	extractor := newTestExtractor()

	first := extractor.Extract(doc)
	second := extractor.Extract(doc)

	assert.NotEmpty(t, first)
	assert.Empty(t, second, "second pass sees only already-seen IDs")
}

func TestTimestamp_Forms(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"unix seconds", `1704067200`, time.Unix(1704067200, 0).UTC()},
		{"unix float", `1704067200.5`, time.Unix(1704067200, 0).UTC()},
		{"rfc3339 string", `"2024-01-02T10:00:00Z"`, time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)},
		{"date only", `"2024-01-02"`, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"zero stays zero", `0`, time.Time{}},
		{"empty string stays zero", `""`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &ts))
			assert.Equal(t, tt.want, ts.Time)
		})
	}
}

func TestTimestamp_Invalid(t *testing.T) {
	var ts Timestamp

	require.Error(t, json.Unmarshal([]byte(`"not a date"`), &ts))
}
