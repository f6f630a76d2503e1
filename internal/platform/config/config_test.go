package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, "taboola", cfg.BrandToken)
	assert.Equal(t, "realize", cfg.ProductToken)
	assert.Equal(t, 2, cfg.LLMMaxWorkers)
	assert.Equal(t, 250*time.Millisecond, cfg.LLMRequestDelay)
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 5, cfg.LLMMaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.LLMRetryDelay)
	assert.Equal(t, 60*time.Second, cfg.LLMMaxRetryDelay)
	assert.InDelta(t, 0.8, cfg.AutoAcceptThreshold, 1e-9)
	assert.Equal(t, 150, cfg.MinContentLength)
	assert.InDelta(t, 0.3, cfg.LowConfThreshold, 1e-9)
	assert.InDelta(t, 0.45, cfg.MediumConfThreshold, 1e-9)
	assert.Equal(t, 3, cfg.TopThemes)
	assert.Equal(t, "week", cfg.TrendPeriod)
	assert.Equal(t, 20, cfg.MinCommentLength)
}

func TestLoad_VocabularyDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Contains(t, cfg.GenericPhrases, "i realize")
	assert.Contains(t, cfg.StrongIndicators, "taboola realize")
	assert.Contains(t, cfg.RelevantTerms, "advertising")
	assert.Contains(t, cfg.RelevantCommunities, "adops")
	assert.Contains(t, cfg.AnalysisFields, "product_quality")
	assert.Len(t, cfg.AnalysisFields, 6)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("BRAND_TOKEN", "acme")
	t.Setenv("AUTO_ACCEPT_THRESHOLD", "0.9")
	t.Setenv("ANALYSIS_FIELDS", "pricing,support")
	t.Setenv("LLM_REQUEST_DELAY", "1s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, "acme", cfg.BrandToken)
	assert.InDelta(t, 0.9, cfg.AutoAcceptThreshold, 1e-9)
	assert.Equal(t, []string{"pricing", "support"}, cfg.AnalysisFields)
	assert.Equal(t, time.Second, cfg.LLMRequestDelay)

	// Vocabulary defaults still apply to the lists left unset.
	assert.NotEmpty(t, cfg.GenericPhrases)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList("a, b ,c"))
	assert.Empty(t, splitList(""))
	assert.Equal(t, []string{"a"}, splitList("a,,"))
}
