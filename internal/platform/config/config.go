// Package config loads the immutable process configuration from the
// environment. Every tunable, including the relevance vocabularies, lives
// here so a brand change never requires a code change.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultGenericPhrases = "i realize,i realized,just realized,didn't realize,don't realize,never realized,finally realized,suddenly realized,now realize,people realize,you realize,we realize,they realize"

	defaultStrongIndicators = "taboola realize,realize by taboola,taboola's realize,taboola platform,taboola widget,taboola advertising,taboola ad,taboola sponsored,work at taboola,working for taboola,taboola sucks,taboola spam,block taboola,remove taboola,taboola monetization,taboola revenue"

	defaultRelevantTerms = "advertising,ad network,sponsored,native ad,monetize,monetization,revenue,publisher,cpc,cpm,impressions,clicks,outbrain,revcontent,mgid,widget,recommendation,content discovery,banner,display,campaign"

	defaultCommunities = "advertising,adops,marketing,digital_marketing,webdev,web_design,blogging,contentcreation,entrepreneur,smallbusiness,ppc,seo"

	defaultAnalysisFields = "product_quality,user_experience,business_practices,financial_performance,publisher_relations,advertiser_value"
)

type Config struct {
	AppEnv     string `env:"APP_ENV" envDefault:"local"`
	HealthPort int    `env:"HEALTH_PORT" envDefault:"8080"`

	// LLM provider selection and credentials.
	LLMProvider    string `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey   string `env:"OPENAI_API_KEY"`
	OpenAIModel    string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	GeminiAPIKey   string `env:"GEMINI_API_KEY"`
	GeminiModel    string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	GeminiEndpoint string `env:"GEMINI_ENDPOINT" envDefault:"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"`

	// LLM runtime controls.
	LLMMaxWorkers    int           `env:"LLM_MAX_WORKERS" envDefault:"2"`
	LLMRequestDelay  time.Duration `env:"LLM_REQUEST_DELAY" envDefault:"250ms"`
	LLMTimeout       time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`
	LLMMaxAttempts   int           `env:"LLM_MAX_ATTEMPTS" envDefault:"5"`
	LLMRetryDelay    time.Duration `env:"LLM_RETRY_DELAY" envDefault:"2s"`
	LLMMaxRetryDelay time.Duration `env:"LLM_MAX_RETRY_DELAY" envDefault:"60s"`
	LLMMaxTokens     int           `env:"LLM_MAX_TOKENS" envDefault:"2000"`
	RateLimitRPS     float64       `env:"RATE_LIMIT_RPS" envDefault:"2"`
	MaxPromptChars   int           `env:"MAX_PROMPT_CHARS" envDefault:"2000"`

	// Relevance filter vocabularies. Defaults mirror the Taboola deployment
	// but everything is overridable per brand.
	BrandToken          string   `env:"BRAND_TOKEN" envDefault:"taboola"`
	ProductToken        string   `env:"PRODUCT_TOKEN" envDefault:"realize"`
	GenericPhrases      []string `env:"GENERIC_PHRASES" envSeparator:","`
	StrongIndicators    []string `env:"STRONG_INDICATORS" envSeparator:","`
	RelevantTerms       []string `env:"RELEVANT_TERMS" envSeparator:","`
	RelevantCommunities []string `env:"RELEVANT_COMMUNITIES" envSeparator:","`
	MinContentLength    int      `env:"MIN_CONTENT_LENGTH" envDefault:"150"`
	AutoAcceptThreshold float64  `env:"AUTO_ACCEPT_THRESHOLD" envDefault:"0.8"`

	// Analysis and aggregation.
	AnalysisFields      []string `env:"ANALYSIS_FIELDS" envSeparator:","`
	LowConfThreshold    float64  `env:"LOW_CONFIDENCE_THRESHOLD" envDefault:"0.3"`
	MediumConfThreshold float64  `env:"MEDIUM_CONFIDENCE_THRESHOLD" envDefault:"0.45"`
	TopThemes           int      `env:"TOP_THEMES" envDefault:"3"`
	TrendPeriod         string   `env:"TREND_PERIOD" envDefault:"week"`

	// Ingest filters.
	MinCommentLength int `env:"MIN_COMMENT_LENGTH" envDefault:"20"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	applyVocabularyDefaults(cfg)

	return cfg, nil
}

// applyVocabularyDefaults fills the list-valued fields that env/v11 cannot
// default cleanly (the phrase lists themselves contain the separator's
// neighbors, and an empty env var must still mean "use the defaults").
func applyVocabularyDefaults(cfg *Config) {
	if len(cfg.GenericPhrases) == 0 {
		cfg.GenericPhrases = splitList(defaultGenericPhrases)
	}

	if len(cfg.StrongIndicators) == 0 {
		cfg.StrongIndicators = splitList(defaultStrongIndicators)
	}

	if len(cfg.RelevantTerms) == 0 {
		cfg.RelevantTerms = splitList(defaultRelevantTerms)
	}

	if len(cfg.RelevantCommunities) == 0 {
		cfg.RelevantCommunities = splitList(defaultCommunities)
	}

	if len(cfg.AnalysisFields) == 0 {
		cfg.AnalysisFields = splitList(defaultAnalysisFields)
	}
}
