package model

import "time"

// Config holds the full pipeline configuration.
//
// Hierarchy (highest to lowest priority): CLI flags, VEREDICTO_* env vars,
// config file (~/.veredicto/config.yaml), defaults.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	HTTP      HTTPConfig      `yaml:"http" mapstructure:"http"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Embed     EmbedConfig     `yaml:"embedding" mapstructure:"embedding"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Evidence  EvidenceConfig  `yaml:"evidence" mapstructure:"evidence"`
	Dedup     DedupConfig     `yaml:"dedup" mapstructure:"dedup"`
	Agents    AgentsConfig    `yaml:"agents" mapstructure:"agents"`
	Review    ReviewConfig    `yaml:"review" mapstructure:"review"`
	Worker    WorkerConfig    `yaml:"worker" mapstructure:"worker"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// StoreConfig configures the SQLite knowledge store.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// HTTPConfig configures outbound page fetching.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
}

// CacheConfig configures the fetched-page cache.
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// ProviderConfig identifies one concrete LLM or search backend.
type ProviderConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Model   string `yaml:"model" mapstructure:"model"`
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// LLMConfig configures the text-completion providers. Secondary (when its
// Name is non-empty) is tried after Primary fails.
type LLMConfig struct {
	Primary   ProviderConfig `yaml:"primary" mapstructure:"primary"`
	Secondary ProviderConfig `yaml:"secondary" mapstructure:"secondary"`
	Timeout   time.Duration  `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens int            `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// EmbedConfig configures the embedding service.
type EmbedConfig struct {
	Model   string        `yaml:"model" mapstructure:"model"`
	APIKey  string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// SearchConfig configures web-search providers.
type SearchConfig struct {
	Primary    ProviderConfig `yaml:"primary" mapstructure:"primary"`
	Secondary  ProviderConfig `yaml:"secondary" mapstructure:"secondary"`
	Locale     string         `yaml:"locale" mapstructure:"locale"` // Region hint, e.g. "es"
	MaxResults int            `yaml:"max_results" mapstructure:"max_results"`
	Timeout    time.Duration  `yaml:"timeout" mapstructure:"timeout"`
}

// EvidenceConfig bounds per-claim evidence gathering.
type EvidenceConfig struct {
	TopPages     int           `yaml:"top_pages" mapstructure:"top_pages"`     // Pages fetched per claim
	CharBudget   int           `yaml:"char_budget" mapstructure:"char_budget"` // Max chars kept per page
	FetchTimeout time.Duration `yaml:"fetch_timeout" mapstructure:"fetch_timeout"`
}

// DedupConfig holds the similarity bands of the deduplication engine.
type DedupConfig struct {
	DuplicateThreshold float64 `yaml:"duplicate_threshold" mapstructure:"duplicate_threshold"`
	SimilarThreshold   float64 `yaml:"similar_threshold" mapstructure:"similar_threshold"`
	TopK               int     `yaml:"top_k" mapstructure:"top_k"`
}

// AgentsConfig bounds the verification agent pool.
type AgentsConfig struct {
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"` // Per agent
}

// ReviewConfig holds the review-routing confidence thresholds.
type ReviewConfig struct {
	HighBelow   float64 `yaml:"high_below" mapstructure:"high_below"`     // conf < HighBelow -> high priority
	ReviewBelow float64 `yaml:"review_below" mapstructure:"review_below"` // conf < ReviewBelow -> needs review
}

// WorkerConfig configures the run loop.
type WorkerConfig struct {
	Count        int           `yaml:"count" mapstructure:"count"`
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`
	MineInterval time.Duration `yaml:"mine_interval" mapstructure:"mine_interval"`
	MetricsAddr  string        `yaml:"metrics_addr" mapstructure:"metrics_addr"` // Empty disables /metrics
}

// RateLimitConfig configures per-domain outbound request limits.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// DefaultConfig returns sensible defaults for every section.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path: "veredicto.db",
		},
		HTTP: HTTPConfig{
			Timeout:      20 * time.Second,
			UserAgent:    "Veredicto/0.1 (+https://github.com/veredicto/veredicto)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             6 * time.Hour,
			CleanupInterval: 30 * time.Minute,
		},
		LLM: LLMConfig{
			Primary:   ProviderConfig{Name: "openai", Model: "gpt-4o-mini"},
			Timeout:   60 * time.Second,
			MaxTokens: 1200,
		},
		Embed: EmbedConfig{
			Model:   "text-embedding-3-small",
			Timeout: 30 * time.Second,
		},
		Search: SearchConfig{
			Primary:    ProviderConfig{Name: "brave"},
			Locale:     "es",
			MaxResults: 15,
			Timeout:    15 * time.Second,
		},
		Evidence: EvidenceConfig{
			TopPages:     5,
			CharBudget:   2500,
			FetchTimeout: 15 * time.Second,
		},
		Dedup: DedupConfig{
			DuplicateThreshold: 0.95,
			SimilarThreshold:   0.70,
			TopK:               8,
		},
		Agents: AgentsConfig{
			Timeout: 45 * time.Second,
		},
		Review: ReviewConfig{
			HighBelow:   0.4,
			ReviewBelow: 0.6,
		},
		Worker: WorkerConfig{
			Count:        4,
			PollInterval: 10 * time.Second,
			MineInterval: 30 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 1.0,
			Burst:             3,
		},
	}
}
