package types

import "time"

// HTTPConfig holds shared HTTP settings used by adapters that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "claimwatch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the evidence aggregation stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxPerDomain caps how many results a single registrable domain may
	// contribute after deduplication (default 3).
	MaxPerDomain int `json:"max_per_domain" yaml:"max_per_domain"`

	// PrimaryDepth is the result cap for the primary query on deep
	// adapters (default 5).
	PrimaryDepth int `json:"primary_depth" yaml:"primary_depth"`

	// SecondaryDepth is the result cap for the secondary query (default 3).
	SecondaryDepth int `json:"secondary_depth" yaml:"secondary_depth"`

	// FactCheckDepth is the result cap for the fact-check API adapter
	// (default 10).
	FactCheckDepth int `json:"factcheck_depth" yaml:"factcheck_depth"`

	// EnableTavily controls whether the Tavily web-search adapter is used.
	EnableTavily bool `json:"enable_tavily" yaml:"enable_tavily"`

	// EnableFactCheck controls whether the Google Fact Check adapter is used.
	EnableFactCheck bool `json:"enable_factcheck" yaml:"enable_factcheck"`

	// EnableNewsAPI controls whether the NewsAPI adapter is used.
	EnableNewsAPI bool `json:"enable_newsapi" yaml:"enable_newsapi"`

	// TavilyAPIKey authenticates against the Tavily search API.
	TavilyAPIKey string `json:"tavily_api_key,omitempty" yaml:"tavily_api_key,omitempty"`

	// FactCheckAPIKey authenticates against the Google Fact Check Tools API.
	FactCheckAPIKey string `json:"factcheck_api_key,omitempty" yaml:"factcheck_api_key,omitempty"`

	// NewsAPIKey authenticates against NewsAPI.
	NewsAPIKey string `json:"newsapi_key,omitempty" yaml:"newsapi_key,omitempty"`
}

// AIConfig holds shared settings for stages that call the reasoning capability.
type AIConfig struct {
	// Model is the model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// CacheConfig holds settings for the claim cache.
type CacheConfig struct {
	// SnapshotPath is the YAML snapshot file written after every store.
	// Empty disables persistence.
	SnapshotPath string `json:"snapshot_path" yaml:"snapshot_path"`

	// TTL is the lifetime of a cache entry (default 24h).
	TTL time.Duration `json:"ttl" yaml:"ttl"`

	// MaxEntries bounds the cache size; oldest entries are evicted past it
	// (default 1000).
	MaxEntries int `json:"max_entries" yaml:"max_entries"`
}

// HistoryConfig holds settings for the verification history store.
type HistoryConfig struct {
	// Dir is the directory holding the history SQLite database.
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of query results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// CalibrationConfig exposes the hand-tuned calibration constants. The
// defaults preserve the reference values; they are configuration, not law.
type CalibrationConfig struct {
	// HighReliability is the threshold above which a source counts as
	// high-reliability (default 0.8).
	HighReliability float64 `json:"high_reliability" yaml:"high_reliability"`

	// FactCheckBoost is added per refuting fact-check source (default 0.20).
	FactCheckBoost float64 `json:"factcheck_boost" yaml:"factcheck_boost"`

	// OfficialBoost is added per refuting official source (default 0.15).
	OfficialBoost float64 `json:"official_boost" yaml:"official_boost"`

	// AgreementBoost is added per agreeing high-reliability source beyond
	// the second (default 0.06).
	AgreementBoost float64 `json:"agreement_boost" yaml:"agreement_boost"`

	// ConflictPenalty scales the deduction for near-even stance splits
	// (default 0.15).
	ConflictPenalty float64 `json:"conflict_penalty" yaml:"conflict_penalty"`

	// MinConfidence and MaxConfidence clamp the calibrated value
	// (defaults 0.1 and 0.98).
	MinConfidence float64 `json:"min_confidence" yaml:"min_confidence"`
	MaxConfidence float64 `json:"max_confidence" yaml:"max_confidence"`

	// PseudoscienceFloor is the minimum confidence for false verdicts on
	// known debunked pseudoscience claims (default 0.90).
	PseudoscienceFloor float64 `json:"pseudoscience_floor" yaml:"pseudoscience_floor"`

	// UpgradeThreshold is the confidence at which hedged verdicts upgrade
	// to definitive ones (default 0.80).
	UpgradeThreshold float64 `json:"upgrade_threshold" yaml:"upgrade_threshold"`
}

// DefaultCalibration returns the reference calibration constants.
func DefaultCalibration() CalibrationConfig {
	return CalibrationConfig{
		HighReliability:    0.8,
		FactCheckBoost:     0.20,
		OfficialBoost:      0.15,
		AgreementBoost:     0.06,
		ConflictPenalty:    0.15,
		MinConfidence:      0.1,
		MaxConfidence:      0.98,
		PseudoscienceFloor: 0.90,
		UpgradeThreshold:   0.80,
	}
}

// PipelineConfig groups all component configurations for the pipeline.
type PipelineConfig struct {
	Search      SearchConfig      `json:"search" yaml:"search"`
	AI          AIConfig          `json:"ai" yaml:"ai"`
	Cache       CacheConfig       `json:"cache" yaml:"cache"`
	History     HistoryConfig     `json:"history" yaml:"history"`
	Calibration CalibrationConfig `json:"calibration" yaml:"calibration"`

	// DefaultLanguage is the language assumed when none is given.
	DefaultLanguage string `json:"default_language" yaml:"default_language"`

	// SecondaryLanguage, when set, requests a translated explanation
	// generated alongside the primary one.
	SecondaryLanguage string `json:"secondary_language,omitempty" yaml:"secondary_language,omitempty"`

	// BatchSize is the number of claims checked concurrently per chunk in
	// batch mode (default 5).
	BatchSize int `json:"batch_size" yaml:"batch_size"`
}
