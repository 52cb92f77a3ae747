// Copyright CrisisWatch Labs, 2026. All rights reserved.

// Package main is the entry point for the claimwatch CLI.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/crisiswatch/claimwatch/internal/cache"
	"github.com/crisiswatch/claimwatch/internal/history"
	"github.com/crisiswatch/claimwatch/internal/llm"
	"github.com/crisiswatch/claimwatch/internal/pipeline"
	"github.com/crisiswatch/claimwatch/internal/search"
	"github.com/crisiswatch/claimwatch/internal/secrets"
	"github.com/crisiswatch/claimwatch/internal/synthesize"
	"github.com/crisiswatch/claimwatch/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, the secret value for key
// otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the claimwatch CLI.
var rootCmd = &cobra.Command{
	Use:   "claimwatch",
	Short: "Verify claims against multi-source evidence",
	Long: `claimwatch verifies factual claims during fast-moving events. It extracts
a checkable claim from raw input, gathers evidence from web search, fact-check
databases, news coverage, and Wikipedia, then synthesizes a calibrated verdict
with sourced evidence and a shareable correction.

Each operation is a subcommand: check verifies a single claim, batch verifies
many, cache inspects the claim cache, and history queries past verifications.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./claimwatch.yaml or ~/.config/claimwatch/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("claimwatch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "claimwatch"))
		}
	}

	viper.SetDefault("search.timeout", "15s")
	viper.SetDefault("search.max_per_domain", 3)
	viper.SetDefault("search.primary_depth", 5)
	viper.SetDefault("search.secondary_depth", 3)
	viper.SetDefault("search.factcheck_depth", 10)
	viper.SetDefault("search.enable_tavily", true)
	viper.SetDefault("search.enable_factcheck", true)
	viper.SetDefault("search.enable_newsapi", true)
	viper.SetDefault("ai.model", "gpt-4o-mini")
	viper.SetDefault("ai.max_retries", 3)
	viper.SetDefault("cache.snapshot_path", ".claimwatch/cache.yaml")
	viper.SetDefault("cache.ttl", "24h")
	viper.SetDefault("cache.max_entries", 1000)
	viper.SetDefault("history.dir", ".claimwatch")
	viper.SetDefault("history.max_results", 50)
	viper.SetDefault("default_language", "en")
	viper.SetDefault("batch_size", 5)

	cal := types.DefaultCalibration()
	viper.SetDefault("calibration.high_reliability", cal.HighReliability)
	viper.SetDefault("calibration.factcheck_boost", cal.FactCheckBoost)
	viper.SetDefault("calibration.official_boost", cal.OfficialBoost)
	viper.SetDefault("calibration.agreement_boost", cal.AgreementBoost)
	viper.SetDefault("calibration.conflict_penalty", cal.ConflictPenalty)
	viper.SetDefault("calibration.min_confidence", cal.MinConfidence)
	viper.SetDefault("calibration.max_confidence", cal.MaxConfidence)
	viper.SetDefault("calibration.pseudoscience_floor", cal.PseudoscienceFloor)
	viper.SetDefault("calibration.upgrade_threshold", cal.UpgradeThreshold)

	viper.SetEnvPrefix("CLAIMWATCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles the full pipeline configuration from the config
// file, environment, and loaded secrets.
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("search.timeout"),
				UserAgent: "claimwatch/" + version,
			},
			MaxPerDomain:    viper.GetInt("search.max_per_domain"),
			PrimaryDepth:    viper.GetInt("search.primary_depth"),
			SecondaryDepth:  viper.GetInt("search.secondary_depth"),
			FactCheckDepth:  viper.GetInt("search.factcheck_depth"),
			EnableTavily:    viper.GetBool("search.enable_tavily"),
			EnableFactCheck: viper.GetBool("search.enable_factcheck"),
			EnableNewsAPI:   viper.GetBool("search.enable_newsapi"),
			TavilyAPIKey:    secretDefault("tavily-api-key", viper.GetString("search.tavily_api_key")),
			FactCheckAPIKey: secretDefault("google-factcheck-api-key", viper.GetString("search.factcheck_api_key")),
			NewsAPIKey:      secretDefault("newsapi-key", viper.GetString("search.newsapi_key")),
		},
		AI: types.AIConfig{
			Model:      viper.GetString("ai.model"),
			APIKey:     secretDefault("openai-api-key", viper.GetString("ai.api_key")),
			MaxRetries: viper.GetInt("ai.max_retries"),
		},
		Cache: types.CacheConfig{
			SnapshotPath: viper.GetString("cache.snapshot_path"),
			TTL:          viper.GetDuration("cache.ttl"),
			MaxEntries:   viper.GetInt("cache.max_entries"),
		},
		History: types.HistoryConfig{
			Dir:        viper.GetString("history.dir"),
			MaxResults: viper.GetInt("history.max_results"),
		},
		Calibration: types.CalibrationConfig{
			HighReliability:    viper.GetFloat64("calibration.high_reliability"),
			FactCheckBoost:     viper.GetFloat64("calibration.factcheck_boost"),
			OfficialBoost:      viper.GetFloat64("calibration.official_boost"),
			AgreementBoost:     viper.GetFloat64("calibration.agreement_boost"),
			ConflictPenalty:    viper.GetFloat64("calibration.conflict_penalty"),
			MinConfidence:      viper.GetFloat64("calibration.min_confidence"),
			MaxConfidence:      viper.GetFloat64("calibration.max_confidence"),
			PseudoscienceFloor: viper.GetFloat64("calibration.pseudoscience_floor"),
			UpgradeThreshold:   viper.GetFloat64("calibration.upgrade_threshold"),
		},
		DefaultLanguage:   viper.GetString("default_language"),
		SecondaryLanguage: viper.GetString("secondary_language"),
		BatchSize:         viper.GetInt("batch_size"),
	}
}

// buildAdapters constructs the evidence adapters available under the
// configuration. Keyed adapters are skipped when disabled or missing a
// key; Wikipedia and the aggregated fact-checkers need neither.
func buildAdapters(cfg types.PipelineConfig) []search.Adapter {
	timeout := cfg.Search.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := &http.Client{Timeout: timeout}
	ua := cfg.Search.UserAgent

	var adapters []search.Adapter
	if cfg.Search.EnableTavily && cfg.Search.TavilyAPIKey != "" {
		adapters = append(adapters, &search.TavilyAdapter{Client: client, APIKey: cfg.Search.TavilyAPIKey, UserAgent: ua})
	}
	if cfg.Search.EnableFactCheck && cfg.Search.FactCheckAPIKey != "" {
		adapters = append(adapters, &search.FactCheckAdapter{Client: client, APIKey: cfg.Search.FactCheckAPIKey, UserAgent: ua})
	}
	if cfg.Search.EnableNewsAPI && cfg.Search.NewsAPIKey != "" {
		adapters = append(adapters, &search.NewsAPIAdapter{Client: client, APIKey: cfg.Search.NewsAPIKey, UserAgent: ua})
	}
	adapters = append(adapters,
		&search.WikipediaAdapter{Client: client, UserAgent: ua},
		&search.AggregatedFactCheckAdapter{Client: client, UserAgent: ua},
	)
	return adapters
}

// newChecker wires the full pipeline. The returned closer releases the
// history store; callers must invoke it.
func newChecker(withHistory bool) (*pipeline.Checker, func(), error) {
	cfg := pipelineConfig()

	gen, err := llm.NewOpenAI(cfg.AI)
	if err != nil {
		return nil, nil, err
	}

	agg := search.NewAggregator(cfg.Search, buildAdapters(cfg)...)
	claims := cache.New(cfg.Cache, os.Stderr)

	var hist *history.Store
	closer := func() {}
	if withHistory {
		hist, err = history.NewStore(cfg.History)
		if err != nil {
			return nil, nil, err
		}
		closer = func() { hist.Close() }
	}

	checker := pipeline.NewChecker(cfg, synthesize.New(gen), agg, claims, hist, os.Stderr)
	return checker, closer, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
