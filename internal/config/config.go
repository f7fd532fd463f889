// Package config handles configuration loading and management for neoguard.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/asterops/neoguard/internal/confidence"
)

// Config holds all configuration for neoguard.
type Config struct {
	Confidence    ConfidenceConfig    `mapstructure:"confidence"`
	KnowledgeBase KnowledgeBaseConfig `mapstructure:"knowledge_base"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// ConfidenceConfig holds the tunables of the confidence system.
type ConfidenceConfig struct {
	Weights     WeightsConfig    `mapstructure:"weights"`
	Thresholds  ThresholdsConfig `mapstructure:"alert_thresholds"`
	MaxHistory  int              `mapstructure:"max_history"`
	MaxAlerts   int              `mapstructure:"max_alerts"`
	TrendWindow int              `mapstructure:"trend_window"`
	TrendDelta  float64          `mapstructure:"trend_delta"`
}

// WeightsConfig holds the component weights of the overall confidence
// score. The weights must sum to 1.
type WeightsConfig struct {
	Physical    float64 `mapstructure:"physical"`
	Coherence   float64 `mapstructure:"coherence"`
	Orbital     float64 `mapstructure:"orbital"`
	DataQuality float64 `mapstructure:"data_quality"`
	Prediction  float64 `mapstructure:"prediction"`
}

// ThresholdsConfig holds the alert-level boundaries.
type ThresholdsConfig struct {
	Critical  float64 `mapstructure:"critical"`
	High      float64 `mapstructure:"high"`
	Medium    float64 `mapstructure:"medium"`
	Declining float64 `mapstructure:"declining"`
}

// KnowledgeBaseConfig points at an optional YAML knowledge base for
// the coherence validator.
type KnowledgeBaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds debug log settings.
type LoggingConfig struct {
	DebugLog string `mapstructure:"debug_log"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (NEOGUARD_*)
// 2. Project config (.neoguard.yaml in current directory or parent)
// 3. User config (~/.config/neoguard/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("NEOGUARD")
	v.AutomaticEnv()
	v.BindEnv("logging.debug_log", "NEOGUARD_DEBUG_LOG")
	v.BindEnv("knowledge_base.path", "NEOGUARD_KNOWLEDGE_BASE")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.KnowledgeBase.Path = os.ExpandEnv(cfg.KnowledgeBase.Path)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.KnowledgeBase.Path = os.ExpandEnv(cfg.KnowledgeBase.Path)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("confidence.weights.physical", cfg.Confidence.Weights.Physical)
	v.Set("confidence.weights.coherence", cfg.Confidence.Weights.Coherence)
	v.Set("confidence.weights.orbital", cfg.Confidence.Weights.Orbital)
	v.Set("confidence.weights.data_quality", cfg.Confidence.Weights.DataQuality)
	v.Set("confidence.weights.prediction", cfg.Confidence.Weights.Prediction)
	v.Set("confidence.alert_thresholds.critical", cfg.Confidence.Thresholds.Critical)
	v.Set("confidence.alert_thresholds.high", cfg.Confidence.Thresholds.High)
	v.Set("confidence.alert_thresholds.medium", cfg.Confidence.Thresholds.Medium)
	v.Set("confidence.alert_thresholds.declining", cfg.Confidence.Thresholds.Declining)
	v.Set("confidence.max_history", cfg.Confidence.MaxHistory)
	v.Set("confidence.max_alerts", cfg.Confidence.MaxAlerts)
	v.Set("confidence.trend_window", cfg.Confidence.TrendWindow)
	v.Set("confidence.trend_delta", cfg.Confidence.TrendDelta)
	v.Set("knowledge_base.path", cfg.KnowledgeBase.Path)
	v.Set("logging.debug_log", cfg.Logging.DebugLog)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// Validate checks the configuration for values the confidence system
// cannot operate with.
func (c *Config) Validate() error {
	w := c.Confidence.Weights
	for name, value := range map[string]float64{
		"physical":     w.Physical,
		"coherence":    w.Coherence,
		"orbital":      w.Orbital,
		"data_quality": w.DataQuality,
		"prediction":   w.Prediction,
	} {
		if value < 0 || math.IsNaN(value) {
			return fmt.Errorf("confidence.weights.%s must be non-negative, got %v", name, value)
		}
	}

	sum := w.Physical + w.Coherence + w.Orbital + w.DataQuality + w.Prediction
	if math.Abs(sum-1.0) > 0.001 {
		return fmt.Errorf("confidence weights must sum to 1.0, got %.3f", sum)
	}

	t := c.Confidence.Thresholds
	if !(t.Critical < t.High && t.High < t.Medium) {
		return fmt.Errorf("alert thresholds must be ordered critical < high < medium, got %.2f/%.2f/%.2f",
			t.Critical, t.High, t.Medium)
	}

	if c.Confidence.MaxHistory < 2 {
		return fmt.Errorf("confidence.max_history must be at least 2, got %d", c.Confidence.MaxHistory)
	}
	if c.Confidence.MaxAlerts < 1 {
		return fmt.Errorf("confidence.max_alerts must be at least 1, got %d", c.Confidence.MaxAlerts)
	}
	if c.Confidence.TrendWindow < 2 {
		return fmt.Errorf("confidence.trend_window must be at least 2, got %d", c.Confidence.TrendWindow)
	}
	if c.Confidence.TrendDelta <= 0 {
		return fmt.Errorf("confidence.trend_delta must be positive, got %v", c.Confidence.TrendDelta)
	}

	return nil
}

// ConfidenceOptions converts the configuration into the options the
// confidence system is constructed with.
func (c *Config) ConfidenceOptions() confidence.Options {
	return confidence.Options{
		Weights: confidence.Weights{
			Physical:    c.Confidence.Weights.Physical,
			Coherence:   c.Confidence.Weights.Coherence,
			Orbital:     c.Confidence.Weights.Orbital,
			DataQuality: c.Confidence.Weights.DataQuality,
			Prediction:  c.Confidence.Weights.Prediction,
		},
		Thresholds: confidence.Thresholds{
			Critical:  c.Confidence.Thresholds.Critical,
			High:      c.Confidence.Thresholds.High,
			Medium:    c.Confidence.Thresholds.Medium,
			Declining: c.Confidence.Thresholds.Declining,
		},
		MaxHistory:  c.Confidence.MaxHistory,
		MaxAlerts:   c.Confidence.MaxAlerts,
		TrendWindow: c.Confidence.TrendWindow,
		TrendDelta:  c.Confidence.TrendDelta,
	}
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	// Component weights
	v.SetDefault("confidence.weights.physical", 0.30)
	v.SetDefault("confidence.weights.coherence", 0.20)
	v.SetDefault("confidence.weights.orbital", 0.20)
	v.SetDefault("confidence.weights.data_quality", 0.15)
	v.SetDefault("confidence.weights.prediction", 0.15)

	// Alert-level boundaries
	v.SetDefault("confidence.alert_thresholds.critical", 0.3)
	v.SetDefault("confidence.alert_thresholds.high", 0.5)
	v.SetDefault("confidence.alert_thresholds.medium", 0.7)
	v.SetDefault("confidence.alert_thresholds.declining", 0.8)

	// History and trend
	v.SetDefault("confidence.max_history", 100)
	v.SetDefault("confidence.max_alerts", 256)
	v.SetDefault("confidence.trend_window", 5)
	v.SetDefault("confidence.trend_delta", 0.05)

	// Knowledge base
	v.SetDefault("knowledge_base.path", "")

	// Logging
	v.SetDefault("logging.debug_log", "")
}

// getUserConfigDir returns the XDG config directory for neoguard.
func getUserConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "neoguard")
	}

	// Fall back to ~/.config/neoguard
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "neoguard")
	}
	return filepath.Join(home, ".config", "neoguard")
}

// findProjectConfig searches for .neoguard.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".neoguard.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Confidence: ConfidenceConfig{
			Weights: WeightsConfig{
				Physical:    0.30,
				Coherence:   0.20,
				Orbital:     0.20,
				DataQuality: 0.15,
				Prediction:  0.15,
			},
			Thresholds: ThresholdsConfig{
				Critical:  0.3,
				High:      0.5,
				Medium:    0.7,
				Declining: 0.8,
			},
			MaxHistory:  100,
			MaxAlerts:   256,
			TrendWindow: 5,
			TrendDelta:  0.05,
		},
		KnowledgeBase: KnowledgeBaseConfig{Path: ""},
		Logging:       LoggingConfig{DebugLog: ""},
	}
}
