package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/asterops/neoguard/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify neoguard configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/neoguard/config.yaml
Project-specific overrides can be placed in .neoguard.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default user config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Save(config.Default()); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Printf("Wrote default configuration to %s\n", config.GetUserConfigPath())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("confidence.weights.physical: %g\n", cfg.Confidence.Weights.Physical)
	fmt.Printf("confidence.weights.coherence: %g\n", cfg.Confidence.Weights.Coherence)
	fmt.Printf("confidence.weights.orbital: %g\n", cfg.Confidence.Weights.Orbital)
	fmt.Printf("confidence.weights.data_quality: %g\n", cfg.Confidence.Weights.DataQuality)
	fmt.Printf("confidence.weights.prediction: %g\n", cfg.Confidence.Weights.Prediction)
	fmt.Printf("confidence.alert_thresholds.critical: %g\n", cfg.Confidence.Thresholds.Critical)
	fmt.Printf("confidence.alert_thresholds.high: %g\n", cfg.Confidence.Thresholds.High)
	fmt.Printf("confidence.alert_thresholds.medium: %g\n", cfg.Confidence.Thresholds.Medium)
	fmt.Printf("confidence.alert_thresholds.declining: %g\n", cfg.Confidence.Thresholds.Declining)
	fmt.Printf("confidence.max_history: %d\n", cfg.Confidence.MaxHistory)
	fmt.Printf("confidence.max_alerts: %d\n", cfg.Confidence.MaxAlerts)
	fmt.Printf("confidence.trend_window: %d\n", cfg.Confidence.TrendWindow)
	fmt.Printf("confidence.trend_delta: %g\n", cfg.Confidence.TrendDelta)
	fmt.Printf("knowledge_base.path: %s\n", displayString(cfg.KnowledgeBase.Path))
	fmt.Printf("logging.debug_log: %s\n", displayString(cfg.Logging.DebugLog))
}

func displayString(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue returns the string form of a configuration key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch key {
	case "confidence.weights.physical":
		return fmt.Sprintf("%g", cfg.Confidence.Weights.Physical), nil
	case "confidence.weights.coherence":
		return fmt.Sprintf("%g", cfg.Confidence.Weights.Coherence), nil
	case "confidence.weights.orbital":
		return fmt.Sprintf("%g", cfg.Confidence.Weights.Orbital), nil
	case "confidence.weights.data_quality":
		return fmt.Sprintf("%g", cfg.Confidence.Weights.DataQuality), nil
	case "confidence.weights.prediction":
		return fmt.Sprintf("%g", cfg.Confidence.Weights.Prediction), nil
	case "confidence.alert_thresholds.critical":
		return fmt.Sprintf("%g", cfg.Confidence.Thresholds.Critical), nil
	case "confidence.alert_thresholds.high":
		return fmt.Sprintf("%g", cfg.Confidence.Thresholds.High), nil
	case "confidence.alert_thresholds.medium":
		return fmt.Sprintf("%g", cfg.Confidence.Thresholds.Medium), nil
	case "confidence.alert_thresholds.declining":
		return fmt.Sprintf("%g", cfg.Confidence.Thresholds.Declining), nil
	case "confidence.max_history":
		return strconv.Itoa(cfg.Confidence.MaxHistory), nil
	case "confidence.max_alerts":
		return strconv.Itoa(cfg.Confidence.MaxAlerts), nil
	case "confidence.trend_window":
		return strconv.Itoa(cfg.Confidence.TrendWindow), nil
	case "confidence.trend_delta":
		return fmt.Sprintf("%g", cfg.Confidence.TrendDelta), nil
	case "knowledge_base.path":
		return cfg.KnowledgeBase.Path, nil
	case "logging.debug_log":
		return cfg.Logging.DebugLog, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue parses and assigns a configuration value.
func setConfigValue(cfg *config.Config, key, value string) error {
	setFloat := func(target *float64) error {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q for %s", value, key)
		}
		*target = f
		return nil
	}
	setInt := func(target *int) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q for %s", value, key)
		}
		*target = n
		return nil
	}

	switch key {
	case "confidence.weights.physical":
		return setFloat(&cfg.Confidence.Weights.Physical)
	case "confidence.weights.coherence":
		return setFloat(&cfg.Confidence.Weights.Coherence)
	case "confidence.weights.orbital":
		return setFloat(&cfg.Confidence.Weights.Orbital)
	case "confidence.weights.data_quality":
		return setFloat(&cfg.Confidence.Weights.DataQuality)
	case "confidence.weights.prediction":
		return setFloat(&cfg.Confidence.Weights.Prediction)
	case "confidence.alert_thresholds.critical":
		return setFloat(&cfg.Confidence.Thresholds.Critical)
	case "confidence.alert_thresholds.high":
		return setFloat(&cfg.Confidence.Thresholds.High)
	case "confidence.alert_thresholds.medium":
		return setFloat(&cfg.Confidence.Thresholds.Medium)
	case "confidence.alert_thresholds.declining":
		return setFloat(&cfg.Confidence.Thresholds.Declining)
	case "confidence.max_history":
		return setInt(&cfg.Confidence.MaxHistory)
	case "confidence.max_alerts":
		return setInt(&cfg.Confidence.MaxAlerts)
	case "confidence.trend_window":
		return setInt(&cfg.Confidence.TrendWindow)
	case "confidence.trend_delta":
		return setFloat(&cfg.Confidence.TrendDelta)
	case "knowledge_base.path":
		cfg.KnowledgeBase.Path = value
		return nil
	case "logging.debug_log":
		cfg.Logging.DebugLog = value
		return nil
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
}
