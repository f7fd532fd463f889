package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asterops/neoguard/internal/config"
	"github.com/asterops/neoguard/internal/supervision"
	"github.com/asterops/neoguard/internal/validation"
)

var rootCmd = &cobra.Command{
	Use:   "neoguard",
	Short: "Validation and confidence supervision for NEO hazard pipelines",
	Long: `Neoguard inspects the output of each stage of a near-Earth-object
hazard analysis pipeline, scores it against physical plausibility,
data completeness, and narrative coherence rules, aggregates those
scores into a single trustworthiness signal with trend tracking,
raises alerts, and issues a machine-actionable recommendation
(continue / retry / investigate / stop) to the orchestrating caller.

Core capabilities:
- Validates stage output against orbital mechanics and impact physics
- Checks completeness of collected object records
- Scores narrative output against a reference knowledge base
- Tracks confidence trends across a run and raises alerts
- Decides whether a run may proceed`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(superviseCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// buildSupervisor assembles a supervisor from the effective
// configuration, wiring in the knowledge base and debug logger when
// configured.
func buildSupervisor(cfg *config.Config) (*supervision.Supervisor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	kb := validation.DefaultKnowledgeBase()
	if cfg.KnowledgeBase.Path != "" {
		loaded, err := validation.LoadKnowledgeBase(cfg.KnowledgeBase.Path)
		if err != nil {
			return nil, fmt.Errorf("loading knowledge base: %w", err)
		}
		kb = loaded
	}

	if cfg.Logging.DebugLog != "" {
		logger, err := supervision.NewDebugLogger(cfg.Logging.DebugLog)
		if err != nil {
			return nil, fmt.Errorf("opening debug log: %w", err)
		}
		supervision.SetDebugLogger(logger)
	}

	return supervision.NewSupervisor(cfg.ConfidenceOptions(), kb), nil
}
