package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/asterops/neoguard/internal/config"
	"github.com/asterops/neoguard/internal/supervision"
	"github.com/asterops/neoguard/pkg/models"
)

var superviseJSON bool

var superviseCmd = &cobra.Command{
	Use:   "supervise <state.json>",
	Short: "Supervise a full pipeline run from a state file",
	Long: `Supervise every populated stage of a pipeline run.

The argument is a JSON file holding the accumulated run state: one
object per stage (object_data, trajectory_analysis, impact_analysis,
mitigation_strategies, visualization_data, ml_predictions,
explanation). Empty or absent stages are skipped.

Exits 0 when the run is valid (combined confidence at or above 0.7),
1 otherwise.

Examples:
  neoguard supervise run.json
  neoguard supervise run.json --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSupervise,
}

func init() {
	superviseCmd.Flags().BoolVar(&superviseJSON, "json", false, "Print the full supervision result as JSON")
}

func runSupervise(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	supervisor, err := buildSupervisor(cfg)
	if err != nil {
		return err
	}

	state, err := loadRunState(args[0])
	if err != nil {
		return err
	}

	result := supervisor.SuperviseRun(state)

	if superviseJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
	} else {
		printRunResult(result)
	}

	if !result.RunValid {
		os.Exit(1)
	}
	return nil
}

// loadRunState reads and decodes a run-state JSON file.
func loadRunState(path string) (models.RunState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.RunState{}, fmt.Errorf("reading state file: %w", err)
	}

	var state models.RunState
	if err := json.Unmarshal(data, &state); err != nil {
		return models.RunState{}, fmt.Errorf("decoding state file %s: %w", path, err)
	}
	return state, nil
}

// printRunResult renders the human-readable supervision summary.
func printRunResult(result *supervision.RunResult) {
	fmt.Printf("Run %s\n\n", result.RunID)

	stageNames := make([]string, 0, len(result.StageReports))
	for name := range result.StageReports {
		stageNames = append(stageNames, name)
	}
	sort.Strings(stageNames)

	for _, name := range stageNames {
		stage := result.StageReports[name]
		symbol, attr := stageSymbol(stage)
		printStatus(symbol, fmt.Sprintf("%-16s confidence %.2f  %s",
			name, stage.OverallConfidence, stage.Recommendation), attr)

		for _, issue := range stage.Errors {
			printStatus("  ✗", fmt.Sprintf("[%s] %s", issue.Validator, issue.Message), color.FgRed)
		}
		for _, issue := range stage.Warnings {
			printStatus("  ⚠", fmt.Sprintf("[%s] %s", issue.Validator, issue.Message), color.FgYellow)
		}
	}

	fmt.Println()
	fmt.Printf("Overall confidence: %.2f\n", result.OverallConfidence)

	if result.RunValid {
		printStatus("✓", "Run valid", color.FgGreen)
	} else {
		printStatus("✗", "Run invalid", color.FgRed)
	}

	if len(result.Alerts) > 0 {
		fmt.Printf("\nActive alerts (%d):\n", len(result.Alerts))
		for _, alert := range result.Alerts {
			printStatus("⚠", fmt.Sprintf("[%s] %s (%s)", alert.Level, alert.Message, alert.Stage), color.FgYellow)
		}
	}

	fmt.Println("\nRecommendations:")
	for _, rec := range result.Recommendations {
		fmt.Printf("  - %s\n", rec)
	}
}

func stageSymbol(stage *supervision.StageResult) (string, color.Attribute) {
	switch {
	case !stage.Supervised:
		return "✗", color.FgRed
	case stage.Valid:
		return "✓", color.FgGreen
	default:
		return "✗", color.FgRed
	}
}

// printStatus prints a colored status symbol followed by a message.
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
