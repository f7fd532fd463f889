package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/asterops/neoguard/internal/confidence"
	"github.com/asterops/neoguard/internal/config"
)

var statusStateFile string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show supervision system health",
	Long: `Display the health of the supervision system.

Shows:
  - Overall system status and confidence
  - Per-component confidence breakdown
  - Confidence trend
  - Active alerts

With --state, a full supervision pass runs over the given run state
file first, so the report reflects that run.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusStateFile, "state", "", "Run state file to supervise before reporting")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	supervisor, err := buildSupervisor(cfg)
	if err != nil {
		return err
	}

	if statusStateFile != "" {
		state, err := loadRunState(statusStateFile)
		if err != nil {
			return err
		}
		supervisor.SuperviseRun(state)
	}

	status := supervisor.SystemStatus()

	symbol, attr := "✓", color.FgGreen
	if status.Health.Status != "healthy" {
		symbol, attr = "⚠", color.FgYellow
	}
	printStatus(symbol, fmt.Sprintf("System %s (confidence %.2f)", status.Health.Status, status.Health.Confidence), attr)

	fmt.Println("\nComponents:")
	fmt.Printf("  physical:     %.2f\n", status.Health.Metrics.Physical)
	fmt.Printf("  coherence:    %.2f\n", status.Health.Metrics.Coherence)
	fmt.Printf("  orbital:      %.2f\n", status.Health.Metrics.Orbital)
	fmt.Printf("  data quality: %.2f\n", status.Health.Metrics.DataQuality)
	fmt.Printf("  prediction:   %.2f\n", status.Health.Metrics.Prediction)

	fmt.Println()
	if status.Trend.Trend == confidence.TrendInsufficientData {
		fmt.Println("Trend: insufficient data")
	} else {
		fmt.Printf("Trend: %s (%.2f -> %.2f)\n", status.Trend.Trend, status.Trend.Previous, status.Trend.Current)
	}

	fmt.Printf("Supervisors: %d  Validators: %d\n", status.SupervisorsActive, status.ValidatorsActive)

	if status.ActiveAlerts > 0 {
		printStatus("⚠", fmt.Sprintf("%d active alerts", status.ActiveAlerts), color.FgYellow)
	} else {
		fmt.Println("No active alerts.")
	}

	return nil
}
