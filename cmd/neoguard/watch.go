package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/asterops/neoguard/internal/config"
)

var watchCmd = &cobra.Command{
	Use:   "watch <state.json>",
	Short: "Re-supervise a run state file whenever it changes",
	Long: `Watch a run state file and re-run full supervision every time the
file is written.

Watching stops when the confidence system decides the pipeline should
no longer continue (an unresolved critical alert, or overall
confidence below the critical threshold), or on interrupt.

Example:
  neoguard watch run.json`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	supervisor, err := buildSupervisor(cfg)
	if err != nil {
		return err
	}

	statePath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving state path: %w", err)
	}

	supervise := func() error {
		state, err := loadRunState(statePath)
		if err != nil {
			// A partially written file decodes next time around.
			printStatus("⚠", fmt.Sprintf("skipping update: %v", err), color.FgYellow)
			return nil
		}
		result := supervisor.SuperviseRun(state)
		printRunResult(result)
		fmt.Println()
		return nil
	}

	if err := supervise(); err != nil {
		return err
	}
	if !supervisor.ShouldContinue() {
		printStatus("✗", "Confidence too low, stopping watch", color.FgRed)
		os.Exit(1)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors replace files on save, which drops
	// a watch registered on the file itself.
	if err := watcher.Add(filepath.Dir(statePath)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(statePath), err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	fmt.Printf("Watching %s...\n\n", statePath)

	for {
		select {
		case <-sig:
			fmt.Println("Stopping watch.")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != statePath {
				continue
			}
			if event.Op&fsnotify.Write == 0 && event.Op&fsnotify.Create == 0 {
				continue
			}

			if err := supervise(); err != nil {
				return err
			}
			if !supervisor.ShouldContinue() {
				printStatus("✗", "Confidence too low, stopping watch", color.FgRed)
				os.Exit(1)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printStatus("⚠", fmt.Sprintf("watch error: %v", err), color.FgYellow)
		}
	}
}
