package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"critspeed/internal/config"
	"critspeed/internal/trialfile"
)

// initCmd writes an example config and trial file
var initCmd = &cobra.Command{
	Use:   "init [trials.yaml]",
	Short: "Create an example config and trial file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	if err := config.CreateExample(); err != nil {
		return fmt.Errorf("creating example config: %w", err)
	}
	configDir, _ := config.GetConfigDir()
	fmt.Printf("Config file:\n  %s/config.json\n", configDir)

	path := "trials.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("\n%s already exists, leaving it alone.\n", path)
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	example := &trialfile.File{
		Mode: cfg.Analysis.Mode,
		Trials: []trialfile.Entry{
			{Label: "short test", DistanceMeters: 1460, Time: 360},
			{Label: "long test", DistanceMeters: 2690, Time: 720},
		},
	}
	if err := trialfile.Save(path, example); err != nil {
		return err
	}

	fmt.Printf("\nExample trials written to %s. Edit it, then run:\n", path)
	fmt.Printf("  critspeed compute -f %s\n", path)
	fmt.Println("\nStrava import needs API credentials from https://www.strava.com/settings/api")
	return nil
}
