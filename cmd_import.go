package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"critspeed/internal/analysis"
	"critspeed/internal/config"
	"critspeed/internal/service"
	"critspeed/internal/store"
	"critspeed/internal/trialfile"
)

var (
	importLaps     bool
	importLimit    int
	importActivity int64
	importSave     string
	importCompute  bool
	authLogout     bool
)

// importCmd groups the trial importers
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import trials from FIT files or Strava",
	Long: `Import trials from recorded activities.

Imported trials are listed in order. Use --save to write them to a trial file
you can edit, or --compute to run the calculator on them directly.`,
}

var importFitCmd = &cobra.Command{
	Use:   "fit <file.fit>...",
	Short: "Import trials from FIT files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runImportFIT,
}

var importStravaCmd = &cobra.Command{
	Use:   "strava",
	Short: "Import recent runs, or the laps of one activity, from Strava",
	RunE:  runImportStrava,
}

// authCmd connects or disconnects the Strava account
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize access to your Strava activities",
	Long: `Authorize critspeed to read your Strava activities.

You need a Strava API application. Get the client ID and secret from
https://www.strava.com/settings/api and put them in config.json.`,
	RunE: runAuth,
}

func init() {
	for _, cmd := range []*cobra.Command{importFitCmd, importStravaCmd} {
		cmd.Flags().StringVar(&importSave, "save", "", "Write the imported trials to this YAML file")
		cmd.Flags().BoolVar(&importCompute, "compute", false, "Compute results from the imported trials")
		cmd.Flags().StringVar(&formatFlag, "format", "table", "Output format for --compute")
		cmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "full or simple (default from config)")
	}
	importFitCmd.Flags().BoolVar(&importLaps, "laps", false, "One trial per lap instead of per file")
	importStravaCmd.Flags().IntVar(&importLimit, "limit", service.DefaultImportLimit, "Number of recent runs")
	importStravaCmd.Flags().Int64Var(&importActivity, "activity", 0, "Use the laps of this activity ID")

	authCmd.Flags().BoolVar(&authLogout, "logout", false, "Forget the stored Strava tokens")

	importCmd.AddCommand(importFitCmd, importStravaCmd)
}

func runImportFIT(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	importer := service.NewImportService(logger)
	imported, err := importer.FromFIT(ctx, args, importLaps)
	if err != nil {
		return err
	}
	return finishImport(imported)
}

func runImportStrava(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateStrava(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	connector := service.NewStravaConnector(cfg.Strava, db, os.Stdout, logger)
	client, err := connector.Client(ctx)
	if err != nil {
		return err
	}

	importer := service.NewImportService(logger)
	var imported []service.ImportedTrial
	if importActivity != 0 {
		imported, err = importer.FromStravaLaps(ctx, client, importActivity)
	} else {
		imported, err = importer.FromStrava(ctx, client, importLimit)
	}
	if err != nil {
		return err
	}

	short, daily := client.RateLimitStatus()
	logger.Sugar().Debugf("strava requests remaining: %d short, %d daily", short, daily)

	return finishImport(imported)
}

func runAuth(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if authLogout {
		if err := db.DeleteAuth(); err != nil {
			return fmt.Errorf("deleting auth: %w", err)
		}
		fmt.Println("Strava tokens removed.")
		return nil
	}

	if err := cfg.ValidateStrava(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	connector := service.NewStravaConnector(cfg.Strava, db, os.Stdout, logger)
	stored, err := connector.Authenticate(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Successfully authenticated as athlete %d!\n", stored.AthleteID)
	return nil
}

func openStore() (*store.DB, error) {
	dir, err := config.GetConfigDir()
	if err != nil {
		return nil, err
	}
	db, err := store.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// finishImport lists the trials, then saves or computes them as asked
func finishImport(imported []service.ImportedTrial) error {
	if len(imported) == 0 {
		return errors.New("no usable trials found")
	}

	for i, it := range imported {
		fmt.Printf("%2d. %-32s %8.0f m  %s\n", i+1, it.Label, it.Trial.DistanceMeters, trialfile.FormatSeconds(it.Trial.TimeSeconds))
	}

	mode, err := loadMode()
	if err != nil {
		return err
	}

	if importSave != "" {
		f := &trialfile.File{Mode: string(mode)}
		for _, it := range imported {
			f.Trials = append(f.Trials, trialfile.Entry{
				Label:          it.Label,
				DistanceMeters: it.Trial.DistanceMeters,
				Time:           trialfile.Seconds(it.Trial.TimeSeconds),
			})
		}
		if err := trialfile.Save(importSave, f); err != nil {
			return err
		}
		fmt.Printf("\nSaved %d trials to %s\n", len(f.Trials), importSave)
	}

	if !importCompute {
		return nil
	}

	trials := service.Trials(imported)
	if len(trials) > analysis.MaxTrials {
		trials = trials[:analysis.MaxTrials]
	}
	svc := service.NewAnalysisService(cfg.Analysis, logger)
	data, err := computeTrials(svc, trials, mode)
	if err != nil {
		return err
	}
	fmt.Println()
	return writeResults(os.Stdout, data)
}
