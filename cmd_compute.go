package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"critspeed/internal/export"
	"critspeed/internal/service"
	"critspeed/internal/trialfile"
	"critspeed/internal/tui"
)

var (
	curveHorizon float64
	curveSamples int
	curvePoints  bool
)

// computeCmd prints CS, D′ and the prediction table
var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute critical speed, D′ and predictions",
	Long: `Compute critical speed, D′ and the prediction table from field tests.

The first two trials are the reference pair for CS and D′. In full mode up to
four more trials refine the log model used below CS.

Examples:
  critspeed compute -t 1460:6:00 -t 2690:12:00
  critspeed compute -f trials.yaml --format json -o results.json`,
	RunE: runCompute,
}

// curveCmd charts the modeled distance-time curve
var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Chart the modeled distance and speed curve",
	RunE:  runCurve,
}

// watchCmd recomputes whenever a trial file changes
var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Recompute every time a trial file is saved",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	curveCmd.Flags().Float64Var(&curveHorizon, "horizon", 0, "Curve length in seconds (default from config)")
	curveCmd.Flags().IntVar(&curveSamples, "samples", 0, "Number of curve samples (default from config)")
	curveCmd.Flags().BoolVar(&curvePoints, "points", false, "Print the samples as CSV instead of charts")
	curveCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write to a file instead of stdout")

	watchCmd.Flags().StringVar(&formatFlag, "format", "table", "Output format: table, markdown, csv, json")
	watchCmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "Mode when the file sets none (default from config)")
}

func runCompute(cmd *cobra.Command, args []string) error {
	trials, mode, err := loadTrials()
	if err != nil {
		return err
	}

	svc := service.NewAnalysisService(cfg.Analysis, logger)
	data, err := computeTrials(svc, trials, mode)
	if err != nil {
		return err
	}

	w, closeOutput, err := openOutput()
	if err != nil {
		return err
	}
	if err := writeResults(w, data); err != nil {
		closeOutput()
		return err
	}
	return closeOutput()
}

func runCurve(cmd *cobra.Command, args []string) error {
	trials, mode, err := loadTrials()
	if err != nil {
		return err
	}

	svc := service.NewAnalysisService(cfg.Analysis, logger)
	data, err := computeTrials(svc, trials, mode)
	if err != nil {
		return err
	}
	if curveHorizon > 0 || curveSamples > 0 {
		data.Curve = svc.Curve(data.Result.Linear, curveHorizon, curveSamples)
	}

	w, closeOutput, err := openOutput()
	if err != nil {
		return err
	}
	if curvePoints {
		err = export.WriteCurveCSV(w, data)
	} else {
		_, err = fmt.Fprintln(w, tui.RenderCurve(data, cfg.Display.ChartWidth, cfg.Display.ChartHeight))
	}
	if err != nil {
		closeOutput()
		return err
	}
	return closeOutput()
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	if formatFlag == string(export.FormatParquet) {
		return errors.New("watch cannot stream parquet, use compute -o")
	}
	mode, err := loadMode()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	svc := service.NewAnalysisService(cfg.Analysis, logger)
	show := func(f *trialfile.File, err error) {
		fmt.Printf("\n── %s  %s\n", path, time.Now().Format("15:04:05"))
		if err != nil {
			logger.Warn("reading trial file", zap.String("path", path), zap.Error(err))
			fmt.Fprintln(os.Stderr, err)
			return
		}
		data, err := computeTrials(svc, f.AnalysisTrials(), f.AnalysisMode(mode))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		if err := writeResults(os.Stdout, data); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	show(trialfile.Load(path))
	fmt.Println("\nWatching for changes, ctrl+c to stop.")

	err = trialfile.Watch(ctx, path, show)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
