package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"critspeed/internal/analysis"
	"critspeed/internal/config"
	"critspeed/internal/export"
	"critspeed/internal/logging"
	"critspeed/internal/service"
	"critspeed/internal/trialfile"
	"critspeed/internal/tui"
)

var (
	// Global flags
	verbose bool

	// Trial input flags, shared by tui, compute, curve
	trialFlags []string
	trialPath  string
	modeFlag   string

	// Output flags
	formatFlag string
	outputPath string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "critspeed",
	Short: "Critical speed and D′ calculator for runners",
	Long: `critspeed estimates critical speed (CS) and D′ from two to six maximal
field tests and predicts how long each speed around CS can be held.

Run without arguments to open the interactive calculator.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadOrDefault()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			configDir, _ := config.GetConfigDir()
			return fmt.Errorf("config validation failed: %w (edit %s/config.json)", err, configDir)
		}

		logPath, err := cfg.LogPath()
		if err != nil {
			return err
		}
		logger, err = logging.New(logging.Options{Level: cfg.Log.Level, Path: logPath, Verbose: verbose})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runTUI,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive calculator",
	RunE:  runTUI,
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	for _, cmd := range []*cobra.Command{rootCmd, tuiCmd, computeCmd, curveCmd} {
		addTrialFlags(cmd)
	}
	addOutputFlags(computeCmd)

	rootCmd.AddCommand(tuiCmd, computeCmd, curveCmd, watchCmd, importCmd, authCmd, initCmd)
}

func addTrialFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&trialFlags, "trial", "t", nil, `Trial as "distance:time", e.g. 1460:6:00 (repeatable, in order)`)
	cmd.Flags().StringVarP(&trialPath, "file", "f", "", "YAML or JSON trial file")
	cmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "full or simple (default from config)")
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&formatFlag, "format", "table", "Output format: table, markdown, csv, json, parquet")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write to a file instead of stdout")
}

func runTUI(cmd *cobra.Command, args []string) error {
	trials, mode, err := loadTrials()
	if err != nil {
		return err
	}

	svc := service.NewAnalysisService(cfg.Analysis, logger)
	app := tui.NewApp(svc, trials, mode, cfg.Form, cfg.Display)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// loadTrials combines the trial file with --trial flags, file first. With
// neither it returns nil and callers fall back to the configured form trials.
func loadTrials() ([]analysis.Trial, analysis.Mode, error) {
	mode, err := analysis.ParseMode(cfg.Analysis.Mode)
	if err != nil {
		return nil, "", err
	}

	var trials []analysis.Trial
	if trialPath != "" {
		f, err := trialfile.Load(trialPath)
		if err != nil {
			return nil, "", err
		}
		trials = append(trials, f.AnalysisTrials()...)
		mode = f.AnalysisMode(mode)
	}

	for _, s := range trialFlags {
		t, err := trialfile.ParseTrial(s)
		if err != nil {
			return nil, "", fmt.Errorf("--trial %q: %w", s, err)
		}
		trials = append(trials, t)
	}

	if modeFlag != "" {
		mode, err = analysis.ParseMode(modeFlag)
		if err != nil {
			return nil, "", fmt.Errorf("--mode: %w", err)
		}
	}
	return trials, mode, nil
}

// loadMode resolves --mode over the configured default
func loadMode() (analysis.Mode, error) {
	if modeFlag != "" {
		mode, err := analysis.ParseMode(modeFlag)
		if err != nil {
			return "", fmt.Errorf("--mode: %w", err)
		}
		return mode, nil
	}
	return analysis.ParseMode(cfg.Analysis.Mode)
}

// computeTrials runs the pipeline, turning input errors into the message
// shown to users
func computeTrials(svc *service.AnalysisService, trials []analysis.Trial, mode analysis.Mode) (*service.ResultsData, error) {
	if len(trials) == 0 {
		trials = cfg.Form.AnalysisTrials()
	}
	data, err := svc.ComputeMode(trials, mode)
	if err != nil {
		if service.IsInputError(err) {
			return nil, errors.New(service.ErrorMessage(err))
		}
		return nil, err
	}
	return data, nil
}

// openOutput returns stdout or the --output file
func openOutput() (io.Writer, func() error, error) {
	if outputPath == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", outputPath, err)
	}
	return f, f.Close, nil
}

func writeResults(w io.Writer, data *service.ResultsData) error {
	format, err := export.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	opts := export.Options{
		Render: outputPath == "" && isatty.IsTerminal(os.Stdout.Fd()),
		Width:  export.DefaultWrap,
	}
	return export.Write(w, format, data, opts)
}
