package main

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"memgrade"
	"memgrade/checking"
	"memgrade/config"

	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "memgrade",
		Short:         "Grade the virtual memory lab from a kernel memory dump log",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newGradeCmd(), newChecksCmd())
	return rootCmd
}

func newGradeCmd() *cobra.Command {
	var (
		cfg        = config.Default()
		configPath string
	)

	gradeCmd := &cobra.Command{
		Use:   "grade",
		Short: "Verify the memory invariants and grade the selected checks",
		Long: `Reads the memory dump log of a kernel run and verifies it.

The ownership and console invariants must hold at every tick, and the log
must reach the expected tick unless the kernel panicked. Otherwise the
command fails without producing a score.

The checks in [grade_from, grade_up_to) are then graded independently,
each scoring one point if it holds from its start tick to the end of the
log. Run "memgrade checks" to list them.

Values from --config are overridden by flags given on the command line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				fileCfg, err := config.Load(configPath)
				if err != nil {
					return fail(cmd, err)
				}
				cfg = mergeFlags(cmd, fileCfg, cfg)
			}
			if err := cfg.Validate(); err != nil {
				return fail(cmd, err)
			}
			return runGrade(cmd, cfg)
		},
	}

	gradeCmd.Flags().IntVar(&cfg.GradeFrom, "grade_from", 0, "Will grade stages from this one")
	gradeCmd.Flags().IntVar(&cfg.GradeUpTo, "grade_up_to", 0, "Will grade stages up to this one (excluded)")
	gradeCmd.Flags().StringVar(&cfg.Output, "output", "", "Will write the score to this file")
	gradeCmd.Flags().StringVar(&cfg.TraceFile, "tmpfile", config.DefaultTraceFile, "The execution log of the kernel run")
	gradeCmd.Flags().IntVar(&cfg.ExpectedTick, "expected_tick", config.DefaultExpectedTick, "The last tick the kernel is expected to reach")
	gradeCmd.Flags().StringVar(&cfg.MetricsFile, "metrics_file", "", "Will write Prometheus metrics of the run to this file")
	gradeCmd.Flags().StringVar(&cfg.LogLevel, "log_level", config.DefaultLogLevel, "Log level: debug, info, warn or error")
	gradeCmd.Flags().StringVar(&configPath, "config", "", "YAML file with grading settings")
	return gradeCmd
}

func newChecksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checks",
		Short: "List the staged checks in grading order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printChecks(cmd.OutOrStdout(), checking.DefaultChecks())
			return nil
		},
	}
}

// =============================================================================
// COMMAND IMPLEMENTATIONS
// =============================================================================

func runGrade(cmd *cobra.Command, cfg config.File) error {
	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

	opts := []memgrade.GradeOption{
		memgrade.GradeRange(cfg.GradeFrom, cfg.GradeUpTo),
		memgrade.ExpectedTick(cfg.ExpectedTick),
		memgrade.ReportTo(cmd.OutOrStdout()),
		memgrade.WithLogger(logger),
	}
	if cfg.Output != "" {
		opts = append(opts, memgrade.WriteScore(cfg.Output))
	}
	if cfg.MetricsFile != "" {
		opts = append(opts, memgrade.ExportMetrics(cfg.MetricsFile))
	}

	if _, err := memgrade.PrepareGrading(opts...).RunFile(cfg.TraceFile); err != nil {
		return fail(cmd, err)
	}
	return nil
}

// Keep the file value of every setting whose flag was not given on the command line
func mergeFlags(cmd *cobra.Command, fileCfg, flagCfg config.File) config.File {
	flags := cmd.Flags()
	if flags.Changed("grade_from") {
		fileCfg.GradeFrom = flagCfg.GradeFrom
	}
	if flags.Changed("grade_up_to") {
		fileCfg.GradeUpTo = flagCfg.GradeUpTo
	}
	if flags.Changed("output") {
		fileCfg.Output = flagCfg.Output
	}
	if flags.Changed("tmpfile") {
		fileCfg.TraceFile = flagCfg.TraceFile
	}
	if flags.Changed("expected_tick") {
		fileCfg.ExpectedTick = flagCfg.ExpectedTick
	}
	if flags.Changed("metrics_file") {
		fileCfg.MetricsFile = flagCfg.MetricsFile
	}
	if flags.Changed("log_level") {
		fileCfg.LogLevel = flagCfg.LogLevel
	}
	return fileCfg
}

func printChecks(w io.Writer, checks []checking.StagedCheck) {
	wrt := tabwriter.NewWriter(w, 4, 4, 2, ' ', 0)
	fmt.Fprintln(wrt, "Index\tCheck\tStart tick")
	for i, check := range checks {
		fmt.Fprintf(wrt, "%v\t%v\t%v\n", i, check.Name, check.StartTick)
	}
	wrt.Flush()
}

// Print the error and return it so that main exits with a failure status
func fail(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err)
	return err
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})).With("module", "memgrade")
}
