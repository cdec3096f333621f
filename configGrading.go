package memgrade

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"memgrade/checking"
	"memgrade/config"
	"memgrade/metrics"
	"memgrade/parser"
	"memgrade/state"
)

// Prepare grading with initial configuration.
//
// See the GradeOptions for a full overview of possible options.
// Default values will be used if no value is provided.
// By default no staged checks are selected, so a run only verifies the invariants.
func PrepareGrading(opts ...GradeOption) Grading {
	var (
		from, upTo = 0, 0

		// Last tick the kernel is expected to reach without panicking
		expectedTick = config.DefaultExpectedTick

		output      string
		metricsPath string

		report io.Writer = os.Stdout
		logger           = slog.New(slog.NewTextHandler(io.Discard, nil))
	)

	for _, opt := range opts {
		switch t := opt.(type) {
		case config.GradeRangeOption:
			from, upTo = t.From, t.UpTo
		case config.ExpectedTickOption:
			expectedTick = t.Tick
		case config.OutputOption:
			output = t.Path
		case config.MetricsOption:
			metricsPath = t.Path
		case config.ReportOption:
			report = t.W
		case config.LoggerOption:
			logger = t.Logger
		}
	}

	return Grading{
		checker:     checking.NewStageChecker(checking.DefaultChecks()...).Select(from, upTo),
		safety:      checking.NewSafetyChecker(expectedTick, checking.DefaultInvariants()...),
		output:      output,
		metricsPath: metricsPath,
		report:      newReporter(report),
		logger:      logger,
	}
}

// Stores the configured grading run.
//
// Can be used to grade multiple traces.
type Grading struct {
	checker *checking.StageChecker
	safety  *checking.SafetyChecker

	output      string
	metricsPath string

	report reporter
	logger *slog.Logger
}

// Parse the trace file at path and grade it.
//
// Returns an error wrapping parser.ErrMissingInput if there is no trace at path.
func (g Grading) RunFile(path string) (checking.StageResponse, error) {
	trace, err := parser.ParseFile(path, g.logger)
	if err != nil {
		return checking.StageResponse{}, err
	}
	g.logger.Info("trace loaded", "path", path, "ticks", trace.Len(), "panicked", trace.Panicked)
	return g.Run(trace)
}

// Grade the trace.
//
// The invariants are verified first. If they are broken a *checking.SafetyViolation is returned and no checks are graded.
// Otherwise every selected check is graded and reported, and the score is written to the configured output or printed.
func (g Grading) Run(trace *state.Trace) (checking.StageResponse, error) {
	if err := g.safety.Check(trace); err != nil {
		return checking.StageResponse{}, err
	}

	resp := g.checker.Grade(trace)
	for _, res := range resp.Results {
		g.report.result(res)
		if !res.Passed {
			g.logger.Debug("check failed", "check", res.Name, "tick", res.Tick, "visited", res.Visited)
		}
	}
	_, table := resp.Response()
	g.logger.Debug("graded checks", "table", table)

	if g.output != "" {
		if err := os.WriteFile(g.output, []byte(strconv.Itoa(resp.Score())), 0o644); err != nil {
			return resp, fmt.Errorf("unable to write score to %v: %w", g.output, err)
		}
	} else {
		g.report.total(resp.Score(), len(resp.Results))
	}

	if g.metricsPath != "" {
		rec := metrics.NewRecorder()
		rec.ObserveTrace(trace)
		rec.ObserveResponse(resp)
		if err := rec.WriteTextfile(g.metricsPath); err != nil {
			return resp, fmt.Errorf("unable to write metrics to %v: %w", g.metricsPath, err)
		}
	}

	g.logger.Info("grading done", "score", resp.Score(), "checks", len(resp.Results))
	return resp, nil
}

// Returns the staged checks that will be graded
func (g Grading) Checks() []checking.StagedCheck {
	return g.checker.Checks()
}

// A option used to configure the grading
type GradeOption interface {
	// noop method
	GradeOpt()
}

// Grade the staged checks in the half open range [from, upTo).
//
// The checks are ordered kernel isolation, process isolation, virtual page allocation, overlapping address spaces and fork.
// Default value is [0, 0).
func GradeRange(from, upTo int) GradeOption {
	return config.GradeRangeOption{From: from, UpTo: upTo}
}

// Configure the last tick a kernel run is expected to reach.
//
// A trace ending earlier is rejected unless the kernel recorded a panic.
// Default value is 900.
func ExpectedTick(tick int) GradeOption {
	return config.ExpectedTickOption{Tick: tick}
}

// Write the total score to the file at path instead of printing it.
//
// The file is truncated.
func WriteScore(path string) GradeOption {
	return config.OutputOption{Path: path}
}

// Write the per-check report to w.
//
// Default value is os.Stdout
func ReportTo(w io.Writer) GradeOption {
	return config.ReportOption{W: w}
}

// Write the grading metrics to the file at path in the Prometheus text format.
func ExportMetrics(path string) GradeOption {
	return config.MetricsOption{Path: path}
}

func WithLogger(logger *slog.Logger) GradeOption {
	return config.LoggerOption{Logger: logger}
}
