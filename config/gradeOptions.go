package config

import (
	"io"
	"log/slog"
)

// Configures the half open range [From, UpTo) of staged checks to grade
//
// Default value is [0, 0), i.e. no checks.
type GradeRangeOption struct {
	From, UpTo int
}

func (gro GradeRangeOption) GradeOpt() {}

// Configures the last tick a kernel run is expected to reach
//
// Default value is 900
type ExpectedTickOption struct {
	Tick int
}

func (eto ExpectedTickOption) GradeOpt() {}

// Configures a file the total score is written to instead of being printed
//
// Default value is no file.
type OutputOption struct {
	Path string
}

func (oo OutputOption) GradeOpt() {}

// Configures the io.Writer the per-check report is written to
//
// Default value is os.Stdout
type ReportOption struct {
	W io.Writer
}

func (ro ReportOption) GradeOpt() {}

// Configures a file the grading metrics are written to in the Prometheus text format
//
// Default value is no file.
type MetricsOption struct {
	Path string
}

func (mo MetricsOption) GradeOpt() {}

// Configures the logger used while grading
//
// Default value is a logger discarding all records.
type LoggerOption struct {
	Logger *slog.Logger
}

func (lo LoggerOption) GradeOpt() {}
