package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTraceFile    = "/tmp/log.txt"
	DefaultExpectedTick = 900
	DefaultLogLevel     = "info"
)

// The settings of a grading run, as read from a YAML file or command line flags.
type File struct {
	GradeFrom    int    `yaml:"grade_from"`
	GradeUpTo    int    `yaml:"grade_up_to"`
	Output       string `yaml:"output"`
	TraceFile    string `yaml:"tmpfile"`
	ExpectedTick int    `yaml:"expected_tick"`
	MetricsFile  string `yaml:"metrics_file"`
	LogLevel     string `yaml:"log_level"`
}

// Returns the settings used when nothing is configured
func Default() File {
	return File{
		TraceFile:    DefaultTraceFile,
		ExpectedTick: DefaultExpectedTick,
		LogLevel:     DefaultLogLevel,
	}
}

// Load settings from a YAML file.
//
// Keys missing from the file keep their default value.
func Load(path string) (File, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: unable to read %v: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: unable to parse %v: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Check that the settings can be used for a grading run
func (f File) Validate() error {
	if f.TraceFile == "" {
		return fmt.Errorf("config: tmpfile must not be empty")
	}
	switch f.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", f.LogLevel)
	}
	return nil
}
