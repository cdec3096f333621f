package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"memgrade/parser"
	"memgrade/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeLog(t *testing.T, ticks ...int) string {
	t.Helper()
	vt := &state.VirtualTable{}
	vt[state.ConsolePage] = state.NewVirtualPage(0, 1, state.PermPresent|state.PermWritable|state.PermUser)
	lines := []string{"Booting"}
	for _, tick := range ticks {
		lines = append(lines, parser.FormatPhysical(tick, &state.PhysicalTable{}), parser.FormatVirtual(1, tick, vt))
	}
	path := filepath.Join(t.TempDir(), "log.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestGradeCommand(t *testing.T) {
	path := writeLog(t, 0, 450, 900)
	stdout, _, err := execute(t, "grade", "--tmpfile", path, "--grade_up_to", "2", "--log_level", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Kernel isolation passed")
	assert.Contains(t, stdout, "Process isolation passed")
	assert.Contains(t, stdout, "Total score: 2/2")
}

func TestGradeCommandOutputFile(t *testing.T) {
	path := writeLog(t, 0, 900)
	out := filepath.Join(t.TempDir(), "score")
	require.NoError(t, os.WriteFile(out, []byte("previous score"), 0o644))

	stdout, _, err := execute(t, "grade", "--tmpfile", path, "--grade_from", "2", "--grade_up_to", "5", "--output", out, "--log_level", "error")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "Total score")

	score, err := os.ReadFile(out)
	require.NoError(t, err)
	// Only the overlap check holds on an empty address space
	assert.Equal(t, "1", string(score))
}

func TestGradeCommandFailures(t *testing.T) {
	_, stderr, err := execute(t, "grade", "--tmpfile", filepath.Join(t.TempDir(), "none.txt"), "--grade_up_to", "5")
	assert.Error(t, err)
	assert.Contains(t, stderr, "no trace found")

	path := writeLog(t, 0, 10)
	stdout, stderr, err := execute(t, "grade", "--tmpfile", path, "--grade_up_to", "5", "--log_level", "error")
	assert.Error(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "expected to last until tick 900 but last recorded tick is 10")

	// Printed once, even when errors are logged
	_, stderr, err = execute(t, "grade", "--tmpfile", path, "--grade_up_to", "5", "--log_level", "debug")
	assert.Error(t, err)
	assert.Equal(t, 1, strings.Count(stderr, "expected to last until tick 900"))

	_, _, err = execute(t, "grade", "--tmpfile", path, "--log_level", "loud")
	assert.Error(t, err)
}

func TestGradeCommandConfigFile(t *testing.T) {
	path := writeLog(t, 0, 10)
	cfgPath := filepath.Join(t.TempDir(), "grade.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"grade_from: 0\ngrade_up_to: 1\nexpected_tick: 10\nlog_level: error\ntmpfile: "+path+"\n"), 0o644))

	stdout, _, err := execute(t, "grade", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Total score: 1/1")

	// Flags override the file
	stdout, _, err = execute(t, "grade", "--config", cfgPath, "--grade_up_to", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Total score: 2/2")
}

func TestChecksCommand(t *testing.T) {
	stdout, _, err := execute(t, "checks")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[1], "Kernel isolation")
	assert.Contains(t, lines[5], "Fork")
	assert.Contains(t, lines[5], "800")
}
