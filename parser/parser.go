// Package parser reads the memory dump log written by the kernel into a state.Trace.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"memgrade/state"
)

const (
	PhysicalPrefix = "PM_DUMP"
	VirtualPrefix  = "VM_DUMP"
	PanicPrefix    = "PANIC: Unexpected exception 52!"

	// Label and tick, then an (owner, refcount) pair per page
	physicalFields = 2 + 2*state.PhysicalPages
	// Label, pid and tick, then an (owner, refcount, perm) triple per page
	virtualFields = 3 + 3*state.VirtualPages

	// A virtual dump line is a little over 14 KiB with single digit fields
	maxLineSize = 1 << 20
)

var (
	ErrMalformedTrace = errors.New("parser: malformed trace")
	ErrMissingInput   = errors.New("parser: no trace found")
)

// Parse the trace file at path.
//
// Returns ErrMissingInput if the path does not exist or is not a regular file.
func ParseFile(path string, logger *slog.Logger) (*state.Trace, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w at %v", ErrMissingInput, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w at %v: %v", ErrMissingInput, path, err)
	}
	defer f.Close()
	return Parse(f, logger)
}

// Parse the trace in a single pass.
//
// Lines that are not memory dumps or the panic marker are ignored.
// Any malformed dump aborts the parse with an error wrapping ErrMalformedTrace.
func Parse(r io.Reader, logger *slog.Logger) (*state.Trace, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	trace := state.NewTrace()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		var err error
		switch {
		case strings.HasPrefix(line, PhysicalPrefix):
			err = parsePhysical(trace, line, logger)
		case strings.HasPrefix(line, VirtualPrefix):
			err = parseVirtual(trace, line, logger)
		case strings.HasPrefix(line, PanicPrefix):
			logger.Debug("kernel panic recorded", "line", lineNo)
			trace.Panicked = true
		}
		if err != nil {
			return nil, fmt.Errorf("line %v: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTrace, err)
	}
	return trace, nil
}

func parsePhysical(trace *state.Trace, line string, logger *slog.Logger) error {
	fields := strings.Fields(line)
	if len(fields) != physicalFields {
		return fmt.Errorf("%w: physical dump has %v fields, expected %v", ErrMalformedTrace, len(fields), physicalFields)
	}
	values, err := atoiAll(fields[1:])
	if err != nil {
		return err
	}
	tick := values[0]

	table := &state.PhysicalTable{}
	for i := range table {
		table[i] = state.PhysicalPage{
			Owner:    values[1+2*i],
			Refcount: values[2+2*i],
		}
	}
	if err := trace.At(tick).SetPhysical(table); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedTrace, err)
	}
	logger.Debug("physical dump", "tick", tick)
	return nil
}

func parseVirtual(trace *state.Trace, line string, logger *slog.Logger) error {
	fields := strings.Fields(line)
	if len(fields) != virtualFields {
		return fmt.Errorf("%w: virtual dump has %v fields, expected %v", ErrMalformedTrace, len(fields), virtualFields)
	}
	values, err := atoiAll(fields[1:])
	if err != nil {
		return err
	}
	pid, tick := values[0], values[1]

	table := &state.VirtualTable{}
	for i := range table {
		table[i] = state.NewVirtualPage(values[2+3*i], values[3+3*i], values[4+3*i])
	}
	if err := trace.At(tick).AddVirtual(pid, table); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedTrace, err)
	}
	logger.Debug("virtual dump", "pid", pid, "tick", tick)
	return nil
}

func atoiAll(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, field := range fields {
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("%w: field %v: %v", ErrMalformedTrace, i+1, err)
		}
		out[i] = v
	}
	return out, nil
}
