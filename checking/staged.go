package checking

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"memgrade/state"
)

// A correctness check that is graded independently.
type StagedCheck struct {
	// Human readable label used when reporting
	Name string
	Pred Predicate
	// Ticks below StartTick are not evaluated
	StartTick int
}

// The checks graded for the lab, in stage order.
//
// Later checks only start once the corresponding kernel feature is expected to be in use.
func DefaultChecks() []StagedCheck {
	return []StagedCheck{
		{Name: "Kernel isolation", Pred: KernelIsolated, StartTick: 0},
		{Name: "Process isolation", Pred: ProcessesIsolated, StartTick: 0},
		{Name: "Virtual page allocation", Pred: VirtualPageAllocationUsed, StartTick: 500},
		{Name: "Overlapping address spaces", Pred: NoOverlappingAddressSpaces, StartTick: 800},
		{Name: "Fork", Pred: ForkCorrect, StartTick: 800},
	}
}

// The outcome of a single staged check
type CheckResult struct {
	Name string
	// True if the predicate held for every visited tick, and at least one tick was visited
	Passed bool
	// The failing tick if the check failed, otherwise the last visited tick
	Tick int
	// Number of ticks the predicate was evaluated on
	Visited int
}

// Returns 1 if the check passed, 0 otherwise
func (cr CheckResult) Points() int {
	if cr.Passed {
		return 1
	}
	return 0
}

func (cr CheckResult) String() string {
	if cr.Passed {
		return fmt.Sprintf("%v passed", cr.Name)
	}
	return fmt.Sprintf("%v failed at tick %v", cr.Name, cr.Tick)
}

// Evaluate the check on the snapshots, which must be ordered by tick.
//
// The scan stops at the first tick where the predicate does not hold.
func Scan(check StagedCheck, snapshots []*state.Snapshot) CheckResult {
	res := CheckResult{Name: check.Name}
	for _, s := range snapshots {
		res.Tick = s.Tick
		if s.Tick < check.StartTick {
			continue
		}
		res.Visited++
		if !check.Pred(s) {
			res.Passed = false
			return res
		}
		res.Passed = true
	}
	return res
}

type StageResponse struct {
	// One result per selected check, in stage order
	Results []CheckResult
}

// The number of passed checks
func (sr StageResponse) Score() int {
	score := 0
	for _, res := range sr.Results {
		score += res.Points()
	}
	return score
}

// Generate a response
// Result is true if all selected checks passed.
// Description is a table with one line per check.
func (sr StageResponse) Response() (bool, string) {
	var buffer bytes.Buffer
	wrt := tabwriter.NewWriter(&buffer, 4, 4, 1, ' ', 0)
	fmt.Fprintln(wrt, "Check\tResult\tTick\tVisited\t")
	for _, res := range sr.Results {
		result := "failed"
		if res.Passed {
			result = "passed"
		}
		fmt.Fprintf(wrt, "%v\t%v\t%v\t%v\t\n", res.Name, result, res.Tick, res.Visited)
	}
	wrt.Flush()
	out := fmt.Sprintf("Score: %v/%v\n", sr.Score(), len(sr.Results))
	out += buffer.String()
	return sr.Score() == len(sr.Results), out
}

// Grades an ordered list of staged checks.
type StageChecker struct {
	checks []StagedCheck
}

func NewStageChecker(checks ...StagedCheck) *StageChecker {
	return &StageChecker{
		checks: checks,
	}
}

// Create a StageChecker running the checks in the half open range [from, upTo).
//
// The range is clamped to the configured checks. An empty or inverted range selects no checks.
func (sc *StageChecker) Select(from, upTo int) *StageChecker {
	from = max(0, min(from, len(sc.checks)))
	upTo = max(from, min(upTo, len(sc.checks)))
	return NewStageChecker(sc.checks[from:upTo]...)
}

func (sc *StageChecker) Checks() []StagedCheck {
	return sc.checks
}

// Run every check over the trace. A failing check does not stop the others.
func (sc *StageChecker) Check(trace *state.Trace) CheckerResponse {
	return sc.Grade(trace)
}

// Same as Check, but returns the concrete response.
func (sc *StageChecker) Grade(trace *state.Trace) StageResponse {
	snapshots := trace.Snapshots()
	resp := StageResponse{Results: make([]CheckResult, 0, len(sc.checks))}
	for _, check := range sc.checks {
		resp.Results = append(resp.Results, Scan(check, snapshots))
	}
	return resp
}
