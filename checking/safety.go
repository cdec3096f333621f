package checking

import (
	"fmt"

	"memgrade/state"
)

// A property that must hold at every tick of the trace.
type Invariant struct {
	Name string
	Pred Predicate
	// Reported when the invariant is broken
	Reason string
}

func DefaultInvariants() []Invariant {
	return []Invariant{
		{
			Name:   "Ownership",
			Pred:   OwnershipInvariant,
			Reason: "at least one non-kernel page owned by a process is not accessible by it",
		},
		{
			Name:   "Console access",
			Pred:   ConsoleAccessible,
			Reason: "at least one process does not have access to the CGA console",
		},
	}
}

// Returned when the trace breaks an invariant or ends before it was expected to.
//
// A SafetyViolation is fatal: no checks are graded on a trace that breaks one.
type SafetyViolation struct {
	// The first tick that breaks the invariant, or the last recorded tick if the trace is premature
	Tick int
	// Name of the broken invariant. Empty if the trace is premature
	Invariant string
	Reason    string

	Premature    bool
	ExpectedTick int
}

func (sv *SafetyViolation) Error() string {
	if sv.Premature {
		return fmt.Sprintf("kernel exited prematurely: expected to last until tick %v but last recorded tick is %v", sv.ExpectedTick, sv.Tick)
	}
	return fmt.Sprintf("%v invariant broken: %v at tick %v", sv.Invariant, sv.Reason, sv.Tick)
}

// Verifies that the invariants hold over the entire trace.
type SafetyChecker struct {
	invariants   []Invariant
	expectedTick int
}

// Create a SafetyChecker.
//
// expectedTick is the last tick a kernel run is expected to reach unless it panics.
func NewSafetyChecker(expectedTick int, invariants ...Invariant) *SafetyChecker {
	return &SafetyChecker{
		invariants:   invariants,
		expectedTick: expectedTick,
	}
}

// Returns a *SafetyViolation describing the first violation, or nil if the trace is safe.
//
// Premature termination is checked first: a trace that ends before the expected tick without recording a panic is rejected.
// Then every tick is checked in ascending order against every invariant.
func (sc *SafetyChecker) Check(trace *state.Trace) error {
	if last, ok := trace.LastTick(); ok && !trace.Panicked && last < sc.expectedTick {
		return &SafetyViolation{
			Tick:         last,
			Premature:    true,
			ExpectedTick: sc.expectedTick,
		}
	}

	for _, s := range trace.Snapshots() {
		for _, inv := range sc.invariants {
			if !inv.Pred(s) {
				return &SafetyViolation{
					Tick:      s.Tick,
					Invariant: inv.Name,
					Reason:    inv.Reason,
				}
			}
		}
	}
	return nil
}
