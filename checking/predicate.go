package checking

import "memgrade/state"

// A function to be evaluated on a single snapshot.
// It returns true if the predicate holds for the snapshot and false otherwise.
// Predicates must not modify the snapshot.
type Predicate func(s *state.Snapshot) bool

// Check that cond returns true for the virtual table of every process in the snapshot.
//
// Processes are visited in ascending pid order.
// Returns false as soon as cond returns false for some process.
// Returns true otherwise, including when no process is registered.
func ForAllProcesses(cond func(pid int, table *state.VirtualTable) bool, s *state.Snapshot) bool {
	for _, pid := range s.Processes() {
		if !cond(pid, s.Virtual[pid]) {
			return false
		}
	}
	return true
}

// Check that cond returns true for every user page, i.e. at or above state.KernelLimit, of every process.
func ForAllUserPages(cond func(pid int, page state.VirtualPage) bool, s *state.Snapshot) bool {
	return ForAllProcesses(func(pid int, table *state.VirtualTable) bool {
		for _, page := range table[state.KernelLimit:] {
			if !cond(pid, page) {
				return false
			}
		}
		return true
	}, s)
}
