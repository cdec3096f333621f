package checking

import "memgrade/state"

const (
	// Physical pages below this index are owned by the kernel before any process is started
	UnallocatedOffset = 17

	// Highest pid expected to receive pages from the virtual page allocator
	MaxAllocatingPid = 4

	// Maximum number of user pages a single process may own
	MaxUserPages = 64
)

// No process can access kernel memory, except for the console.
func KernelIsolated(s *state.Snapshot) bool {
	return ForAllProcesses(func(_ int, table *state.VirtualTable) bool {
		for i, page := range table[:state.KernelLimit] {
			if i != state.ConsolePage && page.UserAccessible {
				return false
			}
		}
		return true
	}, s)
}

// No process can access a user page owned by another process.
func ProcessesIsolated(s *state.Snapshot) bool {
	return ForAllUserPages(func(pid int, page state.VirtualPage) bool {
		return !(page.Owned() && page.Owner != pid && page.UserAccessible)
	}, s)
}

// Every user page owned by a process is accessible by it.
func OwnershipInvariant(s *state.Snapshot) bool {
	return ForAllUserPages(func(pid int, page state.VirtualPage) bool {
		return !page.Owned() || page.Owner != pid || page.UserAccessible
	}, s)
}

// The console is accessible by every process.
func ConsoleAccessible(s *state.Snapshot) bool {
	return ForAllProcesses(func(_ int, table *state.VirtualTable) bool {
		return table[state.ConsolePage].UserAccessible
	}, s)
}

// Some physical page between the preallocated kernel pages and the kernel limit
// has been handed out to a process.
//
// Returns false if no physical memory was recorded for the snapshot.
func VirtualPageAllocationUsed(s *state.Snapshot) bool {
	if s.Physical == nil {
		return false
	}
	for _, page := range s.Physical[UnallocatedOffset:state.KernelLimit] {
		if page.Owner >= 1 && page.Owner <= MaxAllocatingPid {
			return true
		}
	}
	return false
}

// No process owns more than MaxUserPages accessible user pages.
func NoOverlappingAddressSpaces(s *state.Snapshot) bool {
	return ForAllProcesses(func(pid int, table *state.VirtualTable) bool {
		owned := 0
		for _, page := range table[state.KernelLimit:] {
			if page.Owned() && page.Owner == pid && page.UserAccessible {
				owned++
			}
		}
		return owned <= MaxUserPages
	}, s)
}

// The first user page of every process is mapped, and if it is writable it is owned by the process itself.
// Read-only pages may be shared between a parent and its children.
func ForkCorrect(s *state.Snapshot) bool {
	return ForAllProcesses(func(pid int, table *state.VirtualTable) bool {
		page := table[state.KernelLimit]
		if !page.Owned() {
			return false
		}
		return page.Owner == pid || !page.Writable()
	}, s)
}
