package checking

import (
	"testing"

	"memgrade/state"
)

func TestPredicates(t *testing.T) {
	for _, test := range predicateTest {
		for i, c := range test.cases {
			if out := test.pred(c.s); out != c.expected {
				t.Errorf("%v: received unexpected bool from predicate on test %v. Got %v", test.name, i, out)
			}
		}
	}
}

func TestForAllProcessesOrder(t *testing.T) {
	s := snapshot(0, map[int]*state.VirtualTable{3: consoleTable(), 1: consoleTable(), 2: consoleTable()})
	visited := []int{}
	ForAllProcesses(func(pid int, _ *state.VirtualTable) bool {
		visited = append(visited, pid)
		return pid != 2
	}, s)
	if len(visited) != 2 || visited[0] != 1 || visited[1] != 2 {
		t.Errorf("Expected processes to be visited in order until the first failure. Got %v", visited)
	}
}

type predicateCase struct {
	s        *state.Snapshot
	expected bool
}

var predicateTest = []struct {
	name  string
	pred  Predicate
	cases []predicateCase
}{
	{
		name: "KernelIsolated",
		pred: KernelIsolated,
		cases: []predicateCase{
			{snapshot(0, nil), true},
			{snapshot(0, map[int]*state.VirtualTable{1: &state.VirtualTable{}}), true},
			{snapshot(0, map[int]*state.VirtualTable{1: processTable(1, 10), 2: processTable(2, 3)}), true},
			// One kernel page accessible by user mode
			{snapshot(0, map[int]*state.VirtualTable{1: withPage(consoleTable(), 10, state.NewVirtualPage(0, 1, state.PermPresent|state.PermUser))}), false},
			{snapshot(0, map[int]*state.VirtualTable{1: processTable(1, 1), 2: withPage(consoleTable(), state.KernelLimit-1, state.NewVirtualPage(0, 1, state.PermUser))}), false},
			// Kernel pages without the user bit are fine
			{snapshot(0, map[int]*state.VirtualTable{1: withPage(consoleTable(), 10, state.NewVirtualPage(0, 1, state.PermPresent|state.PermWritable))}), true},
		},
	},
	{
		name: "ProcessesIsolated",
		pred: ProcessesIsolated,
		cases: []predicateCase{
			{snapshot(0, map[int]*state.VirtualTable{1: processTable(1, 5), 2: processTable(2, 5)}), true},
			// Page of process 1 visible to process 2
			{snapshot(0, map[int]*state.VirtualTable{1: processTable(1, 5), 2: withPage(processTable(2, 1), state.KernelLimit+3, state.NewVirtualPage(1, 2, userRW))}), false},
			// Mapped for the kernel only
			{snapshot(0, map[int]*state.VirtualTable{2: withPage(processTable(2, 1), state.KernelLimit+3, state.NewVirtualPage(1, 2, state.PermPresent))}), true},
			// Unowned pages are not checked
			{snapshot(0, map[int]*state.VirtualTable{2: withPage(consoleTable(), state.KernelLimit+3, state.NewVirtualPage(0, 0, userRW))}), true},
			// Kernel memory is covered by KernelIsolated
			{snapshot(0, map[int]*state.VirtualTable{2: withPage(consoleTable(), 20, state.NewVirtualPage(1, 1, userRW))}), true},
		},
	},
	{
		name: "OwnershipInvariant",
		pred: OwnershipInvariant,
		cases: []predicateCase{
			{snapshot(0, map[int]*state.VirtualTable{1: processTable(1, 5)}), true},
			{snapshot(0, map[int]*state.VirtualTable{1: withPage(processTable(1, 5), state.KernelLimit+10, state.NewVirtualPage(1, 1, state.PermPresent))}), false},
			// Owned by another process and not accessible
			{snapshot(0, map[int]*state.VirtualTable{1: withPage(processTable(1, 5), state.KernelLimit+10, state.NewVirtualPage(2, 1, state.PermPresent))}), true},
			// Kernel memory is not checked
			{snapshot(0, map[int]*state.VirtualTable{1: withPage(processTable(1, 5), 30, state.NewVirtualPage(1, 1, state.PermPresent))}), true},
			// A process with pid 0 does not own unowned pages
			{snapshot(0, map[int]*state.VirtualTable{0: consoleTable()}), true},
		},
	},
	{
		name: "ConsoleAccessible",
		pred: ConsoleAccessible,
		cases: []predicateCase{
			{snapshot(0, nil), true},
			{snapshot(0, map[int]*state.VirtualTable{1: consoleTable(), 2: processTable(2, 2)}), true},
			{snapshot(0, map[int]*state.VirtualTable{1: consoleTable(), 2: &state.VirtualTable{}}), false},
			{snapshot(0, map[int]*state.VirtualTable{1: withPage(consoleTable(), state.ConsolePage, state.NewVirtualPage(0, 1, state.PermPresent|state.PermWritable))}), false},
		},
	},
	{
		name: "NoOverlappingAddressSpaces",
		pred: NoOverlappingAddressSpaces,
		cases: []predicateCase{
			{snapshot(0, map[int]*state.VirtualTable{1: processTable(1, MaxUserPages), 2: processTable(2, 1)}), true},
			{snapshot(0, map[int]*state.VirtualTable{1: processTable(1, MaxUserPages), 2: processTable(2, MaxUserPages+1)}), false},
			// Pages of other processes are not counted
			{snapshot(0, map[int]*state.VirtualTable{2: processTable(1, MaxUserPages+10)}), true},
		},
	},
	{
		name: "ForkCorrect",
		pred: ForkCorrect,
		cases: []predicateCase{
			{snapshot(0, nil), true},
			{snapshot(0, map[int]*state.VirtualTable{1: processTable(1, 1), 2: processTable(2, 1)}), true},
			// First user page unmapped
			{snapshot(0, map[int]*state.VirtualTable{1: processTable(1, 1), 2: consoleTable()}), false},
			// Writable page owned by the parent
			{snapshot(0, map[int]*state.VirtualTable{1: processTable(1, 1), 2: withPage(consoleTable(), state.KernelLimit, state.NewVirtualPage(1, 2, userRW))}), false},
			// Read-only page shared with the parent
			{snapshot(0, map[int]*state.VirtualTable{1: processTable(1, 1), 2: withPage(consoleTable(), state.KernelLimit, state.NewVirtualPage(1, 2, state.PermPresent|state.PermUser))}), true},
		},
	},
	{
		name: "VirtualPageAllocationUsed",
		pred: VirtualPageAllocationUsed,
		cases: []predicateCase{
			{&state.Snapshot{}, false},
			{&state.Snapshot{Physical: physical(nil)}, false},
			{&state.Snapshot{Physical: physical(map[int]int{UnallocatedOffset: 1})}, true},
			{&state.Snapshot{Physical: physical(map[int]int{state.KernelLimit - 1: MaxAllocatingPid})}, true},
			// Preallocated pages are ignored
			{&state.Snapshot{Physical: physical(map[int]int{UnallocatedOffset - 1: 1})}, false},
			// So are pages past the kernel limit
			{&state.Snapshot{Physical: physical(map[int]int{state.KernelLimit: 1})}, false},
			// Kernel and reserved pages are not allocations
			{&state.Snapshot{Physical: physical(map[int]int{40: -2})}, false},
			{&state.Snapshot{Physical: physical(map[int]int{40: -1})}, false},
			// Only low pids count
			{&state.Snapshot{Physical: physical(map[int]int{100: MaxAllocatingPid + 1})}, false},
			{&state.Snapshot{Physical: physical(map[int]int{100: MaxAllocatingPid + 1, 101: 2})}, true},
		},
	},
}
