package checking

import "memgrade/state"

const userRW = state.PermPresent | state.PermWritable | state.PermUser

// Create a virtual table where only the console is mapped
func consoleTable() *state.VirtualTable {
	table := &state.VirtualTable{}
	table[state.ConsolePage] = state.NewVirtualPage(state.NoOwner, 1, userRW)
	return table
}

// Create a virtual table for pid with the console and n user pages owned by pid
func processTable(pid int, n int) *state.VirtualTable {
	table := consoleTable()
	for i := 0; i < n; i++ {
		table[state.KernelLimit+i] = state.NewVirtualPage(pid, 1, userRW)
	}
	return table
}

func withPage(table *state.VirtualTable, index int, page state.VirtualPage) *state.VirtualTable {
	table[index] = page
	return table
}

func snapshot(tick int, tables map[int]*state.VirtualTable) *state.Snapshot {
	s := state.NewSnapshot(tick)
	for pid, table := range tables {
		s.Virtual[pid] = table
	}
	return s
}

func physical(owners map[int]int) *state.PhysicalTable {
	table := &state.PhysicalTable{}
	for i, owner := range owners {
		table[i] = state.PhysicalPage{Owner: owner, Refcount: 1}
	}
	return table
}

// Build a trace with one snapshot per tick, all sharing the same virtual tables
func traceOf(ticks []int, tables map[int]*state.VirtualTable) *state.Trace {
	trace := state.NewTrace()
	for _, tick := range ticks {
		s := trace.At(tick)
		for pid, table := range tables {
			s.Virtual[pid] = table
		}
	}
	return trace
}
