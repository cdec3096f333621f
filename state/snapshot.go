package state

import (
	"errors"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	ErrDuplicatePhysical = errors.New("state: physical memory already recorded for tick")
	ErrDuplicateVirtual  = errors.New("state: virtual memory already recorded for process")
)

// The memory state of the system at one tick.
//
// Combines the physical memory table with the virtual memory table of every process that was dumped at the tick.
type Snapshot struct {
	Tick int

	// nil until a physical dump has been recorded for the tick
	Physical *PhysicalTable

	// The virtual memory table of the processes.
	//
	// The map stores (pid, table) combinations.
	Virtual map[int]*VirtualTable
}

func NewSnapshot(tick int) *Snapshot {
	return &Snapshot{
		Tick:    tick,
		Virtual: make(map[int]*VirtualTable),
	}
}

// Record the physical memory table. Returns ErrDuplicatePhysical if a table is already recorded.
func (s *Snapshot) SetPhysical(table *PhysicalTable) error {
	if s.Physical != nil {
		return fmt.Errorf("%w %v", ErrDuplicatePhysical, s.Tick)
	}
	s.Physical = table
	return nil
}

// Record the virtual memory table of a process. Returns ErrDuplicateVirtual if the process is already registered.
func (s *Snapshot) AddVirtual(pid int, table *VirtualTable) error {
	if _, ok := s.Virtual[pid]; ok {
		return fmt.Errorf("%w %v at tick %v", ErrDuplicateVirtual, pid, s.Tick)
	}
	s.Virtual[pid] = table
	return nil
}

// Returns the ids of the registered processes in ascending order
func (s *Snapshot) Processes() []int {
	pids := maps.Keys(s.Virtual)
	slices.Sort(pids)
	return pids
}

func (s *Snapshot) String() string {
	return fmt.Sprintf("Tick: %v\t Physical: %v\t Processes: %v\t", s.Tick, s.Physical != nil, s.Processes())
}
