package state

import "fmt"

// Protocol constants shared with the kernel that emits the trace.
const (
	PageSize = 4096

	// Number of entries in a physical-memory dump
	PhysicalPages = 512
	// Number of entries in a virtual-memory dump
	VirtualPages = 768

	// Page index of the first user page. Everything below belongs to the kernel.
	KernelLimit = 0x100000 / PageSize
	// Page index of the CGA console, mapped into every process.
	ConsolePage = 0xB8000 / PageSize

	// Owner value of a page that no process holds
	NoOwner = 0
)

// Permission bits of a virtual page
const (
	PermPresent  = 0x1
	PermWritable = 0x2
	PermUser     = 0x4
)

// A physical page entry of a memory dump
type PhysicalPage struct {
	Owner    int
	Refcount int
}

// A virtual page entry of a memory dump
type VirtualPage struct {
	Owner    int
	Refcount int
	Perm     int
	// True if Perm has the user bit set
	UserAccessible bool
}

// Create a VirtualPage, deriving UserAccessible from the permission bits.
func NewVirtualPage(owner, refcount, perm int) VirtualPage {
	return VirtualPage{
		Owner:          owner,
		Refcount:       refcount,
		Perm:           perm,
		UserAccessible: perm&PermUser != 0,
	}
}

func (vp VirtualPage) Present() bool {
	return vp.Perm&PermPresent != 0
}

func (vp VirtualPage) Writable() bool {
	return vp.Perm&PermWritable != 0
}

// True if the page is held by some process
func (vp VirtualPage) Owned() bool {
	return vp.Owner != NoOwner
}

func (vp VirtualPage) String() string {
	return fmt.Sprintf("{owner: %v, refs: %v, perm: %#x}", vp.Owner, vp.Refcount, vp.Perm)
}

// The physical memory table of a single tick, indexed by physical page number
type PhysicalTable [PhysicalPages]PhysicalPage

// The virtual memory table of a single process at a single tick, indexed by virtual page number
type VirtualTable [VirtualPages]VirtualPage
