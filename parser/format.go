package parser

import (
	"strconv"
	"strings"

	"memgrade/state"
)

// Format a physical table as a dump line, the way the kernel writes it.
func FormatPhysical(tick int, table *state.PhysicalTable) string {
	var b strings.Builder
	b.WriteString(PhysicalPrefix)
	writeInts(&b, tick)
	for _, page := range table {
		writeInts(&b, page.Owner, page.Refcount)
	}
	b.WriteString(" ")
	return b.String()
}

// Format a virtual table as a dump line, the way the kernel writes it.
func FormatVirtual(pid, tick int, table *state.VirtualTable) string {
	var b strings.Builder
	b.WriteString(VirtualPrefix)
	writeInts(&b, pid, tick)
	for _, page := range table {
		writeInts(&b, page.Owner, page.Refcount, page.Perm)
	}
	b.WriteString(" ")
	return b.String()
}

func writeInts(b *strings.Builder, values ...int) {
	for _, v := range values {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(v))
	}
}
