package paging

import "strings"

// Flags are page-table entry bits.
type Flags uint64

const (
	FlagPresent        Flags = 1 << 0
	FlagWritable       Flags = 1 << 1
	FlagUserAccessible Flags = 1 << 2
	FlagWriteThrough   Flags = 1 << 3
	FlagNoCache        Flags = 1 << 4
	FlagAccessed       Flags = 1 << 5
	FlagDirty          Flags = 1 << 6
	FlagHugePage       Flags = 1 << 7
	FlagGlobal         Flags = 1 << 8
	FlagNoExecute      Flags = 1 << 63
)

// flagsMask selects every flag bit of an entry (everything but the address).
const flagsMask = Flags(0xFFF) | FlagNoExecute

// Contains reports whether all bits of other are set in f.
func (f Flags) Contains(other Flags) bool {
	return f&other == other
}

var flagNames = []struct {
	f    Flags
	name string
}{
	{FlagPresent, "PRESENT"},
	{FlagWritable, "WRITABLE"},
	{FlagUserAccessible, "USER_ACCESSIBLE"},
	{FlagWriteThrough, "WRITE_THROUGH"},
	{FlagNoCache, "NO_CACHE"},
	{FlagAccessed, "ACCESSED"},
	{FlagDirty, "DIRTY"},
	{FlagHugePage, "HUGE_PAGE"},
	{FlagGlobal, "GLOBAL"},
	{FlagNoExecute, "NO_EXECUTE"},
}

func (f Flags) String() string {
	if f == 0 {
		return "(empty)"
	}
	var parts []string
	for _, n := range flagNames {
		if f.Contains(n.f) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}
