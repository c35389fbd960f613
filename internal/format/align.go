package format

// Alignment utilities. Every alignment passed here must be a power of two;
// callers validate that once at the boundary (see alloc.NewLayout).

// AlignUp returns addr rounded up to the next multiple of align.
//
// Example:
//
//	AlignUp(1, 8)    = 8
//	AlignUp(8, 8)    = 8
//	AlignUp(9, 16)   = 16
//	AlignUp(4097, 4096) = 8192
func AlignUp(addr, align uint64) uint64 {
	return (addr + align - 1) &^ (align - 1)
}

// AlignDown returns addr rounded down to a multiple of align.
func AlignDown(addr, align uint64) uint64 {
	return addr &^ (align - 1)
}

// IsAligned reports whether addr is a multiple of align.
func IsAligned(addr, align uint64) bool {
	return addr&(align-1) == 0
}

// IsPowerOfTwo reports whether n is a non-zero power of two.
func IsPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

// AlignPage rounds n up to the next page boundary.
func AlignPage(n uint64) uint64 {
	return (n + PageMask) &^ PageMask
}
