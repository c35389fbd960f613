package heap

import "github.com/cockroachdb/errors"

var (
	// ErrNotInitialized indicates use of a heap before Init succeeded.
	ErrNotInitialized = errors.New("heap: not initialized")

	// ErrAlreadyInitialized indicates a second call to Init.
	ErrAlreadyInitialized = errors.New("heap: already initialized")

	// ErrInitFailed indicates use of a heap whose Init failed part way. Its
	// region may be partially mapped and is never handed to a strategy.
	ErrInitFailed = errors.New("heap: initialization failed")

	// ErrAlreadyRegistered indicates a second call to Register.
	ErrAlreadyRegistered = errors.New("heap: process heap already registered")

	// ErrLockHeld is returned by TryAlloc when the allocator lock is taken.
	ErrLockHeld = errors.New("heap: allocator lock held")

	// ErrBadRegion indicates a heap region that is empty, not page aligned,
	// or wraps the address space.
	ErrBadRegion = errors.New("heap: invalid region")

	// ErrUnknownStrategy indicates a strategy name or value with no allocator.
	ErrUnknownStrategy = errors.New("heap: unknown strategy")
)
