package arena

import "errors"

var (
	// ErrInvalidHandle signals a handle which has never been issued by an arena.
	ErrInvalidHandle = errors.New("arena: invalid handle")
	// ErrStaleHandle signals a handle to a slot which has been freed since.
	ErrStaleHandle = errors.New("arena: stale handle")
	// ErrCorrupt signals a violation of the arena's internal bookkeeping.
	ErrCorrupt = errors.New("arena: inconsistent slot table")
)
