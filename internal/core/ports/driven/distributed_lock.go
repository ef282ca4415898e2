package driven

import (
	"context"
	"time"
)

// DistributedLock serializes work on a named resource across instances.
// Ingestion acquires a per-document lock so two uploads of the same file
// cannot interleave index and metadata writes.
type DistributedLock interface {
	// Acquire attempts to take the named lock, returning false if it is
	// already held elsewhere
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)

	// Release releases the named lock if held by this instance
	Release(ctx context.Context, name string) error

	// Extend extends the TTL of a held lock
	Extend(ctx context.Context, name string, ttl time.Duration) error
}
