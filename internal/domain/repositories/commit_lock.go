package repositories

import "context"

// ReleaseFn releases a lock obtained from CommitLock.Acquire
type ReleaseFn func(ctx context.Context) error

// CommitLock serializes reorder commits per project. Renumbering batches for
// the same tree must never interleave.
type CommitLock interface {
	// Acquire takes the lock for projectID without waiting.
	// Returns domain.ErrCommitInFlight if another commit holds it.
	Acquire(ctx context.Context, projectID string) (ReleaseFn, error)
}
