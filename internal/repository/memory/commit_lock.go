package memory

import (
	"context"
	"sync"

	"doctree/internal/domain"
	"doctree/internal/domain/repositories"
)

// CommitLock serializes reorder commits within one process
type CommitLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCommitLock creates an in-process commit lock
func NewCommitLock() *CommitLock {
	return &CommitLock{locks: make(map[string]*sync.Mutex)}
}

var _ repositories.CommitLock = (*CommitLock)(nil)

// Acquire fails with domain.ErrCommitInFlight instead of waiting
func (l *CommitLock) Acquire(ctx context.Context, projectID string) (repositories.ReleaseFn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	m, ok := l.locks[projectID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[projectID] = m
	}
	l.mu.Unlock()

	if !m.TryLock() {
		return nil, domain.ErrCommitInFlight
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(m.Unlock)
		return nil
	}, nil
}
