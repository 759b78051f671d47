// Package redis provides a Redis-backed commit lock so reorder batches for
// one project never interleave across server instances.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"doctree/internal/domain"
	"doctree/internal/domain/repositories"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockExpired is returned by a release whose lock timed out and may
// already belong to another holder
var ErrLockExpired = errors.New("commit lock expired before release")

// Deletes the key only if it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// CommitLock implements repositories.CommitLock with SET NX PX
type CommitLock struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewCommitLock connects to redisURL and verifies the connection
func NewCommitLock(redisURL string, ttl time.Duration) (*CommitLock, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewCommitLockWithClient(client, ttl), nil
}

// NewCommitLockWithClient creates a lock from an existing Redis client
func NewCommitLockWithClient(client *redis.Client, ttl time.Duration) *CommitLock {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CommitLock{
		client: client,
		prefix: "doctree:commit:",
		ttl:    ttl,
	}
}

var _ repositories.CommitLock = (*CommitLock)(nil)

func (l *CommitLock) key(projectID string) string {
	return l.prefix + projectID
}

// Acquire takes the project lock or fails with domain.ErrCommitInFlight
func (l *CommitLock) Acquire(ctx context.Context, projectID string) (repositories.ReleaseFn, error) {
	key := l.key(projectID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire commit lock: %w", err)
	}
	if !ok {
		return nil, domain.ErrCommitInFlight
	}

	return func(ctx context.Context) error {
		n, err := releaseScript.Run(ctx, l.client, []string{key}, token).Int()
		if err != nil {
			return fmt.Errorf("release commit lock: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("project %s: %w", projectID, ErrLockExpired)
		}
		return nil
	}, nil
}

// Ping checks the Redis connection
func (l *CommitLock) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (l *CommitLock) Close() error {
	return l.client.Close()
}
