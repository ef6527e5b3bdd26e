package app

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

// nameLocks serializes mutations per normalized name. Entries are reference
// counted and dropped once nobody holds or waits for them.
type nameLocks struct {
	mu    sync.Mutex
	locks map[string]*nameLock
}

type nameLock struct {
	sem  *semaphore.Weighted
	refs int
}

// lock blocks until key is free or ctx is done. The returned func releases it.
func (n *nameLocks) lock(ctx context.Context, key string) (func(), error) {
	n.mu.Lock()
	if n.locks == nil {
		n.locks = make(map[string]*nameLock)
	}
	l, ok := n.locks[key]
	if !ok {
		l = &nameLock{sem: semaphore.NewWeighted(1)}
		n.locks[key] = l
	}
	l.refs++
	n.mu.Unlock()

	if err := l.sem.Acquire(ctx, 1); err != nil {
		n.release(key, l)
		return nil, fmt.Errorf("waiting for pending update of %q: %w", key, err)
	}

	return func() {
		l.sem.Release(1)
		n.release(key, l)
	}, nil
}

func (n *nameLocks) release(key string, l *nameLock) {
	n.mu.Lock()
	defer n.mu.Unlock()

	l.refs--
	if l.refs == 0 {
		delete(n.locks, key)
	}
}

// waiters reports how many callers hold or wait for key.
func (n *nameLocks) waiters(key string) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	if l, ok := n.locks[key]; ok {
		return l.refs
	}
	return 0
}
