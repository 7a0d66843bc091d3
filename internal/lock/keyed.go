// Package lock provides the per-key mutual exclusion used to serialize
// reservations against the same show occurrence.  Entries live only
// while a key is contended or held; once the last holder releases, the
// entry is removed, so the table stays bounded no matter how many
// distinct occurrences pass through it over time.
package lock

import (
	"context"
	"errors"
	"sync"
)

// ErrTimeout is returned when a lock cannot be acquired before the
// caller's context expires.  It marks a retryable failure: the caller
// decides whether to retry, the table never does.
var ErrTimeout = errors.New("lock: acquire timed out")

type entry struct {
	sem  chan struct{} // holds one token when the key is free
	refs int           // holders + waiters; entry is deleted at zero
}

// KeyedMutex is a table of independent mutexes addressed by string key.
// Acquisitions on different keys never block each other.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewKeyedMutex returns an empty lock table.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{entries: make(map[string]*entry)}
}

// Acquire blocks until the key's mutex is held or the context expires.
// On success it returns a release function which must be called exactly
// once.  On context expiry it returns ErrTimeout and holds nothing.
func (k *KeyedMutex) Acquire(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		e.sem <- struct{}{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	select {
	case <-e.sem:
		release := func() {
			e.sem <- struct{}{}
			k.unref(key, e)
		}
		return release, nil
	case <-ctx.Done():
		k.unref(key, e)
		return nil, ErrTimeout
	}
}

func (k *KeyedMutex) unref(key string, e *entry) {
	k.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()
}

// Len reports the number of live entries.  Exposed for tests and
// metrics; a steadily growing value indicates a release leak.
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
