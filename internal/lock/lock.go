package lock

import (
	"context"
	"errors"
	"sync"
)

// Locker serializes balance-check-and-append sections per user. Different
// users proceed concurrently; the same user is mutually exclusive.
type Locker interface {
	// Acquire blocks until the key is held or ctx is done. The returned
	// release function must be called exactly once.
	Acquire(ctx context.Context, key string) (func(), error)
}

var ErrLockFailed = errors.New("lock_failed")

type entry struct {
	mu   sync.Mutex
	refs int
}

// KeyedMutex is the in-process Locker. Entries are reference counted so the
// key map does not grow with the user population.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{entries: make(map[string]*entry)}
}

func (k *KeyedMutex) Acquire(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	acquired := make(chan struct{})
	go func() {
		e.mu.Lock()
		close(acquired)
	}()

	select {
	case <-acquired:
		return func() { k.release(key, e) }, nil
	case <-ctx.Done():
		// The goroutine above will still take the mutex; hand it straight back.
		go func() {
			<-acquired
			k.release(key, e)
		}()
		return nil, ctx.Err()
	}
}

func (k *KeyedMutex) release(key string, e *entry) {
	e.mu.Unlock()
	k.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()
}
