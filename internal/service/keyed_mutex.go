package service

import "sync"

// keyedMutex serializes operations per string key. The check-in state machine
// and tag assignment both do a read-decide-write sequence that must not
// interleave for the same employee or tag: two simultaneous scans of one badge
// would otherwise both read the same last event and double-insert.
//
// Entries are reference-counted and removed when the last holder unlocks, so
// the map does not accumulate a key per employee forever.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock acquires the lock for key and returns the unlock function.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
