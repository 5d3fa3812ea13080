package concurrency

import (
	"sort"
	"sync"
)

// LockManager handles named locks
type LockManager struct {
	locks sync.Map
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns a mutex for the given key
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// LockAll acquires every named lock in sorted order and returns a function
// releasing them in reverse. Duplicate keys are locked once. Sorting keeps two
// callers with overlapping key sets from deadlocking.
func (lm *LockManager) LockAll(keys ...string) (unlock func()) {
	sorted := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	held := make([]*sync.Mutex, 0, len(sorted))
	for _, k := range sorted {
		m := lm.GetLock(k)
		m.Lock()
		held = append(held, m)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

// CatalogKey is the lock key of one catalog entry
func CatalogKey(code string) string {
	return "catalog:" + code
}

// IdempotencyKey is the lock key serializing commits of the same event and seed
func IdempotencyKey(key string) string {
	return "commit:" + key
}
