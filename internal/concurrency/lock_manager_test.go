package concurrency

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetLock_SameKeySameMutex(t *testing.T) {
	lm := NewLockManager()

	assert.Same(t, lm.GetLock("a"), lm.GetLock("a"))
	assert.NotSame(t, lm.GetLock("a"), lm.GetLock("b"))
}

func TestLockAll_DuplicateKeysLockedOnce(t *testing.T) {
	lm := NewLockManager()

	done := make(chan struct{})
	go func() {
		unlock := lm.LockAll("x", "x", "y")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("LockAll deadlocked on duplicate keys")
	}
}

func TestLockAll_OverlappingSetsDoNotDeadlock(t *testing.T) {
	lm := NewLockManager()
	var wg sync.WaitGroup
	var inside int32

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unlock := lm.LockAll(CatalogKey("A"), CatalogKey("B"))
			atomic.AddInt32(&inside, 1)
			unlock()
		}()
		go func() {
			defer wg.Done()
			unlock := lm.LockAll(CatalogKey("B"), CatalogKey("A"))
			atomic.AddInt32(&inside, 1)
			unlock()
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		assert.EqualValues(t, 100, atomic.LoadInt32(&inside))
	case <-time.After(5 * time.Second):
		t.Fatal("opposite lock orders deadlocked")
	}
}

func TestLockAll_ExcludesConcurrentHolder(t *testing.T) {
	lm := NewLockManager()
	unlock := lm.LockAll(IdempotencyKey("evt:seed"))

	acquired := make(chan struct{})
	go func() {
		u := lm.LockAll(IdempotencyKey("evt:seed"))
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired a held lock")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock was not released")
	}
}
