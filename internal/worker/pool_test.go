package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/prizegrid/internal/testing/leaktest"
)

type testJob struct {
	executed *int32
	err      error
}

func (j *testJob) Process(ctx context.Context) error {
	atomic.AddInt32(j.executed, 1)
	return j.err
}

type blockingJob struct {
	release chan struct{}
	started chan struct{}
}

func (j *blockingJob) Process(ctx context.Context) error {
	close(j.started)
	<-j.release
	return nil
}

func TestPool(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		var executed int32
		pool := NewPool(TestWorkerCount, TestQueueSize)
		pool.Start(context.Background())

		job := &testJob{executed: &executed}
		assert.True(t, pool.Enqueue(job))
		assert.True(t, pool.Enqueue(&testJob{executed: &executed, err: errors.New("failed job is logged")}))

		require.Eventually(t, func() bool {
			return atomic.LoadInt32(&executed) == TestExpectedJobCount
		}, time.Second, 5*time.Millisecond)

		pool.Stop()
	})
}

func TestPool_EnqueueDropsWhenFull(t *testing.T) {
	pool := NewPool(1, 1)
	pool.Start(context.Background())
	defer pool.Stop()

	blocker := &blockingJob{release: make(chan struct{}), started: make(chan struct{})}
	require.True(t, pool.Enqueue(blocker))
	<-blocker.started

	var executed int32
	assert.True(t, pool.Enqueue(&testJob{executed: &executed}), "one slot in the queue")
	assert.False(t, pool.Enqueue(&testJob{executed: &executed}), "queue is full")

	close(blocker.release)
}

func TestPool_EnqueueAfterStop(t *testing.T) {
	pool := NewPool(1, 1)
	pool.Start(context.Background())
	pool.Stop()
	pool.Stop()

	var executed int32
	assert.False(t, pool.Enqueue(&testJob{executed: &executed}))
}
