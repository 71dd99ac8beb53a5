package runner

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRun_ExecutesAndReturnsResult(t *testing.T) {
	r := New(2)

	result := Run(r, context.Background(), "SCN-001", func(_ context.Context) int {
		return 42
	})

	assert.Equal(t, 42, result)
	assert.Equal(t, 0, r.Health().ActiveRuns)
}

func TestRun_BoundsConcurrency(t *testing.T) {
	r := New(2)
	var concurrent int32
	var maxSeen int32
	var wg sync.WaitGroup

	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			Run(r, context.Background(), string(rune('A'+n)), func(_ context.Context) struct{} {
				cur := atomic.AddInt32(&concurrent, 1)
				for {
					seen := atomic.LoadInt32(&maxSeen)
					if cur <= seen || atomic.CompareAndSwapInt32(&maxSeen, seen, cur) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				atomic.AddInt32(&concurrent, -1)
				return struct{}{}
			})
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, int(maxSeen), 2)
}

func TestRun_ContextCancelledBeforeSlotFreeReturnsZeroValue(t *testing.T) {
	r := New(1)
	blocker := make(chan struct{})
	go Run(r, context.Background(), "SCN-BLOCKER", func(_ context.Context) struct{} {
		<-blocker
		return struct{}{}
	})
	time.Sleep(5 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := Run(r, ctx, "SCN-002", func(_ context.Context) int { return 7 })

	assert.Equal(t, 0, result)
	close(blocker)
}

func TestCancel_CancelsRunningScenarioContext(t *testing.T) {
	r := New(1)
	started := make(chan struct{})
	cancelled := false

	Run(r, context.Background(), "SCN-003", func(ctx context.Context) struct{} {
		close(started)
		go r.Cancel("SCN-003")
		<-ctx.Done()
		cancelled = true
		return struct{}{}
	})

	<-started
	assert.True(t, cancelled)
}

func TestCancel_UnknownScenarioReturnsFalse(t *testing.T) {
	r := New(1)
	assert.False(t, r.Cancel("does-not-exist"))
}

func TestHealth_ReportsMaxConcurrent(t *testing.T) {
	r := New(5)
	assert.Equal(t, 5, r.Health().MaxConcurrent)
}
