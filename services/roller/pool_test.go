package roller

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPoolRunsTasks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := NewPool(4, 16)
	pool.Start(ctx)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ran := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		ok := pool.Submit(func(ctx context.Context) {
			mu.Lock()
			ran++
			mu.Unlock()
			wg.Done()
		})
		require.True(t, ok)
	}
	wg.Wait()
	require.Equal(t, 16, ran)
}

func TestPoolRejectsWhenSaturated(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	block := make(chan struct{})
	pool := NewPool(1, 1)
	pool.Start(ctx)

	// occupy the single worker
	started := make(chan struct{})
	require.True(t, pool.Submit(func(ctx context.Context) {
		close(started)
		<-block
	}))
	<-started

	// fill the queue
	require.True(t, pool.Submit(func(ctx context.Context) {}))
	// saturated now
	require.False(t, pool.Submit(func(ctx context.Context) {}))

	close(block)
}

func TestPoolStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(1, 1)
	pool.Start(ctx)
	cancel()

	// give the worker a moment to exit, then submitted tasks must not
	// run
	time.Sleep(50 * time.Millisecond)
	ran := make(chan struct{})
	pool.Submit(func(ctx context.Context) { close(ran) })
	select {
	case <-ran:
		t.Fatal("task ran after pool shutdown")
	case <-time.After(100 * time.Millisecond):
	}
}
