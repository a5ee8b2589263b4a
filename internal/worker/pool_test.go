package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsJobs(t *testing.T) {
	p := NewPool(2, 10, nil)
	var n atomic.Int32

	for i := 0; i < 10; i++ {
		require.NoError(t, p.Submit(func(ctx context.Context) { n.Add(1) }))
	}
	require.NoError(t, p.Shutdown(context.Background()))
	assert.Equal(t, int32(10), n.Load())
}

func TestPool_QueueFull(t *testing.T) {
	p := NewPool(1, 1, nil)
	block := make(chan struct{})
	started := make(chan struct{})

	require.NoError(t, p.Submit(func(ctx context.Context) {
		close(started)
		<-block
	}))
	<-started
	require.NoError(t, p.Submit(func(ctx context.Context) {}))
	assert.ErrorIs(t, p.Submit(func(ctx context.Context) {}), ErrQueueFull)
	assert.Equal(t, 1, p.Queued())

	close(block)
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	p := NewPool(1, 1, nil)
	require.NoError(t, p.Shutdown(context.Background()))
	require.NoError(t, p.Shutdown(context.Background()))

	assert.ErrorIs(t, p.Submit(func(ctx context.Context) {}), ErrPoolClosed)
}

func TestPool_ShutdownDrainsQueue(t *testing.T) {
	p := NewPool(1, 5, nil)
	var n atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Submit(func(ctx context.Context) {
			time.Sleep(time.Millisecond)
			n.Add(1)
		}))
	}
	require.NoError(t, p.Shutdown(context.Background()))
	assert.Equal(t, int32(5), n.Load())
}

func TestPool_ShutdownDeadlineCancelsJobs(t *testing.T) {
	p := NewPool(1, 0, nil)
	started := make(chan struct{})
	var canceled atomic.Bool

	require.Eventually(t, func() bool {
		return p.Submit(func(ctx context.Context) {
			close(started)
			<-ctx.Done()
			canceled.Store(true)
		}) == nil
	}, time.Second, time.Millisecond)
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := p.Shutdown(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, canceled.Load())
}

func TestPool_RecoversPanics(t *testing.T) {
	p := NewPool(1, 2, nil)
	var ran atomic.Bool

	require.NoError(t, p.Submit(func(ctx context.Context) { panic("boom") }))
	require.NoError(t, p.Submit(func(ctx context.Context) { ran.Store(true) }))
	require.NoError(t, p.Shutdown(context.Background()))

	assert.True(t, ran.Load())
}
