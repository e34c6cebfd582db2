package videos

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/moderation"
)

type triggerStub struct {
	mu    sync.Mutex
	calls []moderation.VideoModerationRequest
	err   error
	block chan struct{}
}

func (s *triggerStub) Trigger(ctx context.Context, req moderation.VideoModerationRequest) (string, error) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)
	return "run_" + req.VideoID, s.err
}

func (s *triggerStub) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func shutdown(t *testing.T, d *Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Shutdown(ctx))
}

func TestDispatcherRunsQueuedJobs(t *testing.T) {
	trigger := &triggerStub{}
	d := NewDispatcher(trigger, DispatcherConfig{QueueSize: 4, Workers: 2})

	for _, id := range []string{"v1", "v2", "v3"} {
		require.NoError(t, d.Enqueue(context.Background(), moderation.VideoModerationRequest{VideoID: id, VideoURL: "u"}))
	}

	shutdown(t, d)
	assert.Equal(t, 3, trigger.count())
}

func TestDispatcherTriggerFailureIsSwallowed(t *testing.T) {
	trigger := &triggerStub{err: errors.New("runner down")}
	d := NewDispatcher(trigger, DispatcherConfig{QueueSize: 1, Workers: 1})

	require.NoError(t, d.Enqueue(context.Background(), moderation.VideoModerationRequest{VideoID: "v1", VideoURL: "u"}))
	shutdown(t, d)

	assert.Equal(t, 1, trigger.count())
}

func TestDispatcherQueueFull(t *testing.T) {
	trigger := &triggerStub{block: make(chan struct{})}
	d := NewDispatcher(trigger, DispatcherConfig{QueueSize: 1, Workers: 1})

	req := moderation.VideoModerationRequest{VideoID: "v", VideoURL: "u"}
	require.NoError(t, d.Enqueue(context.Background(), req))

	// The worker holds at most one job and the buffer one more.
	var full bool
	for i := 0; i < 3; i++ {
		if errors.Is(d.Enqueue(context.Background(), req), ErrQueueFull) {
			full = true
			break
		}
	}
	assert.True(t, full)

	close(trigger.block)
	shutdown(t, d)
}

func TestDispatcherClosed(t *testing.T) {
	d := NewDispatcher(&triggerStub{}, DispatcherConfig{})
	shutdown(t, d)

	err := d.Enqueue(context.Background(), moderation.VideoModerationRequest{VideoID: "v", VideoURL: "u"})
	assert.ErrorIs(t, err, ErrDispatcherClosed)
	assert.NoError(t, d.Shutdown(context.Background()))
}

func TestDispatcherEnqueueOutlivesRequestContext(t *testing.T) {
	trigger := &triggerStub{}
	d := NewDispatcher(trigger, DispatcherConfig{QueueSize: 1, Workers: 1})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, d.Enqueue(ctx, moderation.VideoModerationRequest{VideoID: "v1", VideoURL: "u"}))
	cancel()

	shutdown(t, d)
	assert.Equal(t, 1, trigger.count())
}
