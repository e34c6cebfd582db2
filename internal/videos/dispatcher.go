package videos

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/logging"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/moderation"
)

// ModerationTrigger hands a stored video to the moderation workflow.
type ModerationTrigger interface {
	Trigger(ctx context.Context, req moderation.VideoModerationRequest) (string, error)
}

// DispatcherConfig controls the concurrency characteristics of the dispatcher.
type DispatcherConfig struct {
	QueueSize      int
	Workers        int
	TriggerTimeout time.Duration
}

// Dispatcher invokes the moderation trigger off the request path with a fixed pool
// of workers. Failed triggers are logged and dropped; the video stays pending.
type Dispatcher struct {
	trigger ModerationTrigger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	jobs   chan dispatchJob
	wg     sync.WaitGroup
}

type dispatchJob struct {
	ctx context.Context
	req moderation.VideoModerationRequest
}

// ErrDispatcherClosed is returned by Enqueue after Shutdown.
var ErrDispatcherClosed = errors.New("moderation dispatcher closed")

// ErrQueueFull is returned by Enqueue when no worker can take the job right now.
var ErrQueueFull = errors.New("moderation queue full")

// NewDispatcher starts the worker pool.
func NewDispatcher(trigger ModerationTrigger, cfg DispatcherConfig) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.TriggerTimeout <= 0 {
		cfg.TriggerTimeout = 30 * time.Second
	}

	d := &Dispatcher{
		trigger: trigger,
		timeout: cfg.TriggerTimeout,
		jobs:    make(chan dispatchJob, cfg.QueueSize),
	}

	d.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go d.worker()
	}

	return d
}

// Enqueue schedules a moderation trigger. It never blocks: a full queue is reported
// as ErrQueueFull.
func (d *Dispatcher) Enqueue(ctx context.Context, req moderation.VideoModerationRequest) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}

	job := dispatchJob{ctx: logging.Detach(ctx), req: req}

	select {
	case d.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Shutdown stops accepting jobs and waits for queued ones to finish.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for job := range d.jobs {
		d.handle(job)
	}
}

func (d *Dispatcher) handle(job dispatchJob) {
	logger := logging.FromContext(job.ctx).With(slog.String("videoId", job.req.VideoID))
	if d.trigger == nil {
		logger.Error("moderation dispatcher has no trigger")
		return
	}

	ctx, cancel := context.WithTimeout(job.ctx, d.timeout)
	defer cancel()

	taskID, err := d.trigger.Trigger(ctx, job.req)
	if err != nil {
		logger.Error("moderation trigger failed; video left pending", slog.String("error", err.Error()))
		return
	}
	logger.Info("moderation dispatched", slog.String("taskId", taskID))
}
