// Package tasks runs fire-and-forget background work on a bounded in-process
// queue with a fixed worker pool.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/jobportal/recruitment/pkg/logger"
	"github.com/jobportal/recruitment/pkg/metrics"
)

const (
	DefaultWorkers   = 4
	DefaultQueueSize = 100
	DefaultResultTTL = time.Hour
)

var (
	// ErrQueueFull is returned when the queue has no free slot.
	ErrQueueFull = errors.New("tasks: queue is full")
	// ErrDispatcherClosed is returned by Submit after Stop.
	ErrDispatcherClosed = errors.New("tasks: dispatcher is stopped")
)

// Func is the body of a task. A returned error triggers the task's retry policy.
type Func func(ctx context.Context) (any, error)

// RetryPolicy bounds re-execution of a failing task. Retries is the number of
// attempts after the first one.
type RetryPolicy struct {
	Retries int
	Delay   time.Duration
}

// Task is a named unit of background work.
type Task struct {
	Name  string
	Run   Func
	Retry RetryPolicy
	// Failure maps the final error to the result recorded on the handle.
	Failure func(err error) any
}

type permanentError struct{ err error }

func (p permanentError) Error() string { return p.err.Error() }
func (p permanentError) Unwrap() error { return p.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

func isPermanent(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}

// Config sizes the dispatcher.
type Config struct {
	Workers   int
	QueueSize int
	ResultTTL time.Duration
}

type job struct {
	task   Task
	handle *Handle
}

// Dispatcher owns the queue, the workers and the registry of recent handles.
type Dispatcher struct {
	queue    chan job
	workers  int
	registry *gocache.Cache
	log      *zap.Logger
	now      func() time.Time

	mu      sync.RWMutex
	closed  bool
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewDispatcher builds a dispatcher. Call Start before submitting work.
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = DefaultResultTTL
	}
	return &Dispatcher{
		queue:    make(chan job, cfg.QueueSize),
		workers:  cfg.Workers,
		registry: gocache.New(cfg.ResultTTL, cfg.ResultTTL),
		log:      logger.WithModule("tasks"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start launches the worker pool. Task contexts derive from ctx.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}
	d.log.Info("task workers started", zap.Int("workers", d.workers), zap.Int("queue_size", cap(d.queue)))
}

// Submit enqueues task without blocking.
func (d *Dispatcher) Submit(task Task) (*Handle, error) {
	if task.Run == nil {
		return nil, errors.New("tasks: task body is required")
	}
	if task.Name == "" {
		task.Name = "anonymous"
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return nil, ErrDispatcherClosed
	}

	handle := newHandle(uuid.NewString(), task.Name, d.now())
	select {
	case d.queue <- job{task: task, handle: handle}:
	default:
		return nil, ErrQueueFull
	}

	d.registry.SetDefault(handle.ID, handle)
	metrics.TaskQueueDepth.Set(float64(len(d.queue)))
	return handle, nil
}

// Lookup returns a recently submitted handle.
func (d *Dispatcher) Lookup(id string) (*Handle, bool) {
	value, ok := d.registry.Get(id)
	if !ok {
		return nil, false
	}
	handle, ok := value.(*Handle)
	return handle, ok
}

// Stop refuses new work, lets workers drain the queue and waits for them
// until ctx expires, at which point running tasks are cancelled. A dispatcher
// that was never started fails its queued tasks with ErrDispatcherClosed.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	started := d.started
	d.mu.Unlock()

	if !started {
		// No worker will ever read the queue, so fail what is waiting there.
		for j := range d.queue {
			j.handle.finish(StatusFailed, nil, ErrDispatcherClosed, d.now())
			metrics.TasksProcessed.WithLabelValues(j.task.Name, string(StatusFailed)).Inc()
		}
		metrics.TaskQueueDepth.Set(0)
		return nil
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return fmt.Errorf("tasks: stop: %w", ctx.Err())
	}
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for j := range d.queue {
		metrics.TaskQueueDepth.Set(float64(len(d.queue)))
		d.run(ctx, j)
	}
}

func (d *Dispatcher) run(ctx context.Context, j job) {
	task, handle := j.task, j.handle
	log := d.log.With(zap.String("task", task.Name), zap.String("task_id", handle.ID))

	var (
		result any
		err    error
	)
	for attempt := 1; ; attempt++ {
		handle.markRunning(attempt)
		result, err = d.invoke(ctx, task)
		if err == nil {
			break
		}
		if isPermanent(err) || attempt > task.Retry.Retries || ctx.Err() != nil {
			break
		}

		log.Warn("task failed; retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", task.Retry.Delay),
			zap.Error(err),
		)
		if !sleep(ctx, task.Retry.Delay) {
			err = errors.Join(err, ctx.Err())
			break
		}
	}

	if err != nil {
		var p permanentError
		if errors.As(err, &p) {
			err = p.err
		}
		if task.Failure != nil {
			result = task.Failure(err)
		}
		handle.finish(StatusFailed, result, err, d.now())
		metrics.TasksProcessed.WithLabelValues(task.Name, string(StatusFailed)).Inc()
		log.Error("task failed", zap.Error(err))
		return
	}

	handle.finish(StatusSucceeded, result, nil, d.now())
	metrics.TasksProcessed.WithLabelValues(task.Name, string(StatusSucceeded)).Inc()
	log.Debug("task succeeded")
}

func (d *Dispatcher) invoke(ctx context.Context, task Task) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = Permanent(fmt.Errorf("tasks: panic: %v", r))
		}
	}()
	return task.Run(ctx)
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
