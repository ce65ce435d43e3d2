package tasks

import (
	"context"
	"sync"
	"time"
)

// Status is the lifecycle state of a submitted task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Handle tracks one submitted task. It is safe for concurrent use.
type Handle struct {
	ID   string
	Name string

	mu          sync.RWMutex
	status      Status
	result      any
	err         error
	attempts    int
	submittedAt time.Time
	finishedAt  time.Time
	done        chan struct{}
}

// Snapshot is the JSON view of a Handle.
type Snapshot struct {
	ID          string     `json:"task_id"`
	Name        string     `json:"name"`
	Status      Status     `json:"status"`
	Result      any        `json:"result,omitempty"`
	Error       string     `json:"error,omitempty"`
	Attempts    int        `json:"attempts"`
	SubmittedAt time.Time  `json:"submitted_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

func newHandle(id, name string, now time.Time) *Handle {
	return &Handle{
		ID:          id,
		Name:        name,
		status:      StatusPending,
		submittedAt: now,
		done:        make(chan struct{}),
	}
}

// Status reports the current state.
func (h *Handle) Status() Status {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status
}

// Result returns the task outcome; it is only meaningful once Done is closed.
func (h *Handle) Result() (any, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.result, h.err
}

// Done is closed when the task reaches a terminal state.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the task finishes or ctx is cancelled.
func (h *Handle) Wait(ctx context.Context) (any, error) {
	select {
	case <-h.done:
		return h.Result()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Snapshot copies the handle's state.
func (h *Handle) Snapshot() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()

	snap := Snapshot{
		ID:          h.ID,
		Name:        h.Name,
		Status:      h.status,
		Result:      h.result,
		Attempts:    h.attempts,
		SubmittedAt: h.submittedAt,
	}
	if h.err != nil {
		snap.Error = h.err.Error()
	}
	if !h.finishedAt.IsZero() {
		finished := h.finishedAt
		snap.FinishedAt = &finished
	}
	return snap
}

func (h *Handle) markRunning(attempt int) {
	h.mu.Lock()
	h.status = StatusRunning
	h.attempts = attempt
	h.mu.Unlock()
}

func (h *Handle) finish(status Status, result any, err error, now time.Time) {
	h.mu.Lock()
	h.status = status
	h.result = result
	h.err = err
	h.finishedAt = now
	h.mu.Unlock()
	close(h.done)
}
