// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	a2a "github.com/go-a2a/a2a-bearer"
	"github.com/go-a2a/a2a-bearer/server/task"
	"github.com/go-a2a/a2a-bearer/server/worker"
)

// Defaults of a [Manager].
const (
	DefaultWorkers   = 2
	DefaultQueueSize = 64
)

var (
	// ErrTaskInProgress is returned when a message is sent to a task that is still being processed.
	ErrTaskInProgress = errors.New("task is still in progress")

	// ErrQueueFull is returned when the task queue cannot accept more work.
	ErrQueueFull = errors.New("task queue is full")

	// ErrInterrupted is the failure recorded for tasks a previous process left working.
	ErrInterrupted = errors.New("task was interrupted by a server restart")

	// ErrEmptyMessage is returned when a task is sent without any message part.
	ErrEmptyMessage = errors.New("message has no parts")
)

// TaskManager is the interface the JSON-RPC handlers delegate to.
type TaskManager interface {
	// SendTask creates a task, or continues a finished one, and schedules it for processing.
	SendTask(ctx context.Context, params a2a.TaskSendParams) (*a2a.Task, error)

	// GetTask returns the task with id, keeping at most historyLength history messages.
	GetTask(ctx context.Context, id string, historyLength *int) (*a2a.Task, error)

	// CancelTask cancels a task that has not reached a final state.
	CancelTask(ctx context.Context, id string) (*a2a.Task, error)
}

// ManagerOption configures a [Manager].
type ManagerOption func(*Manager)

// WithWorkers sets the number of tasks processed concurrently.
func WithWorkers(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.workers = n
		}
	}
}

// WithQueueSize sets how many tasks may wait for a worker.
func WithQueueSize(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.queueSize = n
		}
	}
}

// WithManagerLogger sets the [*slog.Logger] for the [Manager].
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithManagerTracer sets the [trace.Tracer] for the [Manager].
func WithManagerTracer(tracer trace.Tracer) ManagerOption {
	return func(m *Manager) {
		m.tracer = tracer
	}
}

// WithManagerMetrics sets the [*Metrics] the [Manager] records task durations on.
func WithManagerMetrics(metrics *Metrics) ManagerOption {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// Manager is a [TaskManager] that persists tasks in a [task.TaskStore] and
// processes them with a [worker.Worker] on a bounded pool of goroutines.
//
// Tasks move from submitted to working to completed or failed. A task that
// has not reached a final state can be canceled at any time.
type Manager struct {
	store  task.TaskStore
	worker worker.Worker

	workers   int
	queueSize int
	queue     chan string

	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *Metrics

	// mu serialises state transitions so that a cancel never races a completion.
	mu      sync.Mutex
	running map[string]context.CancelFunc
}

var _ TaskManager = (*Manager)(nil)

// NewManager returns a Manager. Call [Manager.Run] to start processing.
func NewManager(store task.TaskStore, w worker.Worker, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:     store,
		worker:    w,
		workers:   DefaultWorkers,
		queueSize: DefaultQueueSize,
		logger:    slog.Default(),
		tracer:    otel.GetTracerProvider().Tracer("github.com/go-a2a/a2a-bearer/server"),
		running:   make(map[string]context.CancelFunc),
	}
	for _, o := range opts {
		o(m)
	}
	m.queue = make(chan string, m.queueSize)
	return m
}

// Run processes queued tasks until ctx is done.
func (m *Manager) Run(ctx context.Context) error {
	m.logger.InfoContext(ctx, "task workers started", slog.Int("workers", m.workers))

	g, ctx := errgroup.WithContext(ctx)
	for range m.workers {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case id := <-m.queue:
					m.process(ctx, id)
				}
			}
		})
	}
	err := g.Wait()

	m.logger.InfoContext(ctx, "task workers stopped")
	return err
}

// SendTask implements [TaskManager].
func (m *Manager) SendTask(ctx context.Context, params a2a.TaskSendParams) (*a2a.Task, error) {
	ctx, span := m.tracer.Start(ctx, "a2a.task_manager.SendTask",
		trace.WithAttributes(attribute.String("a2a.task_id", params.ID)))
	defer span.End()

	if len(params.Message.Parts) == 0 {
		return nil, ErrEmptyMessage
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.store.Get(ctx, params.ID)
	var notFound a2a.TaskNotFoundError
	switch {
	case params.ID == "" || errors.As(err, &notFound):
		t = a2a.NewTask(params.ID, params.SessionID, params.Message)
		t.Metadata = params.Metadata
	case err != nil:
		return nil, fmt.Errorf("load task %s: %w", params.ID, err)
	case !t.Status.State.IsFinal():
		return nil, fmt.Errorf("send to task %s: %w", params.ID, ErrTaskInProgress)
	default:
		t.History = append(t.History, params.Message)
		t.Status = a2a.TaskStatus{State: a2a.TaskStateSubmitted, Timestamp: time.Now().UTC()}
		t.Artifacts = nil
	}

	if err := m.store.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("save task %s: %w", t.ID, err)
	}

	select {
	case m.queue <- t.ID:
	default:
		t.Status = a2a.TaskStatus{
			State:     a2a.TaskStateFailed,
			Message:   agentText("Error: " + ErrQueueFull.Error()),
			Timestamp: time.Now().UTC(),
		}
		if err := m.store.Save(ctx, t); err != nil {
			m.logger.ErrorContext(ctx, "failed to record rejected task", slog.String("task_id", t.ID), slog.Any("error", err))
		}
		return nil, fmt.Errorf("enqueue task %s: %w", t.ID, ErrQueueFull)
	}

	m.logger.InfoContext(ctx, "task submitted", slog.String("task_id", t.ID), slog.String("session_id", t.SessionID))
	return t.TrimHistory(params.HistoryLength), nil
}

// GetTask implements [TaskManager].
func (m *Manager) GetTask(ctx context.Context, id string, historyLength *int) (*a2a.Task, error) {
	ctx, span := m.tracer.Start(ctx, "a2a.task_manager.GetTask",
		trace.WithAttributes(attribute.String("a2a.task_id", id)))
	defer span.End()

	t, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return t.TrimHistory(historyLength), nil
}

// CancelTask implements [TaskManager].
func (m *Manager) CancelTask(ctx context.Context, id string) (*a2a.Task, error) {
	ctx, span := m.tracer.Start(ctx, "a2a.task_manager.CancelTask",
		trace.WithAttributes(attribute.String("a2a.task_id", id)))
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status.State.IsFinal() {
		m.logger.InfoContext(ctx, "task cannot be canceled", slog.String("task_id", id), slog.String("state", string(t.Status.State)))
		return nil, a2a.TaskNotCancelableError{TaskID: id, State: t.Status.State}
	}

	t.Status = a2a.TaskStatus{State: a2a.TaskStateCanceled, Timestamp: time.Now().UTC()}
	if err := m.store.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("save task %s: %w", id, err)
	}
	if cancel, ok := m.running[id]; ok {
		cancel()
	}

	m.logger.InfoContext(ctx, "task canceled", slog.String("task_id", id))
	return t, nil
}

// Recover picks up the tasks a previous process left in the store. Tasks
// still working are failed with [ErrInterrupted] in a single transaction when
// the store supports one, and submitted tasks are queued again. Tasks running
// in this Manager are left alone. Call it before [Manager.Run].
func (m *Manager) Recover(ctx context.Context) (failed, requeued int, err error) {
	ctx, span := m.tracer.Start(ctx, "a2a.task_manager.Recover")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	err = task.InTransaction(ctx, m.store, func(tx task.TaskStore) error {
		orphans, err := tx.ListByState(ctx, a2a.TaskStateWorking)
		if err != nil {
			return err
		}
		n := 0
		for _, t := range orphans {
			if _, ok := m.running[t.ID]; ok {
				continue
			}
			t.Status = a2a.TaskStatus{
				State:     a2a.TaskStateFailed,
				Message:   agentText("Error: " + ErrInterrupted.Error()),
				Timestamp: time.Now().UTC(),
			}
			if err := tx.Save(ctx, t); err != nil {
				return err
			}
			n++
		}
		failed = n
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("recover working tasks: %w", err)
	}

	pending, err := m.store.ListByState(ctx, a2a.TaskStateSubmitted)
	if err != nil {
		return failed, 0, fmt.Errorf("recover submitted tasks: %w", err)
	}
	for _, t := range pending {
		select {
		case m.queue <- t.ID:
			requeued++
			continue
		default:
		}
		t.Status = a2a.TaskStatus{
			State:     a2a.TaskStateFailed,
			Message:   agentText("Error: " + ErrQueueFull.Error()),
			Timestamp: time.Now().UTC(),
		}
		if err := m.store.Save(ctx, t); err != nil {
			return failed, requeued, fmt.Errorf("recover task %s: %w", t.ID, err)
		}
		failed++
	}

	if failed > 0 || requeued > 0 {
		m.logger.InfoContext(ctx, "recovered tasks", slog.Int("failed", failed), slog.Int("requeued", requeued))
	}
	return failed, requeued, nil
}

// process runs the worker for the task with id.
func (m *Manager) process(ctx context.Context, id string) {
	ctx, span := m.tracer.Start(ctx, "a2a.task_manager.process",
		trace.WithAttributes(attribute.String("a2a.task_id", id)))
	defer span.End()

	start := time.Now()
	msg, jobCtx, ok := m.begin(ctx, id)
	if !ok {
		return
	}
	res, err := m.worker.Process(jobCtx, msg)
	state := m.finish(ctx, id, res, err)
	if state != "" {
		m.metrics.ObserveTask(state, time.Since(start))
	}
}

// begin moves a submitted task to working and returns the message to process.
func (m *Manager) begin(ctx context.Context, id string) (a2a.Message, context.Context, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.store.Get(ctx, id)
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to load queued task", slog.String("task_id", id), slog.Any("error", err))
		return a2a.Message{}, nil, false
	}
	if t.Status.State != a2a.TaskStateSubmitted || len(t.History) == 0 {
		return a2a.Message{}, nil, false
	}

	t.Status = a2a.TaskStatus{State: a2a.TaskStateWorking, Timestamp: time.Now().UTC()}
	if err := m.store.Save(ctx, t); err != nil {
		m.logger.ErrorContext(ctx, "failed to start task", slog.String("task_id", id), slog.Any("error", err))
		return a2a.Message{}, nil, false
	}

	jobCtx, cancel := context.WithCancel(ctx)
	m.running[id] = cancel
	return t.History[len(t.History)-1], jobCtx, true
}

// finish records the outcome of processing and returns the final state, or
// the empty state when the task was canceled in the meantime.
func (m *Manager) finish(ctx context.Context, id string, res *worker.Result, procErr error) a2a.TaskState {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cancel, ok := m.running[id]; ok {
		cancel()
		delete(m.running, id)
	}

	// Stored state is authoritative: a cancel may have landed while the worker ran.
	t, err := m.store.Get(context.WithoutCancel(ctx), id)
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to load finished task", slog.String("task_id", id), slog.Any("error", err))
		return ""
	}
	if t.Status.State != a2a.TaskStateWorking {
		return ""
	}

	if procErr == nil && res == nil {
		procErr = errors.New("worker returned no result")
	}

	if procErr != nil {
		return m.fail(ctx, t, procErr)
	}

	working := t.Clone()
	reply := res.Message()
	t.Status = a2a.TaskStatus{State: a2a.TaskStateCompleted, Message: &reply, Timestamp: time.Now().UTC()}
	t.History = append(t.History, reply)
	t.Artifacts = res.Artifacts()
	if err := m.store.Save(context.WithoutCancel(ctx), t); err != nil {
		// The result cannot be stored; the task must still leave the working state.
		return m.fail(ctx, working, fmt.Errorf("store result: %w", err))
	}
	m.logger.InfoContext(ctx, "task completed", slog.String("task_id", id))
	return t.Status.State
}

// fail marks t as failed with cause. The caller holds m.mu.
func (m *Manager) fail(ctx context.Context, t *a2a.Task, cause error) a2a.TaskState {
	reply := a2a.NewTextMessage(a2a.RoleAgent, "Error: "+cause.Error())
	t.Status = a2a.TaskStatus{State: a2a.TaskStateFailed, Message: &reply, Timestamp: time.Now().UTC()}
	t.History = append(t.History, reply)
	m.logger.ErrorContext(ctx, "task failed", slog.String("task_id", t.ID), slog.Any("error", cause))

	if err := m.store.Save(context.WithoutCancel(ctx), t); err != nil {
		m.logger.ErrorContext(ctx, "failed to save finished task", slog.String("task_id", t.ID), slog.Any("error", err))
		return ""
	}
	return t.Status.State
}

func agentText(text string) *a2a.Message {
	msg := a2a.NewTextMessage(a2a.RoleAgent, text)
	return &msg
}
