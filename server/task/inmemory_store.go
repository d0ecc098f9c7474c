// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"slices"
	"strings"
	"sync"

	a2a "github.com/go-a2a/a2a-bearer"
)

// InMemoryTaskStore is an in-memory implementation of TaskStore.
// Task data is lost when the server process stops.
type InMemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*a2a.Task
}

var _ TaskStore = (*InMemoryTaskStore)(nil)

// NewInMemoryTaskStore creates a new InMemoryTaskStore.
func NewInMemoryTaskStore() *InMemoryTaskStore {
	return &InMemoryTaskStore{
		tasks: make(map[string]*a2a.Task),
	}
}

// Save persists a copy of task.
func (s *InMemoryTaskStore) Save(ctx context.Context, task *a2a.Task) error {
	if task == nil {
		return ErrNilTask
	}
	if err := task.Validate(); err != nil {
		return TaskValidationError{TaskID: task.ID, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task.Clone()
	return nil
}

// Get returns a copy of the task with taskID.
func (s *InMemoryTaskStore) Get(ctx context.Context, taskID string) (*a2a.Task, error) {
	if taskID == "" {
		return nil, ErrEmptyTaskID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return nil, a2a.TaskNotFoundError{TaskID: taskID}
	}
	return task.Clone(), nil
}

// Delete removes the task with taskID.
func (s *InMemoryTaskStore) Delete(ctx context.Context, taskID string) error {
	if taskID == "" {
		return ErrEmptyTaskID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[taskID]; !ok {
		return a2a.TaskNotFoundError{TaskID: taskID}
	}
	delete(s.tasks, taskID)
	return nil
}

// List returns copies of the stored tasks ordered by ID.
func (s *InMemoryTaskStore) List(ctx context.Context, sessionID string, limit, offset int) ([]*a2a.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*a2a.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if sessionID != "" && task.SessionID != sessionID {
			continue
		}
		matched = append(matched, task)
	}
	slices.SortFunc(matched, func(a, b *a2a.Task) int {
		return strings.Compare(a.ID, b.ID)
	})

	if offset > 0 {
		if offset >= len(matched) {
			return []*a2a.Task{}, nil
		}
		matched = matched[offset:]
	}
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	out := make([]*a2a.Task, len(matched))
	for i, task := range matched {
		out[i] = task.Clone()
	}
	return out, nil
}

// Count returns the number of stored tasks.
func (s *InMemoryTaskStore) Count(ctx context.Context, sessionID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sessionID == "" {
		return int64(len(s.tasks)), nil
	}
	var n int64
	for _, task := range s.tasks {
		if task.SessionID == sessionID {
			n++
		}
	}
	return n, nil
}

// ListByState returns copies of the tasks in state ordered by ID.
func (s *InMemoryTaskStore) ListByState(ctx context.Context, state a2a.TaskState) ([]*a2a.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*a2a.Task
	for _, task := range s.tasks {
		if task.Status.State == state {
			out = append(out, task.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *a2a.Task) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Initialize is a no-op for the in-memory store.
func (s *InMemoryTaskStore) Initialize(ctx context.Context) error {
	return nil
}

// Close drops every stored task.
func (s *InMemoryTaskStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.tasks)
	return nil
}
