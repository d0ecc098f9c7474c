// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package task provides persistence for A2A tasks.
package task

import (
	"context"

	a2a "github.com/go-a2a/a2a-bearer"
)

// TaskStore persists tasks for the task manager.
//
// Implementations return copies so that callers never share mutable state with the store.
type TaskStore interface {
	// Save persists a task to the storage backend.
	// If the task already exists, it will be updated.
	Save(ctx context.Context, task *a2a.Task) error

	// Get retrieves a task by its ID from the storage backend.
	// Returns a2a.TaskNotFoundError if the task doesn't exist.
	Get(ctx context.Context, taskID string) (*a2a.Task, error)

	// Delete removes a task from the storage backend.
	// Returns a2a.TaskNotFoundError if the task doesn't exist.
	Delete(ctx context.Context, taskID string) error

	// List retrieves tasks ordered by ID.
	// If sessionID is empty, tasks of every session are returned.
	List(ctx context.Context, sessionID string, limit, offset int) ([]*a2a.Task, error)

	// Count returns the number of tasks, optionally restricted to sessionID.
	Count(ctx context.Context, sessionID string) (int64, error)

	// ListByState retrieves the tasks currently in state, ordered by ID.
	ListByState(ctx context.Context, state a2a.TaskState) ([]*a2a.Task, error)

	// Initialize prepares the storage backend for use.
	Initialize(ctx context.Context) error

	// Close releases the resources held by the storage backend.
	Close(ctx context.Context) error
}

// Transactor is implemented by stores that can run several operations atomically.
type Transactor interface {
	Transaction(ctx context.Context, fn func(TaskStore) error) error
}

// InTransaction runs fn inside a transaction when store is a [Transactor],
// and directly against store otherwise.
func InTransaction(ctx context.Context, store TaskStore, fn func(TaskStore) error) error {
	if tx, ok := store.(Transactor); ok {
		return tx.Transaction(ctx, fn)
	}
	return fn(store)
}

// Kind names a TaskStore implementation.
type Kind string

const (
	KindMemory Kind = "memory"
	KindSQLite Kind = "sqlite"
)
