// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"errors"
	"fmt"
)

var (
	// ErrNilTask is returned when saving a nil task.
	ErrNilTask = errors.New("task cannot be nil")

	// ErrEmptyTaskID is returned when a task ID is required but empty.
	ErrEmptyTaskID = errors.New("task ID cannot be empty")
)

// TaskStoreError wraps a failure of the storage backend.
type TaskStoreError struct {
	Operation string
	TaskID    string
	Err       error
}

// Error implements error.
func (e TaskStoreError) Error() string {
	if e.TaskID == "" {
		return fmt.Sprintf("task store %s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("task store %s for task %s: %v", e.Operation, e.TaskID, e.Err)
}

// Unwrap returns the underlying error.
func (e TaskStoreError) Unwrap() error {
	return e.Err
}

// NewTaskStoreError returns a [TaskStoreError].
func NewTaskStoreError(operation, taskID string, err error) TaskStoreError {
	return TaskStoreError{
		Operation: operation,
		TaskID:    taskID,
		Err:       err,
	}
}

// TaskValidationError is returned when a task fails validation before being saved.
type TaskValidationError struct {
	TaskID string
	Err    error
}

// Error implements error.
func (e TaskValidationError) Error() string {
	return fmt.Sprintf("task %s validation failed: %v", e.TaskID, e.Err)
}

// Unwrap returns the underlying error.
func (e TaskValidationError) Unwrap() error {
	return e.Err
}
