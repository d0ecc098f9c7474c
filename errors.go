// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"errors"
	"fmt"
)

// TaskNotFoundError represents an error when a task is not found.
type TaskNotFoundError struct {
	TaskID string
}

// Error returns the error message.
func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.TaskID)
}

// TaskNotCancelableError represents an error when a task is in a final state.
type TaskNotCancelableError struct {
	TaskID string
	State  TaskState
}

// Error returns the error message.
func (e TaskNotCancelableError) Error() string {
	return fmt.Sprintf("task %s in state %s cannot be canceled", e.TaskID, e.State)
}

// ToJSONRPCError maps err to the JSON-RPC error sent on the wire.
// Unknown errors become an internal error so that no implementation detail leaks.
func ToJSONRPCError(err error) *JSONRPCError {
	var rpcErr *JSONRPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	var notFound TaskNotFoundError
	if errors.As(err, &notFound) {
		return NewTaskNotFoundError()
	}
	var notCancelable TaskNotCancelableError
	if errors.As(err, &notCancelable) {
		return NewTaskNotCancelableError()
	}
	return NewInternalError()
}
