// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"errors"
	"fmt"

	a2a "github.com/go-a2a/a2a-bearer"
	"github.com/go-a2a/a2a-bearer/auth"
)

// ErrTaskNotFinished is returned by [Client.WaitForCompletion] when the task
// does not reach a final state within the allowed attempts.
var ErrTaskNotFinished = errors.New("task did not reach a final state")

// ErrInvalidPolling is returned when a poll interval or attempt count is not positive.
var ErrInvalidPolling = errors.New("poll interval and attempts must be positive")

// RPCError represents a JSON-RPC error returned by the agent.
type RPCError struct {
	Code    int
	Message string
	Data    any
}

// Error implements error.
func (e *RPCError) Error() string {
	if e.Data != nil {
		return fmt.Sprintf("RPC error %d: %s (data: %v)", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// NewRPCError creates a new [RPCError] from a wire error.
func NewRPCError(err *a2a.JSONRPCError) *RPCError {
	return &RPCError{
		Code:    err.Code,
		Message: err.Message,
		Data:    err.Data,
	}
}

// IsRPCError checks if an error is an RPC error.
func IsRPCError(err error) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr)
}

// IsTaskNotFoundError checks if an error is a task not found error.
func IsTaskNotFoundError(err error) bool {
	return hasCode(err, a2a.ErrorCodeTaskNotFound)
}

// IsTaskNotCancelableError checks if an error is a task not cancelable error.
func IsTaskNotCancelableError(err error) bool {
	return hasCode(err, a2a.ErrorCodeTaskNotCancelable)
}

func hasCode(err error, code int) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr) && rpcErr.Code == code
}

// AuthError is returned when the agent rejects the request credential.
type AuthError struct {
	StatusCode int
	Response   auth.ErrorResponse
}

// Error implements error.
func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication rejected (%d): %s", e.StatusCode, e.Response.Error)
}

// IsAuthError checks if an error is an authentication rejection.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// HTTPError is returned for any other unexpected HTTP status.
type HTTPError struct {
	StatusCode int
	Body       string
}

// Error implements error.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Body)
}
