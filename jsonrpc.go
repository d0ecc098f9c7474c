// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"fmt"

	"github.com/go-json-experiment/json/jsontext"
)

// A2A RPC method names.
const (
	// MethodTasksSend is the method name for sending a task.
	MethodTasksSend = "tasks/send"
	// MethodTasksGet is the method name for getting a task.
	MethodTasksGet = "tasks/get"
	// MethodTasksCancel is the method name for canceling a task.
	MethodTasksCancel = "tasks/cancel"
)

// JSONRPCVersion is the only supported JSON-RPC protocol version.
const JSONRPCVersion = "2.0"

// Standard JSON-RPC 2.0 error codes.
const (
	// ErrorCodeJSONParse indicates invalid JSON payload.
	ErrorCodeJSONParse = -32700
	// ErrorCodeInvalidRequest indicates request payload validation error.
	ErrorCodeInvalidRequest = -32600
	// ErrorCodeMethodNotFound indicates the method does not exist.
	ErrorCodeMethodNotFound = -32601
	// ErrorCodeInvalidParams indicates invalid method parameters.
	ErrorCodeInvalidParams = -32602
	// ErrorCodeInternal indicates an internal server error.
	ErrorCodeInternal = -32603
)

// A2A specific error codes.
const (
	// ErrorCodeTaskNotFound indicates the specified task ID was not found.
	ErrorCodeTaskNotFound = -32001
	// ErrorCodeTaskNotCancelable indicates the task is in a final state and cannot be canceled.
	ErrorCodeTaskNotCancelable = -32002
)

// JSONRPCMessage is the base structure for all JSON-RPC 2.0 messages.
type JSONRPCMessage struct {
	// JSONRPC version, always "2.0".
	JSONRPC string `json:"jsonrpc"`
	// ID is a unique identifier for the request/response correlation.
	ID any `json:"id,omitzero"` // string, number, or null
}

// NewJSONRPCMessage creates a new [JSONRPCMessage] with the given id.
func NewJSONRPCMessage(id any) JSONRPCMessage {
	return JSONRPCMessage{
		JSONRPC: JSONRPCVersion,
		ID:      id,
	}
}

// JSONRPCRequest represents a JSON-RPC 2.0 request whose params are decoded lazily.
type JSONRPCRequest struct {
	JSONRPCMessage `json:",inline"`

	// Method identifies the operation to perform.
	Method string `json:"method"`
	// Params contains parameters for the method.
	Params jsontext.Value `json:"params,omitzero"`
}

// JSONRPCError represents a JSON-RPC 2.0 error.
type JSONRPCError struct {
	// Code is the error code.
	Code int `json:"code"`
	// Message is a short description of the error.
	Message string `json:"message"`
	// Data contains optional additional error details.
	Data any `json:"data,omitzero"`
}

// Error implements error.
func (e *JSONRPCError) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// JSONRPCResponse represents a JSON-RPC 2.0 response.
type JSONRPCResponse struct {
	JSONRPCMessage `json:",inline"`

	// Result contains the successful result data.
	// Mutually exclusive with Error.
	Result any `json:"result,omitzero"`
	// Error contains an error object if the request failed.
	// Mutually exclusive with Result.
	Error *JSONRPCError `json:"error,omitzero"`
}

// NewJSONParseError creates a new parse error.
func NewJSONParseError() *JSONRPCError {
	return &JSONRPCError{Code: ErrorCodeJSONParse, Message: "Invalid JSON payload"}
}

// NewInvalidRequestError creates a new invalid request error.
func NewInvalidRequestError() *JSONRPCError {
	return &JSONRPCError{Code: ErrorCodeInvalidRequest, Message: "Request payload validation error"}
}

// NewMethodNotFoundError creates a new method not found error.
func NewMethodNotFoundError() *JSONRPCError {
	return &JSONRPCError{Code: ErrorCodeMethodNotFound, Message: "Method not found"}
}

// NewInvalidParamsError creates a new invalid params error.
func NewInvalidParamsError() *JSONRPCError {
	return &JSONRPCError{Code: ErrorCodeInvalidParams, Message: "Invalid parameters"}
}

// NewInternalError creates a new internal error.
func NewInternalError() *JSONRPCError {
	return &JSONRPCError{Code: ErrorCodeInternal, Message: "Internal error"}
}

// NewTaskNotFoundError creates a new task not found error.
func NewTaskNotFoundError() *JSONRPCError {
	return &JSONRPCError{Code: ErrorCodeTaskNotFound, Message: "Task not found"}
}

// NewTaskNotCancelableError creates a new task not cancelable error.
func NewTaskNotCancelableError() *JSONRPCError {
	return &JSONRPCError{Code: ErrorCodeTaskNotCancelable, Message: "Task cannot be canceled"}
}

// TaskSendParams are the parameters of tasks/send.
type TaskSendParams struct {
	ID            string         `json:"id"`
	SessionID     string         `json:"sessionId,omitzero"`
	Message       Message        `json:"message"`
	HistoryLength *int           `json:"historyLength,omitzero"`
	Metadata      map[string]any `json:"metadata,omitzero"`
}

// TaskQueryParams are the parameters of tasks/get.
type TaskQueryParams struct {
	ID            string `json:"id"`
	HistoryLength *int   `json:"historyLength,omitzero"`
}

// TaskIDParams are the parameters of tasks/cancel.
type TaskIDParams struct {
	ID string `json:"id"`
}

// SendTaskRequest represents a request to initiate or continue a task.
type SendTaskRequest struct {
	JSONRPCMessage `json:",inline"`

	// Method is always "tasks/send".
	Method string         `json:"method"`
	Params TaskSendParams `json:"params"`
}

// NewSendTaskRequest creates a new [SendTaskRequest].
func NewSendTaskRequest(id any, params TaskSendParams) SendTaskRequest {
	return SendTaskRequest{
		JSONRPCMessage: NewJSONRPCMessage(id),
		Method:         MethodTasksSend,
		Params:         params,
	}
}

// GetTaskRequest represents a request to retrieve the current state of a task.
type GetTaskRequest struct {
	JSONRPCMessage `json:",inline"`

	// Method is always "tasks/get".
	Method string          `json:"method"`
	Params TaskQueryParams `json:"params"`
}

// NewGetTaskRequest creates a new [GetTaskRequest].
func NewGetTaskRequest(id any, params TaskQueryParams) GetTaskRequest {
	return GetTaskRequest{
		JSONRPCMessage: NewJSONRPCMessage(id),
		Method:         MethodTasksGet,
		Params:         params,
	}
}

// CancelTaskRequest represents a request to cancel a running task.
type CancelTaskRequest struct {
	JSONRPCMessage `json:",inline"`

	// Method is always "tasks/cancel".
	Method string       `json:"method"`
	Params TaskIDParams `json:"params"`
}

// NewCancelTaskRequest creates a new [CancelTaskRequest].
func NewCancelTaskRequest(id any, params TaskIDParams) CancelTaskRequest {
	return CancelTaskRequest{
		JSONRPCMessage: NewJSONRPCMessage(id),
		Method:         MethodTasksCancel,
		Params:         params,
	}
}

// TaskResponse is the response to tasks/send, tasks/get and tasks/cancel.
type TaskResponse struct {
	JSONRPCMessage `json:",inline"`

	// Result contains the task if successful.
	Result *Task `json:"result,omitzero"`
	// Error contains error details if the request failed.
	Error *JSONRPCError `json:"error,omitzero"`
}
