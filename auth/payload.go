// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"fmt"
)

const (
	// DenialError is the error member of every denial payload.
	DenialError = "Authentication failed"

	// DenialMessage is the message member of every denial payload.
	DenialMessage = "Bearer token authentication required for agent-to-agent communication"

	// RequiredAuth names the accepted scheme in the denial payload.
	RequiredAuth = "Bearer token"
)

// ErrorResponse is the JSON body returned with HTTP 401.
type ErrorResponse struct {
	Error        string `json:"error"`
	Message      string `json:"message"`
	RequiredAuth string `json:"required_auth"`
}

// NewErrorResponse returns the fixed denial payload.
func NewErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:        DenialError,
		Message:      DenialMessage,
		RequiredAuth: RequiredAuth,
	}
}

// String implements [fmt.Stringer].
func (e ErrorResponse) String() string {
	return fmt.Sprintf("%s: %s (requires %s)", e.Error, e.Message, e.RequiredAuth)
}
