// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
)

// Denial reasons. Both produce the same client-facing payload.
var (
	// ErrMissingCredential is reported when the request carries no credential header.
	ErrMissingCredential = errors.New("missing credential")

	// ErrCredentialMismatch is reported when the header is malformed or the token does not match.
	ErrCredentialMismatch = errors.New("credential mismatch")
)

// Decision is the outcome of authenticating a single request.
type Decision struct {
	// Allowed reports whether the request may proceed.
	Allowed bool

	// Reason is ErrMissingCredential or ErrCredentialMismatch when the request is denied.
	Reason error
}

// Allow is the Decision for an authenticated request.
var Allow = Decision{Allowed: true}

// Deny returns a denying Decision with the given reason.
func Deny(reason error) Decision {
	return Decision{Reason: reason}
}

// Err returns nil for an allowed request and the denial reason otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Reason == nil {
		return ErrCredentialMismatch
	}
	return d.Reason
}

// Payload returns the body sent to a denied client.
func (d Decision) Payload() ErrorResponse {
	return NewErrorResponse()
}

// Outcome returns a short label for metrics and logs.
func (d Decision) Outcome() string {
	switch {
	case d.Allowed:
		return "allowed"
	case errors.Is(d.Reason, ErrMissingCredential):
		return "missing"
	default:
		return "mismatch"
	}
}

// Authenticate decides whether a request carrying header may proceed.
//
// header is the raw value of the Authorization header, or nil when the header
// is absent. An empty value is treated as absent. When enabled is false every
// request is allowed. Otherwise the value must be "Bearer " (case-sensitive)
// followed by exactly expected.
//
// Authenticate is pure and safe for concurrent use.
func Authenticate(header *string, expected string, enabled bool) Decision {
	if !enabled {
		return Allow
	}
	if header == nil || *header == "" {
		return Deny(ErrMissingCredential)
	}
	token, ok := strings.CutPrefix(*header, bearerPrefix)
	if !ok {
		return Deny(ErrCredentialMismatch)
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
		return Deny(ErrCredentialMismatch)
	}
	return Allow
}

// AuthenticateRequest authenticates r against the configured credential.
func (c Config) AuthenticateRequest(r *http.Request) Decision {
	return Authenticate(headerValue(r.Header), c.Credential.Value, c.Enabled)
}

// headerValue returns the first Authorization value in h, or nil when there is none.
func headerValue(h http.Header) *string {
	values := h.Values(HeaderName)
	if len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}
