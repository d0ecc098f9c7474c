// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"net/http"
)

// Augment returns headers with the bearer credential attached.
//
// When enabled is false or token is nil, headers is returned as is.
// Otherwise a clone is returned with the Authorization header set to
// "Bearer <token>", replacing any existing value. headers itself is never
// modified.
func Augment(headers http.Header, token *string, enabled bool) http.Header {
	if !enabled || token == nil {
		return headers
	}
	out := headers.Clone()
	if out == nil {
		out = make(http.Header, 1)
	}
	out.Set(HeaderName, bearerPrefix+*token)
	return out
}

// Headers returns the header set a client sends with every JSON-RPC request.
func (c Config) Headers() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return Augment(h, c.Token(), c.Enabled)
}
