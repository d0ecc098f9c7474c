// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-json-experiment/json"

	a2a "github.com/go-a2a/a2a-bearer"
	"github.com/go-a2a/a2a-bearer/internal/pool"
)

// MiddlewareOption configures [Middleware].
type MiddlewareOption func(*middleware)

// WithMiddlewareLogger sets the logger used to record denials.
func WithMiddlewareLogger(logger *slog.Logger) MiddlewareOption {
	return func(m *middleware) {
		m.logger = logger
	}
}

// WithDecisionHook registers fn to observe every decision the middleware makes.
// Exempt discovery requests are not reported.
func WithDecisionHook(fn func(*http.Request, Decision)) MiddlewareOption {
	return func(m *middleware) {
		m.hook = fn
	}
}

// WithExemptPath overrides the discovery path served without authentication.
func WithExemptPath(path string) MiddlewareOption {
	return func(m *middleware) {
		m.exemptPath = path
	}
}

type middleware struct {
	cfg        Config
	logger     *slog.Logger
	hook       func(*http.Request, Decision)
	exemptPath string
	next       http.Handler
}

// Middleware returns an HTTP middleware that authenticates every request
// before it reaches next.
//
// Only GET and HEAD requests for the agent card discovery path bypass the
// check. Denied requests receive HTTP 401 with the [ErrorResponse] payload
// and never reach next.
func Middleware(cfg Config, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		m := &middleware{
			cfg:        cfg,
			logger:     slog.Default(),
			exemptPath: a2a.AgentCardWellKnownPath,
			next:       next,
		}
		for _, o := range opts {
			o(m)
		}
		return m
	}
}

// ServeHTTP implements [http.Handler].
func (m *middleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if m.exempt(r) {
		m.next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), UnauthenticatedUser{})))
		return
	}

	d := m.cfg.AuthenticateRequest(r)
	if m.hook != nil {
		m.hook(r, d)
	}
	if !d.Allowed {
		m.logger.DebugContext(r.Context(), "request denied",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("reason", d.Err().Error()),
		)
		WriteDenial(w, d)
		return
	}

	var user User = UnauthenticatedUser{}
	if m.cfg.Enabled {
		user = BearerUser{}
	}
	m.next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
}

func (m *middleware) exempt(r *http.Request) bool {
	if r.URL.Path != m.exemptPath {
		return false
	}
	return r.Method == http.MethodGet || r.Method == http.MethodHead
}

// WriteDenial writes the 401 response for a denied decision.
func WriteDenial(w http.ResponseWriter, d Decision) {
	buf := pool.Bytes.Get()
	defer pool.Bytes.Put(buf)

	if err := json.MarshalWrite(buf, d.Payload()); err != nil {
		http.Error(w, DenialError, http.StatusUnauthorized)
		return
	}

	h := w.Header()
	h.Set("Content-Type", a2a.ContentTypeJSON)
	h.Set("WWW-Authenticate", Scheme)
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write(buf.Bytes())
}
