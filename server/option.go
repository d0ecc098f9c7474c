// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/go-a2a/a2a-bearer/auth"
)

// Option represents an option for configuring the [Server].
type Option func(*Server)

// WithEndpoint sets the path of the JSON-RPC endpoint. It defaults to "/".
func WithEndpoint(endpoint string) Option {
	return func(s *Server) {
		s.endpoint = endpoint
	}
}

// WithAuth sets the authentication configuration enforced on every
// endpoint except agent card discovery.
func WithAuth(cfg auth.Config) Option {
	return func(s *Server) {
		s.auth = cfg
	}
}

// WithLogger sets the [*slog.Logger] for the [Server].
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithTracer sets the [trace.Tracer] for the [Server].
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Server) {
		s.tracer = tracer
	}
}

// WithMetrics sets the [*Metrics] for the [Server] and exposes them on the metrics path.
func WithMetrics(metrics *Metrics) Option {
	return func(s *Server) {
		s.metrics = metrics
	}
}
