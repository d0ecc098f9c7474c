// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/go-a2a/a2a-bearer/auth"
)

// ClientOption represents an option for configuring the [Client].
type ClientOption func(*Client)

// WithHTTPClient sets the [*http.Client] for the [Client].
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithAuth sets the credential configuration the [Client] sends.
// The default is the resolved credential from the environment.
func WithAuth(cfg auth.Config) ClientOption {
	return func(c *Client) {
		c.auth = cfg
	}
}

// WithRPCPath sets the path of the JSON-RPC endpoint relative to the base URL.
func WithRPCPath(path string) ClientOption {
	return func(c *Client) {
		c.rpcPath = path
	}
}

// WithInterceptors appends interceptors that wrap every request.
// They run inside the logging and user agent interceptors and outside the bearer interceptor.
func WithInterceptors(interceptors ...Interceptor) ClientOption {
	return func(c *Client) {
		c.interceptors = append(c.interceptors, interceptors...)
	}
}

// WithRetry installs a [RetryInterceptor] with policy.
func WithRetry(policy RetryPolicy) ClientOption {
	return WithInterceptors(RetryInterceptor(policy))
}

// WithUserAgent sets the User-Agent header of every request.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithLogger sets the [*slog.Logger] for the [Client].
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTracer sets the [trace.Tracer] for the [Client].
func WithTracer(tracer trace.Tracer) ClientOption {
	return func(c *Client) {
		c.tracer = tracer
	}
}
