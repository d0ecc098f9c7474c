// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package client implements a JSON-RPC client for A2A agents that
// authenticate callers with a bearer credential.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	a2a "github.com/go-a2a/a2a-bearer"
	"github.com/go-a2a/a2a-bearer/auth"
)

// DefaultUserAgent is sent when no [WithUserAgent] option is given.
const DefaultUserAgent = "a2a-bearer-client/1.0"

// Client talks to a single A2A agent.
type Client struct {
	baseURL      string
	rpcPath      string
	httpClient   *http.Client
	auth         auth.Config
	interceptors []Interceptor
	userAgent    string
	logger       *slog.Logger
	tracer       trace.Tracer

	transport *Transport
	cards     CardResolver
}

// NewClient returns a [Client] for the agent served at baseURL.
//
// Unless [WithAuth] is given, the client presents the credential resolved
// from the environment, falling back to [auth.DefaultToken].
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		rpcPath:    a2a.DefaultRPCURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		auth:       auth.Config{Enabled: true, Credential: auth.ResolveCredentialFromEnv()},
		userAgent:  DefaultUserAgent,
		logger:     slog.Default(),
		tracer:     otel.GetTracerProvider().Tracer("github.com/go-a2a/a2a-bearer/client"),
	}
	for _, opt := range opts {
		opt(c)
	}

	chain := make([]Interceptor, 0, len(c.interceptors)+3)
	chain = append(chain, LoggingInterceptor(c.logger), UserAgentInterceptor(c.userAgent))
	chain = append(chain, c.interceptors...)
	chain = append(chain, BearerInterceptor(c.auth))
	invoke := chainInterceptors(chain, func(_ context.Context, req *http.Request) (*http.Response, error) {
		return c.httpClient.Do(req)
	})

	c.transport = NewTransport(c.baseURL+"/"+strings.TrimLeft(c.rpcPath, "/"), invoke)
	c.cards = NewCardResolver(c.baseURL, invoke)
	return c, nil
}

// Auth returns the credential configuration the client presents.
func (c *Client) Auth() auth.Config {
	return c.auth
}

// GetAgentCard fetches the agent card from the discovery endpoint.
func (c *Client) GetAgentCard(ctx context.Context) (*a2a.AgentCard, error) {
	return c.cards.GetAgentCard(ctx, "")
}

// SendTask sends a message to the agent, creating or continuing a task.
func (c *Client) SendTask(ctx context.Context, params a2a.TaskSendParams) (*a2a.Task, error) {
	return c.call(ctx, a2a.MethodTasksSend, params.ID, params)
}

// GetTask retrieves a task. A non-nil historyLength limits the returned history.
func (c *Client) GetTask(ctx context.Context, id string, historyLength *int) (*a2a.Task, error) {
	return c.call(ctx, a2a.MethodTasksGet, id, a2a.TaskQueryParams{ID: id, HistoryLength: historyLength})
}

// CancelTask cancels a task that has not reached a final state.
func (c *Client) CancelTask(ctx context.Context, id string) (*a2a.Task, error) {
	return c.call(ctx, a2a.MethodTasksCancel, id, a2a.TaskIDParams{ID: id})
}

// WaitForCompletion polls the task every interval until it reaches a final
// state. It gives up with [ErrTaskNotFinished] after maxAttempts polls.
func (c *Client) WaitForCompletion(ctx context.Context, id string, interval time.Duration, maxAttempts int) (*a2a.Task, error) {
	if err := checkPolling(interval, maxAttempts); err != nil {
		return nil, err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last *a2a.Task
	for attempt := 0; attempt < maxAttempts; attempt++ {
		t, err := c.GetTask(ctx, id, nil)
		if err != nil {
			return nil, err
		}
		if t.Status.State.IsFinal() {
			return t, nil
		}
		last = t

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	state := a2a.TaskStateSubmitted
	if last != nil {
		state = last.Status.State
	}
	return last, fmt.Errorf("task %s still %s after %d attempts: %w", id, state, maxAttempts, ErrTaskNotFinished)
}

// SendAndWait sends text as a new task and waits for its final state.
func (c *Client) SendAndWait(ctx context.Context, text string, interval time.Duration, maxAttempts int) (*a2a.Task, error) {
	if err := checkPolling(interval, maxAttempts); err != nil {
		return nil, err
	}
	t, err := c.SendTask(ctx, a2a.TaskSendParams{Message: a2a.NewTextMessage(a2a.RoleUser, text)})
	if err != nil {
		return nil, err
	}
	if t.Status.State.IsFinal() {
		return t, nil
	}
	return c.WaitForCompletion(ctx, t.ID, interval, maxAttempts)
}

func checkPolling(interval time.Duration, maxAttempts int) error {
	if interval <= 0 || maxAttempts < 1 {
		return fmt.Errorf("%w: interval %s, attempts %d", ErrInvalidPolling, interval, maxAttempts)
	}
	return nil
}

func (c *Client) call(ctx context.Context, method, taskID string, params any) (*a2a.Task, error) {
	ctx, span := c.tracer.Start(ctx, "a2a.client."+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("a2a.method", method),
			attribute.String("a2a.task_id", taskID),
		))
	defer span.End()

	t, err := c.transport.Call(ctx, method, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var authErr *AuthError
		if errors.As(err, &authErr) {
			c.logger.WarnContext(ctx, "agent rejected credential",
				slog.String("method", method),
				slog.String("credential", c.auth.Credential.String()),
			)
		}
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return t, nil
}
