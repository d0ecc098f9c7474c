// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package server implements an A2A agent server protected by bearer-token authentication.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-json-experiment/json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	a2a "github.com/go-a2a/a2a-bearer"
	"github.com/go-a2a/a2a-bearer/auth"
	"github.com/go-a2a/a2a-bearer/internal/pool"
)

// Server implements the A2A protocol server.
type Server struct {
	card        a2a.AgentCard
	taskManager TaskManager
	auth        auth.Config
	endpoint    string
	logger      *slog.Logger
	tracer      trace.Tracer
	metrics     *Metrics

	handler http.Handler

	mu         sync.Mutex
	httpServer *http.Server
	shutdown   bool
}

// NewServer creates a new A2A server for card that delegates task operations to tm.
//
// Unless [WithAuth] says otherwise, the server enforces the default bearer token.
func NewServer(card a2a.AgentCard, tm TaskManager, opts ...Option) (*Server, error) {
	if tm == nil {
		return nil, errors.New("task manager is required")
	}
	if card.Name == "" {
		return nil, errors.New("agent card name is required")
	}

	s := &Server{
		taskManager: tm,
		auth:        auth.NewConfig(""),
		endpoint:    a2a.DefaultRPCURL,
		logger:      slog.Default(),
		tracer:      otel.GetTracerProvider().Tracer("github.com/go-a2a/a2a-bearer/server"),
	}
	for _, o := range opts {
		o(s)
	}
	if s.endpoint == "" || s.endpoint[0] != '/' {
		return nil, fmt.Errorf("invalid endpoint %q", s.endpoint)
	}
	if s.endpoint == a2a.AgentCardWellKnownPath {
		return nil, fmt.Errorf("endpoint %q collides with agent card discovery", s.endpoint)
	}

	s.card = auth.AnnotateCard(card, s.auth)
	s.handler = s.routes()
	return s, nil
}

// AgentCard returns a copy of the card served on the discovery endpoint.
func (s *Server) AgentCard() a2a.AgentCard {
	return s.card.Clone()
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// routes builds the HTTP handler. Every route sits behind the auth middleware,
// which lets only agent card discovery through unauthenticated.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+a2a.AgentCardWellKnownPath, s.handleAgentCard)

	rpcPattern := "POST " + s.endpoint
	if s.endpoint == "/" {
		rpcPattern = "POST /{$}"
	}
	mux.HandleFunc(rpcPattern, s.handleRPC)

	if s.metrics != nil {
		mux.Handle("GET "+a2a.MetricsPath, s.metrics.Handler())
	}

	return auth.Middleware(s.auth,
		auth.WithMiddlewareLogger(s.logger),
		auth.WithDecisionHook(func(_ *http.Request, d auth.Decision) {
			s.metrics.ObserveAuth(d.Outcome())
		}),
	)(mux)
}

// handleAgentCard serves the agent card.
func (s *Server) handleAgentCard(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.card)
}

// writeJSON writes v as a JSON response with status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	buf := pool.Bytes.Get()
	defer pool.Bytes.Put(buf)

	if err := json.MarshalWrite(buf, v); err != nil {
		s.logger.Error("failed to encode response", slog.Any("error", err))
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", a2a.ContentTypeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// Start listens on addr and serves until [Server.Shutdown] is called.
func (s *Server) Start(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until [Server.Shutdown] is called.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	s.mu.Lock()
	switch {
	case s.shutdown:
		s.mu.Unlock()
		ln.Close()
		return nil
	case s.httpServer != nil:
		s.mu.Unlock()
		ln.Close()
		return errors.New("server already started")
	}
	s.httpServer = srv
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "a2a server listening",
		slog.String("addr", ln.Addr().String()),
		slog.String("endpoint", s.endpoint),
		slog.Bool("auth_enabled", s.auth.Enabled),
	)
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server started by [Server.Start] or [Server.Serve].
// A later call to Serve returns immediately.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.shutdown = true
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
