// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-json-experiment/json"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	a2a "github.com/go-a2a/a2a-bearer"
	"github.com/go-a2a/a2a-bearer/auth"
)

// maxRequestBytes bounds the size of a JSON-RPC request body.
const maxRequestBytes = 1 << 20

// handleRPC handles all JSON-RPC requests.
func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		s.sendError(w, nil, a2a.NewInvalidRequestError())
		return
	}

	var req a2a.JSONRPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.metrics.ObserveRPC("unknown", strconv.Itoa(a2a.ErrorCodeJSONParse))
		s.sendError(w, nil, a2a.NewJSONParseError())
		return
	}
	if req.JSONRPC != a2a.JSONRPCVersion || req.Method == "" {
		s.metrics.ObserveRPC("unknown", strconv.Itoa(a2a.ErrorCodeInvalidRequest))
		s.sendError(w, req.ID, a2a.NewInvalidRequestError())
		return
	}

	user := auth.UserFromContext(r.Context())
	ctx, span := s.tracer.Start(r.Context(), "a2a.server.processRequest",
		trace.WithAttributes(
			attribute.String("a2a.method", req.Method),
			attribute.String("a2a.request_id", fmt.Sprint(req.ID)),
			attribute.String("a2a.user", user.UserName()),
			attribute.Bool("a2a.authenticated", user.IsAuthenticated()),
		))
	defer span.End()

	result, err := s.dispatch(ctx, req)
	if err != nil {
		rpcErr := s.toRPCError(err)
		span.SetStatus(codes.Error, rpcErr.Message)
		s.metrics.ObserveRPC(metricMethod(req.Method), strconv.Itoa(rpcErr.Code))
		if rpcErr.Code == a2a.ErrorCodeInternal {
			s.logger.ErrorContext(ctx, "request failed", slog.String("method", req.Method), slog.Any("error", err))
		}
		s.sendError(w, req.ID, rpcErr)
		return
	}

	s.metrics.ObserveRPC(metricMethod(req.Method), "ok")
	s.writeJSON(w, http.StatusOK, &a2a.TaskResponse{
		JSONRPCMessage: a2a.NewJSONRPCMessage(req.ID),
		Result:         result,
	})
}

// dispatch routes req to the task manager.
func (s *Server) dispatch(ctx context.Context, req a2a.JSONRPCRequest) (*a2a.Task, error) {
	switch req.Method {
	case a2a.MethodTasksSend:
		var params a2a.TaskSendParams
		if err := decodeParams(req, &params); err != nil {
			return nil, err
		}
		return s.taskManager.SendTask(ctx, params)

	case a2a.MethodTasksGet:
		var params a2a.TaskQueryParams
		if err := decodeParams(req, &params); err != nil {
			return nil, err
		}
		if params.ID == "" {
			return nil, a2a.NewInvalidParamsError()
		}
		return s.taskManager.GetTask(ctx, params.ID, params.HistoryLength)

	case a2a.MethodTasksCancel:
		var params a2a.TaskIDParams
		if err := decodeParams(req, &params); err != nil {
			return nil, err
		}
		if params.ID == "" {
			return nil, a2a.NewInvalidParamsError()
		}
		return s.taskManager.CancelTask(ctx, params.ID)

	default:
		return nil, a2a.NewMethodNotFoundError()
	}
}

// decodeParams decodes the params of req into v.
func decodeParams(req a2a.JSONRPCRequest, v any) error {
	if len(req.Params) == 0 {
		return a2a.NewInvalidParamsError()
	}
	if err := json.Unmarshal(req.Params, v); err != nil {
		rpcErr := a2a.NewInvalidParamsError()
		rpcErr.Data = err.Error()
		return rpcErr
	}
	return nil
}

// toRPCError maps err to the error sent to the client.
func (s *Server) toRPCError(err error) *a2a.JSONRPCError {
	switch {
	case errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrTaskInProgress):
		rpcErr := a2a.NewInvalidParamsError()
		rpcErr.Data = err.Error()
		return rpcErr
	default:
		return a2a.ToJSONRPCError(err)
	}
}

// sendError sends a JSON-RPC error response.
func (s *Server) sendError(w http.ResponseWriter, id any, rpcErr *a2a.JSONRPCError) {
	s.writeJSON(w, http.StatusOK, &a2a.JSONRPCResponse{
		JSONRPCMessage: a2a.NewJSONRPCMessage(id),
		Error:          rpcErr,
	})
}

// metricMethod bounds the method label to the known method names.
func metricMethod(method string) string {
	switch method {
	case a2a.MethodTasksSend, a2a.MethodTasksGet, a2a.MethodTasksCancel:
		return method
	default:
		return "unknown"
	}
}
