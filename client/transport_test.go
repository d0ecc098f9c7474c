// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/google/go-cmp/cmp"

	a2a "github.com/go-a2a/a2a-bearer"
	"github.com/go-a2a/a2a-bearer/auth"
)

func respond(status int, body string) Invoker {
	return func(context.Context, *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     http.Header{},
		}, nil
	}
}

func TestTransport_Call(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		invoke   Invoker
		wantID   string
		checkErr func(error) bool
	}{
		"result": {
			invoke: respond(http.StatusOK, `{"jsonrpc":"2.0","id":"1","result":{"id":"t1","status":{"state":"completed"}}}`),
			wantID: "t1",
		},
		"rpc error": {
			invoke:   respond(http.StatusOK, `{"jsonrpc":"2.0","id":"1","error":{"code":-32001,"message":"Task not found"}}`),
			checkErr: IsTaskNotFoundError,
		},
		"denied with payload": {
			invoke:   respond(http.StatusUnauthorized, `{"error":"Authentication failed","message":"m","required_auth":"Bearer token"}`),
			checkErr: IsAuthError,
		},
		"denied without payload": {
			invoke:   respond(http.StatusUnauthorized, `not json`),
			checkErr: IsAuthError,
		},
		"unexpected status": {
			invoke: respond(http.StatusBadGateway, `upstream down`),
			checkErr: func(err error) bool {
				var httpErr *HTTPError
				return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusBadGateway && httpErr.Body == "upstream down"
			},
		},
		"empty response": {
			invoke:   respond(http.StatusOK, `{"jsonrpc":"2.0","id":"1"}`),
			checkErr: func(err error) bool { return err != nil && !IsRPCError(err) },
		},
		"transport failure": {
			invoke: func(context.Context, *http.Request) (*http.Response, error) {
				return nil, fmt.Errorf("dial: connection refused")
			},
			checkErr: func(err error) bool { return err != nil },
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := NewTransport("http://agent.test/", tt.invoke).Call(t.Context(), a2a.MethodTasksGet, a2a.TaskQueryParams{ID: "t1"})
			if tt.checkErr != nil {
				if !tt.checkErr(err) {
					t.Fatalf("Call() error = %v, unexpected kind", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Call() error = %v", err)
			}
			if got.ID != tt.wantID {
				t.Errorf("Call() task ID = %q, want %q", got.ID, tt.wantID)
			}
		})
	}
}

func TestTransport_RequestShape(t *testing.T) {
	t.Parallel()

	var (
		gotReq  map[string]any
		gotType string
	)
	invoke := func(_ context.Context, req *http.Request) (*http.Response, error) {
		gotType = req.Header.Get("Content-Type")
		b, _ := io.ReadAll(req.Body)
		if err := json.Unmarshal(b, &gotReq); err != nil {
			return nil, err
		}
		return respond(http.StatusOK, `{"jsonrpc":"2.0","id":"x","result":{"id":"t1","status":{"state":"canceled"}}}`)(context.Background(), req)
	}

	if _, err := NewTransport("http://agent.test/", invoke).Call(t.Context(), a2a.MethodTasksCancel, a2a.TaskIDParams{ID: "t1"}); err != nil {
		t.Fatal(err)
	}
	if gotType != a2a.ContentTypeJSON {
		t.Errorf("Content-Type = %q, want %q", gotType, a2a.ContentTypeJSON)
	}
	if id, _ := gotReq["id"].(string); id == "" {
		t.Errorf("request id = %v, want a generated id", gotReq["id"])
	}
	delete(gotReq, "id")
	want := map[string]any{
		"jsonrpc": "2.0",
		"method":  "tasks/cancel",
		"params":  map[string]any{"id": "t1"},
	}
	if diff := cmp.Diff(want, gotReq); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestAuthError_Payload(t *testing.T) {
	t.Parallel()

	_, err := NewTransport("http://agent.test/", respond(http.StatusUnauthorized, "")).Call(t.Context(), a2a.MethodTasksGet, a2a.TaskQueryParams{ID: "x"})
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %v, want AuthError", err)
	}
	if diff := cmp.Diff(auth.NewErrorResponse(), authErr.Response); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(err.Error(), "Authentication failed") {
		t.Errorf("Error() = %q, want it to name the failure", err.Error())
	}
}
