// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"

	a2a "github.com/go-a2a/a2a-bearer"
	"github.com/go-a2a/a2a-bearer/auth"
)

// maxErrorBody bounds how much of an unexpected response body is kept in an [HTTPError].
const maxErrorBody = 4 << 10

// Transport handles JSON-RPC communication with the A2A server.
type Transport struct {
	endpoint string
	invoke   Invoker
}

// NewTransport creates a new Transport that posts to endpoint through invoke.
func NewTransport(endpoint string, invoke Invoker) *Transport {
	return &Transport{
		endpoint: endpoint,
		invoke:   invoke,
	}
}

// Call sends a JSON-RPC request for method and decodes the resulting task.
func (t *Transport) Call(ctx context.Context, method string, params any) (*a2a.Task, error) {
	data, err := json.Marshal(&rpcRequest{
		JSONRPCMessage: a2a.NewJSONRPCMessage(uuid.NewString()),
		Method:         method,
		Params:         params,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", a2a.ContentTypeJSON)

	resp, err := t.invoke(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("sending HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var out a2a.TaskResponse
	if err := json.UnmarshalRead(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if out.Error != nil {
		return nil, NewRPCError(out.Error)
	}
	if out.Result == nil {
		return nil, fmt.Errorf("%s: response carries neither result nor error", method)
	}
	return out.Result, nil
}

// rpcRequest is the wire form of an outgoing call.
type rpcRequest struct {
	a2a.JSONRPCMessage `json:",inline"`

	Method string `json:"method"`
	Params any    `json:"params"`
}

// checkStatus converts a non-200 response into an error.
// A 401 carries the agent's authentication payload.
func checkStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		authErr := &AuthError{StatusCode: resp.StatusCode}
		dec := jsontext.NewDecoder(io.LimitReader(resp.Body, maxErrorBody))
		if err := json.UnmarshalDecode(dec, &authErr.Response); err != nil {
			authErr.Response = auth.NewErrorResponse()
		}
		return authErr
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}
}
