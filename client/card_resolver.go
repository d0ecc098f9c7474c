// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	a2a "github.com/go-a2a/a2a-bearer"
)

// CardResolver represents an Agent Card resolver.
type CardResolver interface {
	// GetAgentCard fetches an agent card from a specified path relative to the baseURL.
	//
	// If relativeCardPath is empty, the well-known discovery path is used.
	GetAgentCard(ctx context.Context, relativeCardPath string) (*a2a.AgentCard, error)
}

type cardResolver struct {
	invoke        Invoker
	baseURL       string
	agentCardPath string
}

var _ CardResolver = (*cardResolver)(nil)

// NewCardResolver returns a [CardResolver] that fetches cards from baseURL through invoke.
func NewCardResolver(baseURL string, invoke Invoker) CardResolver {
	return &cardResolver{
		invoke:        invoke,
		baseURL:       strings.TrimRight(baseURL, "/"),
		agentCardPath: strings.TrimLeft(a2a.AgentCardWellKnownPath, "/"),
	}
}

func (r *cardResolver) GetAgentCard(ctx context.Context, relativeCardPath string) (*a2a.AgentCard, error) {
	if relativeCardPath == "" {
		relativeCardPath = r.agentCardPath
	} else {
		relativeCardPath = strings.TrimLeft(relativeCardPath, "/")
	}

	targetURL := r.baseURL + "/" + relativeCardPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := r.invoke(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetch agent card: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("fetch agent card from %s: %w", targetURL, err)
	}

	var agentCard a2a.AgentCard
	dec := jsontext.NewDecoder(resp.Body)
	if err := json.UnmarshalDecode(dec, &agentCard); err != nil {
		return nil, fmt.Errorf("decode agent card: %w", err)
	}

	return &agentCard, nil
}
