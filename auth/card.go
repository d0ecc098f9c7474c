// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	a2a "github.com/go-a2a/a2a-bearer"
)

// AnnotateCard returns a copy of card that advertises the bearer requirement
// when enforcement is enabled. With enforcement disabled the copy is
// returned unchanged. card itself is never modified.
func AnnotateCard(card a2a.AgentCard, cfg Config) a2a.AgentCard {
	out := card.Clone()
	if !cfg.Enabled {
		return out
	}
	out.Authentication = &a2a.AgentAuthentication{
		Schemes:     []string{Scheme},
		Description: DenialMessage,
	}
	return out
}
