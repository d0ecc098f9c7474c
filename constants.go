// Copyright 2025 The Go A2A Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package a2a

// A2A protocol path constants.
const (
	// AgentCardWellKnownPath is the standard path for retrieving an agent's public AgentCard.
	// It is the only path served without authentication.
	//
	// Example usage: https://agent.example.com/.well-known/agent.json
	AgentCardWellKnownPath = "/.well-known/agent.json"

	// DefaultRPCURL is the default URL path for the A2A JSON-RPC endpoint.
	DefaultRPCURL = "/"

	// MetricsPath is where the server exposes Prometheus metrics.
	MetricsPath = "/metrics"
)

// Media types.
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain"
)
