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

// Package auth implements static bearer-token authentication for A2A agents.
//
// A single shared credential is resolved once at startup, checked on every
// inbound request except agent card discovery, and attached to every outbound
// request by clients. The check and the attachment are pure functions of
// their inputs; [Config] carries the immutable settings between them.
package auth

import (
	"context"
)

// User represents the caller of a request that passed authentication.
type User interface {
	// IsAuthenticated returns true if the caller presented a valid credential.
	IsAuthenticated() bool

	// UserName returns the name of the caller. For unauthenticated callers,
	// this returns an empty string.
	UserName() string
}

// UnauthenticatedUser is the caller of a request served with enforcement
// disabled, or of the exempt discovery endpoint.
//
// UnauthenticatedUser is safe to use as a zero value and is immutable.
type UnauthenticatedUser struct{}

var _ User = UnauthenticatedUser{}

// IsAuthenticated always returns false for unauthenticated users.
func (u UnauthenticatedUser) IsAuthenticated() bool {
	return false
}

// UserName always returns an empty string for unauthenticated users.
func (u UnauthenticatedUser) UserName() string {
	return ""
}

// BearerUser is the caller of a request that presented the shared bearer token.
// Every such caller is the same principal.
type BearerUser struct{}

var _ User = BearerUser{}

// BearerUserName is the name reported for every bearer-authenticated caller.
const BearerUserName = "agent"

// IsAuthenticated always returns true.
func (u BearerUser) IsAuthenticated() bool {
	return true
}

// UserName returns [BearerUserName].
func (u BearerUser) UserName() string {
	return BearerUserName
}

type userContextKey struct{}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userContextKey{}, u)
}

// UserFromContext returns the user stored in ctx, or [UnauthenticatedUser] when there is none.
func UserFromContext(ctx context.Context) User {
	if u, ok := ctx.Value(userContextKey{}).(User); ok {
		return u
	}
	return UnauthenticatedUser{}
}
