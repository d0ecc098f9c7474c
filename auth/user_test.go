// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestUser(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		user     User
		wantAuth bool
		wantName string
	}{
		"unauthenticated zero value": {
			user:     UnauthenticatedUser{},
			wantAuth: false,
			wantName: "",
		},
		"bearer": {
			user:     BearerUser{},
			wantAuth: true,
			wantName: BearerUserName,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.wantAuth, tt.user.IsAuthenticated()); diff != "" {
				t.Errorf("IsAuthenticated() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantName, tt.user.UserName()); diff != "" {
				t.Errorf("UserName() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUserFromContext(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		ctx  context.Context
		want User
	}{
		"empty context": {
			ctx:  context.Background(),
			want: UnauthenticatedUser{},
		},
		"bearer user": {
			ctx:  WithUser(context.Background(), BearerUser{}),
			want: BearerUser{},
		},
		"unauthenticated user": {
			ctx:  WithUser(context.Background(), UnauthenticatedUser{}),
			want: UnauthenticatedUser{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, UserFromContext(tt.ctx)); diff != "" {
				t.Errorf("UserFromContext() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func BenchmarkUserFromContext(b *testing.B) {
	ctx := WithUser(context.Background(), BearerUser{})

	for b.Loop() {
		_ = UserFromContext(ctx)
	}
}
