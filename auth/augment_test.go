// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAugment(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		headers http.Header
		token   *string
		enabled bool
		want    http.Header
	}{
		"empty headers": {
			headers: http.Header{},
			token:   ptr("tok123"),
			enabled: true,
			want:    http.Header{"Authorization": {"Bearer tok123"}},
		},
		"nil headers": {
			headers: nil,
			token:   ptr("tok123"),
			enabled: true,
			want:    http.Header{"Authorization": {"Bearer tok123"}},
		},
		"keeps existing entries": {
			headers: http.Header{"X": {"y"}},
			token:   ptr("tok123"),
			enabled: true,
			want:    http.Header{"X": {"y"}, "Authorization": {"Bearer tok123"}},
		},
		"replaces existing credential": {
			headers: http.Header{"Authorization": {"Bearer old", "Basic x"}},
			token:   ptr("tok123"),
			enabled: true,
			want:    http.Header{"Authorization": {"Bearer tok123"}},
		},
		"disabled": {
			headers: http.Header{"X": {"y"}},
			token:   ptr("tok123"),
			enabled: false,
			want:    http.Header{"X": {"y"}},
		},
		"nil token": {
			headers: http.Header{"X": {"y"}},
			token:   nil,
			enabled: true,
			want:    http.Header{"X": {"y"}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			before := tt.headers.Clone()
			got := Augment(tt.headers, tt.token, tt.enabled)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Augment() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(before, tt.headers); diff != "" {
				t.Errorf("Augment() mutated its input (-before +after):\n%s", diff)
			}
		})
	}
}

func TestAugment_ReturnsNewMapping(t *testing.T) {
	t.Parallel()

	in := http.Header{}
	out := Augment(in, ptr("tok"), true)
	out.Set("X-Extra", "1")

	if len(in) != 0 {
		t.Errorf("input shares storage with output: %v", in)
	}
}

func TestConfig_Headers(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cfg  Config
		want http.Header
	}{
		"enabled": {
			cfg: NewConfig("tok"),
			want: http.Header{
				"Content-Type":  {"application/json"},
				"Authorization": {"Bearer tok"},
			},
		},
		"disabled": {
			cfg: Disabled(),
			want: http.Header{
				"Content-Type": {"application/json"},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, tt.cfg.Headers()); diff != "" {
				t.Errorf("Headers() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
