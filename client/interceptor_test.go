// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/go-a2a/a2a-bearer/auth"
)

func TestChainInterceptors_Order(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) Interceptor {
		return func(ctx context.Context, req *http.Request, invoker Invoker) (*http.Response, error) {
			order = append(order, name)
			return invoker(ctx, req)
		}
	}
	invoke := chainInterceptors([]Interceptor{mark("outer"), mark("middle"), mark("inner")},
		func(context.Context, *http.Request) (*http.Response, error) {
			order = append(order, "transport")
			return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
		})

	req := httptest.NewRequest(http.MethodGet, "http://agent.test/", nil)
	if _, err := invoke(t.Context(), req); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"outer", "middle", "inner", "transport"}, order); diff != "" {
		t.Errorf("call order mismatch (-want +got):\n%s", diff)
	}
}

func TestBearerInterceptor(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cfg  auth.Config
		want string
	}{
		"enabled default token": {
			cfg:  auth.NewConfig(""),
			want: "Bearer test-agent-token-123",
		},
		"enabled custom token": {
			cfg:  auth.NewConfig("secret"),
			want: "Bearer secret",
		},
		"disabled": {
			cfg:  auth.Disabled(),
			want: "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "http://agent.test/", nil)
			req.Header.Set("Content-Type", "application/json")

			var sent http.Header
			_, err := BearerInterceptor(tt.cfg)(t.Context(), req, func(_ context.Context, r *http.Request) (*http.Response, error) {
				sent = r.Header
				return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
			})
			if err != nil {
				t.Fatal(err)
			}
			if got := sent.Get(auth.HeaderName); got != tt.want {
				t.Errorf("Authorization = %q, want %q", got, tt.want)
			}
			if got := sent.Get("Content-Type"); got != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", got)
			}
			if got := req.Header.Get(auth.HeaderName); got != "" {
				t.Errorf("caller request mutated: Authorization = %q", got)
			}
		})
	}
}

func TestRetryInterceptor(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		statuses  []int
		wantHits  int64
		wantFinal int
	}{
		"success first try": {
			statuses:  []int{http.StatusOK},
			wantHits:  1,
			wantFinal: http.StatusOK,
		},
		"recovers after 503": {
			statuses:  []int{http.StatusServiceUnavailable, http.StatusServiceUnavailable, http.StatusOK},
			wantHits:  3,
			wantFinal: http.StatusOK,
		},
		"gives up": {
			statuses:  []int{http.StatusBadGateway, http.StatusBadGateway, http.StatusBadGateway, http.StatusOK},
			wantHits:  3,
			wantFinal: http.StatusBadGateway,
		},
		"unauthorized is final": {
			statuses:  []int{http.StatusUnauthorized, http.StatusOK},
			wantHits:  1,
			wantFinal: http.StatusUnauthorized,
		},
		"too many requests": {
			statuses:  []int{http.StatusTooManyRequests, http.StatusOK},
			wantHits:  2,
			wantFinal: http.StatusOK,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var hits atomic.Int64
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := hits.Add(1)
				body, _ := io.ReadAll(r.Body)
				if string(body) != "payload" {
					t.Errorf("attempt %d body = %q, want %q", n, body, "payload")
				}
				w.WriteHeader(tt.statuses[n-1])
			}))
			t.Cleanup(ts.Close)

			invoke := chainInterceptors(
				[]Interceptor{RetryInterceptor(RetryPolicy{MaxAttempts: 3, InitialDelay: time.Millisecond, Multiplier: 2})},
				func(_ context.Context, req *http.Request) (*http.Response, error) {
					return ts.Client().Do(req)
				})

			req, err := http.NewRequestWithContext(t.Context(), http.MethodPost, ts.URL, bytes.NewReader([]byte("payload")))
			if err != nil {
				t.Fatal(err)
			}
			resp, err := invoke(t.Context(), req)
			if err != nil {
				t.Fatalf("invoke() error = %v", err)
			}
			resp.Body.Close()

			if resp.StatusCode != tt.wantFinal {
				t.Errorf("final status = %d, want %d", resp.StatusCode, tt.wantFinal)
			}
			if got := hits.Load(); got != tt.wantHits {
				t.Errorf("hits = %d, want %d", got, tt.wantHits)
			}
		})
	}
}

func TestRetryInterceptor_UnreplayableBody(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "http://agent.test/", io.NopCloser(strings.NewReader("x")))
	req.GetBody = nil

	_, err := RetryInterceptor(RetryPolicy{MaxAttempts: 2})(t.Context(), req, func(context.Context, *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusServiceUnavailable, Body: http.NoBody}, nil
	})
	if err == nil || !strings.Contains(err.Error(), "cannot be replayed") {
		t.Errorf("error = %v, want replay error", err)
	}
}

func TestCalculateDelay(t *testing.T) {
	t.Parallel()

	policy := RetryPolicy{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2}
	tests := map[string]struct {
		attempt int
		want    time.Duration
	}{
		"first":  {attempt: 0, want: 100 * time.Millisecond},
		"second": {attempt: 1, want: 200 * time.Millisecond},
		"third":  {attempt: 2, want: 400 * time.Millisecond},
		"capped": {attempt: 10, want: time.Second},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := calculateDelay(policy, tt.attempt); got != tt.want {
				t.Errorf("calculateDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
			}
		})
	}
}

func TestShouldRetry(t *testing.T) {
	t.Parallel()

	for code, want := range map[int]bool{
		http.StatusOK:                  false,
		http.StatusBadRequest:          false,
		http.StatusUnauthorized:        false,
		http.StatusRequestTimeout:      true,
		http.StatusTooManyRequests:     true,
		http.StatusInternalServerError: true,
		http.StatusServiceUnavailable:  true,
	} {
		if got := shouldRetry(code); got != want {
			t.Errorf("shouldRetry(%d) = %v, want %v", code, got, want)
		}
	}
}
