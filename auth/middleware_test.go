// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/google/go-cmp/cmp"

	a2a "github.com/go-a2a/a2a-bearer"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cfg        Config
		method     string
		path       string
		header     string
		wantStatus int
		wantUser   User
	}{
		"discovery without credential": {
			cfg:        NewConfig(DefaultToken),
			method:     http.MethodGet,
			path:       a2a.AgentCardWellKnownPath,
			wantStatus: http.StatusOK,
			wantUser:   UnauthenticatedUser{},
		},
		"discovery head without credential": {
			cfg:        NewConfig(DefaultToken),
			method:     http.MethodHead,
			path:       a2a.AgentCardWellKnownPath,
			wantStatus: http.StatusOK,
			wantUser:   UnauthenticatedUser{},
		},
		"discovery post is not exempt": {
			cfg:        NewConfig(DefaultToken),
			method:     http.MethodPost,
			path:       a2a.AgentCardWellKnownPath,
			wantStatus: http.StatusUnauthorized,
		},
		"discovery lookalike path": {
			cfg:        NewConfig(DefaultToken),
			method:     http.MethodGet,
			path:       a2a.AgentCardWellKnownPath + "/x",
			wantStatus: http.StatusUnauthorized,
		},
		"rpc without credential": {
			cfg:        NewConfig(DefaultToken),
			method:     http.MethodPost,
			path:       "/",
			wantStatus: http.StatusUnauthorized,
		},
		"rpc with wrong credential": {
			cfg:        NewConfig(DefaultToken),
			method:     http.MethodPost,
			path:       "/",
			header:     "Bearer wrong",
			wantStatus: http.StatusUnauthorized,
		},
		"rpc with credential": {
			cfg:        NewConfig(DefaultToken),
			method:     http.MethodPost,
			path:       "/",
			header:     "Bearer " + DefaultToken,
			wantStatus: http.StatusOK,
			wantUser:   BearerUser{},
		},
		"disabled without credential": {
			cfg:        Disabled(),
			method:     http.MethodPost,
			path:       "/",
			wantStatus: http.StatusOK,
			wantUser:   UnauthenticatedUser{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var gotUser User
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = UserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			r := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				r.Header.Set(HeaderName, tt.header)
			}
			w := httptest.NewRecorder()
			Middleware(tt.cfg)(next).ServeHTTP(w, r)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if diff := cmp.Diff(tt.wantUser, gotUser); diff != "" {
				t.Errorf("user mismatch (-want +got):\n%s", diff)
			}
			if tt.wantStatus != http.StatusUnauthorized {
				return
			}

			if got := w.Header().Get("Content-Type"); got != a2a.ContentTypeJSON {
				t.Errorf("Content-Type = %q, want %q", got, a2a.ContentTypeJSON)
			}
			if got := w.Header().Get("WWW-Authenticate"); got != Scheme {
				t.Errorf("WWW-Authenticate = %q, want %q", got, Scheme)
			}
			var body ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode denial payload: %v", err)
			}
			if diff := cmp.Diff(NewErrorResponse(), body); diff != "" {
				t.Errorf("denial payload mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMiddleware_DenialPayloadWireFormat(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	WriteDenial(w, Deny(ErrMissingCredential))

	var got map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		"error":         "Authentication failed",
		"message":       "Bearer token authentication required for agent-to-agent communication",
		"required_auth": "Bearer token",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wire payload mismatch (-want +got):\n%s", diff)
	}
}

func TestMiddleware_DecisionHook(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		outcomes []string
	)
	hook := func(_ *http.Request, d Decision) {
		mu.Lock()
		defer mu.Unlock()
		outcomes = append(outcomes, d.Outcome())
	}
	h := Middleware(NewConfig("tok"), WithDecisionHook(hook))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	for _, header := range []string{"", "Bearer bad", "Bearer tok"} {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		if header != "" {
			r.Header.Set(HeaderName, header)
		}
		h.ServeHTTP(httptest.NewRecorder(), r)
	}
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, a2a.AgentCardWellKnownPath, nil))

	want := []string{"missing", "mismatch", "allowed"}
	if diff := cmp.Diff(want, outcomes); diff != "" {
		t.Errorf("outcomes mismatch (-want +got):\n%s", diff)
	}
}

func TestMiddleware_ExemptPath(t *testing.T) {
	t.Parallel()

	h := Middleware(NewConfig("tok"), WithExemptPath("/card"))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	tests := map[string]struct {
		path string
		want int
	}{
		"custom path":  {path: "/card", want: http.StatusOK},
		"default path": {path: a2a.AgentCardWellKnownPath, want: http.StatusUnauthorized},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
