// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	a2a "github.com/go-a2a/a2a-bearer"
	"github.com/go-a2a/a2a-bearer/auth"
	"github.com/go-a2a/a2a-bearer/server/task"
	"github.com/go-a2a/a2a-bearer/server/worker"
)

func TestServer_RPCSpan(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cfg      auth.Config
		wantUser string
		wantAuth bool
	}{
		"enforced": {
			cfg:      auth.NewConfig(testToken),
			wantUser: auth.BearerUserName,
			wantAuth: true,
		},
		"disabled": {
			cfg:      auth.Disabled(),
			wantUser: "",
			wantAuth: false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			recorder := tracetest.NewSpanRecorder()
			tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
			t.Cleanup(func() { tp.Shutdown(t.Context()) })

			m := NewManager(task.NewInMemoryTaskStore(), worker.NewBasic(), WithManagerLogger(discardLogger))
			srv, err := NewServer(testCard(), m, WithAuth(tt.cfg), WithLogger(discardLogger), WithTracer(tp.Tracer("test")))
			if err != nil {
				t.Fatal(err)
			}

			body := `{"jsonrpc":"2.0","id":"r1","method":"tasks/get","params":{"id":"missing"}}`
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			req.Header.Set(auth.HeaderName, "Bearer "+testToken)
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
			}

			var span sdktrace.ReadOnlySpan
			for _, s := range recorder.Ended() {
				if s.Name() == "a2a.server.processRequest" {
					span = s
				}
			}
			if span == nil {
				t.Fatal("no a2a.server.processRequest span recorded")
			}

			got := map[attribute.Key]attribute.Value{}
			for _, kv := range span.Attributes() {
				got[kv.Key] = kv.Value
			}
			want := map[attribute.Key]attribute.Value{
				"a2a.method":        attribute.StringValue(a2a.MethodTasksGet),
				"a2a.request_id":    attribute.StringValue("r1"),
				"a2a.user":          attribute.StringValue(tt.wantUser),
				"a2a.authenticated": attribute.BoolValue(tt.wantAuth),
			}
			if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b attribute.Value) bool { return a.Emit() == b.Emit() })); diff != "" {
				t.Errorf("span attributes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
