// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	a2a "github.com/go-a2a/a2a-bearer"
	"github.com/go-a2a/a2a-bearer/auth"
	"github.com/go-a2a/a2a-bearer/client"
	"github.com/go-a2a/a2a-bearer/server"
	"github.com/go-a2a/a2a-bearer/server/task"
	"github.com/go-a2a/a2a-bearer/server/worker"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func startAgent(t *testing.T, cfg auth.Config) string {
	t.Helper()

	m := server.NewManager(task.NewInMemoryTaskStore(), worker.NewBasic(), server.WithManagerLogger(discardLogger))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	srv, err := server.NewServer(a2a.AgentCard{Name: "cli test agent", Skills: worker.Skills()}, m,
		server.WithAuth(cfg), server.WithLogger(discardLogger))
	if err != nil {
		cancel()
		t.Fatal(err)
	}
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		ts.Close()
		cancel()
		<-done
	})
	return ts.URL
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &stdout, &stderr)
	cmd.SetArgs(append(args, "--log-level", "error", "--poll-interval", "10ms"))
	err := cmd.ExecuteContext(t.Context())
	return stdout.String(), err
}

func TestCommands(t *testing.T) {
	t.Setenv(auth.TokenEnvVar, "")
	url := startAgent(t, auth.NewConfig(auth.DefaultToken))

	tests := map[string]struct {
		stdin string
		args  []string
		want  []string
	}{
		"info": {
			args: []string{"info", "--server", url},
			want: []string{"cli test agent", "echo_task", "Auth:        Bearer"},
		},
		"info json": {
			args: []string{"info", "--json", "--server", url},
			want: []string{`"schemes"`, `"Bearer"`, `"cli test agent"`},
		},
		"send": {
			args: []string{"send", "add", "15", "and", "27", "--server", url},
			want: []string{"State: completed", "Reply: Addition of [15, 27] = 42"},
		},
		"scenarios": {
			args: []string{"test", "--server", url},
			want: []string{"[1/8] echo Hello World!", "completed: Echo: hello world!"},
		},
		"interactive": {
			stdin: "reverse abc\n\nquit\n",
			args:  []string{"interactive", "--server", url},
			want:  []string{"Reverse result: cba"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := execute(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("execute(%v) error = %v\n%s", tt.args, err, out)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestCommands_Rejected(t *testing.T) {
	t.Setenv(auth.TokenEnvVar, "")
	url := startAgent(t, auth.NewConfig("server-only-token"))

	_, err := execute(t, "", "send", "echo hi", "--server", url)
	if !client.IsAuthError(err) {
		t.Fatalf("send error = %v, want AuthError", err)
	}
	if !strings.Contains(err.Error(), auth.TokenEnvVar) {
		t.Errorf("error %q does not explain how to set the credential", err)
	}

	// Discovery works without a matching credential.
	if _, err := execute(t, "", "info", "--server", url); err != nil {
		t.Errorf("info error = %v", err)
	}

	if _, err := execute(t, "", "send", "echo hi", "--server", url, "--auth-token", "server-only-token"); err != nil {
		t.Errorf("send with matching token error = %v", err)
	}
}
