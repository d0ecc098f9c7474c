// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-a2a/a2a-bearer/auth"
	"github.com/go-a2a/a2a-bearer/internal/config"
	"github.com/go-a2a/a2a-bearer/server/task"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return stdout.String(), err
}

func TestConfigCommand(t *testing.T) {
	t.Setenv(auth.TokenEnvVar, "env-secret-token")

	tests := map[string]struct {
		args    []string
		want    []string
		notWant []string
	}{
		"environment credential": {
			args:    []string{"config", "--port", "9100"},
			want:    []string{"port: 9100", "enabled: true", "env-****(environment)"},
			notWant: []string{"env-secret-token"},
		},
		"flag credential": {
			args: []string{"config", "--auth-token", "flag-token-1"},
			want: []string{"flag****(flag)"},
		},
		"disabled": {
			args:    []string{"config", "--no-auth", "--store", "sqlite", "--dsn", "x.db"},
			want:    []string{"enabled: false", "kind: sqlite", "dsn: x.db"},
			notWant: []string{"credential:"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("execute(%v) error = %v", tt.args, err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output contains %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestTokenCommand(t *testing.T) {
	t.Setenv(auth.TokenEnvVar, "")

	out, err := execute(t, "token")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "test****(default)") || !strings.Contains(out, auth.TokenEnvVar) {
		t.Errorf("token output = %q", out)
	}

	out, err = execute(t, "token", "--no-auth")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "authentication disabled" {
		t.Errorf("token --no-auth output = %q", out)
	}
}

func TestInvalidFlags(t *testing.T) {
	if _, err := execute(t, "config", "--workers", "0"); err == nil {
		t.Error("execute(--workers 0) error = nil, want error")
	}
	if _, err := execute(t, "unexpected-arg"); err == nil {
		t.Error("execute(unexpected-arg) error = nil, want error")
	}
}

func TestAgentCard(t *testing.T) {
	t.Parallel()

	card := agentCard(config.Server{Host: "127.0.0.1", Port: 8000, Endpoint: "/"})
	if card.URL != "http://127.0.0.1:8000/" {
		t.Errorf("URL = %q", card.URL)
	}
	if len(card.Skills) != 4 {
		t.Errorf("len(Skills) = %d, want 4", len(card.Skills))
	}
}

func TestOpenStore(t *testing.T) {
	t.Parallel()

	for name, cfg := range map[string]config.Server{
		"memory": {Store: task.KindMemory},
		"sqlite": {Store: task.KindSQLite, DSN: ":memory:"},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			store, err := openStore(t.Context(), cfg)
			if err != nil {
				t.Fatalf("openStore() error = %v", err)
			}
			if n, err := store.Count(t.Context(), ""); err != nil || n != 0 {
				t.Errorf("Count() = %d, %v; want 0, nil", n, err)
			}
			if err := store.Close(t.Context()); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		})
	}
}
