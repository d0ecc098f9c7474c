// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	a2a "github.com/go-a2a/a2a-bearer"
	"github.com/go-a2a/a2a-bearer/auth"
	"github.com/go-a2a/a2a-bearer/client"
)

var basicScenarios = []string{
	"echo Hello World!",
	"add 15 and 27",
	"multiply 6 by 8",
	"uppercase hello world",
	"reverse FastA2A",
	"count words in this sentence",
	`parse json {"name": "test", "value": 42}`,
	"help",
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}

func (a *app) info(ctx context.Context) error {
	card, err := a.client.GetAgentCard(ctx)
	if err != nil {
		return err
	}
	if a.asJSON {
		return a.printJSON(card)
	}
	fmt.Fprintf(a.out, "Agent:       %s (%s)\n", card.Name, card.Version)
	fmt.Fprintf(a.out, "Description: %s\n", card.Description)
	fmt.Fprintf(a.out, "Skills:      %d\n", len(card.Skills))
	for _, s := range card.Skills {
		fmt.Fprintf(a.out, "  - %s: %s\n", s.ID, s.Description)
	}
	if card.Authentication != nil {
		fmt.Fprintf(a.out, "Auth:        %s\n", strings.Join(card.Authentication.Schemes, ", "))
	} else {
		fmt.Fprintln(a.out, "Auth:        none")
	}
	return nil
}

func (a *app) send(ctx context.Context, text string) error {
	t, err := a.client.SendAndWait(ctx, text, a.cfg.PollInterval, a.cfg.PollAttempts)
	if err != nil {
		return explain(err)
	}
	return a.printTask(t)
}

func (a *app) get(ctx context.Context, id string) error {
	t, err := a.client.GetTask(ctx, id, nil)
	if err != nil {
		return explain(err)
	}
	return a.printTask(t)
}

func (a *app) cancel(ctx context.Context, id string) error {
	t, err := a.client.CancelTask(ctx, id)
	if err != nil {
		return explain(err)
	}
	return a.printTask(t)
}

// runScenarios sends every scenario and reports the failed ones.
func (a *app) runScenarios(ctx context.Context, scenarios []string) error {
	var failed int
	for i, text := range scenarios {
		fmt.Fprintf(a.out, "[%d/%d] %s\n", i+1, len(scenarios), text)
		t, err := a.client.SendAndWait(ctx, text, a.cfg.PollInterval, a.cfg.PollAttempts)
		if err != nil {
			// A rejected credential fails every scenario the same way.
			if client.IsAuthError(err) {
				return explain(err)
			}
			failed++
			fmt.Fprintf(a.out, "  error: %v\n", err)
			continue
		}
		if t.Status.State != a2a.TaskStateCompleted {
			failed++
		}
		fmt.Fprintf(a.out, "  %s: %s\n", t.Status.State, reply(t))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(scenarios))
	}
	return nil
}

// interactive sends each input line as a task until EOF or "quit".
func (a *app) interactive(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(a.out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(a.out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit", "q":
			return nil
		}

		t, err := a.client.SendAndWait(ctx, line, a.cfg.PollInterval, a.cfg.PollAttempts)
		if err != nil {
			if client.IsAuthError(err) || errors.Is(err, context.Canceled) {
				return explain(err)
			}
			fmt.Fprintf(a.out, "error: %v\n", err)
			continue
		}
		fmt.Fprintln(a.out, reply(t))
	}
}

func (a *app) printTask(t *a2a.Task) error {
	if a.asJSON {
		return a.printJSON(t)
	}
	fmt.Fprintf(a.out, "Task:  %s\n", t.ID)
	fmt.Fprintf(a.out, "State: %s\n", t.Status.State)
	if r := reply(t); r != "" {
		fmt.Fprintf(a.out, "Reply: %s\n", r)
	}
	if n := len(t.Artifacts); n > 0 {
		fmt.Fprintf(a.out, "Artifacts: %d\n", n)
	}
	return nil
}

func (a *app) printJSON(v any) error {
	if err := json.MarshalWrite(a.out, v, json.Deterministic(true), jsontext.WithIndent("  ")); err != nil {
		return err
	}
	_, err := fmt.Fprintln(a.out)
	return err
}

// reply returns the text of the latest agent message of t.
func reply(t *a2a.Task) string {
	if t.Status.Message != nil {
		return t.Status.Message.Text()
	}
	for i := len(t.History) - 1; i >= 0; i-- {
		if t.History[i].Role == a2a.RoleAgent {
			return t.History[i].Text()
		}
	}
	return ""
}

// explain adds a hint to credential rejections.
func explain(err error) error {
	var authErr *client.AuthError
	if errors.As(err, &authErr) {
		return fmt.Errorf("%w: %s (check --auth-token or %s)", err, authErr.Response.Message, auth.TokenEnvVar)
	}
	return err
}
