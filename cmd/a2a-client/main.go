// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Command a2a-client talks to an A2A agent that requires a bearer token.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/go-a2a/a2a-bearer/client"
	"github.com/go-a2a/a2a-bearer/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app holds what every subcommand needs once flags are parsed.
type app struct {
	cfg    config.Client
	client *client.Client
	out    io.Writer
	asJSON bool
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var (
		cfgFile string
		asJSON  bool
		a       app
	)
	v := config.New()

	root := &cobra.Command{
		Use:           "a2a-client",
		Short:         "Client for A2A agents with bearer token authentication",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.BindFlags(v, cmd.Flags()); err != nil {
				return err
			}
			if err := config.ReadFile(v, cfgFile); err != nil {
				return err
			}
			cfg, err := config.LoadClient(v, os.LookupEnv)
			if err != nil {
				return err
			}
			c, err := client.NewClient(cfg.ServerURL,
				client.WithAuth(cfg.Auth),
				client.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
				client.WithRetry(client.DefaultRetryPolicy()),
				client.WithLogger(cfg.Log.NewLogger(stderr)),
			)
			if err != nil {
				return err
			}
			a = app{cfg: cfg, client: c, out: cmd.OutOrStdout(), asJSON: asJSON}
			return nil
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML config file")
	root.PersistentFlags().BoolVar(&asJSON, "json", false, "print raw JSON")
	config.AddCommonFlags(root.PersistentFlags())
	config.AddClientFlags(root.PersistentFlags())

	root.AddCommand(
		&cobra.Command{
			Use:   "info",
			Short: "Show the agent card",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.info(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "send <text>...",
			Short: "Send a task and wait for its result",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.send(cmd.Context(), joinArgs(args))
			},
		},
		&cobra.Command{
			Use:   "get <task-id>",
			Short: "Show a task",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.get(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "cancel <task-id>",
			Short: "Cancel a running task",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.cancel(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "test",
			Short: "Run the basic task scenarios against the agent",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.runScenarios(cmd.Context(), basicScenarios)
			},
		},
		&cobra.Command{
			Use:   "interactive",
			Short: "Read tasks from standard input, one per line",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.interactive(cmd.Context(), cmd.InOrStdin())
			},
		},
	)
	return root
}
