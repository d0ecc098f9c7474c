// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Command a2a-server runs an A2A test agent whose JSON-RPC endpoint requires
// a bearer token.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/go-a2a/a2a-bearer/auth"
	"github.com/go-a2a/a2a-bearer/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var cfgFile string
	v := config.New()

	load := func(cmd *cobra.Command) (config.Server, error) {
		if err := config.BindFlags(v, cmd.Flags()); err != nil {
			return config.Server{}, err
		}
		if err := config.ReadFile(v, cfgFile); err != nil {
			return config.Server{}, err
		}
		return config.Load(v, os.LookupEnv)
	}

	root := &cobra.Command{
		Use:           "a2a-server",
		Short:         "A2A test agent with bearer token authentication",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, cfg.Log.NewLogger(stderr))
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML config file")
	config.AddCommonFlags(root.PersistentFlags())
	config.AddServerFlags(root.PersistentFlags())

	root.AddCommand(newConfigCmd(load), newTokenCmd(load))
	return root
}

func newConfigCmd(load func(*cobra.Command) (config.Server, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			b, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
}

// newTokenCmd prints the masked credential and how clients present it.
func newTokenCmd(load func(*cobra.Command) (config.Server, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Show the credential clients must present",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.Auth.Enabled {
				fmt.Fprintln(out, "authentication disabled")
				return nil
			}
			fmt.Fprintf(out, "credential: %s\n", cfg.Auth.Credential)
			fmt.Fprintf(out, "override with: export %s=<token>\n", auth.TokenEnvVar)
			fmt.Fprintln(out, "clients send: Authorization: Bearer <token>")
			return nil
		},
	}
}
