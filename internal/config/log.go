// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// Log configures the process logger.
type Log struct {
	Level  slog.Level
	Format string
}

// NewLogger returns a logger writing to w in the configured format.
func (l Log) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.Level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func loadLog(v *viper.Viper) (Log, error) {
	var l Log
	if err := l.Level.UnmarshalText([]byte(v.GetString(KeyLogLevel))); err != nil {
		return Log{}, fmt.Errorf("%w: log level: %w", ErrInvalid, err)
	}
	switch l.Format = strings.ToLower(v.GetString(KeyLogFormat)); l.Format {
	case "text", "json":
	default:
		return Log{}, fmt.Errorf("%w: unknown log format %q", ErrInvalid, l.Format)
	}
	return l, nil
}
