// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"gopkg.in/yaml.v3"
)

type serverView struct {
	Server struct {
		Host      string `yaml:"host"`
		Port      int    `yaml:"port"`
		Endpoint  string `yaml:"endpoint"`
		Workers   int    `yaml:"workers"`
		QueueSize int    `yaml:"queue_size"`
	} `yaml:"server"`
	Store struct {
		Kind string `yaml:"kind"`
		DSN  string `yaml:"dsn,omitempty"`
	} `yaml:"store"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Auth struct {
		Enabled    bool   `yaml:"enabled"`
		Credential string `yaml:"credential,omitempty"`
	} `yaml:"auth"`
}

// YAML renders the effective configuration in the config file layout.
// The credential is masked.
func (s Server) YAML() ([]byte, error) {
	var view serverView
	view.Server.Host = s.Host
	view.Server.Port = s.Port
	view.Server.Endpoint = s.Endpoint
	view.Server.Workers = s.Workers
	view.Server.QueueSize = s.QueueSize
	view.Store.Kind = s.Store
	view.Store.DSN = s.DSN
	view.Log.Level = s.Log.Level.String()
	view.Log.Format = s.Log.Format
	view.Auth.Enabled = s.Auth.Enabled
	if s.Auth.Enabled {
		view.Auth.Credential = s.Auth.Credential.String()
	}
	return yaml.Marshal(&view)
}
