// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the command line configuration of the agent server
// and client from flags, environment variables and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/go-a2a/a2a-bearer/auth"
	"github.com/go-a2a/a2a-bearer/server/task"
)

// EnvPrefix prefixes every environment variable read through viper,
// e.g. A2A_SERVER_PORT for server.port.
const EnvPrefix = "A2A"

// Configuration keys.
const (
	KeyHost         = "server.host"
	KeyPort         = "server.port"
	KeyEndpoint     = "server.endpoint"
	KeyWorkers      = "server.workers"
	KeyQueueSize    = "server.queue_size"
	KeyStore        = "store.kind"
	KeyDSN          = "store.dsn"
	KeyLogLevel     = "log.level"
	KeyLogFormat    = "log.format"
	KeyAuthToken    = "auth.token"
	KeyAuthDisabled = "auth.disabled"
	KeyServerURL    = "client.server"
	KeyTimeout      = "client.timeout"
	KeyPollInterval = "client.poll_interval"
	KeyPollAttempts = "client.poll_attempts"
)

// Defaults.
const (
	DefaultHost         = "127.0.0.1"
	DefaultPort         = 8000
	DefaultWorkers      = 2
	DefaultQueueSize    = 64
	DefaultDSN          = "a2a.db"
	DefaultServerURL    = "http://127.0.0.1:8000"
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = time.Second
	DefaultPollAttempts = 30
)

// ErrInvalid is wrapped by every validation failure of [Load] and [LoadClient].
var ErrInvalid = errors.New("invalid configuration")

// Server is the immutable configuration of the agent server.
type Server struct {
	Host      string
	Port      int
	Endpoint  string
	Workers   int
	QueueSize int
	Store     string
	DSN       string
	Log       Log
	Auth      auth.Config
}

// Addr returns the listen address.
func (s Server) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Client is the immutable configuration of the command line client.
type Client struct {
	ServerURL    string
	Timeout      time.Duration
	PollInterval time.Duration
	PollAttempts int
	Log          Log
	Auth         auth.Config
}

// envKeys are read from A2A_* variables. The token has a single override
// variable, [auth.TokenEnvVar], so [KeyAuthToken] is not among them.
var envKeys = []string{
	KeyHost,
	KeyPort,
	KeyEndpoint,
	KeyWorkers,
	KeyQueueSize,
	KeyStore,
	KeyDSN,
	KeyLogLevel,
	KeyLogFormat,
	KeyAuthDisabled,
	KeyServerURL,
	KeyTimeout,
	KeyPollInterval,
	KeyPollAttempts,
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		// Only fails without a key.
		_ = v.BindEnv(key)
	}

	v.SetDefault(KeyHost, DefaultHost)
	v.SetDefault(KeyPort, DefaultPort)
	v.SetDefault(KeyEndpoint, "/")
	v.SetDefault(KeyWorkers, DefaultWorkers)
	v.SetDefault(KeyQueueSize, DefaultQueueSize)
	v.SetDefault(KeyStore, task.KindMemory)
	v.SetDefault(KeyDSN, DefaultDSN)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyAuthToken, "")
	v.SetDefault(KeyAuthDisabled, false)
	v.SetDefault(KeyServerURL, DefaultServerURL)
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyPollInterval, DefaultPollInterval)
	v.SetDefault(KeyPollAttempts, DefaultPollAttempts)
	return v
}

// ReadFile merges the YAML file at path into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"host":          KeyHost,
	"port":          KeyPort,
	"endpoint":      KeyEndpoint,
	"workers":       KeyWorkers,
	"queue-size":    KeyQueueSize,
	"store":         KeyStore,
	"dsn":           KeyDSN,
	"log-level":     KeyLogLevel,
	"log-format":    KeyLogFormat,
	"auth-token":    KeyAuthToken,
	"no-auth":       KeyAuthDisabled,
	"server":        KeyServerURL,
	"timeout":       KeyTimeout,
	"poll-interval": KeyPollInterval,
	"poll-attempts": KeyPollAttempts,
}

// AddCommonFlags registers the flags shared by the server and the client.
func AddCommonFlags(fs *pflag.FlagSet) {
	fs.String("auth-token", "", "bearer token (overrides "+auth.TokenEnvVar+")")
	fs.Bool("no-auth", false, "disable bearer authentication")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("log-format", "text", "log format (text, json)")
}

// AddServerFlags registers the server flags.
func AddServerFlags(fs *pflag.FlagSet) {
	fs.String("host", DefaultHost, "host to bind to")
	fs.Int("port", DefaultPort, "port to bind to")
	fs.String("endpoint", "/", "path of the JSON-RPC endpoint")
	fs.Int("workers", DefaultWorkers, "number of task workers")
	fs.Int("queue-size", DefaultQueueSize, "capacity of the task queue")
	fs.String("store", task.KindMemory, "task store (memory, sqlite)")
	fs.String("dsn", DefaultDSN, "SQLite database file for --store=sqlite")
}

// AddClientFlags registers the client flags.
func AddClientFlags(fs *pflag.FlagSet) {
	fs.String("server", DefaultServerURL, "agent base URL")
	fs.Duration("timeout", DefaultTimeout, "HTTP request timeout")
	fs.Duration("poll-interval", DefaultPollInterval, "interval between task status polls")
	fs.Int("poll-attempts", DefaultPollAttempts, "polls before giving up on a task")
}

// BindFlags binds every known flag of fs to its configuration key.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var errs []error
	fs.VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			errs = append(errs, v.BindPFlag(key, f))
		}
	})
	return errors.Join(errs...)
}

// Load builds the server configuration from v.
// lookup is consulted for [auth.TokenEnvVar] when no explicit token is configured.
func Load(v *viper.Viper, lookup auth.LookupFunc) (Server, error) {
	log, err := loadLog(v)
	if err != nil {
		return Server{}, err
	}
	s := Server{
		Host:      v.GetString(KeyHost),
		Port:      v.GetInt(KeyPort),
		Endpoint:  v.GetString(KeyEndpoint),
		Workers:   v.GetInt(KeyWorkers),
		QueueSize: v.GetInt(KeyQueueSize),
		Store:     v.GetString(KeyStore),
		DSN:       v.GetString(KeyDSN),
		Log:       log,
		Auth:      loadAuth(v, lookup),
	}

	var errs []error
	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("%w: port %d out of range", ErrInvalid, s.Port))
	}
	if s.Workers < 1 {
		errs = append(errs, fmt.Errorf("%w: workers must be positive, got %d", ErrInvalid, s.Workers))
	}
	if s.QueueSize < 1 {
		errs = append(errs, fmt.Errorf("%w: queue size must be positive, got %d", ErrInvalid, s.QueueSize))
	}
	if !strings.HasPrefix(s.Endpoint, "/") {
		errs = append(errs, fmt.Errorf("%w: endpoint %q must start with /", ErrInvalid, s.Endpoint))
	}
	switch s.Store {
	case task.KindMemory:
	case task.KindSQLite:
		if s.DSN == "" {
			errs = append(errs, fmt.Errorf("%w: sqlite store needs a dsn", ErrInvalid))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: unknown store %q", ErrInvalid, s.Store))
	}
	if err := errors.Join(errs...); err != nil {
		return Server{}, err
	}
	return s, nil
}

// LoadClient builds the client configuration from v.
func LoadClient(v *viper.Viper, lookup auth.LookupFunc) (Client, error) {
	log, err := loadLog(v)
	if err != nil {
		return Client{}, err
	}
	c := Client{
		ServerURL:    v.GetString(KeyServerURL),
		Timeout:      v.GetDuration(KeyTimeout),
		PollInterval: v.GetDuration(KeyPollInterval),
		PollAttempts: v.GetInt(KeyPollAttempts),
		Log:          log,
		Auth:         loadAuth(v, lookup),
	}
	if c.ServerURL == "" {
		return Client{}, fmt.Errorf("%w: server URL is required", ErrInvalid)
	}
	if c.PollInterval <= 0 || c.PollAttempts < 1 {
		return Client{}, fmt.Errorf("%w: polling needs a positive interval and attempt count", ErrInvalid)
	}
	return c, nil
}

// loadAuth resolves the credential once. An explicit token beats the
// environment variable, which beats the default.
func loadAuth(v *viper.Viper, lookup auth.LookupFunc) auth.Config {
	if v.GetBool(KeyAuthDisabled) {
		return auth.Disabled()
	}
	if token := v.GetString(KeyAuthToken); token != "" {
		return auth.NewConfig(token)
	}
	return auth.Config{Enabled: true, Credential: auth.ResolveCredential(lookup)}
}
