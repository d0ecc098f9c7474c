// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"fmt"
	"os"
)

const (
	// HeaderName is the request header that carries the credential.
	HeaderName = "Authorization"

	// Scheme is the only supported authentication scheme.
	Scheme = "Bearer"

	// DefaultToken is the fallback credential used when no override is configured.
	DefaultToken = "test-agent-token-123"

	// TokenEnvVar is the environment variable that overrides [DefaultToken].
	TokenEnvVar = "FASTA2A_AUTH_TOKEN"
)

// bearerPrefix is the case-sensitive prefix of a well-formed header value.
const bearerPrefix = Scheme + " "

// CredentialSource records where the effective credential came from.
type CredentialSource string

const (
	// SourceDefault means the built-in [DefaultToken] is in effect.
	SourceDefault CredentialSource = "default"

	// SourceEnvironment means the credential was read from [TokenEnvVar].
	SourceEnvironment CredentialSource = "environment"

	// SourceFlag means the credential was given explicitly, on the command
	// line or in a configuration file.
	SourceFlag CredentialSource = "flag"
)

// Credential is the single opaque bearer token in effect for a process.
type Credential struct {
	Value  string
	Source CredentialSource
}

// String masks the token so that a Credential can be logged safely.
func (c Credential) String() string {
	return fmt.Sprintf("%s(%s)", mask(c.Value), c.Source)
}

// LookupFunc looks up an override value by key, like [os.LookupEnv].
type LookupFunc func(key string) (string, bool)

// ResolveCredential returns the effective credential: the [TokenEnvVar] override
// reported by lookup when it is present and non-empty, else [DefaultToken].
// A nil lookup means no override source. It never fails.
func ResolveCredential(lookup LookupFunc) Credential {
	if lookup != nil {
		if v, ok := lookup(TokenEnvVar); ok && v != "" {
			return Credential{Value: v, Source: SourceEnvironment}
		}
	}
	return Credential{Value: DefaultToken, Source: SourceDefault}
}

// ResolveCredentialFromEnv resolves the credential from the process environment.
func ResolveCredentialFromEnv() Credential {
	return ResolveCredential(os.LookupEnv)
}

// Config is the immutable authentication configuration shared by a server
// or client wrapper. It is built once at startup and only read afterwards,
// so it is safe for concurrent use without locking.
type Config struct {
	// Enabled turns enforcement on. When false every check passes and
	// no header is attached to outbound requests.
	Enabled bool

	// Credential is the expected (server) or presented (client) token.
	Credential Credential
}

// NewConfig returns an enforcing Config for token. An empty token resolves to [DefaultToken].
func NewConfig(token string) Config {
	if token == "" {
		return Config{Enabled: true, Credential: Credential{Value: DefaultToken, Source: SourceDefault}}
	}
	return Config{Enabled: true, Credential: Credential{Value: token, Source: SourceFlag}}
}

// Disabled returns a Config with enforcement turned off.
func Disabled() Config {
	return Config{Enabled: false, Credential: Credential{Value: DefaultToken, Source: SourceDefault}}
}

// Token returns the credential value, or nil when enforcement is disabled
// and no credential should be attached.
func (c Config) Token() *string {
	if !c.Enabled {
		return nil
	}
	v := c.Credential.Value
	return &v
}

func mask(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
