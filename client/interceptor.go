// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/go-a2a/a2a-bearer/auth"
)

// Interceptor defines a middleware function that can intercept and modify requests/responses.
type Interceptor func(ctx context.Context, req *http.Request, invoker Invoker) (*http.Response, error)

// Invoker represents the next handler in the interceptor chain.
type Invoker func(ctx context.Context, req *http.Request) (*http.Response, error)

// chainInterceptors chains multiple interceptors together.
// The first interceptor is the outermost one.
func chainInterceptors(interceptors []Interceptor, invoker Invoker) Invoker {
	for i := len(interceptors) - 1; i >= 0; i-- {
		interceptor := interceptors[i]
		next := invoker
		invoker = func(ctx context.Context, req *http.Request) (*http.Response, error) {
			return interceptor(ctx, req, next)
		}
	}
	return invoker
}

// BearerInterceptor attaches the credential of cfg to every request.
// With enforcement disabled requests pass through untouched.
func BearerInterceptor(cfg auth.Config) Interceptor {
	token := cfg.Token()
	return func(ctx context.Context, req *http.Request, invoker Invoker) (*http.Response, error) {
		if token == nil {
			return invoker(ctx, req)
		}
		r := req.Clone(ctx)
		r.Header = auth.Augment(req.Header, token, cfg.Enabled)
		return invoker(ctx, r)
	}
}

// RetryPolicy configures [RetryInterceptor].
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first one.
	MaxAttempts int

	// InitialDelay is the wait before the second attempt.
	InitialDelay time.Duration

	// MaxDelay caps the wait between attempts.
	MaxDelay time.Duration

	// Multiplier grows the delay after each attempt.
	Multiplier float64
}

// DefaultRetryPolicy returns the policy used by [WithRetry] when none is given.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2,
	}
}

// RetryInterceptor retries requests that fail with a transport error or a
// retryable status. Authentication failures are final and never retried.
func RetryInterceptor(policy RetryPolicy) Interceptor {
	return func(ctx context.Context, req *http.Request, invoker Invoker) (*http.Response, error) {
		var (
			resp    *http.Response
			lastErr error
		)
		for attempt := 0; attempt < max(policy.MaxAttempts, 1); attempt++ {
			if attempt > 0 {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(calculateDelay(policy, attempt-1)):
				}

				r, err := rewind(ctx, req)
				if err != nil {
					return nil, err
				}
				req = r
			}

			resp, lastErr = invoker(ctx, req)
			if lastErr == nil && !shouldRetry(resp.StatusCode) {
				return resp, nil
			}
			if lastErr == nil && attempt < policy.MaxAttempts-1 {
				resp.Body.Close()
			}
		}
		return resp, lastErr
	}
}

// rewind returns a copy of req whose body can be read again.
func rewind(ctx context.Context, req *http.Request) (*http.Request, error) {
	r := req.Clone(ctx)
	if req.Body == nil || req.Body == http.NoBody {
		return r, nil
	}
	if req.GetBody == nil {
		return nil, fmt.Errorf("retry %s %s: request body cannot be replayed", req.Method, req.URL)
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("retry %s %s: %w", req.Method, req.URL, err)
	}
	r.Body = body
	return r, nil
}

// UserAgentInterceptor adds a user agent header to requests.
func UserAgentInterceptor(userAgent string) Interceptor {
	return func(ctx context.Context, req *http.Request, invoker Invoker) (*http.Response, error) {
		req.Header.Set("User-Agent", userAgent)
		return invoker(ctx, req)
	}
}

// LoggingInterceptor logs every request and its outcome at debug level.
func LoggingInterceptor(logger *slog.Logger) Interceptor {
	return func(ctx context.Context, req *http.Request, invoker Invoker) (*http.Response, error) {
		start := time.Now()
		resp, err := invoker(ctx, req)
		if err != nil {
			logger.DebugContext(ctx, "request failed",
				slog.String("method", req.Method),
				slog.String("url", req.URL.String()),
				slog.Any("error", err),
			)
			return nil, err
		}
		logger.DebugContext(ctx, "request completed",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.Int("status", resp.StatusCode),
			slog.Duration("elapsed", time.Since(start)),
		)
		return resp, nil
	}
}

// shouldRetry determines if a response should be retried based on status code.
func shouldRetry(statusCode int) bool {
	return statusCode >= 500 || statusCode == http.StatusRequestTimeout || statusCode == http.StatusTooManyRequests
}

// calculateDelay calculates the delay for the next retry attempt.
func calculateDelay(policy RetryPolicy, attempt int) time.Duration {
	multiplier := policy.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	delay := time.Duration(float64(policy.InitialDelay) * math.Pow(multiplier, float64(attempt)))
	if policy.MaxDelay > 0 {
		delay = min(delay, policy.MaxDelay)
	}
	return delay
}
