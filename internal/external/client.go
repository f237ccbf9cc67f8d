// Package external provides the boundary between skycast domain logic and the
// upstream weather provider. All outbound HTTP calls are routed through the
// BaseClient, which enforces consistent behavior: circuit breaking, header
// injection, and error mapping.
//
// There is deliberately no retry loop here. A failed fetch surfaces an error
// and waits for the next externally-triggered refresh (manual retry, location
// change, or periodic trigger). The circuit breaker fails fast while the
// provider is unhealthy; it never re-issues a request.
package external

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"skycast/internal/types"
)

// BaseClient wraps an *http.Client and a circuit breaker to enforce
// consistent behavior on all outbound HTTP calls.
type BaseClient struct {
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker[*http.Response]
	userAgent string
	accept    string
	apiKey    types.SecretString
}

// BaseClientOption is a functional option for configuring a BaseClient.
type BaseClientOption func(*BaseClient)

// WithAPIKey configures a bearer token for keyed providers. The default
// provider (api.weather.gov) is keyless.
func WithAPIKey(key types.SecretString) BaseClientOption {
	return func(c *BaseClient) {
		c.apiKey = key
	}
}

// WithBreaker overrides the circuit breaker. Useful for testing or when
// sharing a breaker across clients.
func WithBreaker(breaker *gobreaker.CircuitBreaker[*http.Response]) BaseClientOption {
	return func(c *BaseClient) {
		c.breaker = breaker
	}
}

// NewBaseClient creates a BaseClient with the given http client, breaker
// name, user agent, and accept header.
func NewBaseClient(
	httpClient *http.Client,
	breakerName string,
	userAgent string,
	accept string,
	opts ...BaseClientOption,
) *BaseClient {
	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	})

	bc := &BaseClient{
		client:    httpClient,
		breaker:   cb,
		userAgent: userAgent,
		accept:    accept,
	}

	for _, opt := range opts {
		opt(bc)
	}

	return bc
}

// errServerStatus marks 5xx responses as failures for the circuit breaker
// without discarding the response.
var errServerStatus = errors.New("upstream server error status")

// Do executes the HTTP request with:
//  1. User-Agent, Accept, and (optional) Authorization header injection
//  2. Circuit breaker wrapping (5xx counts as a breaker failure)
//  3. Error mapping to types.AppError
//
// Whenever a response was received, Do returns it as-is, including non-2xx
// statuses; the caller owns status interpretation and must close the body.
// Caller-initiated aborts map to ErrCodeRequestCancelled so they stay
// distinguishable from genuine failures.
func (c *BaseClient) Do(req *http.Request) (*http.Response, error) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.accept != "" {
		req.Header.Set("Accept", c.accept)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey.Reveal())
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		r, doErr := c.client.Do(req)
		if doErr != nil {
			return nil, doErr
		}
		if r.StatusCode >= 500 {
			return r, errServerStatus
		}
		return r, nil
	})

	if resp != nil {
		// A received response is always handed to the caller, even when
		// the breaker counted it as a failure.
		return resp, nil
	}

	return nil, c.mapError(req.Context(), err)
}

// mapError translates transport-level failures into domain-level AppErrors.
func (c *BaseClient) mapError(ctx context.Context, err error) *types.AppError {
	// Caller-initiated abort. Timeouts (context.DeadlineExceeded) are real
	// failures and fall through to the unreachable mapping.
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return types.NewAppError(
			types.ErrCodeRequestCancelled,
			"request aborted by caller",
			err,
		)
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return types.NewAppError(
			types.ErrCodeUpstreamUnreachable,
			"circuit breaker is open; upstream service unavailable",
			err,
		)
	}

	return types.NewAppError(
		types.ErrCodeUpstreamUnreachable,
		fmt.Sprintf("upstream request failed: %v", err),
		err,
	)
}
