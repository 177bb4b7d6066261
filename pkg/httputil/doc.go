// Package httputil provides the HTTP client used to fetch movesets from a
// remote endpoint.
//
// # Overview
//
//   - [Client]: GET with observability hooks, optional retries and a
//     circuit breaker (github.com/sony/gobreaker)
//   - [Retry]: retry with exponential backoff for errors marked retryable
//
// # Retry
//
// [Retry] only re-runs an operation when its error is wrapped in
// [RetryableError]. [Client] marks transport failures and 5xx responses as
// retryable; 4xx responses fail immediately with a [StatusError]:
//
//	c := httputil.NewClient(httputil.ClientOptions{Attempts: 3})
//	body, err := c.Get(ctx, "https://example.com/moveset")
//
// A Client with Attempts set to 1 (the default) never retries, which is
// what initialization wants: a failed fetch aborts instead of waiting.
//
// # Circuit breaking
//
// Repeated failures open the breaker and later calls fail fast with
// [gobreaker.ErrOpenState] until the breaker's timeout elapses. This keeps a
// long-running server from hammering a dead upstream on every reload.
package httputil
