// Package services implements the Spotify Web API client used by sync runs.
//
// # Catalog Interface
//
// [Catalog] is the narrow set of remote operations a sync run needs. [CatalogClient] implements it
// over HTTP; tests substitute in-memory fakes.
//
// # Request Handling
//
// Every attempt carries the bearer token and is paced by a token bucket limiter.
// A 429 response is retried after the Retry-After delay (1s when absent, capped by MaxRetryWait)
// until MaxRetries is exhausted, at which point [shared.ErrRateLimitExceeded] is returned.
// Other non-2xx responses are returned immediately as [*CatalogAPIError].
//
// # Response Validation
//
// Typed operations validate response bodies against JSON Schemas before decoding.
// A body that does not match returns [shared.ErrMalformedResponse].
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : no token, or the API answered 401
//   - [shared.ErrAPIRequest] : transport failure
//   - [shared.ErrRateLimitExceeded] : 429 retries exhausted
//   - [shared.ErrMalformedResponse] : body failed schema validation or decoding
package services
