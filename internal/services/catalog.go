package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotdir/internal/shared"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL           = "https://api.spotify.com/v1"
	DefaultMaxRetries        = 5
	DefaultMaxRetryWait      = 30 * time.Second
	DefaultRequestsPerSecond = 10.0
	DefaultRetryAfter        = time.Second
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// CatalogOpts configures a [CatalogClient]. Zero values select the defaults.
type CatalogOpts struct {
	BaseURL           string
	Token             string
	HTTPClient        *http.Client
	MaxRetries        int
	MaxRetryWait      time.Duration
	RequestsPerSecond float64
	Sleep             SleepFunc
	Logger            *log.Logger
}

// CatalogClient is an authenticated Spotify Web API client that absorbs rate limiting.
type CatalogClient struct {
	baseURL      string
	token        string
	httpClient   *http.Client
	maxRetries   int
	maxRetryWait time.Duration
	limiter      *rate.Limiter
	sleep        SleepFunc
	logger       *log.Logger
}

// NewCatalogClient creates a [CatalogClient] bound to the token in opts.
func NewCatalogClient(opts CatalogOpts) *CatalogClient {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	maxRetryWait := opts.MaxRetryWait
	if maxRetryWait <= 0 {
		maxRetryWait = DefaultMaxRetryWait
	}
	rps := opts.RequestsPerSecond
	if rps == 0 {
		rps = DefaultRequestsPerSecond
	}
	limit := rate.Limit(rps)
	if rps < 0 {
		limit = rate.Inf
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &CatalogClient{
		baseURL:      baseURL,
		token:        strings.TrimSpace(opts.Token),
		httpClient:   httpClient,
		maxRetries:   maxRetries,
		maxRetryWait: maxRetryWait,
		limiter:      rate.NewLimiter(limit, 1),
		sleep:        sleep,
		logger:       logger,
	}
}

// Request performs an authenticated call and returns the raw response body.
//
// body is marshalled to JSON when non-nil. An empty 2xx body is returned as "{}".
func (c *CatalogClient) Request(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	return c.RequestWithHeaders(ctx, method, path, body, nil)
}

// RequestWithHeaders is [CatalogClient.Request] with extra headers.
//
// Caller headers never replace Authorization or Content-Type.
func (c *CatalogClient) RequestWithHeaders(ctx context.Context, method, path string, body any, headers http.Header) (json.RawMessage, error) {
	if c.token == "" {
		return nil, shared.ErrNotAuthenticated
	}

	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = b
	}

	op := method + " " + path
	url := c.baseURL + path

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", shared.ErrAPIRequest, op, err)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		for key, values := range headers {
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", shared.ErrAPIRequest, op, err)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("%w: %s: failed to read response: %v", shared.ErrAPIRequest, op, readErr)
		}

		if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			if len(bytes.TrimSpace(respBody)) == 0 {
				return json.RawMessage("{}"), nil
			}
			return json.RawMessage(respBody), nil
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return nil, newCatalogAPIError(op, resp, respBody)
		}

		if attempt >= c.maxRetries {
			return nil, fmt.Errorf("%w: %s after %d retries", shared.ErrRateLimitExceeded, op, attempt)
		}

		delay := c.retryDelay(resp.Header.Get("Retry-After"))
		c.logger.Warn("rate limited", "op", op, "retry_in", delay, "attempt", attempt+1)
		if err := c.sleep(ctx, delay); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", shared.ErrAPIRequest, op, err)
		}
	}
}

func (c *CatalogClient) retryDelay(header string) time.Duration {
	delay := parseRetryAfterSeconds(header)
	if delay > c.maxRetryWait {
		return c.maxRetryWait
	}
	return delay
}

// maxRetryAfter bounds parsed Retry-After values so the conversion to [time.Duration] cannot overflow.
const maxRetryAfter = time.Duration(math.MaxInt64)

// parseRetryAfterSeconds reads a delta-seconds Retry-After value, falling back to [DefaultRetryAfter].
func parseRetryAfterSeconds(header string) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return DefaultRetryAfter
	}
	seconds, err := strconv.ParseInt(header, 10, 64)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(header, "-") {
		return maxRetryAfter
	}
	if err != nil || seconds < 0 {
		return DefaultRetryAfter
	}
	if seconds > int64(maxRetryAfter/time.Second) {
		return maxRetryAfter
	}
	return time.Duration(seconds) * time.Second
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// decode validates raw against the named schema and unmarshals it into v.
func decode(op string, s schemaName, raw json.RawMessage, v any) error {
	if err := validate(s, raw); err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrMalformedResponse, op, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrMalformedResponse, op, err)
	}
	return nil
}
