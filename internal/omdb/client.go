package omdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// ErrNotFound is returned when OMDb answers Response "False".
var ErrNotFound = errors.New("omdb: title not found")

// Title models the subset of the OMDb title payload used by enrichment.
// Fields the service omits decode as empty strings.
type Title struct {
	Title    string `json:"Title"`
	Year     string `json:"Year"`
	Genre    string `json:"Genre"`
	Type     string `json:"Type"`
	IMDbID   string `json:"imdbID"`
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

// StatusError reports a non-200 HTTP response.
type StatusError struct {
	StatusCode int
	Latency    time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("omdb lookup returned %d (latency=%v)", e.StatusCode, e.Latency)
}

// Temporary reports whether a retry may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Lookuper defines the OMDb operations used by enrichment.
type Lookuper interface {
	Lookup(ctx context.Context, title string) (*Title, error)
}

// Client provides access to the OMDb API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	maxBackoff time.Duration
	breaker    *gobreaker.CircuitBreaker[*Title]
	tripAfter  uint32
}

var _ Lookuper = (*Client)(nil)

const (
	defaultTimeout    = 10 * time.Second
	defaultBackoff    = 250 * time.Millisecond
	defaultMaxBackoff = 4 * time.Second
	defaultTripAfter  = 5
	breakerCooldown   = 30 * time.Second
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero disables limiting.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithRetries sets how many times a transient failure is retried and the
// initial backoff between attempts.
func WithRetries(maxRetries int, backoff time.Duration) Option {
	return func(c *Client) {
		if maxRetries >= 0 {
			c.maxRetries = maxRetries
		}
		if backoff > 0 {
			c.backoff = backoff
		}
	}
}

// WithBreakerThreshold sets the consecutive failures that open the circuit.
// Zero disables the breaker.
func WithBreakerThreshold(failures uint32) Option {
	return func(c *Client) {
		c.tripAfter = failures
	}
}

// New creates an OMDb client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("omdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("omdb base url required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse omdb base url: %w", err)
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		backoff:    defaultBackoff,
		maxBackoff: defaultMaxBackoff,
		tripAfter:  defaultTripAfter,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.tripAfter > 0 {
		client.breaker = newBreaker(client.tripAfter)
	}
	return client, nil
}

func newBreaker(tripAfter uint32) *gobreaker.CircuitBreaker[*Title] {
	return gobreaker.NewCircuitBreaker[*Title](gobreaker.Settings{
		Name:        "omdb",
		MaxRequests: 1,
		Timeout:     breakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= tripAfter
		},
		// A missing title or a cancelled run says nothing about service health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, context.Canceled)
		},
	})
}

// Lookup fetches metadata for the supplied title.
func (c *Client) Lookup(ctx context.Context, title string) (*Title, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("title must not be empty")
	}
	if c.breaker == nil {
		return c.lookupWithRetry(ctx, title)
	}
	return c.breaker.Execute(func() (*Title, error) {
		return c.lookupWithRetry(ctx, title)
	})
}

func (c *Client) lookupWithRetry(ctx context.Context, title string) (*Title, error) {
	delay := c.backoff
	for attempt := 0; ; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("wait for rate limiter: %w", err)
			}
		}
		payload, err := c.lookupOnce(ctx, title)
		if err == nil || attempt >= c.maxRetries || !retryable(ctx, err) {
			return payload, err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		delay *= 2
		if delay > c.maxBackoff {
			delay = c.maxBackoff
		}
	}
}

func (c *Client) lookupOnce(ctx context.Context, title string) (*Title, error) {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse omdb url: %w", err)
	}
	params := endpoint.Query()
	params.Set("apikey", c.apiKey)
	params.Set("t", title)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Latency: latency}
	}

	var payload Title
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode omdb response: %w", err)
	}
	if strings.EqualFold(payload.Response, "False") {
		if payload.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, payload.Error)
		}
		return nil, ErrNotFound
	}
	return &payload, nil
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, ErrNotFound) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
