package openweather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/couchcryptid/weather-dashboard/internal/domain"
	"github.com/couchcryptid/weather-dashboard/internal/observability"
)

// maxBodyBytes bounds how much of an upstream response is read.
const maxBodyBytes = 1 << 20

// Outcome label values for observability.Metrics.UpstreamRequests.
const (
	outcomeSuccess            = "success"
	outcomeNotFound           = "not_found"
	outcomeRejectedCredential = "rejected_credential"
	outcomeStatusError        = "status_error"
	outcomeTransportError     = "transport_error"
	outcomeDecodeError        = "decode_error"
	outcomeBreakerOpen        = "breaker_open"
	outcomeCanceled           = "canceled"
)

// errCallerGone marks a request abandoned by its caller. It says nothing about
// upstream health, so the breaker counts it as a success.
var errCallerGone = errors.New("request abandoned by caller")

// Options configures a Client. Zero values fall back to the defaults noted per field.
type Options struct {
	BaseURL     string        // default DefaultBaseURL
	Timeout     time.Duration // default 10s
	Freshness   time.Duration // max-age sent upstream; default 30m
	MaxFailures uint32        // consecutive failures that open the breaker; default 5
	OpenTimeout time.Duration // how long the breaker stays open; default 1m
}

// DefaultBaseURL is the current-weather endpoint.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// Client implements domain.WeatherSource using the OpenWeatherMap current weather API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	freshness  time.Duration
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an OpenWeatherMap client guarded by a circuit breaker.
func NewClient(apiKey string, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Freshness <= 0 {
		opts.Freshness = 30 * time.Minute
	}
	if opts.MaxFailures == 0 {
		opts.MaxFailures = 5
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = time.Minute
	}

	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: opts.Timeout},
		baseURL:    opts.BaseURL,
		freshness:  opts.Freshness,
		breaker:    newBreaker(opts.MaxFailures, opts.OpenTimeout, logger, metrics),
		logger:     logger,
		metrics:    metrics,
	}
}

func newBreaker(maxFailures uint32, openTimeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 1,
		Timeout:     openTimeout,
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errCallerGone)
		},
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			if to == gobreaker.StateOpen {
				metrics.BreakerOpen.Set(1)
			} else {
				metrics.BreakerOpen.Set(0)
			}
		},
	})
}

// BreakerOpen reports whether upstream calls are currently being rejected.
func (c *Client) BreakerOpen() bool {
	return c.breaker.State() == gobreaker.StateOpen
}

// CurrentWeather fetches current conditions for city. The returned Payload
// carries the provider body byte for byte. Every failure wraps
// domain.ErrUpstreamUnavailable; a rejected key also wraps
// domain.ErrMisconfiguredCredential.
func (c *Client) CurrentWeather(ctx context.Context, city string) (domain.Payload, error) {
	params := url.Values{
		"q":     {city},
		"appid": {c.apiKey},
	}
	return c.doRequest(ctx, c.baseURL+"?"+params.Encode())
}

type upstreamResponse struct {
	status int
	body   []byte
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.Payload, error) {
	start := time.Now()

	// 4xx answers are returned as results rather than errors so a user
	// searching for unknown cities cannot open the breaker.
	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Cache-Control", "max-age="+strconv.Itoa(int(c.freshness.Seconds())))

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, callerOr(ctx, redactURL(err))
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
		if err != nil {
			return nil, callerOr(ctx, fmt.Errorf("read body: %w", err))
		}
		if len(body) > maxBodyBytes {
			return nil, fmt.Errorf("response body exceeds %d bytes", maxBodyBytes)
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("openweather status %d", resp.StatusCode)
		}
		return &upstreamResponse{status: resp.StatusCode, body: body}, nil
	})
	c.metrics.UpstreamDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, errCallerGone) {
			c.metrics.UpstreamRequests.WithLabelValues(outcomeCanceled).Inc()
			return domain.Payload{}, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.metrics.UpstreamRequests.WithLabelValues(outcomeBreakerOpen).Inc()
			return domain.Payload{}, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
		}
		c.metrics.UpstreamRequests.WithLabelValues(outcomeTransportError).Inc()
		return domain.Payload{}, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}

	resp, ok := result.(*upstreamResponse)
	if !ok {
		return domain.Payload{}, fmt.Errorf("%w: unexpected breaker result %T", domain.ErrUpstreamUnavailable, result)
	}

	switch {
	case resp.status == http.StatusUnauthorized:
		c.metrics.UpstreamRequests.WithLabelValues(outcomeRejectedCredential).Inc()
		return domain.Payload{}, fmt.Errorf("%w: %w: openweather status %d",
			domain.ErrUpstreamUnavailable, domain.ErrMisconfiguredCredential, resp.status)
	case resp.status == http.StatusNotFound:
		c.metrics.UpstreamRequests.WithLabelValues(outcomeNotFound).Inc()
		return domain.Payload{}, fmt.Errorf("%w: openweather status %d", domain.ErrUpstreamUnavailable, resp.status)
	case resp.status < 200 || resp.status >= 300:
		c.metrics.UpstreamRequests.WithLabelValues(outcomeStatusError).Inc()
		return domain.Payload{}, fmt.Errorf("%w: openweather status %d", domain.ErrUpstreamUnavailable, resp.status)
	}

	reading, err := domain.ParsePayload(resp.body)
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(outcomeDecodeError).Inc()
		return domain.Payload{}, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}

	c.metrics.UpstreamRequests.WithLabelValues(outcomeSuccess).Inc()
	c.logger.Debug("upstream weather fetched", "city", reading.Location.Name, "bytes", len(resp.body))
	return domain.Payload{Body: resp.body, Reading: reading}, nil
}

// callerOr reports err as errCallerGone when ctx ended first. Expiry of the
// client's own timeout leaves ctx alive and stays an upstream failure.
func callerOr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", errCallerGone, ctxErr)
	}
	return err
}

// redactURL strips the request URL, which carries the API key, from
// transport errors before they reach logs.
func redactURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s request: %w", uerr.Op, uerr.Err)
	}
	return err
}
