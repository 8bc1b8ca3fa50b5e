package presenter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/weather-dashboard/internal/domain"
)

// FallbackErrorMessage is shown when the proxy fails without saying why.
const FallbackErrorMessage = "Please enter a valid city name"

// UnavailableMessage is shown when the proxy cannot be reached or answers
// with something that is not a weather payload.
const UnavailableMessage = "Failed to fetch weather data"

const maxResponseBytes = 1 << 20

// ResponseError is a failed proxy call. Message is the text to show the
// user; Err, when set, is the underlying cause and only goes to logs.
// Status is 0 when no response arrived.
type ResponseError struct {
	Status  int
	Message string
	Err     error
}

func (e *ResponseError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ResponseError) Unwrap() error { return e.Err }

// ProxyClient calls a running weather proxy over HTTP.
type ProxyClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewProxyClient creates a client for the proxy at baseURL.
func NewProxyClient(baseURL string, timeout time.Duration) *ProxyClient {
	return &ProxyClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Current fetches the provider payload for city through the proxy and
// normalizes it.
func (c *ProxyClient) Current(ctx context.Context, city string) (domain.Reading, error) {
	u := c.baseURL + "/api/weather?" + url.Values{"city": {city}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Reading{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Reading{}, &ResponseError{Message: UnavailableMessage, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return domain.Reading{}, &ResponseError{Status: resp.StatusCode, Message: UnavailableMessage, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Reading{}, &ResponseError{Status: resp.StatusCode, Message: errorMessage(body)}
	}

	reading, err := domain.ParsePayload(body)
	if err != nil {
		return domain.Reading{}, &ResponseError{Status: resp.StatusCode, Message: UnavailableMessage, Err: err}
	}
	return reading, nil
}

func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == "" {
		return FallbackErrorMessage
	}
	return payload.Error
}
