package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/weather-dashboard/internal/adapter/http"
	"github.com/couchcryptid/weather-dashboard/internal/domain"
	"github.com/couchcryptid/weather-dashboard/internal/observability"
)

const londonBody = `{"coord":{"lon":-0.1257,"lat":51.5085},"weather":[{"id":500,"main":"Rain","description":"light rain","icon":"10d"}],"main":{"temp":285.32},"name":"London","sys":{"country":"GB"},"cod":200}`

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockWeather struct {
	mu     sync.Mutex
	cities []string
	err    error
}

func (m *mockWeather) Current(_ context.Context, city string) (domain.Payload, error) {
	m.mu.Lock()
	m.cities = append(m.cities, city)
	m.mu.Unlock()
	if m.err != nil {
		return domain.Payload{}, m.err
	}
	reading, err := domain.ParsePayload([]byte(londonBody))
	if err != nil {
		return domain.Payload{}, err
	}
	return domain.Payload{Body: []byte(londonBody), Reading: reading}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(weather httpadapter.WeatherService, readyErr error) *httpadapter.Server {
	return httpadapter.NewServer(":0", weather, &mockReadiness{err: readyErr}, 30*time.Minute,
		discardLogger(), observability.NewMetricsForTesting())
}

func serve(t *testing.T, srv *httpadapter.Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestWeather_ReturnsVerbatimPayload(t *testing.T) {
	weather := &mockWeather{}
	rec := serve(t, newTestServer(weather, nil), "/api/weather?city=London")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, londonBody, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=1800", rec.Header().Get("Cache-Control"))
	assert.Equal(t, []string{"London"}, weather.cities)
}

func TestWeather_PassesQueryUnchanged(t *testing.T) {
	weather := &mockWeather{}
	srv := newTestServer(weather, nil)

	serve(t, srv, "/api/weather")
	serve(t, srv, "/api/weather?city=S%C3%A3o+Paulo")

	assert.Equal(t, []string{"", "São Paulo"}, weather.cities, "defaulting happens in the proxy")
}

func TestWeather_FailureIsGeneric(t *testing.T) {
	weather := &mockWeather{err: fmt.Errorf("%w: openweather status 404: city not found", domain.ErrUpstreamUnavailable)}
	rec := serve(t, newTestServer(weather, nil), "/api/weather?city=Atlantis")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"error": "Failed to fetch weather data"}, body)
	assert.NotContains(t, rec.Body.String(), "404")
	assert.NotContains(t, rec.Body.String(), "city not found")
}

func TestWeatherReading_ReturnsNormalizedReading(t *testing.T) {
	rec := serve(t, newTestServer(&mockWeather{}, nil), "/api/weather/reading?city=London")

	assert.Equal(t, http.StatusOK, rec.Code)

	var got domain.Reading
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "London", got.Location.Name)
	assert.Equal(t, "GB", got.Location.CountryCode)
	assert.Equal(t, "10d", got.Condition.IconCode)
	assert.Equal(t, 285.32, got.Temperature.CurrentK)
}

func TestWeatherReading_FailureIsGeneric(t *testing.T) {
	rec := serve(t, newTestServer(&mockWeather{err: domain.ErrUpstreamUnavailable}, nil), "/api/weather/reading")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch weather data"}`, rec.Body.String())
}

func TestWeather_RejectsOtherMethods(t *testing.T) {
	srv := newTestServer(&mockWeather{}, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/weather", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestID_Generated(t *testing.T) {
	rec := serve(t, newTestServer(&mockWeather{}, nil), "/api/weather")

	id := rec.Header().Get(httpadapter.RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err, "generated request id should be a uuid, got %q", id)
}

func TestRequestID_Propagated(t *testing.T) {
	srv := newTestServer(&mockWeather{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(httpadapter.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(httpadapter.RequestIDHeader))
}

func TestHealthzReturns200(t *testing.T) {
	rec := serve(t, newTestServer(&mockWeather{}, nil), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := serve(t, newTestServer(&mockWeather{}, nil), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := serve(t, newTestServer(&mockWeather{}, fmt.Errorf("upstream circuit breaker is open")), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serve(t, newTestServer(&mockWeather{}, nil), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
