package proxy_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-dashboard/internal/domain"
	"github.com/couchcryptid/weather-dashboard/internal/observability"
	"github.com/couchcryptid/weather-dashboard/internal/proxy"
)

// --- mocks ---

type mockSource struct {
	mu      sync.Mutex
	cities  []string
	payload domain.Payload
	err     error
	open    bool
}

func (m *mockSource) CurrentWeather(_ context.Context, city string) (domain.Payload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cities = append(m.cities, city)
	if m.err != nil {
		return domain.Payload{}, m.err
	}
	return m.payload, nil
}

func (m *mockSource) BreakerOpen() bool { return m.open }

type mockPublisher struct {
	published []domain.Reading
	err       error
}

func (m *mockPublisher) Publish(_ context.Context, r domain.Reading) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, r)
	return nil
}

func londonPayload() domain.Payload {
	return domain.Payload{
		Body:    []byte(`{"name":"London","sys":{"country":"GB"},"cod":200}`),
		Reading: domain.Reading{Location: domain.Location{Name: "London", CountryCode: "GB"}},
	}
}

func newTestProxy(src domain.WeatherSource, pub proxy.Publisher, logs *bytes.Buffer) *proxy.Proxy {
	logger := slog.New(slog.NewJSONHandler(logs, nil))
	return proxy.New(src, pub, "London", logger, observability.NewMetricsForTesting())
}

// --- tests ---

func TestResolveCity(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Paris", "Paris"},
		{"  New York  ", "New York"},
		{"", "London"},
		{" \t\n", "London"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, proxy.ResolveCity(tt.in, "London"))
		})
	}
}

func TestProxy_Current_Success(t *testing.T) {
	src := &mockSource{payload: londonPayload()}
	pub := &mockPublisher{}
	var logs bytes.Buffer
	p := newTestProxy(src, pub, &logs)

	got, err := p.Current(context.Background(), "London")
	require.NoError(t, err)

	assert.Equal(t, londonPayload(), got)
	assert.Equal(t, []string{"London"}, src.cities)
	require.Len(t, pub.published, 1)
	assert.Equal(t, "London", pub.published[0].Location.Name)
}

func TestProxy_Current_DefaultsBlankCity(t *testing.T) {
	src := &mockSource{payload: londonPayload()}
	var logs bytes.Buffer
	p := newTestProxy(src, nil, &logs)

	_, err := p.Current(context.Background(), "   ")
	require.NoError(t, err)
	_, err = p.Current(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"London", "London"}, src.cities)
	assert.Equal(t, "London", p.DefaultCity())
}

func TestProxy_Current_TrimsCity(t *testing.T) {
	src := &mockSource{payload: londonPayload()}
	var logs bytes.Buffer
	p := newTestProxy(src, nil, &logs)

	_, err := p.Current(context.Background(), "  Tokyo ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Tokyo"}, src.cities)
}

func TestProxy_Current_FailureIsLogged(t *testing.T) {
	src := &mockSource{err: errors.Join(domain.ErrUpstreamUnavailable, errors.New("openweather status 404"))}
	pub := &mockPublisher{}
	var logs bytes.Buffer
	p := newTestProxy(src, pub, &logs)

	_, err := p.Current(context.Background(), "Atlantis")
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)

	assert.Contains(t, logs.String(), "weather fetch failed")
	assert.Contains(t, logs.String(), "Atlantis")
	assert.Contains(t, logs.String(), "status 404")
	assert.Empty(t, pub.published, "failures must not be published")
}

func TestProxy_Current_CredentialFailureLoggedDistinctly(t *testing.T) {
	src := &mockSource{err: errors.Join(domain.ErrUpstreamUnavailable, domain.ErrMisconfiguredCredential)}
	var logs bytes.Buffer
	p := newTestProxy(src, nil, &logs)

	_, err := p.Current(context.Background(), "London")
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Contains(t, logs.String(), "upstream rejected credential")
}

func TestProxy_Current_WrapsUnclassifiedErrors(t *testing.T) {
	src := &mockSource{err: context.DeadlineExceeded}
	var logs bytes.Buffer
	p := newTestProxy(src, nil, &logs)

	_, err := p.Current(context.Background(), "London")
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProxy_Current_PublishFailureDoesNotFailRequest(t *testing.T) {
	src := &mockSource{payload: londonPayload()}
	pub := &mockPublisher{err: errors.New("broker down")}
	var logs bytes.Buffer
	p := newTestProxy(src, pub, &logs)

	got, err := p.Current(context.Background(), "London")
	require.NoError(t, err)
	assert.Equal(t, "London", got.Reading.Location.Name)
	assert.Contains(t, logs.String(), "publish reading failed")
}

func TestProxy_CheckReadiness(t *testing.T) {
	src := &mockSource{}
	var logs bytes.Buffer
	p := newTestProxy(src, nil, &logs)

	require.NoError(t, p.CheckReadiness(context.Background()))

	src.open = true
	require.Error(t, p.CheckReadiness(context.Background()))
}
