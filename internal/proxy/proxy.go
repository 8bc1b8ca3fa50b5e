package proxy

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/couchcryptid/weather-dashboard/internal/domain"
	"github.com/couchcryptid/weather-dashboard/internal/observability"
)

// Publisher receives every reading the proxy serves successfully.
type Publisher interface {
	Publish(ctx context.Context, reading domain.Reading) error
}

// breakerState is implemented by sources that can refuse calls while an
// upstream circuit breaker is open.
type breakerState interface {
	BreakerOpen() bool
}

// Proxy resolves a city query against the upstream weather source.
type Proxy struct {
	source      domain.WeatherSource
	publisher   Publisher
	defaultCity string
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// New creates a Proxy. publisher may be nil when reading events are disabled.
func New(source domain.WeatherSource, publisher Publisher, defaultCity string, logger *slog.Logger, metrics *observability.Metrics) *Proxy {
	return &Proxy{
		source:      source,
		publisher:   publisher,
		defaultCity: defaultCity,
		logger:      logger,
		metrics:     metrics,
	}
}

// ResolveCity trims city and falls back to def when nothing is left.
func ResolveCity(city, def string) string {
	if c := strings.TrimSpace(city); c != "" {
		return c
	}
	return def
}

// DefaultCity is the city queried when a request names none.
func (p *Proxy) DefaultCity() string {
	return p.defaultCity
}

// Current returns the upstream payload for city. All failures wrap
// domain.ErrUpstreamUnavailable and are logged here with their cause; callers
// should surface only the generic failure.
func (p *Proxy) Current(ctx context.Context, city string) (domain.Payload, error) {
	city = ResolveCity(city, p.defaultCity)

	payload, err := p.source.CurrentWeather(ctx, city)
	if err != nil {
		if errors.Is(err, domain.ErrMisconfiguredCredential) {
			p.logger.Error("upstream rejected credential", "city", city, "error", err)
		} else {
			p.logger.Error("weather fetch failed", "city", city, "error", err)
		}
		if !errors.Is(err, domain.ErrUpstreamUnavailable) {
			err = errors.Join(domain.ErrUpstreamUnavailable, err)
		}
		return domain.Payload{}, err
	}

	p.publish(ctx, payload.Reading)
	return payload, nil
}

func (p *Proxy) publish(ctx context.Context, reading domain.Reading) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, reading); err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Warn("publish reading failed", "city", reading.Location.Name, "error", err)
		return
	}
	p.metrics.ReadingsPublished.Inc()
}

// CheckReadiness returns an error while the upstream breaker is open.
func (p *Proxy) CheckReadiness(_ context.Context) error {
	if b, ok := p.source.(breakerState); ok && b.BreakerOpen() {
		return errors.New("upstream circuit breaker is open")
	}
	return nil
}
