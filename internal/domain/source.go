package domain

import (
	"context"
	"encoding/json"
)

// Payload is one successful upstream answer: the provider body exactly as
// received, plus its normalized form.
type Payload struct {
	Body    json.RawMessage
	Reading Reading
}

// WeatherSource fetches current weather for a city.
type WeatherSource interface {
	// CurrentWeather returns the provider payload for city. Failures wrap
	// ErrUpstreamUnavailable.
	CurrentWeather(ctx context.Context, city string) (Payload, error)
}
