package domain

// Location identifies where a reading was taken, as canonicalized by the provider.
type Location struct {
	Name        string  `json:"name"`
	CountryCode string  `json:"country_code"`
	Longitude   float64 `json:"longitude"`
	Latitude    float64 `json:"latitude"`
}

// Condition is the provider's primary weather condition.
type Condition struct {
	ID          int    `json:"id"`
	Category    string `json:"category"`    // e.g. "Rain"
	Description string `json:"description"` // e.g. "light rain"
	IconCode    string `json:"icon_code"`   // e.g. "10d"
}

// Temperature groups thermal and atmospheric measurements. All temperatures are Kelvin.
type Temperature struct {
	CurrentK        float64 `json:"current_k"`
	FeelsLikeK      float64 `json:"feels_like_k"`
	MinK            float64 `json:"min_k"`
	MaxK            float64 `json:"max_k"`
	PressureHPa     int     `json:"pressure_hpa"`
	HumidityPercent int     `json:"humidity_percent"`
}

// Wind holds speed in m/s and the meteorological direction it blows from.
type Wind struct {
	SpeedMS      float64 `json:"speed_ms"`
	DirectionDeg int     `json:"direction_deg"`
}

// Clouds holds sky coverage.
type Clouds struct {
	CoveragePercent int `json:"coverage_percent"`
}

// Precipitation holds rainfall over the last hour.
type Precipitation struct {
	LastHourMM float64 `json:"last_hour_mm"`
}

// Sun holds sunrise and sunset as UTC epoch seconds.
type Sun struct {
	Sunrise int64 `json:"sunrise"`
	Sunset  int64 `json:"sunset"`
}

// Reading is one normalized snapshot of current weather at a location.
// It is treated as immutable: a new query replaces it, never merges into it.
type Reading struct {
	Location      Location       `json:"location"`
	ObservedAt    int64          `json:"observed_at"` // UTC epoch seconds
	UTCOffset     int64          `json:"utc_offset"`  // seconds east of UTC
	Condition     Condition      `json:"condition"`
	Temperature   Temperature    `json:"temperature"`
	Wind          Wind           `json:"wind"`
	Clouds        Clouds         `json:"clouds"`
	Precipitation *Precipitation `json:"precipitation,omitempty"`
	Sun           Sun            `json:"sun"`
}
