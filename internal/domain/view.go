package domain

import "fmt"

// Display holds every value rendered for a reading. It is derived on demand
// from a Reading and never stored.
type Display struct {
	Place        string `json:"place"`
	ObservedDate string `json:"observed_date"`
	Description  string `json:"description"`
	Icon         Icon   `json:"icon"`

	TemperatureC string `json:"temperature_c"`
	FeelsLikeC   string `json:"feels_like_c"`
	MinC         string `json:"min_c"`
	MaxC         string `json:"max_c"`

	WindSpeed     string `json:"wind_speed"`
	WindDirection string `json:"wind_direction"`
	Humidity      string `json:"humidity"`
	Clouds        string `json:"clouds"`

	Precipitation         string  `json:"precipitation"`
	PrecipitationProgress float64 `json:"precipitation_progress"`

	Sunrise  string `json:"sunrise"`
	Sunset   string `json:"sunset"`
	Pressure string `json:"pressure"`
}

// NewDisplay derives the display values for r.
func NewDisplay(r Reading) Display {
	return Display{
		Place:        FormatPlace(r.Location),
		ObservedDate: FormatObservedDate(r.ObservedAt, r.UTCOffset),
		Description:  FormatDescription(r.Condition.Description),
		Icon:         IconFor(r.Condition.IconCode),

		TemperatureC: FormatCelsius(r.Temperature.CurrentK),
		FeelsLikeC:   FormatCelsius(r.Temperature.FeelsLikeK),
		MinC:         FormatCelsius(r.Temperature.MinK),
		MaxC:         FormatCelsius(r.Temperature.MaxK),

		WindSpeed:     fmt.Sprintf("%.1f m/s", r.Wind.SpeedMS),
		WindDirection: fmt.Sprintf("%s (%d°)", Compass(float64(r.Wind.DirectionDeg)), r.Wind.DirectionDeg),
		Humidity:      fmt.Sprintf("%d%%", r.Temperature.HumidityPercent),
		Clouds:        fmt.Sprintf("%d%%", r.Clouds.CoveragePercent),

		Precipitation:         FormatPrecipitation(r.Precipitation),
		PrecipitationProgress: PrecipitationProgress(r.Precipitation),

		Sunrise:  LocalTime(r.Sun.Sunrise, r.UTCOffset),
		Sunset:   LocalTime(r.Sun.Sunset, r.UTCOffset),
		Pressure: fmt.Sprintf("%d hPa", r.Temperature.PressureHPa),
	}
}
