package domain

import (
	"encoding/json"
	"fmt"
)

// ProviderPayload is the OpenWeatherMap current-weather JSON shape. Optional
// provider fields are pointers so "absent" stays distinguishable from zero.
type ProviderPayload struct {
	Coord struct {
		Lon float64 `json:"lon"`
		Lat float64 `json:"lat"`
	} `json:"coord"`
	Weather []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Base string `json:"base"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  int     `json:"pressure"`
		Humidity  int     `json:"humidity"`
		SeaLevel  *int    `json:"sea_level,omitempty"`
		GrndLevel *int    `json:"grnd_level,omitempty"`
	} `json:"main"`
	Visibility int `json:"visibility"`
	Wind       struct {
		Speed float64  `json:"speed"`
		Deg   int      `json:"deg"`
		Gust  *float64 `json:"gust,omitempty"`
	} `json:"wind"`
	Rain   *Volume `json:"rain,omitempty"`
	Snow   *Volume `json:"snow,omitempty"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
	Dt  int64 `json:"dt"`
	Sys struct {
		Type    *int   `json:"type,omitempty"`
		ID      *int   `json:"id,omitempty"`
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Timezone int64  `json:"timezone"`
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Cod      any    `json:"cod"` // int on success, sometimes a string on errors
}

// Volume is a precipitation block keyed by accumulation window.
type Volume struct {
	OneHour   *float64 `json:"1h,omitempty"`
	ThreeHour *float64 `json:"3h,omitempty"`
}

// ParsePayload decodes a provider response body into a Reading.
func ParsePayload(body []byte) (Reading, error) {
	var p ProviderPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return Reading{}, fmt.Errorf("parse provider payload: %w", err)
	}
	return p.Reading(), nil
}

// Reading maps the provider payload into the normalized Reading. Only the
// first weather condition is kept.
func (p ProviderPayload) Reading() Reading {
	r := Reading{
		Location: Location{
			Name:        p.Name,
			CountryCode: p.Sys.Country,
			Longitude:   p.Coord.Lon,
			Latitude:    p.Coord.Lat,
		},
		ObservedAt: p.Dt,
		UTCOffset:  p.Timezone,
		Temperature: Temperature{
			CurrentK:        p.Main.Temp,
			FeelsLikeK:      p.Main.FeelsLike,
			MinK:            p.Main.TempMin,
			MaxK:            p.Main.TempMax,
			PressureHPa:     p.Main.Pressure,
			HumidityPercent: p.Main.Humidity,
		},
		Wind: Wind{
			SpeedMS:      p.Wind.Speed,
			DirectionDeg: p.Wind.Deg,
		},
		Clouds: Clouds{CoveragePercent: p.Clouds.All},
		Sun:    Sun{Sunrise: p.Sys.Sunrise, Sunset: p.Sys.Sunset},
	}

	if len(p.Weather) > 0 {
		w := p.Weather[0]
		r.Condition = Condition{
			ID:          w.ID,
			Category:    w.Main,
			Description: w.Description,
			IconCode:    w.Icon,
		}
	}

	if p.Rain != nil && p.Rain.OneHour != nil {
		r.Precipitation = &Precipitation{LastHourMM: *p.Rain.OneHour}
	}

	return r
}
