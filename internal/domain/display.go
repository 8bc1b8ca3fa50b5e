package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// kelvinOffset is 0 °C expressed in Kelvin.
const kelvinOffset = 273.15

var compassPoints = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Celsius converts Kelvin to Celsius rounded to one decimal place.
func Celsius(kelvin float64) float64 {
	c := math.Round((kelvin-kelvinOffset)*10) / 10
	if c == 0 {
		return 0 // normalize -0
	}
	return c
}

// FormatCelsius renders a Kelvin value as Celsius with one decimal, e.g. "12.3".
func FormatCelsius(kelvin float64) string {
	return fmt.Sprintf("%.1f", Celsius(kelvin))
}

// LocalTime renders the wall clock at a location as zero-padded 24h "HH:MM".
// offset is the location's shift from UTC in seconds.
func LocalTime(epoch, offset int64) string {
	return time.Unix(epoch+offset, 0).UTC().Format("15:04")
}

// FormatObservedDate renders the observation date at the location, e.g.
// "Monday, January 2, 2006".
func FormatObservedDate(epoch, offset int64) string {
	return time.Unix(epoch+offset, 0).UTC().Format("Monday, January 2, 2006")
}

// Compass buckets a wind direction into one of eight points by nearest 45°
// sector. Halfway values round up; any angle wraps into [0, 360).
func Compass(degrees float64) string {
	idx := int(math.Floor(degrees/45+0.5)) % 8
	if idx < 0 {
		idx += 8
	}
	return compassPoints[idx]
}

// PrecipitationMM returns the last-hour rainfall, or 0 when absent.
func PrecipitationMM(p *Precipitation) float64 {
	if p == nil {
		return 0
	}
	return p.LastHourMM
}

// FormatPrecipitation renders last-hour rainfall as "1.2 mm", or "0 mm" when
// nothing fell or the provider omitted it.
func FormatPrecipitation(p *Precipitation) string {
	mm := PrecipitationMM(p)
	if mm <= 0 {
		return "0 mm"
	}
	return fmt.Sprintf("%.1f mm", mm)
}

// PrecipitationProgress scales rainfall onto a 0–100 gauge: 10 mm fills it.
func PrecipitationProgress(p *Precipitation) float64 {
	mm := PrecipitationMM(p)
	if mm <= 0 {
		return 0
	}
	return min(mm*10, 100)
}

// FormatDescription upper-cases the first letter of a provider description.
func FormatDescription(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// FormatPlace renders "Name, CC", dropping the separator when either part is missing.
func FormatPlace(loc Location) string {
	parts := make([]string, 0, 2)
	if loc.Name != "" {
		parts = append(parts, loc.Name)
	}
	if loc.CountryCode != "" {
		parts = append(parts, loc.CountryCode)
	}
	return strings.Join(parts, ", ")
}
