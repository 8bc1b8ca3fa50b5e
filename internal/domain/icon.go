package domain

// Glyph names a weather pictogram.
type Glyph string

const (
	GlyphSun       Glyph = "sun"
	GlyphCloud     Glyph = "cloud"
	GlyphDrizzle   Glyph = "cloud-drizzle"
	GlyphRain      Glyph = "cloud-rain"
	GlyphLightning Glyph = "cloud-lightning"
	GlyphSnow      Glyph = "cloud-snow"
	GlyphFog       Glyph = "cloud-fog"
)

// Symbol returns a single-character rendering for terminals.
func (g Glyph) Symbol() string {
	switch g {
	case GlyphSun:
		return "☀"
	case GlyphDrizzle, GlyphRain:
		return "🌧"
	case GlyphLightning:
		return "⛈"
	case GlyphSnow:
		return "❄"
	case GlyphFog:
		return "🌫"
	default:
		return "☁"
	}
}

// Icon pairs a glyph with a palette color token.
type Icon struct {
	Glyph Glyph  `json:"glyph"`
	Color string `json:"color"`
}

// DefaultIcon is used for any code missing from the table.
var DefaultIcon = Icon{Glyph: GlyphCloud, Color: "gray-400"}

var iconTable = map[string]Icon{
	"01d": {GlyphSun, "amber-400"},
	"01n": {GlyphSun, "amber-300"},

	"02d": {GlyphCloud, "gray-400"},
	"02n": {GlyphCloud, "gray-400"},
	"03d": {GlyphCloud, "gray-400"},
	"03n": {GlyphCloud, "gray-400"},
	"04d": {GlyphCloud, "gray-400"},
	"04n": {GlyphCloud, "gray-400"},

	"09d": {GlyphDrizzle, "blue-400"},
	"09n": {GlyphDrizzle, "blue-400"},

	"10d": {GlyphRain, "blue-500"},
	"10n": {GlyphRain, "blue-500"},

	"11d": {GlyphLightning, "amber-500"},
	"11n": {GlyphLightning, "amber-500"},

	"13d": {GlyphSnow, "blue-200"},
	"13n": {GlyphSnow, "blue-200"},

	"50d": {GlyphFog, "gray-300"},
	"50n": {GlyphFog, "gray-300"},
}

// IconFor maps a provider icon code to its icon. It is total: unknown codes
// get DefaultIcon.
func IconFor(code string) Icon {
	if icon, ok := iconTable[code]; ok {
		return icon
	}
	return DefaultIcon
}
