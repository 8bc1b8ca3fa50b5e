// Package domain models OpenWeatherMap current-weather readings and the pure
// rules that turn them into display values.
//
// # Data Source
//
// Readings come from the OpenWeatherMap "current weather" endpoint
// (https://api.openweathermap.org/data/2.5/weather), queried by city name.
// The proxy forwards the provider's JSON verbatim; [ParsePayload] maps the
// same bytes into a [Reading] for anything that needs typed access.
//
// # Provider Conventions
//
// Units:
//
//	No "units" parameter is sent, so the provider answers in its standard
//	units: Kelvin for every temperature, meters per second for wind speed,
//	hPa for pressure, percent for humidity and cloud coverage, millimeters
//	for precipitation.
//
// Time:
//
//	"dt", "sys.sunrise" and "sys.sunset" are UTC epoch seconds. "timezone" is
//	the location's shift from UTC in seconds. A location's wall clock is the
//	UTC rendering of epoch+timezone, see [LocalTime].
//
// Conditions:
//
//	"weather" is a list; only the first entry is used. Its "icon" is a
//	three-character code: two digits for the condition group and a "d"/"n"
//	suffix for day or night, e.g. "10n" = rain at night. See [IconFor].
//
// Precipitation:
//
//	"rain" is omitted entirely when there was no rain, and "rain.1h" may be
//	missing even when "rain" is present (only "3h" reported). Both cases
//	yield a nil [Reading.Precipitation], displayed as zero.
//
// # Display Rules
//
// Temperatures are kept in Kelvin on the Reading and converted only when
// rendered ([Celsius]), so re-rendering never converts twice. Wind direction
// is bucketed into eight compass points by nearest 45° sector ([Compass]).
package domain
