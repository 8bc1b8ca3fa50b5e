package presenter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

const progressWidth = 10

// Render writes a plain-text dashboard for s to w.
func Render(w io.Writer, s Snapshot) error {
	if s.Loading && s.Reading == nil {
		_, err := fmt.Fprintln(w, "Loading weather data...")
		return err
	}
	if s.ShowErrorPanel() {
		_, err := fmt.Fprintf(w, "Error: %s\n", s.Error)
		return err
	}

	d, ok := s.View()
	if !ok {
		_, err := fmt.Fprintln(w, "No weather data yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\n", d.Place)
	fmt.Fprintf(tw, "%s\n\n", d.ObservedDate)
	fmt.Fprintf(tw, "%s  %s°C\t%s\n", d.Icon.Glyph.Symbol(), d.TemperatureC, d.Description)
	fmt.Fprintf(tw, "Feels like\t%s°C\n", d.FeelsLikeC)
	fmt.Fprintf(tw, "Min / Max\t%s°C / %s°C\n", d.MinC, d.MaxC)
	fmt.Fprintf(tw, "Wind\t%s %s\n", d.WindSpeed, d.WindDirection)
	fmt.Fprintf(tw, "Humidity\t%s\n", d.Humidity)
	fmt.Fprintf(tw, "Clouds\t%s\n", d.Clouds)
	fmt.Fprintf(tw, "Rain (1h)\t%s %s\n", d.Precipitation, progressBar(d.PrecipitationProgress))
	fmt.Fprintf(tw, "Sunrise\t%s\n", d.Sunrise)
	fmt.Fprintf(tw, "Sunset\t%s\n", d.Sunset)
	fmt.Fprintf(tw, "Pressure\t%s\n", d.Pressure)
	if s.Loading {
		fmt.Fprintf(tw, "\nRefreshing...\n")
	}
	if s.Error != "" {
		fmt.Fprintf(tw, "\n! %s\n", s.Error)
	}
	return tw.Flush()
}

// progressBar draws percent (0..100) as a fixed-width bar.
func progressBar(percent float64) string {
	filled := int(percent / 100 * progressWidth)
	filled = max(0, min(filled, progressWidth))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", progressWidth-filled) + "]"
}
