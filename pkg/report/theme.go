package report

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ccong2/austin-open-data/pkg/errors"
)

// Theme holds every styling and formatting knob the renderers use.
// Zero-value fields in a loaded theme file fall back to the defaults, so a
// theme file only needs to name what it changes.
type Theme struct {
	// PercentDecimals is the number of decimal places for percentage
	// values in tables and charts.
	PercentDecimals int `toml:"percent_decimals"`

	// ChartWidth and ChartHeight are the SVG viewport dimensions.
	ChartWidth  float64 `toml:"chart_width"`
	ChartHeight float64 `toml:"chart_height"`

	// Chart colors (any SVG color value).
	SupplyColor   string `toml:"supply_color"`
	DownloadColor string `toml:"download_color"`
	PageviewColor string `toml:"pageview_color"`
	TextColor     string `toml:"text_color"`
	MutedColor    string `toml:"muted_color"`

	// BarGap is the vertical spacing between chart bars in pixels.
	BarGap float64 `toml:"bar_gap"`
}

// DefaultTheme returns the built-in styling defaults.
func DefaultTheme() Theme {
	return Theme{
		PercentDecimals: 2,
		ChartWidth:      800,
		ChartHeight:     600,
		SupplyColor:     "#4c78a8",
		DownloadColor:   "#f58518",
		PageviewColor:   "#54a24b",
		TextColor:       "#333333",
		MutedColor:      "#999999",
		BarGap:          8,
	}
}

// LoadTheme reads a TOML theme file and merges it over the defaults.
// An empty path returns the defaults unchanged.
func LoadTheme(path string) (Theme, error) {
	theme := DefaultTheme()
	if path == "" {
		return theme, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return theme, errors.New(errors.ErrCodeFileNotFound, "theme file not found: %s", path)
		}
		return theme, err
	}

	var overlay Theme
	if err := toml.Unmarshal(data, &overlay); err != nil {
		return theme, errors.Wrap(errors.ErrCodeInvalidTheme, err, "parse theme %s", path)
	}
	theme.merge(overlay)
	return theme, nil
}

func (t *Theme) merge(o Theme) {
	if o.PercentDecimals > 0 {
		t.PercentDecimals = o.PercentDecimals
	}
	if o.ChartWidth > 0 {
		t.ChartWidth = o.ChartWidth
	}
	if o.ChartHeight > 0 {
		t.ChartHeight = o.ChartHeight
	}
	if o.SupplyColor != "" {
		t.SupplyColor = o.SupplyColor
	}
	if o.DownloadColor != "" {
		t.DownloadColor = o.DownloadColor
	}
	if o.PageviewColor != "" {
		t.PageviewColor = o.PageviewColor
	}
	if o.TextColor != "" {
		t.TextColor = o.TextColor
	}
	if o.MutedColor != "" {
		t.MutedColor = o.MutedColor
	}
	if o.BarGap > 0 {
		t.BarGap = o.BarGap
	}
}
