package export

import (
	"fmt"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
)

const (
	screenDPI = 96.0
	white     = "#FFFFFF"
)

// dpi targets per quality tier: normal, expanded.
var qualityDPI = map[models.ExportQuality][2]float64{
	models.QualityHigh:   {240, 300},
	models.QualityMedium: {150, 200},
	models.QualityLow:    {72, 120},
}

// Scale returns the device scale factor for a raster export.
func Scale(settings models.ExportSettings) float64 {
	targets, ok := qualityDPI[settings.Quality]
	if !ok {
		targets = qualityDPI[models.QualityLow]
	}
	if settings.Expanded {
		return targets[1] / screenDPI
	}
	return targets[0] / screenDPI
}

// ClipboardScale returns the fixed scale used for clipboard images.
func ClipboardScale(expanded bool) float64 {
	if expanded {
		return 3
	}
	return 2
}

// BackgroundColor returns the capture background, or "" for transparent.
func BackgroundColor(settings models.ExportSettings) string {
	switch settings.Background {
	case models.BackgroundTransparent:
		return ""
	case models.BackgroundCustom:
		if settings.CustomBackground != "" {
			return settings.CustomBackground
		}
	}
	return white
}

// ValidateSettings rejects unknown quality or background values.
func ValidateSettings(settings models.ExportSettings) error {
	if _, ok := qualityDPI[settings.Quality]; !ok {
		return fmt.Errorf("unknown export quality %q", settings.Quality)
	}
	switch settings.Background {
	case models.BackgroundTransparent, models.BackgroundWhite, models.BackgroundCustom:
	default:
		return fmt.Errorf("unknown export background %q", settings.Background)
	}
	return nil
}
