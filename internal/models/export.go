package models

// ExportQuality selects the target DPI of raster exports.
type ExportQuality string

const (
	QualityHigh   ExportQuality = "high"
	QualityMedium ExportQuality = "medium"
	QualityLow    ExportQuality = "low"
)

// ExportBackground controls how the raster canvas is filled.
type ExportBackground string

const (
	BackgroundTransparent ExportBackground = "transparent"
	BackgroundWhite       ExportBackground = "white"
	BackgroundCustom      ExportBackground = "custom"
)

// ExportSettings are the user-selected raster export options.
type ExportSettings struct {
	Quality          ExportQuality    `json:"quality"`
	Background       ExportBackground `json:"background"`
	CustomBackground string           `json:"customBackground,omitempty"`
	// Expanded selects the larger DPI targets used by the expanded export view.
	Expanded bool `json:"expanded,omitempty"`
}

// DefaultExportSettings mirrors the export panel defaults.
func DefaultExportSettings() ExportSettings {
	return ExportSettings{Quality: QualityHigh, Background: BackgroundWhite}
}
