package ai

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
)

const analysisSampleSize = 20

var datePattern = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}$|^\d{4}-\d{2}-\d{2}$`)

func isNumeric(cell string) bool {
	v := strings.TrimSpace(cell)
	if v == "" {
		return false
	}
	n, err := strconv.ParseFloat(v, 64)
	return err == nil && !math.IsNaN(n)
}

func hasNumericCell(data *models.TableData) bool {
	for _, row := range data.Rows {
		for _, cell := range row {
			if isNumeric(cell) {
				return true
			}
		}
	}
	return false
}

func ptr[T any](v T) *T { return &v }

// FallbackSuggestions returns the fixed suggestion set, tuned by whether the
// table holds numbers and how many rows it has.
func FallbackSuggestions(data *models.TableData) []models.StyleSuggestion {
	numeric := hasNumericCell(data)
	alignNumbers := func(otherwise models.TextAlignment) *models.TextAlignment {
		if numeric {
			return ptr(models.AlignRight)
		}
		return ptr(otherwise)
	}
	dashboardReason := "Clean layout for data visualization"
	if numeric {
		dashboardReason = "Right-aligned for easy number comparison"
	}

	return []models.StyleSuggestion{
		{
			Name:        "Professional Report",
			Description: "Clean, business-ready styling with subtle borders and professional typography",
			Reasoning:   "Ideal for business reports and presentations with clear data hierarchy",
			Category:    models.CategoryProfessional,
			Styles: models.PartialStyles{
				FontFamily:      ptr("Inter"),
				FontSize:        ptr(14),
				TextColor:       ptr("#1F2937"),
				BackgroundColor: ptr("#FFFFFF"),
				HeaderColor:     ptr("#F8FAFC"),
				BorderColor:     ptr("#E2E8F0"),
				BorderStyle:     ptr(models.BorderSolid),
				BorderWidth:     ptr(1),
				CellPadding:     ptr(12),
				TextAlignment:   alignNumbers(models.AlignLeft),
				StripedRows:     ptr(len(data.Rows) > 5),
				HoverEffects:    ptr(true),
				HeaderStyling:   ptr(true),
				RoundedCorners:  ptr(false),
			},
		},
		{
			Name:        "Modern Minimal",
			Description: "Clean design with no borders and ample spacing for a contemporary look",
			Reasoning:   "Perfect for modern dashboards and clean data presentations",
			Category:    models.CategoryCasual,
			Styles: models.PartialStyles{
				FontFamily:      ptr("Inter"),
				FontSize:        ptr(15),
				TextColor:       ptr("#374151"),
				BackgroundColor: ptr("#FFFFFF"),
				HeaderColor:     ptr("#F9FAFB"),
				BorderColor:     ptr("#FFFFFF"),
				BorderStyle:     ptr(models.BorderNone),
				BorderWidth:     ptr(0),
				CellPadding:     ptr(16),
				TextAlignment:   ptr(models.AlignLeft),
				StripedRows:     ptr(false),
				HoverEffects:    ptr(true),
				HeaderStyling:   ptr(true),
				RoundedCorners:  ptr(true),
			},
		},
		{
			Name:        "Data Dashboard",
			Description: "Optimized for numerical data with right alignment and clear visual separation",
			Reasoning:   dashboardReason,
			Category:    models.CategoryTechnical,
			Styles: models.PartialStyles{
				FontFamily:      ptr("Inter"),
				FontSize:        ptr(13),
				TextColor:       ptr("#111827"),
				BackgroundColor: ptr("#FFFFFF"),
				HeaderColor:     ptr("#EFF6FF"),
				BorderColor:     ptr("#D1D5DB"),
				BorderStyle:     ptr(models.BorderSolid),
				BorderWidth:     ptr(1),
				CellPadding:     ptr(10),
				TextAlignment:   alignNumbers(models.AlignCenter),
				StripedRows:     ptr(true),
				HoverEffects:    ptr(true),
				HeaderStyling:   ptr(true),
				RoundedCorners:  ptr(false),
			},
		},
		{
			Name:        "Creative Accent",
			Description: "Vibrant styling with colored headers and rounded corners for visual appeal",
			Reasoning:   "Eye-catching design for presentations and creative content",
			Category:    models.CategoryCreative,
			Styles: models.PartialStyles{
				FontFamily:      ptr("Inter"),
				FontSize:        ptr(14),
				TextColor:       ptr("#1F2937"),
				BackgroundColor: ptr("#FFFFFF"),
				HeaderColor:     ptr("#EBF4FF"),
				BorderColor:     ptr("#3B82F6"),
				BorderStyle:     ptr(models.BorderSolid),
				BorderWidth:     ptr(2),
				CellPadding:     ptr(14),
				TextAlignment:   ptr(models.AlignLeft),
				StripedRows:     ptr(false),
				HoverEffects:    ptr(true),
				HeaderStyling:   ptr(true),
				RoundedCorners:  ptr(true),
			},
		},
	}
}

// FallbackAnalysis classifies a sample of cells and derives the table's
// purpose from header keywords.
func FallbackAnalysis(data *models.TableData) models.TableAnalysis {
	var numbers, dates, percentages, text bool

	sampled := 0
sample:
	for _, row := range data.Rows {
		for _, cell := range row {
			if sampled == analysisSampleSize {
				break sample
			}
			sampled++

			v := strings.TrimSpace(cell)
			switch {
			case v == "":
			case isNumeric(v):
				numbers = true
			case strings.Contains(v, "%"):
				percentages = true
			case datePattern.MatchString(v):
				dates = true
			default:
				text = true
			}
		}
	}

	dataTypes := []string{}
	if numbers {
		dataTypes = append(dataTypes, "numeric")
	}
	if text {
		dataTypes = append(dataTypes, "text")
	}
	if dates {
		dataTypes = append(dataTypes, "date")
	}
	if percentages {
		dataTypes = append(dataTypes, "percentage")
	}

	purpose := "Data table"
	switch {
	case headerMentions(data.Headers, "sales", "revenue", "profit"):
		purpose = "Financial/sales data table"
	case headerMentions(data.Headers, "user", "customer", "member"):
		purpose = "User/customer data table"
	case headerMentions(data.Headers, "product", "item", "inventory"):
		purpose = "Product/inventory table"
	case numbers && percentages:
		purpose = "Performance metrics table"
	}

	var recs []string
	if numbers {
		recs = append(recs, "Right-align numeric columns for better readability")
	}
	if len(data.Rows) > 5 {
		recs = append(recs, "Consider alternating row colors for easier scanning")
	}
	if numbers || percentages {
		recs = append(recs, "Use professional styling for data-focused presentation")
	}
	recs = append(recs, "Ensure adequate padding for comfortable reading")

	return models.TableAnalysis{
		DataTypes:       dataTypes,
		Purpose:         purpose,
		Recommendations: recs,
	}
}

func headerMentions(headers []string, keywords ...string) bool {
	for _, h := range headers {
		h = strings.ToLower(h)
		for _, k := range keywords {
			if strings.Contains(h, k) {
				return true
			}
		}
	}
	return false
}
