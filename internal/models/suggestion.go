package models

// SuggestionCategory tags a suggestion for client-side badge colouring.
type SuggestionCategory string

const (
	CategoryProfessional SuggestionCategory = "professional"
	CategoryCasual       SuggestionCategory = "casual"
	CategoryTechnical    SuggestionCategory = "technical"
	CategoryCreative     SuggestionCategory = "creative"
)

// StyleSuggestion is a transient AI or heuristic styling proposal.
type StyleSuggestion struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Reasoning   string             `json:"reasoning"`
	Styles      PartialStyles      `json:"styles"`
	Category    SuggestionCategory `json:"category"`
}

// TableAnalysis describes the content of a table.
type TableAnalysis struct {
	DataTypes       []string `json:"dataTypes"`
	Purpose         string   `json:"purpose"`
	Recommendations []string `json:"recommendations"`
}
