package styles

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
)

//go:embed presets.yaml
var presetsYAML []byte

// ErrUnknownPreset is returned for a preset key that is not in the catalog.
var ErrUnknownPreset = errors.New("unknown preset")

// PresetTheme is a named, complete style configuration.
type PresetTheme struct {
	Key         string             `json:"key"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Styles      models.TableStyles `json:"styles"`
}

type presetEntry struct {
	Key         string    `yaml:"key"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Styles      yaml.Node `yaml:"styles"`
}

var (
	catalogOnce sync.Once
	catalog     []PresetTheme
	catalogErr  error
)

func loadCatalog() ([]PresetTheme, error) {
	catalogOnce.Do(func() {
		catalog, catalogErr = parseCatalog(presetsYAML)
	})
	return catalog, catalogErr
}

func parseCatalog(data []byte) ([]PresetTheme, error) {
	var doc struct {
		Presets []presetEntry `yaml:"presets"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse preset catalog: %w", err)
	}

	out := make([]PresetTheme, 0, len(doc.Presets))
	seen := make(map[string]bool, len(doc.Presets))
	for _, entry := range doc.Presets {
		if entry.Key == "" || seen[entry.Key] {
			return nil, fmt.Errorf("parse preset catalog: missing or duplicate key %q", entry.Key)
		}
		seen[entry.Key] = true

		s := models.DefaultStyles()
		if entry.Styles.Kind != 0 {
			if err := entry.Styles.Decode(&s); err != nil {
				return nil, fmt.Errorf("preset %s: %w", entry.Key, err)
			}
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("preset %s: %w", entry.Key, err)
		}
		out = append(out, PresetTheme{
			Key:         entry.Key,
			Name:        entry.Name,
			Description: entry.Description,
			Styles:      s,
		})
	}
	return out, nil
}

// Presets returns the catalog in declaration order.
func Presets() []PresetTheme {
	themes, err := loadCatalog()
	if err != nil {
		// the catalog is embedded; a parse failure is a build defect
		panic(err)
	}
	return append([]PresetTheme(nil), themes...)
}

// PresetKeys lists the catalog keys in declaration order.
func PresetKeys() []string {
	themes := Presets()
	keys := make([]string, len(themes))
	for i, t := range themes {
		keys[i] = t.Key
	}
	return keys
}

// Preset looks up a theme by key.
func Preset(key string) (PresetTheme, bool) {
	for _, t := range Presets() {
		if t.Key == key {
			return t, true
		}
	}
	return PresetTheme{}, false
}

// ApplyPreset replaces the whole configuration with the preset's.
func ApplyPreset(key string) (models.TableStyles, error) {
	t, ok := Preset(key)
	if !ok {
		return models.TableStyles{}, fmt.Errorf("%w: %s", ErrUnknownPreset, key)
	}
	return t.Styles, nil
}

// ApplySuggestion shallow-merges a suggestion over the current configuration.
func ApplySuggestion(current models.TableStyles, suggestion models.StyleSuggestion) models.TableStyles {
	return suggestion.Styles.Apply(current)
}
