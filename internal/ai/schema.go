package ai

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	suggestionsSchema = mustSchema("schemas/suggestions.json")
	analysisSchema    = mustSchema("schemas/analysis.json")
)

type schemaValidator struct {
	schema *gojsonschema.Schema
}

func mustSchema(name string) schemaValidator {
	raw, err := schemaFS.ReadFile(name)
	if err != nil {
		panic(err)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("compile %s: %v", name, err))
	}
	return schemaValidator{schema: schema}
}

// validate checks a model answer against the schema.
func (v schemaValidator) validate(doc string) error {
	result, err := v.schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return fmt.Errorf("invalid model JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.Field()+": "+e.Description())
	}
	return fmt.Errorf("model answer does not match schema: %s", strings.Join(msgs, "; "))
}
