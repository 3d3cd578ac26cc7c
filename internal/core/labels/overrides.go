package labels

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/vending-reports/constants"
)

// Overrides is the on-disk format of an extra-variants file:
//
//	{"variants": {"CA total": ["Total CA TTC"], "Vente Espece": ["Cash vend"]}}
type Overrides struct {
	Variants map[string][]string `json:"variants"`
}

// overridesSchema is built from the field enumeration so an unknown field
// name is rejected by validation rather than silently ignored.
func overridesSchema() map[string]any {
	return map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"required":             []string{"variants"},
		"additionalProperties": false,
		"properties": map[string]any{
			"variants": map[string]any{
				"type":          "object",
				"propertyNames": map[string]any{"enum": constants.FieldsAsStringSlice()},
				"additionalProperties": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items":    map[string]any{"type": "string", "minLength": 1},
				},
			},
		},
	}
}

// ValidateOverrides checks raw JSON against the overrides schema.
func ValidateOverrides(data []byte) error {
	b, err := json.Marshal(overridesSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("labels.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("labels.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal overrides: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("overrides do not match schema: %w", err)
	}
	return nil
}

// ParseOverrides validates and decodes an overrides document.
func ParseOverrides(data []byte) (map[constants.Field][]string, error) {
	if err := ValidateOverrides(data); err != nil {
		return nil, err
	}
	var o Overrides
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("decode overrides: %w", err)
	}
	out := make(map[constants.Field][]string, len(o.Variants))
	for name, variants := range o.Variants {
		f, ok := constants.ParseField(name)
		if !ok {
			return nil, fmt.Errorf("unknown field %q", name)
		}
		out[f] = append(out[f], variants...)
	}
	return out, nil
}

// Load builds the label set from the built-in dictionaries plus the
// overrides file at path. An empty path yields the defaults.
func Load(path string) (*Set, error) {
	if path == "" {
		return Build(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read labels file: %w", err)
	}
	extra, err := ParseOverrides(data)
	if err != nil {
		return nil, fmt.Errorf("labels file %s: %w", path, err)
	}
	return Build(extra)
}
