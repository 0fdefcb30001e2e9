package aliastable

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/alias"
	"github.com/xeipuuv/gojsonschema"
)

const tableSchema = `{
  "type": "object",
  "required": ["exact", "contains"],
  "additionalProperties": false,
  "properties": {
    "exact": {
      "type": "object",
      "additionalProperties": {"type": "string", "minLength": 1}
    },
    "contains": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["needle", "canonical"],
        "additionalProperties": false,
        "properties": {
          "needle": {"type": "string", "minLength": 1},
          "canonical": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(tableSchema) //nolint:gochecknoglobals // compiled once

// Decode validates payload against the alias table schema and decodes it.
func Decode(payload []byte) (alias.Table, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return alias.Table{}, fmt.Errorf("%w: %w", ErrAliasTableInvalid, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return alias.Table{}, fmt.Errorf("%w: %s", ErrAliasTableInvalid, strings.Join(errs, "; "))
	}

	var t alias.Table
	if err := json.Unmarshal(payload, &t); err != nil {
		return alias.Table{}, fmt.Errorf("%w: %w", ErrAliasTableInvalid, err)
	}
	return t, nil
}
