package pipeline

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/cenngo/interactions/pkg/interactions/model"
)

// complexSchemaCache holds one compiled schema per distinct field shape, so
// a complex parameter declared on many commands (or rebuilt across module
// reloads) compiles its schema at most once per shape.
var complexSchemaCache sync.Map

// complexSchemaFor builds and compiles a JSON Schema describing param's
// fields: required fields by name, and a loose type constraint per field
// so an obviously wrong shape (a string where a number belongs) fails
// before field-by-field conversion runs.
func complexSchemaFor(param *model.Parameter) (*jsonschema.Schema, error) {
	key := schemaCacheKey(param)
	if cached, ok := complexSchemaCache.Load(key); ok {
		return cached.(*jsonschema.Schema), nil
	}

	doc := map[string]any{
		"type":                 "object",
		"additionalProperties": true,
	}
	properties := make(map[string]any, len(param.Fields))
	var required []string
	for _, field := range param.Fields {
		properties[field.Name] = map[string]any{"type": schemaTypeFor(field.Type)}
		if field.IsRequired {
			required = append(required, field.Name)
		}
	}
	doc["properties"] = properties
	if len(required) > 0 {
		doc["required"] = required
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode complex parameter schema for %q: %w", param.Name, err)
	}

	compiled, err := jsonschema.CompileString(param.Name+".schema.json", string(encoded))
	if err != nil {
		return nil, fmt.Errorf("compile complex parameter schema for %q: %w", param.Name, err)
	}
	complexSchemaCache.Store(key, compiled)
	return compiled, nil
}

func schemaCacheKey(param *model.Parameter) string {
	key := param.Name
	for _, f := range param.Fields {
		key += "|" + f.Name + ":" + string(f.Type)
		if f.IsRequired {
			key += "!"
		}
	}
	return key
}

// schemaTypeFor maps a field's ParameterType to the loosest JSON Schema
// type that still catches a clearly wrong shape. Types the schema can't
// usefully constrain (users, channels, roles — platform entity ids the
// schema has no way to recognize) fall back to "string", since that's
// the wire shape they arrive in before conversion.
func schemaTypeFor(t model.ParameterType) string {
	switch t {
	case model.ParameterTypeInteger, model.ParameterTypeNumber:
		return "number"
	case model.ParameterTypeBoolean:
		return "boolean"
	case model.ParameterTypeStringArray:
		return "array"
	default:
		return "string"
	}
}

// validateComplexShape checks raw against param's compiled schema before
// any field is converted, so a malformed complex argument fails with one
// clear BadArgs error instead of an arbitrary per-field ConvertFailed.
func validateComplexShape(param *model.Parameter, raw map[string]any) error {
	schema, err := complexSchemaFor(param)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode complex parameter %q: %w", param.Name, err)
	}
	var decoded any
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		return fmt.Errorf("decode complex parameter %q: %w", param.Name, err)
	}

	return schema.Validate(decoded)
}
