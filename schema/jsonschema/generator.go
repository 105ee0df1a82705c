// Package jsonschema renders parameter descriptions as a JSON Schema for the
// flat settings file a key-value store is dumped to.
package jsonschema

import (
	"strings"

	params "github.com/goliatone/go-params"
)

type generator struct {
	config generatorConfig
}

// NewGenerator constructs a JSON Schema generator.
func NewGenerator(opts ...GeneratorOption) params.SchemaGenerator {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return generator{config: cfg}
}

func (g generator) Generate(descriptions []params.Description) (params.SchemaDocument, error) {
	properties := make(map[string]any, len(descriptions))
	for _, desc := range descriptions {
		properties[desc.Key] = propertySchema(desc)
	}
	doc := map[string]any{
		"$schema":              g.config.dialect,
		"title":                g.config.title,
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": g.config.additionalProperties,
	}
	if g.config.id != "" {
		doc["$id"] = g.config.id
	}
	if g.config.description != "" {
		doc["description"] = g.config.description
	}
	return params.SchemaDocument{
		Format:   params.SchemaFormatJSONSchema,
		Document: doc,
	}, nil
}

func propertySchema(desc params.Description) map[string]any {
	schema := typeSchema(desc.Type)
	if desc.Presenter != nil {
		if desc.Presenter.Name != "" {
			schema["title"] = desc.Presenter.Name
		}
		if text := describeText(desc.Presenter); text != "" {
			schema["description"] = text
		}
	}
	if desc.DefaultValid && desc.Default != nil {
		schema["default"] = desc.Default
	}
	if len(desc.Options) == 0 {
		return schema
	}

	values := make([]any, 0, len(desc.Options))
	nullable := false
	for _, option := range desc.Options {
		if option.Value == nil {
			nullable = true
		}
		values = append(values, option.Value)
	}
	if desc.Exhaustive() {
		schema["enum"] = values
		if nullable {
			if kind, ok := schema["type"].(string); ok {
				schema["type"] = []any{kind, "null"}
			}
		}
		return schema
	}
	schema["examples"] = values
	return schema
}

func describeText(p *params.Presenter) string {
	parts := make([]string, 0, 2)
	if p.Summary != "" {
		parts = append(parts, p.Summary)
	}
	if p.Explanation != "" {
		parts = append(parts, p.Explanation)
	}
	return strings.Join(parts, "\n\n")
}

// typeSchema maps the Go type name carried by a description.
func typeSchema(goType string) map[string]any {
	goType = strings.TrimPrefix(goType, "*")
	switch goType {
	case "bool":
		return map[string]any{"type": "boolean"}
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64":
		return map[string]any{"type": "integer"}
	case "float32", "float64":
		return map[string]any{"type": "number"}
	case "string":
		return map[string]any{"type": "string"}
	case "time.Time":
		return map[string]any{"type": "string", "format": "date-time"}
	case "time.Duration":
		return map[string]any{"type": "string", "format": "duration"}
	default:
		if strings.HasPrefix(goType, "[]") {
			return map[string]any{"type": "array"}
		}
		if strings.HasPrefix(goType, "map[") {
			return map[string]any{"type": "object"}
		}
		return map[string]any{}
	}
}
