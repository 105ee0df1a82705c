package jsonschema

import "strings"

const draft202012 = "https://json-schema.org/draft/2020-12/schema"

type generatorConfig struct {
	dialect              string
	id                   string
	title                string
	description          string
	additionalProperties bool
}

func defaultGeneratorConfig() generatorConfig {
	return generatorConfig{
		dialect:              draft202012,
		title:                "Settings",
		additionalProperties: true,
	}
}

// GeneratorOption configures the JSON Schema generator.
type GeneratorOption func(*generatorConfig)

// WithDialect overrides the $schema URI (default: draft 2020-12).
func WithDialect(uri string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if uri = strings.TrimSpace(uri); uri != "" {
			cfg.dialect = uri
		}
	}
}

// WithID sets $id.
func WithID(id string) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.id = strings.TrimSpace(id)
	}
}

// WithTitle overrides the document title.
func WithTitle(title string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if title = strings.TrimSpace(title); title != "" {
			cfg.title = title
		}
	}
}

func WithDescription(description string) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.description = strings.TrimSpace(description)
	}
}

// Strict rejects keys no parameter describes.
func Strict() GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.additionalProperties = false
	}
}
