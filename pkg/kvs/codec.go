package kvs

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned when no codec matches a file extension.
var ErrUnknownFormat = errors.New("kvs: unknown file format")

// Codec converts store contents to and from a file format.
type Codec interface {
	Name() string
	Marshal(entries map[string]any) ([]byte, error)
	Unmarshal(data []byte) (map[string]any, error)
}

// CodecFor picks a codec from path's extension: .json, .yaml, .yml or .env.
func CodecFor(path string) (Codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSONCodec{}, nil
	case ".yaml", ".yml":
		return YAMLCodec{}, nil
	case ".env":
		return EnvCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// JSONCodec writes indented JSON objects. Numbers decode as float64.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(entries map[string]any) ([]byte, error) {
	if entries == nil {
		entries = map[string]any{}
	}
	return json.MarshalIndent(entries, "", "  ")
}

func (JSONCodec) Unmarshal(data []byte) (map[string]any, error) {
	out := map[string]any{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// YAMLCodec reads and writes a flat YAML mapping.
type YAMLCodec struct{}

func (YAMLCodec) Name() string { return "yaml" }

func (YAMLCodec) Marshal(entries map[string]any) ([]byte, error) {
	if entries == nil {
		entries = map[string]any{}
	}
	return yaml.Marshal(entries)
}

func (YAMLCodec) Unmarshal(data []byte) (map[string]any, error) {
	out := map[string]any{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EnvCodec reads and writes dotenv files. Every value is a string on the way
// back; parameters parse them.
type EnvCodec struct{}

func (EnvCodec) Name() string { return "env" }

func (EnvCodec) Marshal(entries map[string]any) ([]byte, error) {
	flat := make(map[string]string, len(entries))
	for key, value := range entries {
		text, err := cast.ToStringE(value)
		if err != nil {
			return nil, fmt.Errorf("kvs: env value for %q: %w", key, err)
		}
		flat[key] = text
	}
	content, err := godotenv.Marshal(flat)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, nil
	}
	return []byte(content + "\n"), nil
}

func (EnvCodec) Unmarshal(data []byte) (map[string]any, error) {
	flat, err := godotenv.UnmarshalBytes(data)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(flat))
	for key, value := range flat {
		out[key] = value
	}
	return out, nil
}
