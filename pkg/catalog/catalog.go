// Package catalog declares parameters in YAML and builds a params.Registry
// from them.
//
//	parameters:
//	  - key: server.port
//	    type: int
//	    default: 8080
//	    validate: value > 0 && value < 65536
//	    name: Port
//	  - key: mode
//	    type: string
//	    default: safe
//	    exhaustive: true
//	    options:
//	      - value: fast
//	      - value: safe
//	        name: Safe
package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	params "github.com/goliatone/go-params"
)

// ErrInvalidDefinition wraps every problem found in a definition.
var ErrInvalidDefinition = errors.New("catalog: invalid definition")

// Types understood by Build.
const (
	TypeInt      = "int"
	TypeFloat    = "float"
	TypeBool     = "bool"
	TypeString   = "string"
	TypeDuration = "duration"
	TypeTime     = "time"
)

// Engines understood by Build.
const (
	EngineExpr = "expr"
	EngineCEL  = "cel"
	EngineJS   = "js"
)

// Catalog is the document root.
type Catalog struct {
	Parameters []Definition `yaml:"parameters" json:"parameters"`
}

// Definition declares one parameter.
type Definition struct {
	Key         string       `yaml:"key" json:"key"`
	Type        string       `yaml:"type" json:"type"`
	Default     any          `yaml:"default,omitempty" json:"default,omitempty"`
	Validate    string       `yaml:"validate,omitempty" json:"validate,omitempty"`
	Engine      string       `yaml:"engine,omitempty" json:"engine,omitempty"`
	Exhaustive  bool         `yaml:"exhaustive,omitempty" json:"exhaustive,omitempty"`
	Options     []OptionSpec `yaml:"options,omitempty" json:"options,omitempty"`
	Name        string       `yaml:"name,omitempty" json:"name,omitempty"`
	Summary     string       `yaml:"summary,omitempty" json:"summary,omitempty"`
	Explanation string       `yaml:"explanation,omitempty" json:"explanation,omitempty"`
}

// OptionSpec declares one option of a parameter.
type OptionSpec struct {
	Value       any    `yaml:"value" json:"value"`
	Name        string `yaml:"name,omitempty" json:"name,omitempty"`
	Summary     string `yaml:"summary,omitempty" json:"summary,omitempty"`
	Explanation string `yaml:"explanation,omitempty" json:"explanation,omitempty"`
}

func (d Definition) presenter() *params.Presenter {
	return presenterOf(d.Name, d.Summary, d.Explanation)
}

func (o OptionSpec) presenter() *params.Presenter {
	return presenterOf(o.Name, o.Summary, o.Explanation)
}

func presenterOf(name, summary, explanation string) *params.Presenter {
	if name == "" && summary == "" && explanation == "" {
		return nil
	}
	return params.NewPresenter(name, summary, explanation)
}

// Parse decodes a YAML (or JSON) catalog.
func Parse(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	return &catalog, nil
}

// Load reads and decodes the catalog at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %q: %w", path, err)
	}
	return Parse(data)
}

// Registry builds every definition and registers the results. All definition
// errors are reported together.
func (c *Catalog) Registry(opts ...BuildOption) (*params.Registry, error) {
	cfg := applyBuildOptions(opts)
	registry, _ := params.NewRegistry()
	var errs []error
	for i, def := range c.Parameters {
		param, err := build(def, cfg)
		if err != nil {
			errs = append(errs, fmt.Errorf("parameters[%d]: %w", i, err))
			continue
		}
		if err := registry.Register(param); err != nil {
			errs = append(errs, fmt.Errorf("parameters[%d]: %w", i, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return registry, nil
}
