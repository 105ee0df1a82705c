// Package cliflag binds parameters to command-line flags. Each token runs
// through the parameter's parser and validator before it reaches the store,
// so a bad value is reported as a flag error rather than surfacing later.
package cliflag

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	params "github.com/goliatone/go-params"
)

// FlagOption configures how a parameter is exposed as a flag.
type FlagOption func(*flagConfig)

type flagConfig struct {
	name      string
	shorthand string
	usage     string
	hidden    bool
	calls     []params.CallOption
}

// WithName overrides the flag name, which defaults to the key with dots and
// underscores turned into dashes.
func WithName(name string) FlagOption {
	return func(cfg *flagConfig) {
		cfg.name = name
	}
}

func WithShorthand(shorthand string) FlagOption {
	return func(cfg *flagConfig) {
		cfg.shorthand = shorthand
	}
}

// WithUsage overrides the help text, which defaults to the presenter summary.
func WithUsage(usage string) FlagOption {
	return func(cfg *flagConfig) {
		cfg.usage = usage
	}
}

func Hidden() FlagOption {
	return func(cfg *flagConfig) {
		cfg.hidden = true
	}
}

// WithCallOptions forwards options to every pipeline call the flag makes.
func WithCallOptions(opts ...params.CallOption) FlagOption {
	return func(cfg *flagConfig) {
		cfg.calls = append(cfg.calls, opts...)
	}
}

func resolve(desc params.Description, opts []FlagOption) flagConfig {
	cfg := flagConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.name == "" {
		cfg.name = FlagName(desc.Key)
	}
	if cfg.usage == "" {
		cfg.usage = usageFor(desc)
	}
	return cfg
}

// FlagName derives a flag name from a parameter key.
func FlagName(key string) string {
	return strings.NewReplacer(".", "-", "_", "-").Replace(strings.ToLower(key))
}

func usageFor(desc params.Description) string {
	text := desc.Label()
	if desc.Presenter != nil && desc.Presenter.Summary != "" {
		text = desc.Presenter.Summary
	}
	if desc.Exhaustive() && len(desc.Options) > 0 {
		choices := make([]string, 0, len(desc.Options))
		for _, option := range desc.Options {
			choices = append(choices, fmt.Sprint(option.Value))
		}
		text += " (one of: " + strings.Join(choices, ", ") + ")"
	}
	return text
}

func register(fs *pflag.FlagSet, value pflag.Value, cfg flagConfig) *pflag.Flag {
	flag := fs.VarPF(value, cfg.name, cfg.shorthand, cfg.usage)
	flag.Hidden = cfg.hidden
	return flag
}

// Var registers a flag taking one argument. The argument is parsed and
// validated by p, then stored.
func Var(fs *pflag.FlagSet, p params.Describer, store params.Store, opts ...FlagOption) *pflag.Flag {
	desc := p.Describe()
	cfg := resolve(desc, opts)
	return register(fs, &variableValue{param: p, store: store, desc: desc, calls: cfg.calls}, cfg)
}

// Const registers a flag taking no argument that stores value as is,
// bypassing the parser.
func Const[T any](fs *pflag.FlagSet, p *params.Parameter[T], store params.Store, value T, opts ...FlagOption) *pflag.Flag {
	cfg := resolve(p.Describe(), opts)
	flag := register(fs, &constValue[T]{param: p, store: store, value: value, calls: cfg.calls}, cfg)
	flag.NoOptDefVal = "true"
	return flag
}

// True registers a switch that stores true.
func True(fs *pflag.FlagSet, p *params.Parameter[bool], store params.Store, opts ...FlagOption) *pflag.Flag {
	return Const(fs, p, store, true, opts...)
}

// False registers a switch that stores false, typically named --no-<key>.
func False(fs *pflag.FlagSet, p *params.Parameter[bool], store params.Store, opts ...FlagOption) *pflag.Flag {
	opts = append([]FlagOption{WithName("no-" + FlagName(p.Key()))}, opts...)
	return Const(fs, p, store, false, opts...)
}

// BindRegistry registers a Var flag for every parameter in registry.
func BindRegistry(fs *pflag.FlagSet, registry *params.Registry, store params.Store, opts ...FlagOption) {
	for _, key := range registry.Keys() {
		if p, ok := registry.Lookup(key); ok {
			Var(fs, p, store, opts...)
		}
	}
}

type variableValue struct {
	param params.Describer
	store params.Store
	desc  params.Description
	calls []params.CallOption
}

func (v *variableValue) String() string {
	if v.store == nil {
		return ""
	}
	raw := v.store.Get(v.desc.Key, v.desc.Default)
	if raw == nil {
		return ""
	}
	return fmt.Sprint(raw)
}

func (v *variableValue) Set(token string) error {
	return v.param.Assign(v.store, token, v.calls...)
}

func (v *variableValue) Type() string {
	return v.desc.Type
}

type constValue[T any] struct {
	param *params.Parameter[T]
	store params.Store
	value T
	calls []params.CallOption
}

func (c *constValue[T]) String() string {
	return ""
}

func (c *constValue[T]) Set(string) error {
	c.param.Store(c.store, c.value, c.calls...)
	return nil
}

func (c *constValue[T]) Type() string {
	return ""
}
