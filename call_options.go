package params

import (
	"context"
	"fmt"

	"github.com/goliatone/go-params/pkg/activity"
)

// CallOption adjusts a single pipeline call without touching the Parameter.
type CallOption func(*callConfig)

type callConfig struct {
	parser    any
	validator any
	dumper    any
	silent    bool
	hooks     activity.Hooks
	hooksSet  bool
	ctx       context.Context
}

func applyCallOptions(opts []CallOption) callConfig {
	cfg := callConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// UsingParser overrides the parser for one call. The type parameter must
// match the Parameter's; a mismatch panics.
func UsingParser[T any](parser Parser[T]) CallOption {
	return func(cfg *callConfig) {
		if parser != nil {
			cfg.parser = parser
		}
	}
}

// UsingValidator overrides the validator for one call.
func UsingValidator[T any](validator Validator[T]) CallOption {
	return func(cfg *callConfig) {
		if validator != nil {
			cfg.validator = validator
		}
	}
}

// UsingDumper overrides the dumper for one call.
func UsingDumper[T any](dumper Dumper[T]) CallOption {
	return func(cfg *callConfig) {
		if dumper != nil {
			cfg.dumper = dumper
		}
	}
}

// Silent suppresses change events for one Store or Reset.
func Silent() CallOption {
	return func(cfg *callConfig) {
		cfg.silent = true
	}
}

// NotifyTo replaces the Parameter's hooks for one call.
func NotifyTo(hooks activity.Hooks) CallOption {
	normalized := hooks.Clone()
	return func(cfg *callConfig) {
		cfg.hooks = normalized
		cfg.hooksSet = true
	}
}

// WithContext sets the context handed to change listeners.
func WithContext(ctx context.Context) CallOption {
	return func(cfg *callConfig) {
		cfg.ctx = ctx
	}
}

func resolveOverride[F any](override any, fallback F, what, key string) F {
	if override == nil {
		return fallback
	}
	fn, ok := override.(F)
	if !ok {
		panic(fmt.Sprintf("params: %s override for %q has type %T, want %T", what, key, override, fallback))
	}
	return fn
}
