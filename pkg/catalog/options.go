package catalog

import (
	params "github.com/goliatone/go-params"
	"github.com/goliatone/go-params/pkg/activity"
)

// BuildOption configures how definitions become parameters.
type BuildOption func(*buildConfig)

type buildConfig struct {
	hooks     activity.Hooks
	logger    params.Logger
	cache     params.ProgramCache
	functions *params.FunctionRegistry
	evalLog   params.EvaluatorLogger
}

func applyBuildOptions(opts []BuildOption) buildConfig {
	cfg := buildConfig{cache: params.NewMemoryProgramCache()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithHooks attaches change listeners to every built parameter.
func WithHooks(hooks activity.Hooks) BuildOption {
	return func(cfg *buildConfig) {
		cfg.hooks = hooks.Clone()
	}
}

// WithLogger attaches logger to every built parameter.
func WithLogger(logger params.Logger) BuildOption {
	return func(cfg *buildConfig) {
		cfg.logger = logger
	}
}

// WithProgramCache shares compiled validate expressions. A memory cache is
// used by default.
func WithProgramCache(cache params.ProgramCache) BuildOption {
	return func(cfg *buildConfig) {
		cfg.cache = cache
	}
}

// WithFunctionRegistry exposes functions to validate expressions.
func WithFunctionRegistry(registry *params.FunctionRegistry) BuildOption {
	return func(cfg *buildConfig) {
		cfg.functions = registry
	}
}

// WithEvaluatorLogger records validate expression evaluations.
func WithEvaluatorLogger(logger params.EvaluatorLogger) BuildOption {
	return func(cfg *buildConfig) {
		cfg.evalLog = logger
	}
}
