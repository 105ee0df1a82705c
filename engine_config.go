package params

// engineConfig is what every expression engine is built from.
type engineConfig struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// ExprEvaluatorOption configures an expr evaluator.
type ExprEvaluatorOption func(*engineConfig)

// CELEvaluatorOption configures a CEL evaluator.
type CELEvaluatorOption func(*engineConfig)

// JSEvaluatorOption configures a JS evaluator.
type JSEvaluatorOption func(*engineConfig)

// ExprWithProgramCache shares compiled programs through cache.
func ExprWithProgramCache(cache ProgramCache) ExprEvaluatorOption {
	return ExprEvaluatorOption(withCache(cache))
}

// ExprWithFunctionRegistry exposes the registry's functions to expressions.
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprEvaluatorOption {
	return ExprEvaluatorOption(withRegistry(registry))
}

// CELWithProgramCache shares compiled programs through cache.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return CELEvaluatorOption(withCache(cache))
}

// CELWithFunctionRegistry exposes the registry's functions as one and two
// argument CEL functions, plus call(name, arg).
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return CELEvaluatorOption(withRegistry(registry))
}

// JSWithProgramCache shares compiled programs through cache.
func JSWithProgramCache(cache ProgramCache) JSEvaluatorOption {
	return JSEvaluatorOption(withCache(cache))
}

// JSWithFunctionRegistry exposes the registry's functions as globals.
func JSWithFunctionRegistry(registry *FunctionRegistry) JSEvaluatorOption {
	return JSEvaluatorOption(withRegistry(registry))
}

func withCache(cache ProgramCache) func(*engineConfig) {
	return func(cfg *engineConfig) {
		cfg.cache = cache
	}
}

func withRegistry(registry *FunctionRegistry) func(*engineConfig) {
	return func(cfg *engineConfig) {
		if registry == nil {
			return
		}
		cfg.registry = registry.Clone()
	}
}

func newEngineConfig[O ~func(*engineConfig)](opts []O) engineConfig {
	cfg := engineConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// programKey scopes a cached program to its engine and function set.
func (cfg engineConfig) programKey(engine, expression string) string {
	if set := cfg.registry.fingerprint(); set != "" {
		return engine + "@" + set + ":" + expression
	}
	return engine + ":" + expression
}

func (cfg engineConfig) cachedProgram(engine, expression string) (any, bool) {
	if cfg.cache == nil {
		return nil, false
	}
	return cfg.cache.Get(cfg.programKey(engine, expression))
}

func (cfg engineConfig) rememberProgram(engine, expression string, program any) {
	if cfg.cache != nil {
		cfg.cache.Set(cfg.programKey(engine, expression), program)
	}
}
