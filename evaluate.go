package params

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoEvaluator is returned when an expression engine could not be built,
// for example the js engine without the js_eval build tag.
var ErrNoEvaluator = errors.New("params: evaluator not configured")

// ExpressionOption configures ExpressionValidator.
type ExpressionOption func(*expressionConfig)

type expressionConfig struct {
	evaluator Evaluator
	cache     ProgramCache
	functions *FunctionRegistry
	logger    EvaluatorLogger
	key       string
	args      map[string]any
	metadata  map[string]any
	now       func() time.Time
	errs      []error
}

// WithEvaluator selects the engine. Defaults to expr.
func WithEvaluator(evaluator Evaluator) ExpressionOption {
	return func(cfg *expressionConfig) {
		cfg.evaluator = evaluator
	}
}

// WithProgramCache shares compiled programs with the default evaluator.
func WithProgramCache(cache ProgramCache) ExpressionOption {
	return func(cfg *expressionConfig) {
		cfg.cache = cache
	}
}

// WithFunctionRegistry exposes registry's functions to the default evaluator.
func WithFunctionRegistry(registry *FunctionRegistry) ExpressionOption {
	return func(cfg *expressionConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers fn under name for the default evaluator. A
// name the registry rejects makes ExpressionValidator fail.
func WithCustomFunction(name string, fn Function) ExpressionOption {
	return func(cfg *expressionConfig) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		if err := cfg.functions.Register(name, fn); err != nil {
			cfg.errs = append(cfg.errs, err)
		}
	}
}

// WithEvaluatorLogger records every evaluation. A nil logger disables it.
func WithEvaluatorLogger(logger EvaluatorLogger) ExpressionOption {
	return func(cfg *expressionConfig) {
		if logger == nil {
			cfg.logger = noopEvaluatorLogger{}
			return
		}
		cfg.logger = logger
	}
}

// WithRuleKey names the parameter the expression validates; it is bound to
// key and reported in errors.
func WithRuleKey(key string) ExpressionOption {
	return func(cfg *expressionConfig) {
		cfg.key = key
	}
}

// WithRuleArgs binds args for the expression.
func WithRuleArgs(args map[string]any) ExpressionOption {
	return func(cfg *expressionConfig) {
		cfg.args = cloneAnyMap(args)
	}
}

// WithRuleMetadata binds metadata for the expression.
func WithRuleMetadata(metadata map[string]any) ExpressionOption {
	return func(cfg *expressionConfig) {
		cfg.metadata = cloneAnyMap(metadata)
	}
}

// WithClock overrides the time bound to now.
func WithClock(now func() time.Time) ExpressionOption {
	return func(cfg *expressionConfig) {
		cfg.now = now
	}
}

func (cfg *expressionConfig) resolveEvaluator() (Evaluator, error) {
	if cfg.evaluator != nil {
		return cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if cfg.cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cfg.cache))
	}
	if cfg.functions != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(cfg.functions))
	}
	evaluator := NewExprEvaluator(exprOpts...)
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	return evaluator, nil
}

// ExpressionValidator compiles expression once and returns a Validator that
// evaluates it with the candidate bound to value. The expression must yield a
// boolean; evaluation failures and non-boolean results are reported as
// validator errors, which the pipeline turns into KindValidator.
//
//	positive, err := params.ExpressionValidator[int]("value > 0")
func ExpressionValidator[T any](expression string, opts ...ExpressionOption) (Validator[T], error) {
	if expression == "" {
		return nil, fmt.Errorf("params: %w", errEmptyExpression)
	}
	cfg := expressionConfig{logger: noopEvaluatorLogger{}, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.now == nil {
		cfg.now = time.Now
	}
	if err := errors.Join(cfg.errs...); err != nil {
		return nil, err
	}
	evaluator, err := cfg.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	rule, err := evaluator.Compile(expression)
	if err != nil {
		return nil, forKey(compileError(evaluatorEngineName(evaluator), expression, err), cfg.key)
	}
	engine := evaluatorEngineName(evaluator)

	return func(value T) (bool, error) {
		now := cfg.now()
		ctx := RuleContext{
			Value:    value,
			Key:      cfg.key,
			Now:      &now,
			Args:     cfg.args,
			Metadata: cfg.metadata,
		}
		start := time.Now()
		out, evalErr := rule.Evaluate(ctx)
		evalErr = evaluationError(engine, expression, ctx, evalErr)
		cfg.logger.LogEvaluation(EvaluatorLogEvent{
			Engine:   engine,
			Expr:     expression,
			Key:      cfg.key,
			Duration: time.Since(start),
			Err:      evalErr,
		})
		if evalErr != nil {
			return false, evalErr
		}
		ok, isBool := out.(bool)
		if !isBool {
			return false, &EvaluationError{
				Engine:    engine,
				Expr:      expression,
				Key:       ctx.Key,
				Value:     value,
				Evaluated: true,
				Err:       fmt.Errorf("result %T is not a boolean", out),
			}
		}
		return ok, nil
	}, nil
}

func cloneAnyMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
