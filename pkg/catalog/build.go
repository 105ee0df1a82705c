package catalog

import (
	"fmt"
	"strings"

	params "github.com/goliatone/go-params"
)

func build(def Definition, cfg buildConfig) (params.Describer, error) {
	if strings.TrimSpace(def.Key) == "" {
		return nil, fmt.Errorf("%w: key is required", ErrInvalidDefinition)
	}
	if def.Exhaustive && len(def.Options) == 0 {
		return nil, fmt.Errorf("%w: %q is exhaustive but declares no options", ErrInvalidDefinition, def.Key)
	}
	switch strings.ToLower(def.Type) {
	case TypeInt:
		return buildTyped(def, cfg, params.Int(), nil)
	case TypeFloat:
		return buildTyped(def, cfg, params.Float(), nil)
	case TypeBool:
		return buildTyped(def, cfg, params.Bool(), nil)
	case TypeString, "":
		return buildTyped(def, cfg, params.String(), nil)
	case TypeDuration:
		return buildTyped(def, cfg, params.Duration(), params.DumpDuration)
	case TypeTime:
		return buildTyped(def, cfg, params.Time(), params.DumpTime)
	default:
		return nil, fmt.Errorf("%w: %q has unknown type %q", ErrInvalidDefinition, def.Key, def.Type)
	}
}

func buildTyped[T comparable](def Definition, cfg buildConfig, parser params.Parser[T], dumper params.Dumper[T]) (params.Describer, error) {
	opts := []params.ParameterOption[T]{
		params.WithParser(parser),
		params.WithDefault[T](def.Default),
		params.WithPresenter[T](def.presenter()),
	}
	if dumper != nil {
		opts = append(opts, params.WithDumper(dumper))
	}
	if len(cfg.hooks) > 0 {
		opts = append(opts, params.WithHooks[T](cfg.hooks))
	}
	if cfg.logger != nil {
		opts = append(opts, params.WithLogger[T](cfg.logger))
	}
	if def.Validate != "" {
		validator, err := expressionValidator[T](def, cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, params.WithValidator(validator))
	}

	if len(def.Options) == 0 {
		return params.New(def.Key, opts...), nil
	}

	options := make([]params.Option[T], 0, len(def.Options))
	for i, spec := range def.Options {
		value, err := parser(spec.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %q option %d: %v", ErrInvalidDefinition, def.Key, i, err)
		}
		options = append(options, params.NewOption(value, spec.presenter()))
	}
	restriction := params.Inclusive
	if def.Exhaustive {
		restriction = params.Exhaustive
	}
	return params.NewOptionParameter(def.Key, restriction, options, opts...), nil
}

func expressionValidator[T any](def Definition, cfg buildConfig) (params.Validator[T], error) {
	exprOpts := []params.ExpressionOption{
		params.WithRuleKey(def.Key),
		params.WithProgramCache(cfg.cache),
	}
	if cfg.functions != nil {
		exprOpts = append(exprOpts, params.WithFunctionRegistry(cfg.functions))
	}
	if cfg.evalLog != nil {
		exprOpts = append(exprOpts, params.WithEvaluatorLogger(cfg.evalLog))
	}
	switch strings.ToLower(def.Engine) {
	case "", EngineExpr:
	case EngineCEL:
		celOpts := []params.CELEvaluatorOption{params.CELWithProgramCache(cfg.cache)}
		if cfg.functions != nil {
			celOpts = append(celOpts, params.CELWithFunctionRegistry(cfg.functions))
		}
		exprOpts = append(exprOpts, params.WithEvaluator(params.NewCELEvaluator(celOpts...)))
	case EngineJS:
		jsOpts := []params.JSEvaluatorOption{params.JSWithProgramCache(cfg.cache)}
		if cfg.functions != nil {
			jsOpts = append(jsOpts, params.JSWithFunctionRegistry(cfg.functions))
		}
		evaluator := params.NewJSEvaluator(jsOpts...)
		if evaluator == nil {
			return nil, fmt.Errorf("%w: %q uses engine js: %w", ErrInvalidDefinition, def.Key, params.ErrNoEvaluator)
		}
		exprOpts = append(exprOpts, params.WithEvaluator(evaluator))
	default:
		return nil, fmt.Errorf("%w: %q has unknown engine %q", ErrInvalidDefinition, def.Key, def.Engine)
	}
	validator, err := params.ExpressionValidator[T](def.Validate, exprOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %q validate: %w", ErrInvalidDefinition, def.Key, err)
	}
	return validator, nil
}

