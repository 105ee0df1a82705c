package params

import "github.com/goliatone/go-params/pkg/activity"

// ParameterOption configures a Parameter at construction.
type ParameterOption[T any] func(*parameterConfig[T])

type parameterConfig[T any] struct {
	def          any
	defValue     *T
	parser       Parser[T]
	dumper       Dumper[T]
	validator    Validator[T]
	validatorSet bool
	presenter    *Presenter
	hooks        activity.Hooks
	logger       Logger
}

func applyParameterOptions[T any](opts []ParameterOption[T]) parameterConfig[T] {
	cfg := parameterConfig[T]{
		parser:    Identity[T](),
		dumper:    identityDumper[T],
		validator: acceptAll[T],
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithDefault sets the raw default returned by a store lacking the key. The
// value goes through the parser on retrieval, so a default the parser or
// validator rejects means "no permissible default".
func WithDefault[T any](raw any) ParameterOption[T] {
	return func(cfg *parameterConfig[T]) {
		cfg.def = raw
		cfg.defValue = nil
	}
}

// WithDefaultValue sets the default from a domain value, dumped with the
// parameter's final dumper.
func WithDefaultValue[T any](value T) ParameterOption[T] {
	return func(cfg *parameterConfig[T]) {
		v := value
		cfg.defValue = &v
	}
}

// WithParser replaces the identity parser.
func WithParser[T any](parser Parser[T]) ParameterOption[T] {
	return func(cfg *parameterConfig[T]) {
		cfg.parser = parser
	}
}

// WithDumper replaces the identity dumper.
func WithDumper[T any](dumper Dumper[T]) ParameterOption[T] {
	return func(cfg *parameterConfig[T]) {
		cfg.dumper = dumper
	}
}

// WithValidator replaces the accept-all validator. On option parameters an
// explicit validator also suppresses the derived membership check.
func WithValidator[T any](validator Validator[T]) ParameterOption[T] {
	return func(cfg *parameterConfig[T]) {
		cfg.validator = validator
		cfg.validatorSet = true
	}
}

// WithPresenter attaches presentation texts.
func WithPresenter[T any](presenter *Presenter) ParameterOption[T] {
	return func(cfg *parameterConfig[T]) {
		cfg.presenter = presenter
	}
}

// WithHooks registers listeners notified after Store and Reset.
func WithHooks[T any](hooks activity.Hooks) ParameterOption[T] {
	normalized := hooks.Clone()
	return func(cfg *parameterConfig[T]) {
		cfg.hooks = normalized
	}
}

// WithLogger attaches a logger for pipeline diagnostics.
func WithLogger[T any](logger Logger) ParameterOption[T] {
	return func(cfg *parameterConfig[T]) {
		cfg.logger = logger
	}
}
