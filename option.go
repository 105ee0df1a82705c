package params

import "fmt"

// Option is a privileged value for a parameter, optionally described for a
// user interface. Value should be something the parameter can dump and parse.
type Option[T comparable] struct {
	Value T
	UI    *Presenter
}

// NewOption pairs value with presentation texts.
func NewOption[T comparable](value T, ui *Presenter) Option[T] {
	return Option[T]{Value: value, UI: ui}
}

// None returns the conventional option for disabling a parameter: a nil value
// labelled "Disabled".
func None[T any]() Option[*T] {
	return Option[*T]{UI: &Presenter{Name: "Disabled"}}
}

// Options is an ordered sequence of options. Order matters for presentation
// only.
type Options[T comparable] []Option[T]

// ByValue returns the first option whose value equals value. O(n).
func (o Options[T]) ByValue(value T) (Option[T], error) {
	for _, option := range o {
		if option.Value == value {
			return option, nil
		}
	}
	return Option[T]{}, newError(KindOptionNotFound, "", value, nil)
}

// Contains reports whether any option has value.
func (o Options[T]) Contains(value T) bool {
	for _, option := range o {
		if option.Value == value {
			return true
		}
	}
	return false
}

// Values returns the option values in order.
func (o Options[T]) Values() []T {
	if len(o) == 0 {
		return nil
	}
	out := make([]T, len(o))
	for i, option := range o {
		out[i] = option.Value
	}
	return out
}

func (o Options[T]) clone() Options[T] {
	if len(o) == 0 {
		return nil
	}
	out := make(Options[T], len(o))
	for i, option := range o {
		out[i] = Option[T]{Value: option.Value, UI: option.UI.clone()}
	}
	return out
}

// Restriction states whether an option parameter's options bound its domain.
type Restriction int

const (
	// Inclusive options are suggestions; any value the parser and validator
	// accept is allowed.
	Inclusive Restriction = iota
	// Exhaustive options are the only values allowed.
	Exhaustive
)

func (r Restriction) String() string {
	switch r {
	case Inclusive:
		return "inclusive"
	case Exhaustive:
		return "exhaustive"
	default:
		return fmt.Sprintf("restriction(%d)", int(r))
	}
}

// OptionParameter is a Parameter carrying an ordered set of options, for
// example to populate a list of radio buttons. With Exhaustive restriction and
// no explicit validator, it only accepts values equal to one of its options.
type OptionParameter[T comparable] struct {
	*Parameter[T]
	options     Options[T]
	restriction Restriction
}

// NewOptionParameter builds an option parameter. Exhaustive restriction with
// no options panics.
func NewOptionParameter[T comparable](key string, restriction Restriction, options []Option[T], opts ...ParameterOption[T]) *OptionParameter[T] {
	captured := Options[T](options).clone()
	cfg := applyParameterOptions(opts)
	if restriction == Exhaustive {
		if len(captured) == 0 {
			panic(fmt.Sprintf("params: exhaustive parameter %q requires at least one option", key))
		}
		if !cfg.validatorSet {
			cfg.validator = func(value T) (bool, error) {
				return captured.Contains(value), nil
			}
		}
	}
	return &OptionParameter[T]{
		Parameter:   newParameter(key, cfg),
		options:     captured,
		restriction: restriction,
	}
}

// NewInclusiveParameter builds an option parameter whose options do not
// restrict its domain.
func NewInclusiveParameter[T comparable](key string, options []Option[T], opts ...ParameterOption[T]) *OptionParameter[T] {
	return NewOptionParameter(key, Inclusive, options, opts...)
}

// NewExhaustiveParameter builds an option parameter that allows only its
// options' values.
func NewExhaustiveParameter[T comparable](key string, options []Option[T], opts ...ParameterOption[T]) *OptionParameter[T] {
	return NewOptionParameter(key, Exhaustive, options, opts...)
}

// Options returns a copy of the registered options in order.
func (p *OptionParameter[T]) Options() Options[T] {
	return p.options.clone()
}

func (p *OptionParameter[T]) Restriction() Restriction {
	return p.restriction
}

// Exhaustive reports whether the options bound the parameter's domain.
func (p *OptionParameter[T]) Exhaustive() bool {
	return p.restriction == Exhaustive
}

// Lookup returns the option whose value equals value, for example to
// highlight the active choice. It is not used by Retrieve or Store.
func (p *OptionParameter[T]) Lookup(value T) (Option[T], error) {
	option, err := p.options.ByValue(value)
	if err != nil {
		return option, newError(KindOptionNotFound, p.key, value, nil)
	}
	return option, nil
}

// Active retrieves the current value from store and returns its option.
func (p *OptionParameter[T]) Active(store Store, opts ...CallOption) (Option[T], error) {
	value, err := p.Retrieve(store, opts...)
	if err != nil {
		return Option[T]{}, err
	}
	return p.Lookup(value)
}
