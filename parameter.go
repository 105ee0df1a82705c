package params

import (
	"context"
	"fmt"
	"reflect"

	"github.com/goliatone/go-params/pkg/activity"
)

// Parser converts a raw store value into a domain value. Parsers should be
// pure: they also run when checking whether a default is valid.
type Parser[T any] func(raw any) (T, error)

// Dumper converts a domain value into a raw, store-representable value. It is
// the conceptual inverse of a Parser but may be lossy.
type Dumper[T any] func(value T) any

// Validator decides whether a parsed value is acceptable. Returning an error
// signals that the validation logic itself failed, which is reported apart
// from a plain rejection.
type Validator[T any] func(value T) (bool, error)

// Predicate adapts a plain boolean predicate to a Validator.
func Predicate[T any](fn func(T) bool) Validator[T] {
	if fn == nil {
		return nil
	}
	return func(value T) (bool, error) {
		return fn(value), nil
	}
}

// Identity returns a parser that accepts raw values already of type T. A nil
// raw value parses as the zero T when T can hold nil (pointers, interfaces,
// maps, slices, channels and funcs), which is how an absent None option or a
// null decoded from a file comes back.
func Identity[T any]() Parser[T] {
	nilable := canBeNil[T]()
	return func(raw any) (T, error) {
		var zero T
		if raw == nil && nilable {
			return zero, nil
		}
		value, ok := raw.(T)
		if !ok {
			return zero, fmt.Errorf("expected %s, got %T", typeName[T](), raw)
		}
		return value, nil
	}
}

func canBeNil[T any]() bool {
	switch reflect.TypeOf((*T)(nil)).Elem().Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return true
	default:
		return false
	}
}

func identityDumper[T any](value T) any {
	return value
}

func acceptAll[T any](T) (bool, error) {
	return true, nil
}

// Parameter describes a named setting: its key, default, and how to parse,
// validate and dump its values. A Parameter never holds a current value;
// values live in the Store handed to each call, so one Parameter can serve
// any number of stores concurrently.
type Parameter[T any] struct {
	key       string
	def       any
	parser    Parser[T]
	dumper    Dumper[T]
	validator Validator[T]
	presenter *Presenter
	hooks     activity.Hooks
	logger    Logger
}

// New builds a Parameter for key. It panics when key is empty or when an
// option installs a nil parser, dumper or validator: those are programming
// errors, not runtime conditions.
func New[T any](key string, opts ...ParameterOption[T]) *Parameter[T] {
	return newParameter(key, applyParameterOptions(opts))
}

func newParameter[T any](key string, cfg parameterConfig[T]) *Parameter[T] {
	if key == "" {
		panic("params: parameter key must not be empty")
	}
	if cfg.parser == nil {
		panic(fmt.Sprintf("params: parameter %q has a nil parser", key))
	}
	if cfg.dumper == nil {
		panic(fmt.Sprintf("params: parameter %q has a nil dumper", key))
	}
	if cfg.validator == nil {
		panic(fmt.Sprintf("params: parameter %q has a nil validator", key))
	}
	def := cfg.def
	if cfg.defValue != nil {
		def = cfg.dumper(*cfg.defValue)
	}
	logger := cfg.logger
	if logger == nil {
		logger = noopLogger{}
	}
	return &Parameter[T]{
		key:       key,
		def:       def,
		parser:    cfg.parser,
		dumper:    cfg.dumper,
		validator: cfg.validator,
		presenter: cfg.presenter.clone(),
		hooks:     cfg.hooks.Clone(),
		logger:    logger,
	}
}

// Key returns the identifier the parameter is stored under.
func (p *Parameter[T]) Key() string {
	return p.key
}

// Default returns the raw default used when a store has no entry for Key.
func (p *Parameter[T]) Default() any {
	return p.def
}

// Presenter returns a copy of the presentation texts, or nil.
func (p *Parameter[T]) Presenter() *Presenter {
	return p.presenter.clone()
}

// Parser returns the parser installed at construction.
func (p *Parameter[T]) Parser() Parser[T] {
	return p.parser
}

// Dumper returns the dumper installed at construction.
func (p *Parameter[T]) Dumper() Dumper[T] {
	return p.dumper
}

// Validator returns the validator, which for an exhaustive OptionParameter
// without an explicit one is the membership check.
func (p *Parameter[T]) Validator() Validator[T] {
	return p.validator
}

// ParseAndValidate runs candidate through the parser and validator, returning
// a valid value or an *Error of kind KindParse, KindValidator or
// KindValidation.
func (p *Parameter[T]) ParseAndValidate(candidate any, opts ...CallOption) (T, error) {
	cfg := applyCallOptions(opts)
	parser := resolveOverride(cfg.parser, p.parser, "parser", p.key)
	validator := resolveOverride(cfg.validator, p.validator, "validator", p.key)

	var zero T
	refined, err := runParser(parser, candidate)
	if err != nil {
		p.logger.Debug("params: parse failed", "key", p.key, "err", err)
		return zero, newError(KindParse, p.key, candidate, err)
	}

	ok, err := runValidator(validator, refined)
	if err != nil {
		p.logger.Debug("params: validator failed", "key", p.key, "err", err)
		return zero, newError(KindValidator, p.key, refined, err)
	}
	if !ok {
		p.logger.Debug("params: value rejected", "key", p.key)
		return zero, newError(KindValidation, p.key, refined, nil)
	}
	return refined, nil
}

// Retrieve reads the value for Key from store, falling back to Default, and
// returns it parsed and validated. An absent key and a key holding the default
// are indistinguishable.
func (p *Parameter[T]) Retrieve(store Store, opts ...CallOption) (T, error) {
	if store == nil {
		panic(fmt.Sprintf("params: retrieve %q from nil store", p.key))
	}
	return p.ParseAndValidate(store.Get(p.key, p.def), opts...)
}

// Store dumps value into store under Key. The value is not validated; the
// next Retrieve does that. A change event is emitted unless Silent is passed.
func (p *Parameter[T]) Store(store Store, value T, opts ...CallOption) {
	if store == nil {
		panic(fmt.Sprintf("params: store %q into nil store", p.key))
	}
	cfg := applyCallOptions(opts)
	dumper := resolveOverride(cfg.dumper, p.dumper, "dumper", p.key)
	store.Set(p.key, dumper(value))
	if !cfg.silent {
		p.emit(cfg, activity.StoredEvent(store, p.key, value))
	}
}

// Reset removes any value for Key from store. Other keys and the parameter's
// default are untouched. Resetting a missing key is a silent no-op; a reset
// event is emitted only when an entry was removed.
func (p *Parameter[T]) Reset(store Store, opts ...CallOption) {
	if store == nil {
		panic(fmt.Sprintf("params: reset %q in nil store", p.key))
	}
	cfg := applyCallOptions(opts)
	if !store.Delete(p.key) {
		return
	}
	if !cfg.silent {
		p.emit(cfg, activity.ResetEvent(store, p.key))
	}
}

// DefaultIsValid reports whether Default survives ParseAndValidate. User
// interfaces use it to decide whether to offer "restore default". Parser and
// validator panics count as an invalid default, like any other pipeline error.
func (p *Parameter[T]) DefaultIsValid(opts ...CallOption) bool {
	_, err := p.ParseAndValidate(p.def, opts...)
	return err == nil
}

func (p *Parameter[T]) emit(cfg callConfig, event activity.Event) {
	hooks := p.hooks
	if cfg.hooksSet {
		hooks = cfg.hooks
	}
	if !hooks.Enabled() {
		return
	}
	ctx := cfg.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := hooks.Notify(ctx, event); err != nil {
		p.logger.Warn("params: change listener failed", "key", p.key, "verb", event.Verb, "err", err)
	}
}

func runParser[T any](parser Parser[T], candidate any) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Recovered: r}
		}
	}()
	return parser(candidate)
}

func runValidator[T any](validator Validator[T], value T) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = &PanicError{Recovered: r}
		}
	}()
	return validator(value)
}
