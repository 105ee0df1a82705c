package params

import (
	"reflect"
)

// Describer is the type-erased view of a parameter used by registries,
// presenters, schema generators and command-line tooling.
type Describer interface {
	Key() string
	Describe() Description
	// Current retrieves the parsed, validated value from store.
	Current(store Store, opts ...CallOption) (any, error)
	// Assign parses and validates raw, then stores the parsed value.
	Assign(store Store, raw any, opts ...CallOption) error
	// Clear removes the stored value, restoring the default.
	Clear(store Store, opts ...CallOption)
}

// Description summarises a parameter for presentation layers.
type Description struct {
	Key          string              `json:"key" yaml:"key"`
	Type         string              `json:"type" yaml:"type"`
	Default      any                 `json:"default,omitempty" yaml:"default,omitempty"`
	DefaultValid bool                `json:"default_valid" yaml:"default_valid"`
	Presenter    *Presenter          `json:"presenter,omitempty" yaml:"presenter,omitempty"`
	Restriction  string              `json:"restriction,omitempty" yaml:"restriction,omitempty"`
	Options      []OptionDescription `json:"options,omitempty" yaml:"options,omitempty"`
}

// OptionDescription is an option with its value in dumped, store-shaped form.
type OptionDescription struct {
	Value     any        `json:"value" yaml:"value"`
	Presenter *Presenter `json:"presenter,omitempty" yaml:"presenter,omitempty"`
}

// Exhaustive reports whether the described options bound the domain.
func (d Description) Exhaustive() bool {
	return d.Restriction == Exhaustive.String()
}

// Label returns the presenter name, falling back to the key.
func (d Description) Label() string {
	return d.Presenter.Label(d.Key)
}

var (
	_ Describer = (*Parameter[int])(nil)
	_ Describer = (*OptionParameter[string])(nil)
)

// Describe summarises the parameter.
func (p *Parameter[T]) Describe() Description {
	return Description{
		Key:          p.key,
		Type:         typeName[T](),
		Default:      p.def,
		DefaultValid: p.DefaultIsValid(),
		Presenter:    p.presenter.clone(),
	}
}

// Current is Retrieve with the result boxed.
func (p *Parameter[T]) Current(store Store, opts ...CallOption) (any, error) {
	value, err := p.Retrieve(store, opts...)
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Assign parses and validates raw, storing the parsed value on success. The
// store is untouched on failure.
func (p *Parameter[T]) Assign(store Store, raw any, opts ...CallOption) error {
	value, err := p.ParseAndValidate(raw, opts...)
	if err != nil {
		return err
	}
	p.Store(store, value, opts...)
	return nil
}

// Clear is Reset under the Describer name.
func (p *Parameter[T]) Clear(store Store, opts ...CallOption) {
	p.Reset(store, opts...)
}

// Describe summarises the parameter including its options.
func (p *OptionParameter[T]) Describe() Description {
	desc := p.Parameter.Describe()
	desc.Restriction = p.restriction.String()
	desc.Options = make([]OptionDescription, 0, len(p.options))
	for _, option := range p.options {
		desc.Options = append(desc.Options, OptionDescription{
			Value:     p.dumper(option.Value),
			Presenter: option.UI.clone(),
		})
	}
	return desc
}

func typeName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return t.String()
}
