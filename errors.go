package params

import (
	"errors"
	"fmt"
)

// ErrorKind discriminates the failure modes of the parameter pipeline.
type ErrorKind int

const (
	// KindParse reports a candidate the parser could not convert.
	KindParse ErrorKind = iota + 1
	// KindValidator reports a validator that failed while evaluating a value.
	KindValidator
	// KindValidation reports a well-formed value the validator rejected.
	KindValidation
	// KindOptionNotFound reports a lookup that matched no registered option.
	KindOptionNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindValidator:
		return "validator"
	case KindValidation:
		return "validation"
	case KindOptionNotFound:
		return "option-not-found"
	default:
		return "unknown"
	}
}

var (
	// ErrParameter matches every error produced by the parameter pipeline.
	ErrParameter = errors.New("params: parameter error")
	// ErrParse matches parser failures.
	ErrParse = errors.New("params: parse failure")
	// ErrValidator matches validators that failed internally.
	ErrValidator = errors.New("params: validator failure")
	// ErrValidation matches values rejected by a validator.
	ErrValidation = errors.New("params: validation failure")
	// ErrOptionNotFound matches option lookups that found nothing.
	ErrOptionNotFound = errors.New("params: option not found")
)

// Error carries the parameter key and the offending value alongside the
// underlying cause. Use errors.Is with the Err* sentinels to branch on Kind.
type Error struct {
	Kind  ErrorKind
	Key   string
	Value any
	Err   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var msg string
	switch e.Kind {
	case KindParse:
		msg = fmt.Sprintf("params: could not parse %#v as a value for %q", e.Value, e.Key)
	case KindValidator:
		msg = fmt.Sprintf("params: could not validate %#v as a value for %q", e.Value, e.Key)
	case KindValidation:
		msg = fmt.Sprintf("params: value %#v is not valid for %q", e.Value, e.Key)
	case KindOptionNotFound:
		if e.Key == "" {
			msg = fmt.Sprintf("params: value %#v matches no option", e.Value)
		} else {
			msg = fmt.Sprintf("params: value %#v matches no option of %q", e.Value, e.Key)
		}
	default:
		msg = fmt.Sprintf("params: error for %q", e.Key)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is ErrParameter or the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	if target == ErrParameter {
		return true
	}
	return target == e.Kind.sentinel()
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindParse:
		return ErrParse
	case KindValidator:
		return ErrValidator
	case KindValidation:
		return ErrValidation
	case KindOptionNotFound:
		return ErrOptionNotFound
	default:
		return nil
	}
}

// IsParameterError reports whether err originates from the parameter pipeline.
func IsParameterError(err error) bool {
	return errors.Is(err, ErrParameter)
}

// KindOf returns the kind of the first *Error in err's chain, or zero.
func KindOf(err error) ErrorKind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return 0
}

func newError(kind ErrorKind, key string, value any, cause error) *Error {
	return &Error{Kind: kind, Key: key, Value: value, Err: cause}
}

// PanicError wraps a value recovered from a panicking parser or validator.
type PanicError struct {
	Recovered any
}

func (e *PanicError) Error() string {
	if err, ok := e.Recovered.(error); ok {
		return "panic: " + err.Error()
	}
	return fmt.Sprintf("panic: %v", e.Recovered)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Recovered.(error); ok {
		return err
	}
	return nil
}
