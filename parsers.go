package params

import (
	"errors"
	"time"

	"github.com/spf13/cast"
)

var errNilValue = errors.New("value is nil")

// Int parses integers from numbers and numeric strings. nil is rejected.
func Int() Parser[int] {
	return func(raw any) (int, error) {
		if raw == nil {
			return 0, errNilValue
		}
		return cast.ToIntE(raw)
	}
}

// Float parses floating point numbers from numbers and numeric strings.
func Float() Parser[float64] {
	return func(raw any) (float64, error) {
		if raw == nil {
			return 0, errNilValue
		}
		return cast.ToFloat64E(raw)
	}
}

// Bool parses booleans from booleans, numbers and strconv.ParseBool strings.
func Bool() Parser[bool] {
	return func(raw any) (bool, error) {
		if raw == nil {
			return false, errNilValue
		}
		return cast.ToBoolE(raw)
	}
}

// String parses any scalar into its string form.
func String() Parser[string] {
	return func(raw any) (string, error) {
		if raw == nil {
			return "", errNilValue
		}
		return cast.ToStringE(raw)
	}
}

// Duration parses "1m30s" style strings; bare numbers are nanoseconds.
func Duration() Parser[time.Duration] {
	return func(raw any) (time.Duration, error) {
		if raw == nil {
			return 0, errNilValue
		}
		return cast.ToDurationE(raw)
	}
}

// Time parses RFC 3339 and the other layouts cast understands.
func Time() Parser[time.Time] {
	return func(raw any) (time.Time, error) {
		if raw == nil {
			return time.Time{}, errNilValue
		}
		return cast.ToTimeE(raw)
	}
}

// DumpDuration stores durations as strings so they survive text formats.
func DumpDuration(value time.Duration) any {
	return value.String()
}

// DumpTime stores times as RFC 3339 strings.
func DumpTime(value time.Time) any {
	return value.Format(time.RFC3339Nano)
}

// NewInt builds an integer parameter. Later options override the parser.
func NewInt(key string, opts ...ParameterOption[int]) *Parameter[int] {
	return New(key, prepend(opts, WithParser(Int()))...)
}

// NewFloat builds a float parameter.
func NewFloat(key string, opts ...ParameterOption[float64]) *Parameter[float64] {
	return New(key, prepend(opts, WithParser(Float()))...)
}

// NewBool builds a boolean parameter.
func NewBool(key string, opts ...ParameterOption[bool]) *Parameter[bool] {
	return New(key, prepend(opts, WithParser(Bool()))...)
}

// NewString builds a string parameter.
func NewString(key string, opts ...ParameterOption[string]) *Parameter[string] {
	return New(key, prepend(opts, WithParser(String()))...)
}

// NewDuration builds a duration parameter dumped as a string.
func NewDuration(key string, opts ...ParameterOption[time.Duration]) *Parameter[time.Duration] {
	return New(key, prepend(opts, WithParser(Duration()), WithDumper[time.Duration](DumpDuration))...)
}

// NewTime builds a date-time parameter dumped as RFC 3339.
func NewTime(key string, opts ...ParameterOption[time.Time]) *Parameter[time.Time] {
	return New(key, prepend(opts, WithParser(Time()), WithDumper[time.Time](DumpTime))...)
}

func prepend[T any](opts []ParameterOption[T], head ...ParameterOption[T]) []ParameterOption[T] {
	out := make([]ParameterOption[T], 0, len(head)+len(opts))
	out = append(out, head...)
	return append(out, opts...)
}
