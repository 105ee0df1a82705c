package params

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-params/pkg/activity"
)

func TestRetrieveMissingKeyParsesDefault(t *testing.T) {
	p := NewInt("a")

	_, err := p.Retrieve(MapStore{})
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected parse failure for nil default, got %v", err)
	}
	_, direct := p.ParseAndValidate(p.Default())
	if KindOf(direct) != KindOf(err) {
		t.Fatalf("retrieve and direct parse disagree: %v vs %v", err, direct)
	}
}

func TestRetrieveParsesStoredStrings(t *testing.T) {
	p := NewInt("a")

	_, err := p.Retrieve(MapStore{"a": "A"})
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected parse failure for 'A', got %v", err)
	}
	var perr *Error
	if !errors.As(err, &perr) || perr.Key != "a" || perr.Value != "A" {
		t.Fatalf("expected error to carry key and candidate, got %#v", err)
	}

	value, err := p.Retrieve(MapStore{"a": "2"})
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if value != 2 {
		t.Fatalf("expected 2, got %d", value)
	}
}

func TestValidationFailureIsNotParseFailure(t *testing.T) {
	p := NewInt("a", WithValidator(Predicate(func(v int) bool { return v > 0 })))

	_, err := p.Retrieve(MapStore{"a": -1})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation failure, got %v", err)
	}
	if errors.Is(err, ErrParse) || errors.Is(err, ErrValidator) {
		t.Fatalf("validation failure must not match other kinds: %v", err)
	}
	if !IsParameterError(err) {
		t.Fatalf("expected parameter error marker")
	}
}

func TestPanickingValidatorIsValidatorFailure(t *testing.T) {
	zero := 0
	p := NewInt("a", WithValidator[int](func(v int) (bool, error) {
		return v/zero > 0, nil
	}))

	_, err := p.Retrieve(MapStore{"a": 4})
	if !errors.Is(err, ErrValidator) {
		t.Fatalf("expected validator failure, got %v", err)
	}
	if errors.Is(err, ErrValidation) {
		t.Fatalf("validator failure must differ from validation failure")
	}
	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("expected recovered panic in chain, got %v", err)
	}
}

func TestValidatorErrorIsValidatorFailure(t *testing.T) {
	boom := errors.New("boom")
	p := NewInt("a", WithValidator[int](func(int) (bool, error) { return false, boom }))

	_, err := p.Retrieve(MapStore{"a": 1})
	if !errors.Is(err, ErrValidator) || !errors.Is(err, boom) {
		t.Fatalf("expected validator failure wrapping boom, got %v", err)
	}
}

func TestPanickingParserIsParseFailure(t *testing.T) {
	p := New("a", WithParser[int](func(raw any) (int, error) {
		return raw.(map[string]any)["x"].(int), nil
	}))

	_, err := p.Retrieve(MapStore{"a": "not a map"})
	if KindOf(err) != KindParse {
		t.Fatalf("expected parse kind, got %v (%v)", KindOf(err), err)
	}
}

func TestStoreRetrieveRoundTrip(t *testing.T) {
	p := NewDuration("timeout")
	store := MapStore{}

	p.Store(store, 90*time.Second)
	if store["timeout"] != "1m30s" {
		t.Fatalf("expected dumped duration, got %#v", store["timeout"])
	}
	value, err := p.Retrieve(store)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if value.Seconds() != 90 {
		t.Fatalf("expected 90s, got %v", value)
	}
}

func TestStoreDoesNotValidate(t *testing.T) {
	p := NewInt("a", WithValidator(Predicate(func(v int) bool { return v > 0 })))
	store := MapStore{}

	p.Store(store, -3)
	if store["a"] != -3 {
		t.Fatalf("expected store to hold -3, got %#v", store["a"])
	}
	if _, err := p.Retrieve(store); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected retrieval to reject -3, got %v", err)
	}
}

func TestResetRestoresDefaultAndIsIdempotent(t *testing.T) {
	p := NewInt("a", WithDefault[int](7))
	store := MapStore{"a": 3, "b": 1}

	p.Reset(store)
	p.Reset(store)

	if store.Has("a") {
		t.Fatalf("expected key removed")
	}
	if store["b"] != 1 {
		t.Fatalf("reset must leave other keys alone")
	}
	value, err := p.Retrieve(store)
	if err != nil || value != 7 {
		t.Fatalf("expected default 7, got %d (%v)", value, err)
	}
}

func TestDefaultIsValid(t *testing.T) {
	if NewInt("a").DefaultIsValid() {
		t.Fatalf("nil default must not be valid for an int parameter")
	}
	if !NewInt("a", WithDefault[int]("5")).DefaultIsValid() {
		t.Fatalf("expected '5' to be a valid default")
	}
	strict := NewInt("a", WithDefault[int](5))
	if strict.DefaultIsValid(UsingValidator(Predicate(func(v int) bool { return v > 10 }))) {
		t.Fatalf("override validator should reject the default")
	}
	exploding := New("a", WithParser(Parser[int](func(any) (int, error) { panic("boom") })))
	if exploding.DefaultIsValid() {
		t.Fatalf("a panicking parser makes the default invalid")
	}
}

func TestWithDefaultValueUsesDumper(t *testing.T) {
	p := NewDuration("timeout", WithDefaultValue(2*time.Second))
	if p.Default() != "2s" {
		t.Fatalf("expected dumped default, got %#v", p.Default())
	}
}

func TestCallOverrides(t *testing.T) {
	p := NewInt("a")
	store := MapStore{"a": "0x10"}

	value, err := p.Retrieve(store, UsingParser[int](func(raw any) (int, error) {
		return len(raw.(string)), nil
	}))
	if err != nil || value != 4 {
		t.Fatalf("expected override parser result 4, got %d (%v)", value, err)
	}

	p.Store(store, 5, UsingDumper[int](func(v int) any { return strings.Repeat("x", v) }))
	if store["a"] != "xxxxx" {
		t.Fatalf("expected override dumper output, got %#v", store["a"])
	}
}

func TestCallOverrideOfWrongTypePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for mismatched parser override")
		}
	}()
	NewInt("a").Retrieve(MapStore{}, UsingParser(String()))
}

func TestConstructionContract(t *testing.T) {
	cases := map[string]func(){
		"empty key":      func() { NewInt("") },
		"nil parser":     func() { New[int]("a", WithParser[int](nil)) },
		"nil validator":  func() { New[int]("a", WithValidator[int](nil)) },
		"nil dumper":     func() { New[int]("a", WithDumper[int](nil)) },
		"nil store read": func() { NewInt("a").Retrieve(nil) },
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic")
				}
			}()
			fn()
		})
	}
}

func TestStoreAndResetSignal(t *testing.T) {
	capture := &activity.CaptureHook{}
	p := NewInt("a", WithHooks[int](activity.Hooks{capture}))
	store := MapStore{}

	p.Store(store, 1)
	p.Store(store, 2, Silent())
	p.Reset(store)
	p.Reset(store)

	if len(capture.Events) != 2 {
		t.Fatalf("expected stored and reset events only, got %d", len(capture.Events))
	}
	if capture.Events[0].Verb != activity.VerbStored || capture.Events[0].Value != 1 {
		t.Fatalf("unexpected stored event %#v", capture.Events[0])
	}
	if capture.Events[1].Verb != activity.VerbReset || !capture.Events[1].Reset {
		t.Fatalf("unexpected reset event %#v", capture.Events[1])
	}
}

func TestNotifyToReplacesHooksForOneCall(t *testing.T) {
	own := &activity.CaptureHook{}
	other := &activity.CaptureHook{}
	p := NewInt("a", WithHooks[int](activity.Hooks{own}))

	p.Store(MapStore{}, 1, NotifyTo(activity.Hooks{other}), WithContext(context.Background()))

	if len(own.Events) != 0 || len(other.Events) != 1 {
		t.Fatalf("expected only the per-call hooks to fire, got own=%d other=%d", len(own.Events), len(other.Events))
	}
}

type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Debug(any, ...any) {}
func (l *recordingLogger) Warn(msg any, _ ...any) {
	l.warnings = append(l.warnings, msg.(string))
}

func TestListenerErrorsAreLoggedNotReturned(t *testing.T) {
	logger := &recordingLogger{}
	failing := &activity.CaptureHook{Err: errors.New("listener down")}
	p := NewInt("a", WithHooks[int](activity.Hooks{failing}), WithLogger[int](logger))
	store := MapStore{}

	p.Store(store, 1)

	if store["a"] != 1 {
		t.Fatalf("store must succeed despite listener failure")
	}
	if len(logger.warnings) != 1 {
		t.Fatalf("expected one warning, got %v", logger.warnings)
	}
}

func TestOneParameterServesManyStores(t *testing.T) {
	p := NewString("name", WithDefault[string]("anon"))
	first, second := MapStore{}, MapStore{"name": "bob"}

	p.Store(first, "alice")
	a, _ := p.Retrieve(first)
	b, _ := p.Retrieve(second)
	if a != "alice" || b != "bob" {
		t.Fatalf("expected independent stores, got %q and %q", a, b)
	}
}
