package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	params "github.com/goliatone/go-params"
	"github.com/goliatone/go-params/pkg/activity"
)

const sample = `
parameters:
  - key: server.port
    type: int
    default: 8080
    validate: value > 0 && value < 65536
    name: Port
    summary: TCP port to listen on.
  - key: mode
    type: string
    default: safe
    exhaustive: true
    options:
      - value: fast
        name: Fast
      - value: safe
        name: Safe
  - key: ratio
    type: float
    default: 0.5
    engine: cel
    validate: value >= 0.0 && value <= 1.0
  - key: timeout
    type: duration
    default: 30s
    validate: value > duration('0s')
    engine: cel
  - key: debug
    type: bool
    default: false
  - key: color
    type: string
    options:
      - value: red
      - value: blue
`

func buildSample(t *testing.T, opts ...BuildOption) *params.Registry {
	t.Helper()
	catalog, err := Parse([]byte(sample))
	require.NoError(t, err)
	registry, err := catalog.Registry(opts...)
	require.NoError(t, err)
	return registry
}

func TestRegistryBuildsEveryDefinition(t *testing.T) {
	registry := buildSample(t)

	assert.Equal(t, []string{"color", "debug", "mode", "ratio", "server.port", "timeout"}, registry.Keys())

	values, err := registry.Values(params.MapStore{})
	require.ErrorIs(t, err, params.ErrParse, "color has no default")
	assert.Contains(t, err.Error(), `"color"`)
	assert.Equal(t, 8080, values["server.port"])
	assert.Equal(t, "safe", values["mode"])
	assert.Equal(t, 0.5, values["ratio"])
	assert.Equal(t, 30*time.Second, values["timeout"])
	assert.Equal(t, false, values["debug"])

	_, present := values["color"]
	assert.False(t, present)
}

func TestExpressionValidatorsRejectValues(t *testing.T) {
	registry := buildSample(t)
	store := params.MapStore{"server.port": 70000, "ratio": 1.5, "timeout": "-1s"}

	err := registry.Check(store)
	require.Error(t, err)
	assert.ErrorIs(t, err, params.ErrValidation)
	assert.Contains(t, err.Error(), `"server.port"`)
	assert.Contains(t, err.Error(), `"ratio"`)
	assert.Contains(t, err.Error(), `"timeout"`)
}

func TestExhaustiveDefinitionRestrictsValues(t *testing.T) {
	registry := buildSample(t)
	mode, ok := registry.Lookup("mode")
	require.True(t, ok)

	store := params.MapStore{}
	err := mode.Assign(store, "reckless")
	require.ErrorIs(t, err, params.ErrValidation)
	assert.False(t, store.Has("mode"))

	require.NoError(t, mode.Assign(store, "fast"))
	assert.Equal(t, "fast", store["mode"])

	desc := mode.Describe()
	assert.True(t, desc.Exhaustive())
	require.Len(t, desc.Options, 2)
	assert.Equal(t, "Fast", desc.Options[0].Presenter.Name)

	color, ok := registry.Lookup("color")
	require.True(t, ok)
	require.NoError(t, color.Assign(store, "green"))
	assert.Equal(t, "inclusive", color.Describe().Restriction)
}

func TestPresenterFromDefinition(t *testing.T) {
	registry := buildSample(t)
	port, _ := registry.Lookup("server.port")
	desc := port.Describe()
	assert.Equal(t, "Port", desc.Label())
	assert.Equal(t, "TCP port to listen on.", desc.Presenter.Summary)

	debug, _ := registry.Lookup("debug")
	assert.Nil(t, debug.Describe().Presenter)
}

func TestBuildOptionsReachParameters(t *testing.T) {
	capture := &activity.CaptureHook{}
	var evaluations []params.EvaluatorLogEvent
	registry := buildSample(t,
		WithHooks(activity.Hooks{capture}),
		WithEvaluatorLogger(params.EvaluatorLoggerFunc(func(event params.EvaluatorLogEvent) {
			evaluations = append(evaluations, event)
		})),
	)
	port, _ := registry.Lookup("server.port")

	require.NoError(t, port.Assign(params.MapStore{}, "9090"))
	assert.Equal(t, []string{"server.port"}, capture.Keys())
	require.NotEmpty(t, evaluations)
	assert.Equal(t, "expr", evaluations[0].Engine)
	assert.Equal(t, "server.port", evaluations[0].Key)
}

func TestCustomFunctionsInValidateExpressions(t *testing.T) {
	functions := params.NewFunctionRegistry()
	require.NoError(t, functions.Register("even", func(args ...any) (any, error) {
		n, ok := args[0].(int)
		return ok && n%2 == 0, nil
	}))
	catalog, err := Parse([]byte(`
parameters:
  - key: workers
    type: int
    default: 4
    validate: even(value)
`))
	require.NoError(t, err)
	registry, err := catalog.Registry(WithFunctionRegistry(functions))
	require.NoError(t, err)

	workers, _ := registry.Lookup("workers")
	require.NoError(t, workers.Assign(params.MapStore{}, 2))
	require.ErrorIs(t, workers.Assign(params.MapStore{}, 3), params.ErrValidation)
}

func TestInvalidDefinitionsAreReportedTogether(t *testing.T) {
	catalog, err := Parse([]byte(`
parameters:
  - key: ""
    type: int
  - key: a
    type: complex
  - key: b
    type: string
    exhaustive: true
  - key: c
    type: int
    options:
      - value: nope
  - key: d
    type: int
    engine: lua
    validate: value > 0
  - key: e
    type: int
    validate: "value >"
`))
	require.NoError(t, err)

	_, err = catalog.Registry()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDefinition)
	for _, fragment := range []string{"key is required", "unknown type", "declares no options", "option 0", "unknown engine", `"e" validate`} {
		assert.Contains(t, err.Error(), fragment)
	}
}

func TestDuplicateKeys(t *testing.T) {
	catalog := &Catalog{Parameters: []Definition{
		{Key: "a", Type: TypeInt},
		{Key: "a", Type: TypeString},
	}}
	_, err := catalog.Registry()
	require.ErrorIs(t, err, params.ErrDuplicateKey)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	catalog, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, catalog.Parameters, 6)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
