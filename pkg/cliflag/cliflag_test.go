package cliflag

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	params "github.com/goliatone/go-params"
)

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetOutput(discard{})
	return fs
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestVarParsesValidatesAndStores(t *testing.T) {
	store := params.MapStore{}
	port := params.NewInt("server.port",
		params.WithDefault[int](8080),
		params.WithValidator(params.Predicate(func(v int) bool { return v > 0 })),
		params.WithPresenter[int](&params.Presenter{Name: "Port", Summary: "listen port"}),
	)
	fs := newFlagSet()
	flag := Var(fs, port, store)

	assert.Equal(t, "server-port", flag.Name)
	assert.Equal(t, "listen port", flag.Usage)
	assert.Equal(t, "int", flag.Value.Type())
	assert.Equal(t, "8080", flag.DefValue)

	require.NoError(t, fs.Parse([]string{"--server-port", "9090"}))
	assert.Equal(t, 9090, store["server.port"])
}

func TestVarRejectsInvalidTokensWithoutTouchingStore(t *testing.T) {
	store := params.MapStore{}
	port := params.NewInt("port",
		params.WithValidator(params.Predicate(func(v int) bool { return v > 0 })),
	)
	fs := newFlagSet()
	Var(fs, port, store)

	err := fs.Parse([]string{"--port", "abc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"port"`)
	assert.False(t, store.Has("port"))

	err = newFlagSetWith(t, port, store).Parse([]string{"--port=-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid")
	assert.False(t, store.Has("port"))
}

func newFlagSetWith(t *testing.T, p params.Describer, store params.Store) *pflag.FlagSet {
	t.Helper()
	fs := newFlagSet()
	Var(fs, p, store)
	return fs
}

func TestVarOnExhaustiveParameterListsChoices(t *testing.T) {
	store := params.MapStore{}
	mode := params.NewExhaustiveParameter("mode",
		[]params.Option[string]{{Value: "fast"}, {Value: "safe"}},
		params.WithParser(params.String()),
		params.WithDefault[string]("safe"),
	)
	fs := newFlagSet()
	flag := Var(fs, mode, store)

	assert.Equal(t, "mode (one of: fast, safe)", flag.Usage)
	require.Error(t, fs.Parse([]string{"--mode", "slow"}))
	require.NoError(t, fs.Parse([]string{"--mode", "fast"}))
	assert.Equal(t, "fast", store["mode"])
}

func TestConstStoresWithoutParsing(t *testing.T) {
	store := params.MapStore{}
	level := params.NewInt("level")
	fs := newFlagSet()
	Const(fs, level, store, 3, WithName("max-level"), WithShorthand("m"))

	require.NoError(t, fs.Parse([]string{"-m"}))
	assert.Equal(t, 3, store["level"])
}

func TestTrueAndFalseSwitches(t *testing.T) {
	store := params.MapStore{}
	verbose := params.NewBool("verbose", params.WithDefault[bool](false))
	fs := newFlagSet()
	True(fs, verbose, store)
	False(fs, verbose, store)

	require.NoError(t, fs.Parse([]string{"--verbose"}))
	assert.Equal(t, true, store["verbose"])

	require.NoError(t, fs.Parse([]string{"--no-verbose"}))
	assert.Equal(t, false, store["verbose"])
}

func TestBindRegistryRegistersEveryKey(t *testing.T) {
	store := params.MapStore{}
	registry, err := params.NewRegistry(
		params.NewString("name"),
		params.NewFloat("ratio"),
	)
	require.NoError(t, err)
	fs := newFlagSet()
	BindRegistry(fs, registry, store, WithCallOptions(params.Silent()))

	require.NoError(t, fs.Parse([]string{"--name", "demo", "--ratio", "0.5"}))
	assert.Equal(t, "demo", store["name"])
	assert.Equal(t, 0.5, store["ratio"])
}

func TestFlagName(t *testing.T) {
	assert.Equal(t, "log-level", FlagName("log_level"))
	assert.Equal(t, "ui-theme-name", FlagName("UI.Theme.Name"))
}
