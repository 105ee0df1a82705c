package kvs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-params/pkg/activity"
)

func writeSettings(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDumpEmptyStoreWritesEmptyObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, New().Dump(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestLoadEmptyAndTrivialObjects(t *testing.T) {
	changed, err := New().Load(writeSettings(t, "empty.json", "{}"))
	require.NoError(t, err)
	assert.Empty(t, changed)

	changed, err = New().Load(writeSettings(t, "trivial.json", `{"a": 1}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, changed)
}

func TestLoadReportsOnlyNewValuesByDefault(t *testing.T) {
	capture := &activity.CaptureHook{}
	store := New(
		WithHooks(activity.Hooks{capture}),
		WithEntries(map[string]any{"a": 1, "c": "same"}),
	)
	path := writeSettings(t, "settings.json", `{"a": 1, "b": 2, "c": "same"}`)

	changed, err := store.Load(path)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"b": float64(2)}, changed)
	assert.Equal(t, float64(2), store.Get("b", nil))
	assert.Equal(t, []string{"b"}, capture.Keys())
	assert.Equal(t, activity.VerbLoaded, capture.Events[0].Verb)
	assert.True(t, capture.Events[0].Merge)
}

func TestLoadAllValuesReportsEverything(t *testing.T) {
	store := New(WithEntries(map[string]any{"a": 1}))
	path := writeSettings(t, "settings.json", `{"a": 1, "b": 2}`)

	changed, err := store.Load(path, AllValues())
	require.NoError(t, err)
	assert.Len(t, changed, 2)
}

func TestLoadWithoutMergeLeavesStoreUntouched(t *testing.T) {
	capture := &activity.CaptureHook{}
	store := New(WithHooks(activity.Hooks{capture}))
	path := writeSettings(t, "settings.yaml", "a: 1\nb: two\n")

	changed, err := store.Load(path, NoMerge())
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"a": 1, "b": "two"}, changed)
	assert.Equal(t, 0, store.Len())
	require.Len(t, capture.Events, 2)
	assert.False(t, capture.Events[0].Merge)
}

func TestLoadSilentSuppressesEvents(t *testing.T) {
	capture := &activity.CaptureHook{}
	store := New(WithHooks(activity.Hooks{capture}))

	_, err := store.Load(writeSettings(t, "settings.json", `{"a": 1}`), Silent())
	require.NoError(t, err)
	assert.True(t, store.Has("a"))
	assert.Empty(t, capture.Events)
}

func TestLoadRunsPreHooks(t *testing.T) {
	store := New()
	path := writeSettings(t, "settings.env", "LEGACY_PORT=8080\n")

	rename := func(lctx LoadContext, contents map[string]any) (map[string]any, error) {
		assert.Equal(t, "env", lctx.Format)
		if value, ok := contents["LEGACY_PORT"]; ok {
			delete(contents, "LEGACY_PORT")
			contents["port"] = value
		}
		return contents, nil
	}

	changed, err := store.Load(path, WithPreHook(rename))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"port": "8080"}, changed)

	boom := errors.New("boom")
	_, err = store.Load(path, WithPreHook(func(LoadContext, map[string]any) (map[string]any, error) {
		return nil, boom
	}))
	require.ErrorIs(t, err, boom)
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	_, err := New().Load(writeSettings(t, "settings.ini", "a=1"))
	require.ErrorIs(t, err, ErrUnknownFormat)

	err = New().Dump(filepath.Join(t.TempDir(), "settings.toml"))
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadReportsDecodeErrors(t *testing.T) {
	_, err := New().Load(writeSettings(t, "settings.json", `{"a":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode json")
}

func TestDumpToAndLoadFrom(t *testing.T) {
	var buf bytes.Buffer
	source := New(WithEntries(map[string]any{"mode": "fast"}))
	require.NoError(t, source.DumpTo(&buf, YAMLCodec{}))
	assert.Equal(t, "mode: fast\n", buf.String())

	target := New()
	changed, err := target.LoadFrom(strings.NewReader(buf.String()), YAMLCodec{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"mode": "fast"}, changed)
}

func TestEnvCodecQuotesStrings(t *testing.T) {
	data, err := EnvCodec{}.Marshal(map[string]any{"NAME": "demo app", "PORT": 8080})
	require.NoError(t, err)
	assert.Equal(t, "NAME=\"demo app\"\nPORT=8080\n", string(data))
}
