package kvs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"

	"github.com/spf13/cast"

	"github.com/goliatone/go-params/pkg/activity"
)

// LoadContext identifies the source handed to pre-hooks.
type LoadContext struct {
	Path   string
	Format string
}

// PreHook may rewrite decoded contents before they are compared and merged.
// Returning nil keeps the input.
type PreHook func(LoadContext, map[string]any) (map[string]any, error)

// LoadOption configures Load and Clear.
type LoadOption func(*loadConfig)

type loadConfig struct {
	merge    bool
	newOnly  bool
	silent   bool
	preHooks []PreHook
	ctx      context.Context
}

func applyLoadOptions(opts []LoadOption) loadConfig {
	cfg := loadConfig{merge: true, newOnly: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.ctx == nil {
		cfg.ctx = context.Background()
	}
	return cfg
}

// NoMerge reports and signals what would change without writing it.
func NoMerge() LoadOption {
	return func(cfg *loadConfig) {
		cfg.merge = false
	}
}

// AllValues treats every loaded entry as changed, including values equal to
// what the store already holds.
func AllValues() LoadOption {
	return func(cfg *loadConfig) {
		cfg.newOnly = false
	}
}

// Silent suppresses change events.
func Silent() LoadOption {
	return func(cfg *loadConfig) {
		cfg.silent = true
	}
}

// WithPreHook appends hook to the chain run on decoded contents.
func WithPreHook(hook PreHook) LoadOption {
	return func(cfg *loadConfig) {
		if hook != nil {
			cfg.preHooks = append(cfg.preHooks, hook)
		}
	}
}

// WithContext is passed to listeners.
func WithContext(ctx context.Context) LoadOption {
	return func(cfg *loadConfig) {
		cfg.ctx = ctx
	}
}

// Dump writes the contents to path, choosing the codec by extension. The file
// is replaced atomically.
func (s *Store) Dump(path string) error {
	codec, err := CodecFor(path)
	if err != nil {
		return err
	}
	data, err := codec.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("kvs: encode %s: %w", codec.Name(), err)
	}
	return writeFile(path, data)
}

// DumpTo writes the contents to w with codec.
func (s *Store) DumpTo(w io.Writer, codec Codec) error {
	data, err := codec.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("kvs: encode %s: %w", codec.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// Load reads path and merges its contents into the store, choosing the codec
// by extension. It returns the entries considered changed: by default those
// absent from the store or holding a different value.
func (s *Store) Load(path string, opts ...LoadOption) (map[string]any, error) {
	codec, err := CodecFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("kvs: load %q: %w", path, err)
	}
	return s.load(LoadContext{Path: path, Format: codec.Name()}, data, codec, opts)
}

// LoadFrom is Load for an arbitrary reader.
func (s *Store) LoadFrom(r io.Reader, codec Codec, opts ...LoadOption) (map[string]any, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("kvs: read %s: %w", codec.Name(), err)
	}
	return s.load(LoadContext{Format: codec.Name()}, buf.Bytes(), codec, opts)
}

func (s *Store) load(lctx LoadContext, data []byte, codec Codec, opts []LoadOption) (map[string]any, error) {
	cfg := applyLoadOptions(opts)
	contents, err := codec.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("kvs: decode %s %q: %w", codec.Name(), lctx.Path, err)
	}
	for _, hook := range cfg.preHooks {
		next, err := hook(lctx, contents)
		if err != nil {
			return nil, fmt.Errorf("kvs: pre-hook for %q failed: %w", lctx.Path, err)
		}
		if next != nil {
			contents = next
		}
	}

	keys := make([]string, 0, len(contents))
	for key := range contents {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	changed := make(map[string]any, len(contents))
	for _, key := range keys {
		value := contents[key]
		if cfg.newOnly {
			if current, ok := s.entries[key]; ok && sameValue(current, value) {
				continue
			}
		}
		changed[key] = value
		if cfg.merge {
			s.entries[key] = value
		}
		if !cfg.silent {
			s.emit(cfg.ctx, activity.LoadedEvent(s, key, value, cfg.merge))
		}
	}
	return changed, nil
}

// sameValue compares loaded values with stored ones. Numbers compare by
// value so a JSON float64 matches a stored int.
func sameValue(a, b any) bool {
	if isNumber(a) && isNumber(b) {
		fa, errA := cast.ToFloat64E(a)
		fb, errB := cast.ToFloat64E(b)
		return errA == nil && errB == nil && fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func isNumber(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("kvs: dump %q: %w", path, err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("kvs: dump %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("kvs: dump %q: %w", path, err)
	}
	if err := os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return fmt.Errorf("kvs: dump %q: %w", path, err)
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return fmt.Errorf("kvs: dump %q: %w", path, err)
	}
	return nil
}
