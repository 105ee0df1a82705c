package main

import (
	"errors"
	"fmt"
	"os"

	params "github.com/goliatone/go-params"
	"github.com/goliatone/go-params/pkg/catalog"
	"github.com/goliatone/go-params/pkg/kvs"
)

// session is one command's view of the catalog and the settings file.
type session struct {
	registry *params.Registry
	store    *kvs.Store
	path     string
}

func (a *app) open() (*session, error) {
	catalogPath := a.v.GetString("catalog")
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return nil, err
	}
	registry, err := cat.Registry(
		catalog.WithLogger(a.logger),
		catalog.WithHooks(a.changeLogger()),
		catalog.WithEvaluatorLogger(params.EvaluatorLoggerFunc(func(event params.EvaluatorLogEvent) {
			a.logger.Debug("evaluated", "engine", event.Engine, "key", event.Key, "expr", event.Expr, "took", event.Duration, "err", event.Err)
		})),
	)
	if err != nil {
		return nil, fmt.Errorf("catalog %q: %w", catalogPath, err)
	}
	a.logger.Debug("catalog loaded", "path", catalogPath, "parameters", registry.Len())

	path := a.v.GetString("settings")
	store := kvs.New(kvs.WithLogger(a.logger))
	if _, err := os.Stat(path); err == nil {
		changed, err := store.Load(path, kvs.Silent())
		if err != nil {
			return nil, err
		}
		a.logger.Debug("settings loaded", "path", path, "entries", len(changed))
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("settings %q: %w", path, err)
	}
	return &session{registry: registry, store: store, path: path}, nil
}

func (s *session) lookup(key string) (params.Describer, error) {
	p, ok := s.registry.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("unknown parameter %q", key)
	}
	return p, nil
}

func (s *session) save() error {
	return s.store.Dump(s.path)
}
