// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package designkit ranks design guidelines: BM25 retrieval over the
// built-in knowledge base, domain auto-detection, external configuration
// overlays, and brand-aware post-processing.
package designkit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/poiesic/designkit/advisor"
	"github.com/poiesic/designkit/catalog"
	"github.com/poiesic/designkit/config"
	"github.com/poiesic/designkit/core"
	"github.com/poiesic/designkit/search"
	"github.com/poiesic/designkit/storage"
	"github.com/poiesic/designkit/storage/badger"
)

// Engine ties the catalog, the external configuration, and the searcher
// together behind one handle. External configuration changes are picked
// up lazily: every search re-checks the directory fingerprint and
// rebuilds only when something changed.
type Engine struct {
	dataDir   string
	catalog   *catalog.Catalog
	loader    *config.Loader
	snapshots storage.SnapshotRepository
	logger    *slog.Logger

	applyBrand bool

	mu       sync.RWMutex
	external *core.ExternalConfig
	searcher *search.Searcher
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	configPath string
	cachePath  string
	logger     *slog.Logger
	applyBrand bool
}

// WithConfigPath sets the external configuration directory.
// Default is ".designkit" in the working directory.
func WithConfigPath(path string) EngineOption {
	return func(o *engineOptions) {
		o.configPath = path
	}
}

// WithSnapshotCache persists parsed external configuration in a Badger
// store at the given path, so unchanged configuration directories are
// not re-parsed across invocations.
func WithSnapshotCache(path string) EngineOption {
	return func(o *engineOptions) {
		o.cachePath = path
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithBrandProcessing applies the configured brand profile to every
// search result set.
func WithBrandProcessing() EngineOption {
	return func(o *engineOptions) {
		o.applyBrand = true
	}
}

// NewEngine creates an engine over a built-in data directory.
func NewEngine(dataDir string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	var snapshots storage.SnapshotRepository
	if options.cachePath != "" {
		backend, err := badger.OpenBackend(options.cachePath, false)
		if err != nil {
			return nil, err
		}
		snapshots = badger.NewSnapshotRepository(backend)
	}

	loaderOpts := []config.Option{config.WithLogger(options.logger)}
	if snapshots != nil {
		loaderOpts = append(loaderOpts, config.WithSnapshotRepository(snapshots))
	}

	e := &Engine{
		dataDir:    dataDir,
		catalog:    catalog.New(dataDir, catalog.WithLogger(options.logger)),
		loader:     config.NewLoader(options.configPath, loaderOpts...),
		snapshots:  snapshots,
		logger:     options.logger,
		applyBrand: options.applyBrand,
	}
	if err := e.Reload(context.Background()); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

// Reload re-reads the external configuration and rebuilds the searcher.
func (e *Engine) Reload(ctx context.Context) error {
	external, err := e.loader.Load(ctx)
	if err != nil {
		return err
	}

	searcherOpts := []search.Option{search.WithLogger(e.logger)}
	if e.applyBrand {
		searcherOpts = append(searcherOpts, search.WithBrandProcessing())
	}
	searcher, err := search.NewSearcher(e.catalog, external, searcherOpts...)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.external = external
	e.searcher = searcher
	e.mu.Unlock()
	return nil
}

// refresh rebuilds state when the configuration directory changed since
// the last load. The common case, an unchanged fingerprint, takes only
// the read lock and a directory stat.
func (e *Engine) refresh(ctx context.Context) (*search.Searcher, error) {
	e.mu.RLock()
	current := e.external
	searcher := e.searcher
	e.mu.RUnlock()

	latest, err := e.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	if latest.Fingerprint == current.Fingerprint && latest.Enabled == current.Enabled {
		return searcher, nil
	}

	e.logger.Info("external configuration changed, rebuilding",
		"old", current.Fingerprint, "new", latest.Fingerprint)
	if err := e.Reload(ctx); err != nil {
		return nil, err
	}
	e.mu.RLock()
	searcher = e.searcher
	e.mu.RUnlock()
	return searcher, nil
}

// Search runs one query against the current state.
func (e *Engine) Search(ctx context.Context, query core.Query) (*search.Response, error) {
	searcher, err := e.refresh(ctx)
	if err != nil {
		return nil, err
	}
	return searcher.Search(ctx, query)
}

// SearchWithMonitor is Search with stage callbacks.
func (e *Engine) SearchWithMonitor(ctx context.Context, query core.Query, monitor search.SearchMonitor) (*search.Response, error) {
	searcher, err := e.refresh(ctx)
	if err != nil {
		return nil, err
	}
	return searcher.SearchWithMonitor(ctx, query, monitor)
}

// Status reports on the external configuration directory.
func (e *Engine) Status(ctx context.Context) (*config.Status, error) {
	return e.loader.Status(ctx)
}

// Warm pre-builds every built-in index against the current external
// configuration.
func (e *Engine) Warm(ctx context.Context) error {
	if _, err := e.refresh(ctx); err != nil {
		return err
	}
	e.mu.RLock()
	external := e.external
	e.mu.RUnlock()
	return e.catalog.Warm(ctx, external)
}

// Catalog returns the built-in catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// NewAdvisor creates a design-system advisor over the current state.
func (e *Engine) NewAdvisor(opts ...advisor.Option) (*advisor.Advisor, error) {
	e.mu.RLock()
	external := e.external
	searcher := e.searcher
	e.mu.RUnlock()
	return advisor.New(searcher, e.catalog, external, opts...)
}

// Close releases the snapshot cache, if any.
func (e *Engine) Close() error {
	if e.snapshots == nil {
		return nil
	}
	if err := e.snapshots.Close(); err != nil {
		e.logger.Error("error closing snapshot cache", "err", err)
		return err
	}
	return nil
}
