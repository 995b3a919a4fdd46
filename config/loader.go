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


package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/poiesic/designkit/core"
	"github.com/poiesic/designkit/storage"
)

// DefaultDirName is the external configuration directory searched for in
// the working directory when no explicit path is given.
const DefaultDirName = ".designkit"

// Loader reads an external configuration directory into a merged,
// validated snapshot. Loading is permissive end to end: a missing
// directory disables external configuration, and malformed files or rows
// degrade to validation errors on the snapshot, never to a failed load.
type Loader struct {
	path      string
	logger    *slog.Logger
	snapshots storage.SnapshotRepository

	mu     sync.Mutex
	cached *core.ExternalConfig
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
	}
}

// WithSnapshotRepository enables the cross-invocation snapshot cache:
// a configuration directory whose fingerprint is already stored is
// served from the repository without re-parsing.
func WithSnapshotRepository(repo storage.SnapshotRepository) Option {
	return func(l *Loader) {
		l.snapshots = repo
	}
}

// NewLoader creates a loader for the given configuration directory.
// An empty path means DefaultDirName in the working directory.
func NewLoader(path string, opts ...Option) *Loader {
	if path == "" {
		path = DefaultDirName
	}
	l := &Loader{
		path:   path,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the configuration directory this loader reads.
func (l *Loader) Path() string { return l.path }

// Load reads the configuration directory into a snapshot. A missing
// directory yields the disabled configuration and no error. An unchanged
// directory is never re-parsed: the stat-based fingerprint is compared
// against the last snapshot first, and only a changed fingerprint reaches
// the snapshot repository or the parser.
func (l *Loader) Load(ctx context.Context) (*core.ExternalConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(l.path)
	if err != nil || !info.IsDir() {
		l.logger.Debug("no external configuration directory", "path", l.path)
		return core.DisabledExternalConfig(l.path), nil
	}

	manifestFile := manifestPath(l.path)
	manifest, err := loadManifest(manifestFile)
	if err != nil {
		// A broken manifest degrades to defaults plus a recorded error.
		l.logger.Warn("manifest rejected", "path", manifestFile, "error", err)
		manifest, _ = loadManifest("")
		fingerprint := core.FingerprintFiles(l.sourceFiles(manifest, manifestFile))
		if cfg := l.fromMemory(fingerprint); cfg != nil {
			return cfg, nil
		}
		cfg := l.parse(manifest)
		cfg.Errors = append([]core.ValidationError{{
			File:    filepath.Base(manifestFile),
			Message: err.Error(),
		}}, cfg.Errors...)
		cfg.Fingerprint = fingerprint
		l.remember(cfg)
		return cfg, nil
	}

	files := l.sourceFiles(manifest, manifestFile)
	fingerprint := core.FingerprintFiles(files)

	if cfg := l.fromMemory(fingerprint); cfg != nil {
		return cfg, nil
	}
	if cached := l.fromCache(ctx, fingerprint); cached != nil {
		l.remember(cached)
		return cached, nil
	}

	cfg := l.parse(manifest)
	cfg.Fingerprint = fingerprint
	l.remember(cfg)
	l.toCache(ctx, cfg)
	return cfg, nil
}

// fromMemory returns the last snapshot when its fingerprint still
// matches, nil otherwise. Snapshots are immutable once returned, so
// callers may share one.
func (l *Loader) fromMemory(fingerprint string) *core.ExternalConfig {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cached != nil && l.cached.Fingerprint == fingerprint {
		return l.cached
	}
	return nil
}

func (l *Loader) remember(cfg *core.ExternalConfig) {
	l.mu.Lock()
	l.cached = cfg
	l.mu.Unlock()
}

// fromCache returns the stored snapshot for a fingerprint, nil on miss.
func (l *Loader) fromCache(ctx context.Context, fingerprint string) *core.ExternalConfig {
	if l.snapshots == nil {
		return nil
	}
	cfg, err := l.snapshots.Load(ctx, fingerprint)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			l.logger.Warn("snapshot cache read failed", "error", err)
		}
		return nil
	}
	l.logger.Debug("external configuration served from cache", "fingerprint", fingerprint)
	return cfg
}

func (l *Loader) toCache(ctx context.Context, cfg *core.ExternalConfig) {
	if l.snapshots == nil {
		return
	}
	if err := l.snapshots.Save(ctx, cfg); err != nil {
		l.logger.Warn("snapshot cache write failed", "error", err)
	}
}

// sourceFiles lists every file that contributes to the snapshot, for
// fingerprinting. Order does not matter; the fingerprint sorts.
func (l *Loader) sourceFiles(manifest *Manifest, manifestFile string) []string {
	var files []string
	if manifestFile != "" {
		files = append(files, manifestFile)
	}
	files = append(files, globCSV(filepath.Join(l.path, "domains"))...)
	files = append(files, globCSV(filepath.Join(l.path, "stacks"))...)
	if manifest.BrandEnabled() {
		files = append(files, filepath.Join(l.path, manifest.BrandFile()))
	}
	files = append(files, l.reasoningFiles(manifest)...)
	return files
}

func (l *Loader) reasoningFiles(manifest *Manifest) []string {
	if !manifest.ReasoningEnabled() {
		return nil
	}
	if len(manifest.Reasoning.Files) > 0 {
		files := make([]string, 0, len(manifest.Reasoning.Files))
		for _, f := range manifest.Reasoning.Files {
			files = append(files, filepath.Join(l.path, f))
		}
		return files
	}
	return globCSV(filepath.Join(l.path, "reasoning"))
}

// parse reads every configured source into one snapshot.
func (l *Loader) parse(manifest *Manifest) *core.ExternalConfig {
	cfg := &core.ExternalConfig{
		Enabled: true,
		Path:    l.path,
		Version: manifest.Version,
		Domains: map[string][]core.Record{},
		Stacks:  map[string][]core.Record{},
	}

	for _, path := range globCSV(filepath.Join(l.path, "domains")) {
		table := parseDomainCSV(path, tableKey(path))
		cfg.Errors = append(cfg.Errors, table.errors...)
		if len(table.records) > 0 {
			cfg.Domains[tableKey(path)] = append(cfg.Domains[tableKey(path)], table.records...)
		}
	}
	for _, path := range globCSV(filepath.Join(l.path, "stacks")) {
		table := parseStackCSV(path, tableKey(path))
		cfg.Errors = append(cfg.Errors, table.errors...)
		if len(table.records) > 0 {
			cfg.Stacks[tableKey(path)] = append(cfg.Stacks[tableKey(path)], table.records...)
		}
	}

	if manifest.BrandEnabled() {
		brand, errs := parseBrand(filepath.Join(l.path, manifest.BrandFile()))
		cfg.Brand = brand
		cfg.Errors = append(cfg.Errors, errs...)
	}
	for _, path := range l.reasoningFiles(manifest) {
		rules, errs := parseReasoningCSV(path)
		cfg.ReasoningRules = append(cfg.ReasoningRules, rules...)
		cfg.Errors = append(cfg.Errors, errs...)
	}
	sort.SliceStable(cfg.ReasoningRules, func(i, j int) bool {
		return cfg.ReasoningRules[i].Priority < cfg.ReasoningRules[j].Priority
	})

	l.enforceLimits(cfg, manifest.Performance)

	l.logger.Info("external configuration loaded",
		"path", l.path,
		"domains", len(cfg.Domains),
		"stacks", len(cfg.Stacks),
		"entries", cfg.Performance.CurrentEntries,
		"errors", len(cfg.Errors))
	return cfg
}

// enforceLimits applies the manifest's entry bounds: a soft warning above
// WarnEntries and a deterministic truncation above MaxEntries. Truncation
// drops whole tables from the end of the sorted key order so that which
// entries survive never depends on map iteration.
func (l *Loader) enforceLimits(cfg *core.ExternalConfig, limits PerformanceLimits) {
	stats := &cfg.Performance
	stats.MaxEntries = limits.MaxEntries
	stats.WarnEntries = limits.WarnEntries
	stats.CurrentEntries = cfg.EntryCount()

	if stats.CurrentEntries > stats.MaxEntries {
		budget := stats.MaxEntries
		for _, name := range cfg.DomainNames() {
			budget = truncateTable(cfg.Domains, name, budget)
		}
		for _, name := range cfg.StackNames() {
			budget = truncateTable(cfg.Stacks, name, budget)
		}
		dropped := stats.CurrentEntries - cfg.EntryCount()
		stats.Warnings = append(stats.Warnings, core.Warning{
			Kind: core.WarningPerformance,
			Message: fmt.Sprintf("entry limit %d exceeded: %d entries dropped",
				stats.MaxEntries, dropped),
		})
		l.logger.Warn("external entry limit exceeded",
			"max", stats.MaxEntries, "dropped", dropped)
		stats.CurrentEntries = cfg.EntryCount()
	} else if stats.CurrentEntries > stats.WarnEntries {
		stats.Warnings = append(stats.Warnings, core.Warning{
			Kind: core.WarningPerformance,
			Message: fmt.Sprintf("%d external entries approach the limit of %d",
				stats.CurrentEntries, stats.MaxEntries),
		})
	}
}

// truncateTable keeps at most budget records of one table and returns the
// remaining budget.
func truncateTable(tables map[string][]core.Record, name string, budget int) int {
	records := tables[name]
	if len(records) <= budget {
		return budget - len(records)
	}
	if budget == 0 {
		delete(tables, name)
		return 0
	}
	tables[name] = records[:budget]
	return 0
}

func globCSV(dir string) []string {
	matches, _ := filepath.Glob(filepath.Join(dir, "*.csv"))
	sort.Strings(matches)
	return matches
}
