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


// Package catalog owns the built-in knowledge base: the domain and stack
// table definitions, CSV loading, and a cache of merged, ready-to-score
// index snapshots. Snapshots are immutable; a change to a built-in data
// file or to the external configuration is detected by fingerprint at
// lookup time and triggers a rebuild of just the affected index.
package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/designkit/core"
	"github.com/poiesic/designkit/index"
	"github.com/poiesic/designkit/merge"
)

// maxFieldLength caps any single CSV cell to keep index memory bounded
// against pathological data files.
const maxFieldLength = 1000

type indexEntry struct {
	fingerprint string
	ix          *index.DomainIndex
	conflicts   []core.Conflict
}

// Catalog loads built-in tables from a data directory and serves merged
// domain and stack indexes.
type Catalog struct {
	dataDir     string
	tables      map[string]Table
	stackTables map[string]Table
	logger      *slog.Logger
	poolSize    int

	mu      sync.RWMutex
	indexes map[string]*indexEntry
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// WithPoolSize sets the worker count used by Warm. Default is half the
// CPU count, minimum 1.
func WithPoolSize(n int) Option {
	return func(c *Catalog) {
		if n > 0 {
			c.poolSize = n
		}
	}
}

// New creates a Catalog over the given data directory.
func New(dataDir string, opts ...Option) *Catalog {
	c := &Catalog{
		dataDir:     dataDir,
		tables:      BuiltinTables(),
		stackTables: StackTables(),
		logger:      slog.Default(),
		poolSize:    max(1, runtime.NumCPU()/2),
		indexes:     make(map[string]*indexEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Domains returns the sorted built-in domain names.
func (c *Catalog) Domains() []string {
	return sortedNames(c.tables)
}

// Stacks returns the sorted built-in stack names.
func (c *Catalog) Stacks() []string {
	return sortedNames(c.stackTables)
}

// HasDomain reports whether a domain exists in the built-in tables.
func (c *Catalog) HasDomain(domain string) bool {
	_, ok := c.tables[domain]
	return ok
}

// HasStack reports whether a stack exists in the built-in tables.
func (c *Catalog) HasStack(stack string) bool {
	_, ok := c.stackTables[stack]
	return ok
}

// Index returns the merged, scored-ready index for a domain, rebuilding
// it when the underlying data file or external configuration changed.
// A domain unknown to both the built-in tables and the external
// configuration yields core.ErrUnknownDomain.
func (c *Catalog) Index(ctx context.Context, domain string, external *core.ExternalConfig) (*index.DomainIndex, []core.Conflict, error) {
	table, builtin := c.tables[domain]
	externalRecords := external.DomainRecords(domain)
	if !builtin && len(externalRecords) == 0 {
		return nil, nil, fmt.Errorf("domain %q: %w", domain, core.ErrUnknownDomain)
	}
	return c.cachedIndex(ctx, "domain:"+domain, domain, table, builtin, externalRecords, external)
}

// StackIndex is Index for platform stack tables.
func (c *Catalog) StackIndex(ctx context.Context, stack string, external *core.ExternalConfig) (*index.DomainIndex, []core.Conflict, error) {
	table, builtin := c.stackTables[stack]
	externalRecords := external.StackRecords(stack)
	if !builtin && len(externalRecords) == 0 {
		return nil, nil, fmt.Errorf("stack %q: %w", stack, core.ErrUnknownDomain)
	}
	return c.cachedIndex(ctx, "stack:"+stack, stack, table, builtin, externalRecords, external)
}

func (c *Catalog) cachedIndex(ctx context.Context, key, domain string, table Table, builtin bool, externalRecords []core.Record, external *core.ExternalConfig) (*index.DomainIndex, []core.Conflict, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	fp := c.fingerprint(table, builtin, external)

	c.mu.RLock()
	entry, ok := c.indexes[key]
	c.mu.RUnlock()
	if ok && entry.fingerprint == fp {
		return entry.ix, entry.conflicts, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another goroutine may have rebuilt while we waited for the lock.
	if entry, ok := c.indexes[key]; ok && entry.fingerprint == fp {
		return entry.ix, entry.conflicts, nil
	}

	var builtinRecords []core.Record
	if builtin {
		var err error
		builtinRecords, err = c.loadTable(domain, table)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, nil, err
			}
			// A missing data file leaves external records as the only
			// contributors; with none, the domain has no records at all.
			if len(externalRecords) == 0 {
				return nil, nil, fmt.Errorf("%q has no data file: %w", domain, core.ErrUnknownDomain)
			}
		}
	}

	records, conflicts := merge.Records(builtinRecords, externalRecords)
	entry = &indexEntry{
		fingerprint: fp,
		ix:          index.Build(domain, records),
		conflicts:   conflicts,
	}
	c.indexes[key] = entry
	c.logger.Debug("index built",
		"key", key,
		"records", len(records),
		"conflicts", len(conflicts),
		"fingerprint", fp)
	return entry.ix, entry.conflicts, nil
}

// fingerprint keys a cache entry on the built-in data file's stat digest
// plus the external configuration's content fingerprint.
func (c *Catalog) fingerprint(table Table, builtin bool, external *core.ExternalConfig) string {
	var parts []string
	if builtin {
		parts = append(parts, core.FingerprintFiles([]string{filepath.Join(c.dataDir, table.File)}))
	}
	if external != nil {
		parts = append(parts, external.Fingerprint)
	}
	return strings.Join(parts, "+")
}

// Warm builds every built-in domain and stack index concurrently. Load
// errors are logged and skipped; warming is best-effort.
func (c *Catalog) Warm(ctx context.Context, external *core.ExternalConfig) error {
	pool, err := ants.NewPool(c.poolSize)
	if err != nil {
		return fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	build := func(kind, name string) {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			var err error
			if kind == "domain" {
				_, _, err = c.Index(ctx, name, external)
			} else {
				_, _, err = c.StackIndex(ctx, name, external)
			}
			if err != nil {
				c.logger.Warn("warm skipped", "kind", kind, "name", name, "error", err)
			}
		})
		if submitErr != nil {
			wg.Done()
		}
	}

	for name := range c.tables {
		build("domain", name)
	}
	for name := range c.stackTables {
		build("stack", name)
	}
	wg.Wait()
	return ctx.Err()
}

// ReasoningRules loads the built-in adjustment rules. A missing file is
// not an error; the advisor degrades to keyword-free guidance.
func (c *Catalog) ReasoningRules() ([]core.ReasoningRule, error) {
	records, err := c.loadTable("reasoning", ReasoningTable)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	rules := make([]core.ReasoningRule, 0, len(records))
	for _, rec := range records {
		rules = append(rules, core.ReasoningRule{
			Category: rec.OutputFields["UI_Category"],
			Keywords: rec.ListFields["keywords"],
			Guidance: rec.OutputFields["Reasoning"],
			Priority: len(rules),
			Source:   core.OriginBuiltin,
		})
	}
	return rules, nil
}

// loadTable reads one built-in CSV into records. Rows missing their
// identifier column are skipped; duplicate identifiers get an ordinal
// suffix so every record ID stays unique within the table.
func (c *Catalog) loadTable(domain string, table Table) ([]core.Record, error) {
	path := filepath.Join(c.dataDir, table.File)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", table.File, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	colAt := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		colAt[strings.TrimSpace(name)] = i
	}

	cell := func(row []string, col string) string {
		i, ok := colAt[col]
		if !ok || i >= len(row) {
			return ""
		}
		return core.TruncateField(strings.TrimSpace(row[i]), maxFieldLength)
	}

	records := make([]core.Record, 0, len(rows)-1)
	seen := make(map[string]int, len(rows)-1)
	for _, row := range rows[1:] {
		idValue := cell(row, table.IDColumn)
		if idValue == "" {
			continue
		}
		id := Slug(idValue)
		seen[id]++
		if n := seen[id]; n > 1 {
			id = fmt.Sprintf("%s-%d", id, n)
		}

		rec := core.Record{
			ID:           id,
			Domain:       domain,
			OutputFields: make(map[string]string, len(table.OutputColumns)),
			Origin:       core.OriginBuiltin,
		}
		for _, col := range table.SearchColumns {
			if v := cell(row, col); v != "" {
				rec.SearchFields = append(rec.SearchFields, v)
			}
		}
		for _, col := range table.OutputColumns {
			if v := cell(row, col); v != "" {
				rec.OutputFields[col] = v
			}
		}
		if table.KeywordColumn != "" {
			if kws := SplitKeywords(cell(row, table.KeywordColumn)); len(kws) > 0 {
				rec.ListFields = map[string][]string{"keywords": kws}
			}
		}
		if err := core.ValidateRecord(&rec); err != nil {
			c.logger.Debug("row skipped", "table", table.File, "id", id, "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Slug normalizes an identifier value into a lowercase hyphenated ID.
func Slug(value string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// SplitKeywords splits a keyword cell on commas and semicolons.
func SplitKeywords(value string) []string {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ';'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func sortedNames(tables map[string]Table) []string {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
