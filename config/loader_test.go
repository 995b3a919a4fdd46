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
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/designkit/core"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const domainHeader = "term,description,examples,category\n"

func TestLoadMissingDirectory(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "does-not-exist"))
	cfg, err := l.Load(context.Background())
	require.NoError(t, err)

	assert.False(t, cfg.Enabled)
	assert.Empty(t, cfg.Errors)
	assert.Zero(t, cfg.EntryCount())
}

func TestLoadFullDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json"), `{
		"version": "1.2.0",
		"performance": {"max_entries": 500, "warn_entries": 400}
	}`)
	writeFile(t, filepath.Join(dir, "domains", "my-widgets.csv"),
		domainHeader+
			"Date Picker,calendar input widget,booking forms,input\n"+
			"Toast,transient notification,save confirmations,feedback\n")
	writeFile(t, filepath.Join(dir, "stacks", "react.csv"),
		"Category,Guideline,Description,Do,Don't\n"+
			"State,Lift state up,share state via parents,lift it,duplicate it\n")
	writeFile(t, filepath.Join(dir, "brand", "brand.json"), `{
		"colors": {"primary": "#1A73E8", "background": "#FFFFFF"}
	}`)
	writeFile(t, filepath.Join(dir, "reasoning", "rules.csv"),
		"UI_Category,Keywords,Reasoning\n"+
			"forms,\"input, validation\",validate inline\n")

	cfg, err := NewLoader(dir).Load(context.Background())
	require.NoError(t, err)

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "1.2.0", cfg.Version)
	assert.NotEmpty(t, cfg.Fingerprint)
	assert.Empty(t, cfg.Errors)

	require.Len(t, cfg.Domains["my-widgets"], 2)
	rec := cfg.Domains["my-widgets"][0]
	assert.Equal(t, "date-picker", rec.ID)
	assert.Equal(t, "my-widgets", rec.Domain)
	assert.True(t, core.IsExternal(rec.Origin))
	assert.Contains(t, rec.SearchFields, "calendar input widget")

	require.Len(t, cfg.Stacks["react"], 1)
	assert.Equal(t, "lift-state-up", cfg.Stacks["react"][0].ID)

	require.NotNil(t, cfg.Brand)
	assert.Equal(t, "#1A73E8", cfg.Brand.Colors["primary"])

	require.Len(t, cfg.ReasoningRules, 1)
	assert.Equal(t, "forms", cfg.ReasoningRules[0].Category)
	assert.Equal(t, []string{"input", "validation"}, cfg.ReasoningRules[0].Keywords)

	assert.Equal(t, 500, cfg.Performance.MaxEntries)
	assert.Equal(t, 3, cfg.Performance.CurrentEntries)
}

func TestLoadPermissiveRows(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "domains", "partial.csv"),
		domainHeader+
			",missing term,example,cat\n"+
			"Good Row,kept,example,cat\n")

	cfg, err := NewLoader(dir).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, cfg.Domains["partial"], 1)
	assert.Equal(t, "good-row", cfg.Domains["partial"][0].ID)

	require.Len(t, cfg.Errors, 1)
	assert.Equal(t, "partial.csv", cfg.Errors[0].File)
	assert.Equal(t, 2, cfg.Errors[0].Row)
}

func TestLoadMissingRequiredColumn(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "domains", "broken.csv"),
		"term,description\nWidget,no examples column\n")

	cfg, err := NewLoader(dir).Load(context.Background())
	require.NoError(t, err)

	assert.Empty(t, cfg.Domains["broken"], "file missing required columns is skipped")
	require.NotEmpty(t, cfg.Errors)
	assert.Equal(t, "broken.csv", cfg.Errors[0].File)
}

func TestLoadInvalidBrandColorDropped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "brand", "brand.json"), `{
		"colors": {"primary": "#1A73E8", "accent": "bright-pink"}
	}`)

	cfg, err := NewLoader(dir).Load(context.Background())
	require.NoError(t, err)

	require.NotNil(t, cfg.Brand)
	assert.Equal(t, "#1A73E8", cfg.Brand.Colors["primary"])
	assert.NotContains(t, cfg.Brand.Colors, "accent")
	require.Len(t, cfg.Errors, 1)
	assert.Equal(t, "accent", cfg.Errors[0].Field)
}

func TestLoadYAMLManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"),
		"version: \"2.0\"\nperformance:\n  max_entries: 50\n")

	cfg, err := NewLoader(dir).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2.0", cfg.Version)
	assert.Equal(t, 50, cfg.Performance.MaxEntries)
}

func TestLoadBrokenManifestDegrades(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json"), "{not json")
	writeFile(t, filepath.Join(dir, "domains", "ok.csv"),
		domainHeader+"Widget,still loads,example,cat\n")

	cfg, err := NewLoader(dir).Load(context.Background())
	require.NoError(t, err)

	assert.True(t, cfg.Enabled)
	require.Len(t, cfg.Domains["ok"], 1)
	require.NotEmpty(t, cfg.Errors)
	assert.Equal(t, "config.json", cfg.Errors[0].File)
	assert.Equal(t, DefaultMaxEntries, cfg.Performance.MaxEntries)
}

func TestLoadEntryLimitTruncates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json"),
		`{"performance": {"max_entries": 2, "warn_entries": 1}}`)
	writeFile(t, filepath.Join(dir, "domains", "a.csv"),
		domainHeader+
			"One,first,ex,cat\n"+
			"Two,second,ex,cat\n"+
			"Three,third,ex,cat\n")

	cfg, err := NewLoader(dir).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.EntryCount())
	assert.Equal(t, 2, cfg.Performance.CurrentEntries)
	require.NotEmpty(t, cfg.Performance.Warnings)
	assert.Equal(t, core.WarningPerformance, cfg.Performance.Warnings[0].Kind)
	// Deterministic: the first rows of the sorted table order survive.
	require.Len(t, cfg.Domains["a"], 2)
	assert.Equal(t, "one", cfg.Domains["a"][0].ID)
	assert.Equal(t, "two", cfg.Domains["a"][1].ID)
}

func TestLoadEntryWarnThreshold(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json"),
		`{"performance": {"max_entries": 10, "warn_entries": 1}}`)
	writeFile(t, filepath.Join(dir, "domains", "a.csv"),
		domainHeader+
			"One,first,ex,cat\n"+
			"Two,second,ex,cat\n")

	cfg, err := NewLoader(dir).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.EntryCount(), "warn threshold never drops entries")
	require.Len(t, cfg.Performance.Warnings, 1)
}

// countingHandler counts log records carrying one message, to observe
// how often a code path actually runs.
type countingHandler struct {
	message string
	count   int
}

func (h *countingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *countingHandler) Handle(_ context.Context, r slog.Record) error {
	if r.Message == h.message {
		h.count++
	}
	return nil
}
func (h *countingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *countingHandler) WithGroup(string) slog.Handler      { return h }

func TestLoadMemoizesUnchangedDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "domains", "a.csv")
	writeFile(t, path, domainHeader+"One,first,ex,cat\n")

	parses := &countingHandler{message: "external configuration loaded"}
	l := NewLoader(dir, WithLogger(slog.New(parses)))

	first, err := l.Load(context.Background())
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		cfg, err := l.Load(context.Background())
		require.NoError(t, err)
		assert.Same(t, first, cfg)
	}
	assert.Equal(t, 1, parses.count, "unchanged directory is parsed once")

	// Touching a source file changes the fingerprint and forces a
	// re-parse on the next load.
	touched := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, touched, touched))
	changed, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, changed)
	assert.Equal(t, 2, parses.count)
}

func TestLoadFingerprintStable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "domains", "a.csv"),
		domainHeader+"One,first,ex,cat\n")

	l := NewLoader(dir)
	first, err := l.Load(context.Background())
	require.NoError(t, err)
	second, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.NotEmpty(t, first.Fingerprint)
}

func TestStatus(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "domains", "my-widgets.csv"),
		domainHeader+"Widget,desc,ex,cat\n")
	writeFile(t, filepath.Join(dir, "brand", "brand.json"),
		`{"colors": {"primary": "#1A73E8"}}`)

	status, err := NewLoader(dir).Status(context.Background())
	require.NoError(t, err)

	assert.True(t, status.Enabled)
	assert.Equal(t, 1, status.Domains["my-widgets"])
	assert.True(t, status.BrandConfigured)
	assert.Zero(t, status.ReasoningRules)
}

func TestStatusMissingDirectory(t *testing.T) {
	status, err := NewLoader(filepath.Join(t.TempDir(), "nope")).Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Enabled)
}
