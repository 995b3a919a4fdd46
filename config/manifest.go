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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest defaults.
const (
	DefaultMaxEntries  = 1000
	DefaultWarnEntries = 800
	DefaultBrandFile   = "brand/brand.json"
)

// Manifest is the optional top-level configuration file of an external
// configuration directory (config.json or config.yaml). Every section is
// optional; absent sections take defaults.
type Manifest struct {
	Version     string            `json:"version" yaml:"version"`
	Performance PerformanceLimits `json:"performance" yaml:"performance"`
	Brand       BrandSection      `json:"brand" yaml:"brand"`
	Reasoning   ReasoningSection  `json:"reasoning" yaml:"reasoning"`
}

// PerformanceLimits bound the external entry count.
type PerformanceLimits struct {
	MaxEntries  int `json:"max_entries" yaml:"max_entries"`
	WarnEntries int `json:"warn_entries" yaml:"warn_entries"`
}

// BrandSection points at the brand profile file.
type BrandSection struct {
	Enabled *bool  `json:"enabled" yaml:"enabled"`
	File    string `json:"file" yaml:"file"`
}

// ReasoningSection lists user reasoning-rule files.
type ReasoningSection struct {
	Enabled *bool    `json:"enabled" yaml:"enabled"`
	Files   []string `json:"files" yaml:"files"`
}

// BrandEnabled reports whether brand loading is on (default true).
func (m *Manifest) BrandEnabled() bool {
	return m.Brand.Enabled == nil || *m.Brand.Enabled
}

// ReasoningEnabled reports whether reasoning-rule loading is on
// (default true).
func (m *Manifest) ReasoningEnabled() bool {
	return m.Reasoning.Enabled == nil || *m.Reasoning.Enabled
}

// BrandFile returns the brand profile path relative to the configuration
// directory.
func (m *Manifest) BrandFile() string {
	if m.Brand.File != "" {
		return m.Brand.File
	}
	return DefaultBrandFile
}

// manifestPath returns the manifest file present in dir, preferring JSON,
// or "" when neither variant exists.
func manifestPath(dir string) string {
	for _, name := range []string{"config.json", "config.yaml", "config.yml"} {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// loadManifest reads and decodes the manifest at path, filling defaults.
// A missing manifest yields the default manifest, not an error.
func loadManifest(path string) (*Manifest, error) {
	m := &Manifest{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading manifest: %w", err)
		}
		switch filepath.Ext(path) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, m)
		default:
			err = json.Unmarshal(data, m)
		}
		if err != nil {
			return nil, fmt.Errorf("decoding manifest %s: %w", filepath.Base(path), err)
		}
	}
	if m.Performance.MaxEntries <= 0 {
		m.Performance.MaxEntries = DefaultMaxEntries
	}
	if m.Performance.WarnEntries <= 0 || m.Performance.WarnEntries > m.Performance.MaxEntries {
		m.Performance.WarnEntries = min(DefaultWarnEntries, m.Performance.MaxEntries)
	}
	return m, nil
}
