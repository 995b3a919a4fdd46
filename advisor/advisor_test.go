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


package advisor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/designkit/catalog"
	"github.com/poiesic/designkit/core"
	"github.com/poiesic/designkit/search"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// designDataDir writes the recommendation domains the advisor fans out to.
func designDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "products.csv"),
		"Product Type,Keywords,Primary Style Recommendation,Key Considerations,Secondary Styles\n"+
			"Fintech,\"finance, banking, trust\",Minimalism,trust and clarity,Flat Design\n"+
			"Gaming,\"game, neon\",Neon Glow,energy,Dark Mode\n")

	writeFile(t, filepath.Join(dir, "styles.csv"),
		"Style Category,Keywords,Best For,Type\n"+
			"Minimalism,\"minimalism, clean, whitespace\",fintech dashboards,visual\n"+
			"Neon Glow,\"neon, vibrant, glow\",gaming,visual\n"+
			"Glassmorphism,\"frosted, blur\",dashboards,visual\n")

	writeFile(t, filepath.Join(dir, "colors.csv"),
		"Product Type,Keywords,Notes,Primary (Hex),Background (Hex),Text (Hex)\n"+
			"Fintech,\"finance, banking\",conservative,#1565C0,#FFFFFF,#212121\n")

	writeFile(t, filepath.Join(dir, "landing.csv"),
		"Pattern Name,Keywords,Conversion Optimization,Section Order\n"+
			"Trust First,\"finance, banking, credibility\",social proof above the fold,hero-proof-cta\n")

	writeFile(t, filepath.Join(dir, "typography.csv"),
		"Font Pairing Name,Category,Mood/Style Keywords,Best For,Heading Font,Body Font\n"+
			"Inter Pair,sans,\"clean, minimalism\",fintech,Inter,Inter\n")

	writeFile(t, filepath.Join(dir, "ui-reasoning.csv"),
		"UI_Category,Keywords,Reasoning,Recommended_Approach,Priority\n"+
			"finance,\"fintech, banking, trust\",conservative palettes build trust,blue primaries,1\n"+
			"gaming,\"game, neon\",energy sells,saturated accents,2\n")

	return dir
}

func newTestAdvisor(t *testing.T, external *core.ExternalConfig) (*Advisor, *catalog.Catalog) {
	t.Helper()
	cat := catalog.New(designDataDir(t))
	searcher, err := search.NewSearcher(cat, external)
	require.NoError(t, err)
	adv, err := New(searcher, cat, external)
	require.NoError(t, err)
	return adv, cat
}

func TestGenerate(t *testing.T) {
	adv, _ := newTestAdvisor(t, nil)

	ds, err := adv.Generate(context.Background(), "acme", "fintech banking dashboard")
	require.NoError(t, err)

	assert.Equal(t, "acme", ds.Project)

	require.Len(t, ds.Product, 1, "product section is a single anchor")
	assert.Equal(t, "fintech", ds.Product[0].Record.ID)

	// The product's primary style steers the style section.
	require.NotEmpty(t, ds.Styles)
	assert.Equal(t, "minimalism", ds.Styles[0].Record.ID)
	assert.LessOrEqual(t, len(ds.Styles), 3)

	require.NotEmpty(t, ds.Colors)
	assert.Equal(t, "fintech", ds.Colors[0].Record.ID)
	require.NotEmpty(t, ds.Landing)
	assert.Equal(t, "trust-first", ds.Landing[0].Record.ID)
	require.NotEmpty(t, ds.Typography)
	assert.Equal(t, "inter-pair", ds.Typography[0].Record.ID)
}

func TestGeneratePaletteFromColorResult(t *testing.T) {
	adv, _ := newTestAdvisor(t, nil)

	ds, err := adv.Generate(context.Background(), "acme", "fintech banking")
	require.NoError(t, err)

	require.NotEmpty(t, ds.Palette)
	assert.Equal(t, "#1565C0", ds.Palette["primary"])
	assert.Contains(t, ds.Palette, "primary-light")
	assert.Contains(t, ds.Palette, "primary-dark")
	assert.Equal(t, "#FFFFFF", ds.Palette["background"])
}

func TestGeneratePalettePrefersBrand(t *testing.T) {
	external := core.DisabledExternalConfig("")
	external.Enabled = true
	external.Brand = &core.BrandProfile{
		Colors: map[string]string{"primary": "#1A73E8"},
	}
	adv, _ := newTestAdvisor(t, external)

	ds, err := adv.Generate(context.Background(), "acme", "fintech banking")
	require.NoError(t, err)

	assert.Equal(t, "#1A73E8", ds.Palette["primary"])
}

func TestGenerateReasoningMatches(t *testing.T) {
	adv, _ := newTestAdvisor(t, nil)

	ds, err := adv.Generate(context.Background(), "acme", "fintech banking dashboard")
	require.NoError(t, err)

	require.Len(t, ds.Reasoning, 1)
	assert.Equal(t, "finance", ds.Reasoning[0].Category)
	assert.Equal(t, "conservative palettes build trust", ds.Reasoning[0].Guidance)
}

func TestGenerateReasoningTierPrecedence(t *testing.T) {
	external := core.DisabledExternalConfig("")
	external.Enabled = true
	external.ReasoningRules = []core.ReasoningRule{{
		Category: "dashboard",
		Guidance: "dense data wants restrained chrome",
		Priority: 9,
		Source:   core.ExternalOrigin("rules.csv"),
	}}
	adv, _ := newTestAdvisor(t, external)

	ds, err := adv.Generate(context.Background(), "acme", "fintech banking dashboard")
	require.NoError(t, err)

	// "dashboard" matches by category substring, "finance" only by its
	// "fintech" keyword; the category match ranks first despite its later
	// priority.
	require.Len(t, ds.Reasoning, 2)
	assert.Equal(t, "dashboard", ds.Reasoning[0].Category)
	assert.Equal(t, "finance", ds.Reasoning[1].Category)
}

func TestGenerateExternalReasoningRules(t *testing.T) {
	external := core.DisabledExternalConfig("")
	external.Enabled = true
	external.ReasoningRules = []core.ReasoningRule{{
		Category: "accessibility",
		Keywords: []string{"dashboard"},
		Guidance: "check contrast on data tables",
		Source:   core.ExternalOrigin("rules.csv"),
	}}
	adv, _ := newTestAdvisor(t, external)

	ds, err := adv.Generate(context.Background(), "acme", "fintech dashboard")
	require.NoError(t, err)

	categories := make([]string, 0, len(ds.Reasoning))
	for _, r := range ds.Reasoning {
		categories = append(categories, r.Category)
	}
	assert.Contains(t, categories, "accessibility")
}

func TestGenerateRequiresSearcher(t *testing.T) {
	_, err := New(nil, nil, nil)
	assert.ErrorIs(t, err, search.ErrCatalogRequired)
}
