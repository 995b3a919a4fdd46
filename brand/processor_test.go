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


package brand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/designkit/core"
)

func styleResult(id string, score float64, fields map[string]string) core.Result {
	return core.Result{
		Record: core.Record{
			ID:           id,
			Domain:       "style",
			SearchFields: []string{id},
			OutputFields: fields,
			Origin:       core.OriginBuiltin,
		},
		Score: score,
	}
}

func TestApplyNilProfileIsIdentity(t *testing.T) {
	p := NewProcessor(nil)
	in := []core.Result{styleResult("minimal", 1.0, nil)}
	out := p.Apply(in, "minimal")
	assert.Equal(t, in, out)
}

func TestApplyColorSubstitution(t *testing.T) {
	p := NewProcessor(&core.BrandProfile{
		Colors: map[string]string{
			"primary":    "#1A73E8",
			"background": "#FFFFFF",
		},
	})

	in := []core.Result{styleResult("dashboard", 2.0, map[string]string{
		"Primary (Hex)":    "#FF0000",
		"Background (Hex)": "#000000",
		"Notes":            "unrelated",
	})}
	out := p.Apply(in, "dashboard")
	require.Len(t, out, 1)

	assert.Equal(t, "#1A73E8", out[0].Record.OutputFields["Primary (Hex)"])
	assert.Equal(t, "#FFFFFF", out[0].Record.OutputFields["Background (Hex)"])
	assert.Equal(t, "unrelated", out[0].Record.OutputFields["Notes"])
	assert.True(t, out[0].BrandApplied)
	// #1A73E8 on #FFFFFF is 4.50:1, which passes AA for normal text.
	assert.Empty(t, out[0].Warnings)
	// Inputs stay untouched.
	assert.Equal(t, "#FF0000", in[0].Record.OutputFields["Primary (Hex)"])
}

func TestApplyColorContrastWarning(t *testing.T) {
	p := NewProcessor(&core.BrandProfile{
		Colors: map[string]string{
			"primary":    "#1A73E8",
			"background": "#1565C0",
		},
	})

	out := p.Apply([]core.Result{styleResult("dashboard", 2.0, map[string]string{
		"Primary (Hex)": "#FF0000",
	})}, "dashboard")
	require.Len(t, out, 1)

	require.Len(t, out[0].Warnings, 1)
	w := out[0].Warnings[0]
	assert.Equal(t, core.WarningAccessibility, w.Kind)
	assert.Contains(t, w.Message, "primary")
	assert.Contains(t, w.Message, "3:1")
	// The result is flagged, never dropped.
	assert.Equal(t, "#1A73E8", out[0].Record.OutputFields["Primary (Hex)"])
}

func TestApplyTypography(t *testing.T) {
	p := NewProcessor(&core.BrandProfile{
		Typography: core.Typography{
			Fonts: map[string]core.Font{
				"heading": {Name: "Inter", Fallbacks: []string{"sans-serif"}},
			},
		},
	})

	out := p.Apply([]core.Result{styleResult("editorial", 1.0, map[string]string{
		"Heading Font": "Playfair Display",
		"Body Font":    "Georgia",
	})}, "editorial")
	require.Len(t, out, 1)

	assert.Equal(t, "Inter, sans-serif", out[0].Record.OutputFields["Heading Font"])
	// No body role configured: the generic recommendation stands.
	assert.Equal(t, "Georgia", out[0].Record.OutputFields["Body Font"])
	require.Len(t, out[0].Notes, 1)
	assert.Equal(t, "generic Heading Font: Playfair Display", out[0].Notes[0])
}

func TestApplyStylePreferences(t *testing.T) {
	p := NewProcessor(&core.BrandProfile{
		StylePreferences: core.StylePreferences{
			Preferred: []string{"minimal"},
			Avoided:   []string{"brutalism"},
		},
	})

	out := p.Apply([]core.Result{
		styleResult("minimal-clean", 2.0, nil),
		styleResult("brutalism", 2.0, nil),
		styleResult("neutral", 2.0, nil),
	}, "dashboard design")
	require.Len(t, out, 3)

	byID := map[string]core.Result{}
	for _, r := range out {
		byID[r.Record.ID] = r
	}
	assert.InDelta(t, 3.0, byID["minimal-clean"].Score, 1e-9)
	assert.InDelta(t, 1.0, byID["brutalism"].Score, 1e-9)
	assert.InDelta(t, 2.0, byID["neutral"].Score, 1e-9)

	// Re-ranking follows the adjusted scores.
	assert.Equal(t, "minimal-clean", out[0].Record.ID)
	assert.Equal(t, "brutalism", out[2].Record.ID)
}

func TestAvoidedStyleExplicitQueryExemption(t *testing.T) {
	p := NewProcessor(&core.BrandProfile{
		StylePreferences: core.StylePreferences{
			Avoided: []string{"brutalism"},
		},
	})

	out := p.Apply([]core.Result{styleResult("brutalism", 2.0, nil)}, "brutalism examples")
	require.Len(t, out, 1)
	assert.InDelta(t, 2.0, out[0].Score, 1e-9, "explicitly requested styles keep their score")
	assert.False(t, out[0].BrandApplied)
}

func TestPhilosophyBoost(t *testing.T) {
	p := NewProcessor(&core.BrandProfile{
		StylePreferences: core.StylePreferences{Philosophy: "minimalism"},
	})

	out := p.Apply([]core.Result{
		styleResult("whitespace-first", 2.0, map[string]string{"description": "clean layout with whitespace"}),
		styleResult("maximal", 2.0, nil),
	}, "landing page")
	require.Len(t, out, 2)

	assert.Equal(t, "whitespace-first", out[0].Record.ID)
	assert.InDelta(t, 2.6, out[0].Score, 1e-9)
	assert.InDelta(t, 2.0, out[1].Score, 1e-9)
}

func TestColorRole(t *testing.T) {
	tests := []struct {
		field string
		role  string
		ok    bool
	}{
		{"Primary (Hex)", "primary", true},
		{"primary-color", "primary", true},
		{"Background (Hex)", "background", true},
		{"Primary Colors", "primary", true},
		{"Notes", "", false},
		{"Heading Font", "", false},
	}
	for _, tt := range tests {
		role, ok := colorRole(tt.field)
		assert.Equal(t, tt.ok, ok, tt.field)
		assert.Equal(t, tt.role, role, tt.field)
	}
}
