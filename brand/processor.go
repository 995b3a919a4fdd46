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


// Package brand applies a user brand profile to ranked search results:
// color-role substitution with WCAG contrast checks, typography
// substitution with traceability notes, and style-preference re-ranking.
// All transformations are pure; inputs are never mutated.
package brand

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/poiesic/designkit/core"
)

// Style re-ranking multipliers and WCAG thresholds.
const (
	PreferredStyleBoost = 1.5
	AvoidedStylePenalty = 0.5

	normalTextContrast = 4.5
	largeTextContrast  = 3.0
)

// philosophyBoosts maps a design-philosophy tag to the keywords that earn
// its multiplier when they appear in a result.
var philosophyBoosts = map[string]struct {
	keywords []string
	boost    float64
}{
	"minimalism":   {[]string{"minimal", "clean", "simple", "whitespace"}, 1.3},
	"modern":       {[]string{"modern", "contemporary", "sleek"}, 1.2},
	"playful":      {[]string{"playful", "fun", "colorful", "vibrant"}, 1.2},
	"professional": {[]string{"professional", "corporate", "formal"}, 1.2},
	"elegant":      {[]string{"elegant", "refined", "sophisticated"}, 1.2},
}

// Processor applies one brand profile to result sets.
type Processor struct {
	profile *core.BrandProfile
	logger  *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
	}
}

// NewProcessor creates a processor for the given profile. A nil profile
// yields a processor whose Apply is the identity.
func NewProcessor(profile *core.BrandProfile, opts ...Option) *Processor {
	p := &Processor{
		profile: profile,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Apply transforms a ranked result set under the brand profile and
// returns a new, re-sorted slice. Avoided styles are only de-prioritized,
// and not even that when the query names them explicitly, so searching
// for an avoided style still returns it.
func (p *Processor) Apply(results []core.Result, queryText string) []core.Result {
	if p == nil || p.profile == nil || len(results) == 0 {
		return results
	}

	out := make([]core.Result, 0, len(results))
	for i := range results {
		r := results[i].Clone()
		p.applyColors(&r)
		p.applyTypography(&r)
		p.applyStyles(&r, queryText)
		out = append(out, r)
	}
	core.SortResults(out)
	return out
}

// applyColors substitutes brand hex values into output fields whose name
// resolves to a configured color role, then checks the substituted value
// against the brand background for WCAG AA contrast. Failures become
// advisory warnings, never filters.
func (p *Processor) applyColors(r *core.Result) {
	if len(p.profile.Colors) == 0 {
		return
	}
	bg := p.background()
	for _, field := range sortedFieldNames(r.Record.OutputFields) {
		role, ok := colorRole(field)
		if !ok {
			continue
		}
		hex, ok := p.profile.Color(role)
		if !ok {
			continue
		}
		r.Record.OutputFields[field] = hex
		r.BrandApplied = true
		if role == "background" {
			continue
		}
		if ratio := ContrastRatio(hex, bg); ratio > 0 && ratio < normalTextContrast {
			detail := "fails 4.5:1 for normal text"
			if ratio < largeTextContrast {
				detail = "fails 4.5:1 for normal text and 3:1 for large text"
			}
			r.Warnings = append(r.Warnings, core.Warning{
				Kind: core.WarningAccessibility,
				Message: fmt.Sprintf("contrast %.2f:1 for %s %q on background %s %s",
					ratio, role, hex, bg, detail),
			})
		}
	}
}

// applyTypography replaces generic font recommendations with the brand
// font stack for the matching role, keeping the original value as a
// "generic" note for traceability.
func (p *Processor) applyTypography(r *core.Result) {
	fonts := p.profile.Typography.Fonts
	if len(fonts) == 0 {
		return
	}
	for _, field := range sortedFieldNames(r.Record.OutputFields) {
		role, ok := fontRole(field)
		if !ok {
			continue
		}
		font, ok := fonts[role]
		if !ok || font.Name == "" {
			continue
		}
		generic := r.Record.OutputFields[field]
		r.Record.OutputFields[field] = font.Stack()
		r.Notes = append(r.Notes, fmt.Sprintf("generic %s: %s", field, generic))
		r.BrandApplied = true
	}
}

// applyStyles multiplies the score for preferred and avoided style
// matches. The avoided penalty is skipped when the query itself names the
// style, so explicit lookups are never buried.
func (p *Processor) applyStyles(r *core.Result, queryText string) {
	prefs := p.profile.StylePreferences
	if len(prefs.Preferred) == 0 && len(prefs.Avoided) == 0 && prefs.Philosophy == "" {
		return
	}

	text := strings.ToLower(r.Record.ID + " " + r.Record.SearchText() + " " + r.Record.OutputFields["description"])
	query := strings.ToLower(queryText)

	for _, style := range prefs.Preferred {
		if style != "" && strings.Contains(text, strings.ToLower(style)) {
			r.Score *= PreferredStyleBoost
			r.BrandApplied = true
		}
	}
	for _, style := range prefs.Avoided {
		lower := strings.ToLower(style)
		if lower == "" || !strings.Contains(text, lower) {
			continue
		}
		if strings.Contains(query, lower) {
			continue
		}
		r.Score *= AvoidedStylePenalty
		r.BrandApplied = true
	}
	if pb, ok := philosophyBoosts[strings.ToLower(prefs.Philosophy)]; ok {
		for _, kw := range pb.keywords {
			if strings.Contains(text, kw) {
				r.Score *= pb.boost
				r.BrandApplied = true
				break
			}
		}
	}
}

// background returns the tone brand colors are contrast-checked against:
// the declared background role, then the light neutral shade, then white.
func (p *Processor) background() string {
	if bg, ok := p.profile.Color("background"); ok {
		return bg
	}
	if bg, ok := p.profile.Color("neutral-light"); ok {
		return bg
	}
	return "#FFFFFF"
}

// colorRole maps an output-field name to a brand color role. A field is a
// color placeholder when its name carries a "color"/"colour"/"hex" token;
// the remaining tokens name the role ("Primary (Hex)" -> "primary",
// "primary-color" -> "primary", "Background (Hex)" -> "background").
func colorRole(field string) (string, bool) {
	tokens := fieldTokens(field)
	rest := make([]string, 0, len(tokens))
	marked := false
	for _, tok := range tokens {
		switch tok {
		case "hex", "color", "colors", "colour", "colours":
			marked = true
		default:
			rest = append(rest, tok)
		}
	}
	if !marked || len(rest) == 0 {
		return "", false
	}
	return strings.Join(rest, "-"), true
}

// fontRole maps an output-field name to a typography role: the field must
// end with a "font" token ("Heading Font" -> "heading").
func fontRole(field string) (string, bool) {
	tokens := fieldTokens(field)
	if len(tokens) < 2 || tokens[len(tokens)-1] != "font" {
		return "", false
	}
	return strings.Join(tokens[:len(tokens)-1], "-"), true
}

func fieldTokens(field string) []string {
	return strings.FieldsFunc(strings.ToLower(field), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func sortedFieldNames(fields map[string]string) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	// Deterministic application order keeps notes and warnings stable.
	sort.Strings(names)
	return names
}
