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


// Package advisor aggregates per-domain searches into a single design
// system recommendation: product type, visual styles, color palette,
// landing pattern, typography, and the reasoning rules that apply.
package advisor

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/designkit/brand"
	"github.com/poiesic/designkit/catalog"
	"github.com/poiesic/designkit/core"
	"github.com/poiesic/designkit/search"
)

// Per-section result limits. The product section is a single anchor
// recommendation; the others are shortlists.
var sectionLimits = map[string]int{
	"product":    1,
	"style":      3,
	"color":      2,
	"landing":    2,
	"typography": 2,
}

// DesignSystem is one aggregated recommendation.
type DesignSystem struct {
	Project    string
	Query      string
	Product    []core.Result
	Styles     []core.Result
	Colors     []core.Result
	Landing    []core.Result
	Typography []core.Result
	Palette    map[string]string
	Reasoning  []core.ReasoningRule
}

// Advisor generates design systems by fanning one query out across the
// recommendation domains.
type Advisor struct {
	searcher *search.Searcher
	catalog  *catalog.Catalog
	external *core.ExternalConfig
	logger   *slog.Logger
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Advisor) {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
	}
}

// New creates an advisor over an existing searcher and its catalog.
func New(searcher *search.Searcher, cat *catalog.Catalog, external *core.ExternalConfig, opts ...Option) (*Advisor, error) {
	if searcher == nil || cat == nil {
		return nil, search.ErrCatalogRequired
	}
	a := &Advisor{
		searcher: searcher,
		catalog:  cat,
		external: external,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Generate builds a design system for a project description. Sections
// whose domain is unavailable are skipped, never fatal; any other search
// failure aborts.
func (a *Advisor) Generate(ctx context.Context, project, queryText string) (*DesignSystem, error) {
	ds := &DesignSystem{Project: project, Query: queryText}

	var err error
	if ds.Product, err = a.section(ctx, "product", queryText); err != nil {
		return nil, err
	}

	// The product recommendation's primary style steers the style search,
	// so "fintech dashboard" surfaces the styles suited to fintech rather
	// than a generic match.
	styleQuery := queryText
	if hint := productStyleHint(ds.Product); hint != "" {
		styleQuery = queryText + " " + hint
	}

	if ds.Styles, err = a.section(ctx, "style", styleQuery); err != nil {
		return nil, err
	}
	if ds.Colors, err = a.section(ctx, "color", queryText); err != nil {
		return nil, err
	}
	if ds.Landing, err = a.section(ctx, "landing", queryText); err != nil {
		return nil, err
	}
	if ds.Typography, err = a.section(ctx, "typography", styleQuery); err != nil {
		return nil, err
	}

	ds.Palette = a.palette(ds.Colors)
	ds.Reasoning, err = a.reasoning(queryText)
	if err != nil {
		a.logger.Warn("reasoning rules unavailable", "err", err)
	}
	return ds, nil
}

func (a *Advisor) section(ctx context.Context, domain, queryText string) ([]core.Result, error) {
	resp, err := a.searcher.Search(ctx, core.Query{
		Text:   queryText,
		Domain: domain,
		Limit:  sectionLimits[domain],
	})
	if err != nil {
		if errors.Is(err, core.ErrUnknownDomain) {
			a.logger.Debug("section skipped", "domain", domain)
			return nil, nil
		}
		return nil, err
	}
	return resp.Results, nil
}

// palette derives the working color palette: the brand profile when one
// is configured, otherwise light and dark variants of the top color
// recommendation.
func (a *Advisor) palette(colorResults []core.Result) map[string]string {
	if a.external != nil && a.external.Brand != nil {
		return brand.Palette(a.external.Brand)
	}
	if len(colorResults) == 0 {
		return nil
	}

	profile := &core.BrandProfile{Colors: map[string]string{}}
	roles := map[string]string{
		"primary":    "Primary (Hex)",
		"secondary":  "Secondary (Hex)",
		"cta":        "CTA (Hex)",
		"background": "Background (Hex)",
		"text":       "Text (Hex)",
		"border":     "Border (Hex)",
	}
	fields := colorResults[0].Record.OutputFields
	for role, field := range roles {
		if hex, ok := fields[field]; ok && core.IsHexColor(hex) {
			profile.Colors[role] = hex
		}
	}
	return brand.Palette(profile)
}

// reasoning returns the built-in and user rules matching the query.
// Stronger match tiers come first: exact category, then category
// substring, then keyword substring; priority order is preserved within
// a tier.
func (a *Advisor) reasoning(queryText string) ([]core.ReasoningRule, error) {
	rules, err := a.catalog.ReasoningRules()
	if err != nil {
		return nil, err
	}
	if a.external != nil {
		rules = append(rules, a.external.ReasoningRules...)
	}

	lowered := strings.ToLower(queryText)
	type match struct {
		rule core.ReasoningRule
		tier int
	}
	var matched []match
	for _, rule := range rules {
		if tier := ruleTier(rule, lowered); tier >= 0 {
			matched = append(matched, match{rule, tier})
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].tier < matched[j].tier
	})

	var out []core.ReasoningRule
	for _, m := range matched {
		out = append(out, m.rule)
	}
	return out, nil
}

// ruleTier grades how a rule matches the query: 0 for an exact category
// match, 1 for the category appearing in the query, 2 for any keyword
// appearing, -1 for no match.
func ruleTier(rule core.ReasoningRule, loweredQuery string) int {
	category := strings.ToLower(rule.Category)
	switch {
	case category != "" && category == loweredQuery:
		return 0
	case category != "" && strings.Contains(loweredQuery, category):
		return 1
	}
	for _, kw := range rule.Keywords {
		if kw != "" && strings.Contains(loweredQuery, strings.ToLower(kw)) {
			return 2
		}
	}
	return -1
}

// productStyleHint extracts the primary style recommendation from the
// product section, lowercased for query augmentation.
func productStyleHint(productResults []core.Result) string {
	if len(productResults) == 0 {
		return ""
	}
	return strings.ToLower(productResults[0].Record.OutputFields["Primary Style Recommendation"])
}
