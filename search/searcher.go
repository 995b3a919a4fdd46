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


package search

import (
	"context"
	"log/slog"

	"github.com/poiesic/designkit/brand"
	"github.com/poiesic/designkit/catalog"
	"github.com/poiesic/designkit/core"
	"github.com/poiesic/designkit/index"
)

// Response is the outcome of one search: the resolved domain, the ranked
// results, and the merge conflicts observed while building the index.
type Response struct {
	Query        core.Query
	Domain       string
	Results      []core.Result
	Conflicts    []core.Conflict
	BrandApplied bool
}

// Searcher routes queries to a domain, ranks against the merged index,
// and optionally post-processes results under the brand profile.
type Searcher struct {
	catalog    *catalog.Catalog
	external   *core.ExternalConfig
	processor  *brand.Processor
	router     *Router
	logger     *slog.Logger
	applyBrand bool
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithBrandProcessing enables brand post-processing for every search.
// It has no effect when the external configuration carries no brand
// profile.
func WithBrandProcessing() Option {
	return func(s *Searcher) error {
		s.applyBrand = true
		return nil
	}
}

// NewSearcher creates a new searcher over a catalog and an external
// configuration snapshot. A nil snapshot means built-in-only behavior.
func NewSearcher(cat *catalog.Catalog, external *core.ExternalConfig, opts ...Option) (*Searcher, error) {
	if cat == nil {
		return nil, ErrCatalogRequired
	}
	if external == nil {
		external = core.DisabledExternalConfig("")
	}

	known := append(cat.Domains(), external.DomainNames()...)
	router, err := NewRouter(catalog.DomainKeywords(), known, catalog.DefaultDomain)
	if err != nil {
		return nil, err
	}

	s := &Searcher{
		catalog:  cat,
		external: external,
		router:   router,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.applyBrand && external.Brand != nil {
		s.processor = brand.NewProcessor(external.Brand, brand.WithLogger(s.logger))
	}
	return s, nil
}

// Router exposes the domain router, for diagnostics.
func (s *Searcher) Router() *Router { return s.router }

// Search runs one query. See SearchWithMonitor.
func (s *Searcher) Search(ctx context.Context, query core.Query) (*Response, error) {
	return s.SearchWithMonitor(ctx, query, nil)
}

// SearchWithMonitor runs one query with monitoring. The monitor receives
// callbacks at each stage of the search process. Returns up to
// query.Limit results (core.DefaultLimit when unset), ranked by the
// deterministic ordering contract. Empty query text is allowed: it
// routes to the fallback domain and every record scores its priority
// boost, so boosted records still surface.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query core.Query, monitor SearchMonitor) (*Response, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	limit := query.Limit
	if limit <= 0 {
		limit = core.DefaultLimit
	}

	resp := &Response{Query: query}

	ix, conflicts, err := s.resolveIndex(ctx, query, monitor)
	if err != nil {
		s.logger.Error("index resolution failed", "query", query.Text, "err", err)
		return nil, err
	}
	resp.Domain = ix.Domain()
	resp.Conflicts = conflicts
	monitor.IndexReady(ix.Domain(), ix.Len())
	if len(conflicts) > 0 {
		monitor.ConflictsDetected(conflicts)
		s.logger.Debug("merge conflicts present", "domain", ix.Domain(), "count", len(conflicts))
	}

	results := ix.Score(query.Text, limit)
	monitor.Ranked(results)

	if s.processor != nil {
		results = s.processor.Apply(results, query.Text)
		resp.BrandApplied = true
		monitor.BrandApplied(results)
	}

	resp.Results = results
	monitor.Finish(results)
	return resp, nil
}

// resolveIndex picks the index serving this query. A stack query targets
// its platform table directly and skips domain routing.
func (s *Searcher) resolveIndex(ctx context.Context, query core.Query, monitor SearchMonitor) (*index.DomainIndex, []core.Conflict, error) {
	if query.Stack != "" {
		monitor.DomainResolved(query.Stack, true)
		return s.catalog.StackIndex(ctx, query.Stack, s.external)
	}

	domain, err := s.router.Resolve(query.Text, query.Domain)
	if err != nil {
		return nil, nil, err
	}
	monitor.DomainResolved(domain, query.Domain != "")
	return s.catalog.Index(ctx, domain, s.external)
}
