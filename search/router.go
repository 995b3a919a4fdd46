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
	"fmt"
	"sort"
	"strings"

	"github.com/poiesic/designkit/core"
)

// Router decides which domain serves a query: a declared domain wins
// outright, otherwise keyword detection over the query text picks one.
type Router struct {
	keywords map[string][]string
	known    map[string]bool
	fallback string
}

// NewRouter builds a router over the keyword table. known lists every
// routable domain, including external-only ones without keywords.
// fallback is the domain used when detection finds nothing or ties.
func NewRouter(keywords map[string][]string, known []string, fallback string) (*Router, error) {
	if len(known) == 0 {
		return nil, core.ErrNoDomainConfigured
	}
	knownSet := make(map[string]bool, len(known))
	for _, d := range known {
		knownSet[d] = true
	}
	return &Router{
		keywords: keywords,
		known:    knownSet,
		fallback: fallback,
	}, nil
}

// Resolve returns the domain for a query. A declared domain is used as-is
// when known and rejected when not; it is never silently rerouted.
func (r *Router) Resolve(text, declared string) (string, error) {
	if declared != "" {
		if !r.known[declared] {
			return "", fmt.Errorf("declared domain %q: %w", declared, core.ErrUnknownDomain)
		}
		return declared, nil
	}
	return r.Detect(text), nil
}

// Detect scores every keyword domain against the query text and returns
// the unique best match, or the fallback when nothing matches or the
// best score is shared.
func (r *Router) Detect(text string) string {
	lowered := strings.ToLower(text)

	best, bestScore := "", 0
	tied := false
	for _, domain := range r.sortedKeywordDomains() {
		score := 0
		for _, kw := range r.keywords[domain] {
			if strings.Contains(lowered, kw) {
				score++
			}
		}
		switch {
		case score > bestScore:
			best, bestScore, tied = domain, score, false
		case score == bestScore && score > 0:
			tied = true
		}
	}
	if bestScore == 0 || tied {
		return r.fallback
	}
	return best
}

// Known reports whether a domain is routable.
func (r *Router) Known(domain string) bool {
	return r.known[domain]
}

func (r *Router) sortedKeywordDomains() []string {
	domains := make([]string, 0, len(r.keywords))
	for d := range r.keywords {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}
