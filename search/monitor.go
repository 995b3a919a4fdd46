package search

import (
	"github.com/poiesic/designkit/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query core.Query)
	DomainResolved(domain string, declared bool)
	IndexReady(domain string, records int)
	ConflictsDetected(conflicts []core.Conflict)
	Ranked(results []core.Result)
	BrandApplied(results []core.Result)
	Finish(results []core.Result)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ core.Query)                     {}
func (n *noopMonitor) DomainResolved(_ string, _ bool)        {}
func (n *noopMonitor) IndexReady(_ string, _ int)             {}
func (n *noopMonitor) ConflictsDetected(_ []core.Conflict)    {}
func (n *noopMonitor) Ranked(_ []core.Result)                 {}
func (n *noopMonitor) BrandApplied(_ []core.Result)           {}
func (n *noopMonitor) Finish(_ []core.Result)                 {}
