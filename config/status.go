package config

import (
	"context"

	"github.com/poiesic/designkit/core"
)

// Status summarizes one external configuration directory for diagnostics:
// what was found, what was rejected, and how close the entry count is to
// its limit.
type Status struct {
	Path            string                 `json:"path"`
	Enabled         bool                   `json:"enabled"`
	Version         string                 `json:"version,omitempty"`
	Fingerprint     string                 `json:"fingerprint,omitempty"`
	Domains         map[string]int         `json:"domains,omitempty"`
	Stacks          map[string]int         `json:"stacks,omitempty"`
	BrandConfigured bool                   `json:"brand_configured"`
	ReasoningRules  int                    `json:"reasoning_rules"`
	Errors          []core.ValidationError `json:"errors,omitempty"`
	Performance     core.PerformanceStats  `json:"performance"`
}

// Status loads the configuration and reports on it. Like Load, it never
// fails on bad configuration, only on a cancelled context.
func (l *Loader) Status(ctx context.Context) (*Status, error) {
	cfg, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	return NewStatus(cfg), nil
}

// NewStatus builds the report for an already loaded snapshot.
func NewStatus(cfg *core.ExternalConfig) *Status {
	s := &Status{
		Path:            cfg.Path,
		Enabled:         cfg.Enabled,
		Version:         cfg.Version,
		Fingerprint:     cfg.Fingerprint,
		BrandConfigured: cfg.Brand != nil,
		ReasoningRules:  len(cfg.ReasoningRules),
		Errors:          cfg.Errors,
		Performance:     cfg.Performance,
	}
	if len(cfg.Domains) > 0 {
		s.Domains = make(map[string]int, len(cfg.Domains))
		for name, records := range cfg.Domains {
			s.Domains[name] = len(records)
		}
	}
	if len(cfg.Stacks) > 0 {
		s.Stacks = make(map[string]int, len(cfg.Stacks))
		for name, records := range cfg.Stacks {
			s.Stacks[name] = len(records)
		}
	}
	return s
}
