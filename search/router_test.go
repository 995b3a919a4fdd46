package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/designkit/core"
)

func testRouter(t *testing.T) *Router {
	t.Helper()
	r, err := NewRouter(map[string][]string{
		"color":   {"color", "palette", "hex"},
		"chart":   {"chart", "graph"},
		"product": {"fintech", "saas"},
	}, []string{"color", "chart", "product", "style", "my-widgets"}, "style")
	require.NoError(t, err)
	return r
}

func TestNewRouterEmpty(t *testing.T) {
	_, err := NewRouter(nil, nil, "style")
	assert.ErrorIs(t, err, core.ErrNoDomainConfigured)
}

func TestResolveDeclaredDomainWins(t *testing.T) {
	r := testRouter(t)

	// Declared and known: used even when keywords point elsewhere.
	domain, err := r.Resolve("color palette hex", "chart")
	require.NoError(t, err)
	assert.Equal(t, "chart", domain)

	// External-only domains are routable when declared.
	domain, err = r.Resolve("anything", "my-widgets")
	require.NoError(t, err)
	assert.Equal(t, "my-widgets", domain)
}

func TestResolveDeclaredUnknownDomain(t *testing.T) {
	r := testRouter(t)
	_, err := r.Resolve("color palette", "nonsense")
	assert.ErrorIs(t, err, core.ErrUnknownDomain)
}

func TestDetect(t *testing.T) {
	r := testRouter(t)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"unique winner", "a color palette for dashboards", "color"},
		{"case insensitive", "COLOR PALETTE", "color"},
		{"no match falls back", "quantum chromodynamics", "style"},
		{"tie falls back", "color chart", "style"},
		{"single keyword each side tie", "palette graph", "style"},
		{"higher count wins", "color palette hex graph", "color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Detect(tt.text))
		})
	}
}

func TestKnown(t *testing.T) {
	r := testRouter(t)
	assert.True(t, r.Known("my-widgets"))
	assert.False(t, r.Known("nonsense"))
}
