package core

import (
	"sort"
	"strings"
)

// OriginBuiltin marks records loaded from the built-in knowledge base.
const OriginBuiltin = "builtin"

// DefaultLimit is the result limit used when a Query does not set one.
const DefaultLimit = 3

// ExternalOrigin returns the origin string for a record loaded from the
// given external source file.
func ExternalOrigin(source string) string {
	return "external:" + source
}

// IsExternal reports whether an origin string denotes an external source.
func IsExternal(origin string) bool {
	return strings.HasPrefix(origin, "external:")
}

// Record is a single knowledge-base entry.
//
// SearchFields carry the free text used for lexical scoring. OutputFields
// and ListFields are display-only and never influence ranking. The ID is
// stable within (Domain, Origin); the same ID appearing in both a built-in
// and an external source is a merge conflict, not an identity violation.
type Record struct {
	ID            string
	Domain        string
	SearchFields  []string
	OutputFields  map[string]string
	ListFields    map[string][]string
	Origin        string
	PriorityBoost float64
}

// SearchText returns the concatenation of the record's search fields,
// which is the document the ranker scores against.
func (r *Record) SearchText() string {
	return strings.Join(r.SearchFields, " ")
}

// Clone returns a deep copy of the record. Post-processing stages mutate
// copies so that cached index snapshots stay immutable.
func (r *Record) Clone() Record {
	out := *r
	out.SearchFields = append([]string(nil), r.SearchFields...)
	if r.OutputFields != nil {
		out.OutputFields = make(map[string]string, len(r.OutputFields))
		for k, v := range r.OutputFields {
			out.OutputFields[k] = v
		}
	}
	if r.ListFields != nil {
		out.ListFields = make(map[string][]string, len(r.ListFields))
		for k, v := range r.ListFields {
			out.ListFields[k] = append([]string(nil), v...)
		}
	}
	return out
}

// Query is a single search request.
type Query struct {
	Text   string
	Domain string // optional explicit domain; wins over auto-detection
	Stack  string // optional stack table; handled like a domain
	Limit  int    // defaults to DefaultLimit when <= 0
}

// Warning kinds attached to results and configuration loads.
const (
	WarningAccessibility = "accessibility"
	WarningPerformance   = "performance"
)

// Warning is an advisory attached to a result or a configuration load.
// Warnings never fail an operation.
type Warning struct {
	Kind    string
	Message string
}

// Result is one ranked search hit.
type Result struct {
	Record       Record
	Score        float64
	TermMatches  int // distinct query terms with positive term frequency
	ExactMatch   bool
	BrandApplied bool
	Notes        []string
	Warnings     []Warning
}

// Clone returns a deep copy of the result.
func (r *Result) Clone() Result {
	out := *r
	out.Record = r.Record.Clone()
	out.Notes = append([]string(nil), r.Notes...)
	out.Warnings = append([]Warning(nil), r.Warnings...)
	return out
}

// SortResults orders results by the ranking contract: exact matches first,
// then score descending, then priority boost descending, then ID ascending.
// The order is fully deterministic for equal scores.
func SortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := &results[i], &results[j]
		if a.ExactMatch != b.ExactMatch {
			return a.ExactMatch
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Record.PriorityBoost != b.Record.PriorityBoost {
			return a.Record.PriorityBoost > b.Record.PriorityBoost
		}
		return a.Record.ID < b.Record.ID
	})
}

// Resolution describes how a merge conflict was settled.
type Resolution string

const (
	// ResolutionUsedExternal means the external value replaced the built-in one.
	ResolutionUsedExternal Resolution = "used_external"
	// ResolutionUsedBuiltin means the built-in value was kept.
	ResolutionUsedBuiltin Resolution = "used_builtin"
	// ResolutionMergedList means list values were concatenated and de-duplicated.
	ResolutionMergedList Resolution = "merged_list"
)

// Conflict records a field collision between a built-in and an external
// record sharing the same (domain, id).
type Conflict struct {
	Domain        string
	RecordID      string
	Field         string
	BuiltinValue  string
	ExternalValue string
	Resolution    Resolution
}

// Font is a named typeface with its fallback chain.
type Font struct {
	Name      string
	Fallbacks []string
}

// Stack renders the font as a comma-separated font stack.
func (f Font) Stack() string {
	return strings.Join(append([]string{f.Name}, f.Fallbacks...), ", ")
}

// Typography holds the brand's font roles and type scale.
type Typography struct {
	Fonts      map[string]Font // role ("heading", "body", "mono") -> font
	ScaleRatio float64
}

// StylePreferences hold the brand's style likes and dislikes.
// Preferred is ordered by preference.
type StylePreferences struct {
	Preferred  []string
	Avoided    []string
	Philosophy string
}

// BrandProfile is a user brand configuration applied by the post-processor.
// Colors maps role names (primary, secondary, accent, background, neutral
// shades, semantic success/warning/error/info) to 6-digit hex values.
// Absent sections fall back to built-in defaults, never to an error.
type BrandProfile struct {
	Colors           map[string]string
	Typography       Typography
	StylePreferences StylePreferences
}

// Color looks up a color role, returning false when the role is not set.
func (p *BrandProfile) Color(role string) (string, bool) {
	if p == nil || p.Colors == nil {
		return "", false
	}
	v, ok := p.Colors[role]
	return v, ok
}

// ReasoningRule is an ordered adjustment rule, built-in or user-supplied,
// matched against a UI category during design-system aggregation.
type ReasoningRule struct {
	Category string
	Keywords []string
	Guidance string
	Priority int
	Source   string
}

// PerformanceStats tracks external entry counts against configured limits.
type PerformanceStats struct {
	MaxEntries     int
	WarnEntries    int
	CurrentEntries int
	Warnings       []Warning
}

// ExternalConfig is the merged external state for one configuration
// directory. It is built once per load and read-only afterwards; the
// ranking path never mutates it.
type ExternalConfig struct {
	Enabled        bool
	Path           string
	Version        string
	Fingerprint    string
	Domains        map[string][]Record
	Stacks         map[string][]Record
	Brand          *BrandProfile
	ReasoningRules []ReasoningRule
	Errors         []ValidationError
	Performance    PerformanceStats
}

// DisabledExternalConfig returns the empty, disabled configuration used
// when no configuration directory exists. It carries no entries and no
// errors so the system degrades to built-in-only behavior.
func DisabledExternalConfig(path string) *ExternalConfig {
	return &ExternalConfig{
		Enabled: false,
		Path:    path,
		Domains: map[string][]Record{},
		Stacks:  map[string][]Record{},
	}
}

// DomainRecords returns the external records for a domain, nil when none.
func (c *ExternalConfig) DomainRecords(domain string) []Record {
	if c == nil {
		return nil
	}
	return c.Domains[domain]
}

// StackRecords returns the external records for a stack, nil when none.
func (c *ExternalConfig) StackRecords(stack string) []Record {
	if c == nil {
		return nil
	}
	return c.Stacks[stack]
}

// EntryCount returns the total number of external records.
func (c *ExternalConfig) EntryCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, recs := range c.Domains {
		n += len(recs)
	}
	for _, recs := range c.Stacks {
		n += len(recs)
	}
	return n
}

// DomainNames returns the sorted external domain keys.
func (c *ExternalConfig) DomainNames() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.Domains))
	for name := range c.Domains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StackNames returns the sorted external stack keys.
func (c *ExternalConfig) StackNames() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.Stacks))
	for name := range c.Stacks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
