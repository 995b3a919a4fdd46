package index

import (
	"math"
	"strings"
	"unicode"

	"github.com/poiesic/designkit/core"
)

// BM25 parameters. Standard defaults; tunable here, never at call sites.
const (
	K1 = 1.5
	B  = 0.75
)

// Tokenize lowercases text and splits it on non-alphanumeric boundaries.
// Stopwords are kept: queries here are short and recall matters more than
// precision.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// DomainIndex holds one domain's records and the derived term statistics
// needed for BM25 scoring.
type DomainIndex struct {
	domain    string
	records   []core.Record
	termFreqs []map[string]int
	docLens   []int
	avgdl     float64
	df        map[string]int
	n         int
}

// Build constructs a DomainIndex over the given records. The records slice
// is retained; callers must not mutate it afterwards.
func Build(domain string, records []core.Record) *DomainIndex {
	ix := &DomainIndex{
		domain:    domain,
		records:   records,
		termFreqs: make([]map[string]int, len(records)),
		docLens:   make([]int, len(records)),
		df:        make(map[string]int),
		n:         len(records),
	}

	total := 0
	for i := range records {
		tokens := Tokenize(records[i].SearchText())
		freqs := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			freqs[tok]++
		}
		for tok := range freqs {
			ix.df[tok]++
		}
		ix.termFreqs[i] = freqs
		ix.docLens[i] = len(tokens)
		total += len(tokens)
	}
	if ix.n > 0 {
		ix.avgdl = float64(total) / float64(ix.n)
	}
	return ix
}

// Domain returns the domain key this index was built for.
func (ix *DomainIndex) Domain() string { return ix.domain }

// Len returns the number of records in the index.
func (ix *DomainIndex) Len() int { return ix.n }

// Records returns the indexed records. The slice must not be mutated.
func (ix *DomainIndex) Records() []core.Record { return ix.records }

func (ix *DomainIndex) idf(term string) float64 {
	df, ok := ix.df[term]
	if !ok {
		return 0
	}
	return math.Log(1 + (float64(ix.n)-float64(df)+0.5)/(float64(df)+0.5))
}

// Score ranks all records against the query text and returns at most limit
// results. Every record scores at least its priority boost; records that
// exactly match the query (by ID or by a full search field,
// case-insensitive) are pinned ahead of the BM25 ordering.
func (ix *DomainIndex) Score(queryText string, limit int) []core.Result {
	if ix.n == 0 || limit <= 0 {
		return nil
	}

	queryTokens := Tokenize(queryText)
	exactNeedle := strings.ToLower(strings.TrimSpace(queryText))

	results := make([]core.Result, 0, ix.n)
	for i := range ix.records {
		rec := &ix.records[i]

		score := 0.0
		matches := 0
		seen := make(map[string]bool, len(queryTokens))
		freqs := ix.termFreqs[i]
		docLen := float64(ix.docLens[i])
		for _, tok := range queryTokens {
			tf := float64(freqs[tok])
			if tf == 0 {
				continue
			}
			if !seen[tok] {
				seen[tok] = true
				matches++
			}
			norm := tf + K1*(1-B+B*docLen/ix.avgdl)
			score += ix.idf(tok) * tf * (K1 + 1) / norm
		}
		score += rec.PriorityBoost

		results = append(results, core.Result{
			Record:      *rec,
			Score:       score,
			TermMatches: matches,
			ExactMatch:  exactNeedle != "" && ix.isExactMatch(rec, exactNeedle),
		})
	}

	core.SortResults(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func (ix *DomainIndex) isExactMatch(rec *core.Record, needle string) bool {
	if strings.ToLower(rec.ID) == needle {
		return true
	}
	for _, f := range rec.SearchFields {
		if strings.ToLower(strings.TrimSpace(f)) == needle {
			return true
		}
	}
	return false
}
