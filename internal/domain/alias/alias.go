// Package alias maps free-text organization names to canonical entities.
//
// Resolution order:
//  1. exact match on the normalized input (always wins),
//  2. the first contains-rule, in list order, whose normalized needle occurs
//     in the normalized input,
//  3. the trimmed raw input,
//  4. Unspecified when the input is blank.
//
// Rule order is a manual priority ranking: specific needles must come
// before generic ones ("universidad tecnologica del peru" before "tecnologica").
// Canonical names are not guaranteed to resolve to themselves, so callers
// resolve raw input once and treat the result as opaque.
package alias

import (
	"sort"
	"strings"

	"github.com/SantiagooArturo/dashboard-agosto-sub000/internal/domain/normalize"
)

// Unspecified is returned for blank input.
const Unspecified = "No especificado / Otros"

// Rule maps any input containing Needle to Canonical.
type Rule struct {
	Needle    string `json:"needle"`
	Canonical string `json:"canonical"`
}

// Table is the alias table as stored externally.
type Table struct {
	Exact    map[string]string `json:"exact"`
	Contains []Rule            `json:"contains"`
}

// Len returns the number of usable rules in the table.
func (t Table) Len() int {
	return len(t.Exact) + len(t.Contains)
}

// MatchKind tells which step produced a resolution.
type MatchKind string

// Match kinds.
const (
	MatchExact       MatchKind = "exact"
	MatchContains    MatchKind = "contains"
	MatchFallback    MatchKind = "fallback"
	MatchUnspecified MatchKind = "unspecified"
)

type compiledRule struct {
	needle    string
	canonical string
}

// Resolver resolves raw names against a table loaded at construction.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	exact    map[string]string
	contains []compiledRule
}

// NewResolver compiles t. Keys and needles are normalized; entries with an
// empty key, needle or canonical name are dropped. When two exact keys
// normalize to the same string the later one in sorted key order is ignored.
func NewResolver(t Table) *Resolver {
	r := &Resolver{exact: make(map[string]string, len(t.Exact))}
	for _, key := range sortedKeys(t.Exact) {
		canonical := strings.TrimSpace(t.Exact[key])
		k := normalize.Text(key)
		if k == "" || canonical == "" {
			continue
		}
		if _, dup := r.exact[k]; dup {
			continue
		}
		r.exact[k] = canonical
	}
	for _, rule := range t.Contains {
		needle := normalize.Text(rule.Needle)
		canonical := strings.TrimSpace(rule.Canonical)
		if needle == "" || canonical == "" {
			continue
		}
		r.contains = append(r.contains, compiledRule{needle: needle, canonical: canonical})
	}
	return r
}

// Empty returns a resolver with no rules; every lookup falls back to the raw input.
func Empty() *Resolver {
	return NewResolver(Table{})
}

// Rules returns the number of compiled exact and contains rules.
func (r *Resolver) Rules() (exact, contains int) {
	if r == nil {
		return 0, 0
	}
	return len(r.exact), len(r.contains)
}

// Resolve returns the canonical name for raw. It never returns "".
func (r *Resolver) Resolve(raw string) string {
	name, _ := r.Match(raw)
	return name
}

// Match resolves raw and reports which step matched.
func (r *Resolver) Match(raw string) (string, MatchKind) {
	trimmed := strings.TrimSpace(raw)
	key := normalize.Text(trimmed)
	if key != "" && r != nil {
		if canonical, ok := r.exact[key]; ok {
			return canonical, MatchExact
		}
		for _, rule := range r.contains {
			if strings.Contains(key, rule.needle) {
				return rule.canonical, MatchContains
			}
		}
	}
	if trimmed == "" {
		return Unspecified, MatchUnspecified
	}
	return trimmed, MatchFallback
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
