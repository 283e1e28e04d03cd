package tui

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestions caps the near-miss list shown when nothing matches the query
// as a substring.
const maxSuggestions = 3

// filterCodes returns the picker options for a query. Empty query lists every
// code sorted. Otherwise codes whose code or display name contains the query
// (case-insensitive) are listed; when there is no substring hit at all, the
// closest codes by edit distance are offered instead so a typo like "USO"
// still finds USD.
func filterCodes(query string, currencies map[string]string) []string {
	codes := make([]string, 0, len(currencies))
	for code := range currencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" {
		return codes
	}

	var matched []string
	for _, code := range codes {
		if strings.Contains(code, q) || strings.Contains(strings.ToUpper(currencies[code]), q) {
			matched = append(matched, code)
		}
	}
	if len(matched) > 0 {
		return matched
	}

	type scored struct {
		code string
		dist int
	}
	nearest := make([]scored, 0, len(codes))
	for _, code := range codes {
		nearest = append(nearest, scored{code, levenshtein.ComputeDistance(q, code)})
	}
	sort.Slice(nearest, func(i, j int) bool {
		if nearest[i].dist != nearest[j].dist {
			return nearest[i].dist < nearest[j].dist
		}
		return nearest[i].code < nearest[j].code
	})
	if len(nearest) > maxSuggestions {
		nearest = nearest[:maxSuggestions]
	}
	out := make([]string, len(nearest))
	for i, s := range nearest {
		out[i] = s.code
	}
	return out
}
