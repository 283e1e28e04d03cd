package convert

import "sort"

// DefaultSelection picks deterministic source/target codes when the current
// selection is absent from the fetched set: first and second code in
// lexicographic order. With one code both default to it; with none, both are
// empty.
func DefaultSelection(codes []string) (source, target string) {
	if len(codes) == 0 {
		return "", ""
	}
	sorted := make([]string, len(codes))
	copy(sorted, codes)
	sort.Strings(sorted)

	source = sorted[0]
	target = sorted[0]
	if len(sorted) > 1 {
		target = sorted[1]
	}
	return source, target
}

// EnsureSelection keeps an existing valid selection and falls back to
// DefaultSelection for any side the fetched set no longer contains.
func EnsureSelection(source, target string, available map[string]string) (string, string) {
	codes := make([]string, 0, len(available))
	for code := range available {
		codes = append(codes, code)
	}
	defSource, defTarget := DefaultSelection(codes)

	if _, ok := available[source]; !ok {
		source = defSource
	}
	if _, ok := available[target]; !ok {
		target = defTarget
	}
	return source, target
}
