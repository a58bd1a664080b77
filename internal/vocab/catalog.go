package vocab

import (
	"strings"

	"github.com/samber/lo"

	"lexical/internal/types"
)

// FilterByKind keeps entries of the given kind. An empty kind keeps everything.
func FilterByKind(entries []types.Entry, kind types.Kind) []types.Entry {
	if kind == "" {
		return entries
	}
	return lo.Filter(entries, func(e types.Entry, _ int) bool { return e.Kind == kind })
}

// Search keeps entries whose source or target contains query, ignoring case.
// A blank query returns entries unchanged.
func Search(entries []types.Entry, query string) []types.Entry {
	q := Normalize(query)
	if q == "" {
		return entries
	}
	return lo.Filter(entries, func(e types.Entry, _ int) bool {
		return strings.Contains(Normalize(e.Source), q) || strings.Contains(Normalize(e.Target), q)
	})
}

// View is what the resource list shows: the search result narrowed to kind.
func View(entries []types.Entry, kind types.Kind, query string) []types.Entry {
	return FilterByKind(Search(entries, query), kind)
}
