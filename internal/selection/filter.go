package selection

import "strings"

// Filter returns the options whose label or subtitle contains query,
// case-insensitively. An empty query matches everything. The result is an
// order-preserving subsequence of the catalog; there is no ranking, so
// re-running on every keystroke stays deterministic and cheap for
// catalogs in the low thousands.
func Filter(c Catalog, query string) []Option {
	if query == "" {
		return c.Options()
	}
	q := strings.ToLower(query)
	out := make([]Option, 0, len(c.options))
	for _, o := range c.options {
		// match against the plain concatenation so a query may span the
		// label/subtitle boundary
		hay := o.Label + o.Subtitle
		if strings.Contains(strings.ToLower(hay), q) {
			out = append(out, o)
		}
	}
	return out
}

// IDs projects options onto their ids, preserving order.
func IDs(options []Option) []string {
	out := make([]string, len(options))
	for i, o := range options {
		out[i] = o.ID
	}
	return out
}
