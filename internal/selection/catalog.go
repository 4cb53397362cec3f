// Package selection implements the campaign picker state: an immutable
// option catalog, a substring filter over it, and a selection controller
// that reconciles manual toggles, bulk category toggles and external
// updates into one consistent id set.
package selection

// Option is one selectable campaign entry.
type Option struct {
	ID       string
	Label    string
	Subtitle string // optional secondary text, included in search matching
}

// Catalog is an ordered snapshot of selectable options. It is never
// mutated; the owning view passes a fresh catalog per render cycle.
type Catalog struct {
	options []Option
	index   map[string]int
}

// NewCatalog copies options into a catalog. The first occurrence wins if
// an id appears twice.
func NewCatalog(options []Option) Catalog {
	opts := make([]Option, len(options))
	copy(opts, options)
	index := make(map[string]int, len(opts))
	for i, o := range opts {
		if _, ok := index[o.ID]; !ok {
			index[o.ID] = i
		}
	}
	return Catalog{options: opts, index: index}
}

// Size reports the number of options.
func (c Catalog) Size() int { return len(c.options) }

// ByID looks up an option. Absence is a normal condition (stale selection
// entries reference removed campaigns), so the second return is a bool,
// not an error.
func (c Catalog) ByID(id string) (Option, bool) {
	i, ok := c.index[id]
	if !ok {
		return Option{}, false
	}
	return c.options[i], true
}

// Contains reports whether id is present.
func (c Catalog) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Options returns a copy of the ordered option list.
func (c Catalog) Options() []Option {
	out := make([]Option, len(c.options))
	copy(out, c.options)
	return out
}
