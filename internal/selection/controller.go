package selection

import "fmt"

// Controller holds the working copy of the selected campaign ids. The
// caller owns the canonical value; the controller mirrors it on inbound
// syncs and emits a full snapshot through onChange after every
// user-driven change. Membership is a set, but the working copy keeps
// insertion order so the caller-supplied ordering round-trips.
type Controller struct {
	catalog  Catalog
	order    []string
	member   map[string]struct{}
	onChange func([]string)
}

// NewController creates a controller over catalog. onChange may be nil.
func NewController(catalog Catalog, onChange func([]string)) *Controller {
	return &Controller{
		catalog:  catalog,
		member:   make(map[string]struct{}),
		onChange: onChange,
	}
}

// SetCatalog swaps the catalog and reconciles the working selection
// against it: ids no longer present are dropped silently. No emit; the
// next user-driven change carries the reconciled set out.
func (s *Controller) SetCatalog(catalog Catalog) {
	s.catalog = catalog
	kept := s.order[:0]
	for _, id := range s.order {
		if catalog.Contains(id) {
			kept = append(kept, id)
		} else {
			delete(s.member, id)
		}
	}
	s.order = kept
}

// SetFromExternal replaces the working selection with the intersection of
// ids and the current catalog, preserving the caller's ordering. Unknown
// ids are dropped silently. Inbound sync, so no emit.
func (s *Controller) SetFromExternal(ids []string) {
	s.order = s.order[:0]
	s.member = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if !s.catalog.Contains(id) {
			continue
		}
		if _, dup := s.member[id]; dup {
			continue
		}
		s.member[id] = struct{}{}
		s.order = append(s.order, id)
	}
}

// ToggleOne removes id if selected, otherwise adds it if the catalog
// knows it. Toggling an unknown id is a no-op, not an error.
func (s *Controller) ToggleOne(id string) {
	if _, ok := s.member[id]; ok {
		s.remove(id)
		s.emit()
		return
	}
	if !s.catalog.Contains(id) {
		return
	}
	s.add(id)
	s.emit()
}

// ToggleCategory applies the all-or-nothing bulk rule: if every id in the
// category is already selected the whole category is deselected,
// otherwise the missing ids are added as a union, leaving unrelated
// selections untouched. A single activation never leaves a partial category state.
func (s *Controller) ToggleCategory(ids []string) {
	ids = s.knownIDs(ids)
	if len(ids) == 0 {
		return
	}
	if s.allSelected(ids) {
		for _, id := range ids {
			s.remove(id)
		}
		s.emit()
		return
	}
	for _, id := range ids {
		s.add(id)
	}
	s.emit()
}

// SelectAllVisible adds every id currently passing the filter. Union
// semantics, same as a category toggle.
func (s *Controller) SelectAllVisible(ids []string) {
	changed := false
	for _, id := range s.knownIDs(ids) {
		if _, ok := s.member[id]; ok {
			continue
		}
		s.add(id)
		changed = true
	}
	if changed {
		s.emit()
	}
}

// Clear empties the selection and emits the empty set.
func (s *Controller) Clear() {
	s.order = s.order[:0]
	s.member = make(map[string]struct{})
	s.emit()
}

// Selected returns a copy of the selection in working order.
func (s *Controller) Selected() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Count reports how many ids are selected.
func (s *Controller) Count() int { return len(s.order) }

// IsSelected reports membership.
func (s *Controller) IsSelected(id string) bool {
	_, ok := s.member[id]
	return ok
}

// AllSelected reports whether every known id in ids is selected and the
// category is non-empty. Used to render bulk buttons in their "deselect"
// state.
func (s *Controller) AllSelected(ids []string) bool {
	ids = s.knownIDs(ids)
	return len(ids) > 0 && s.allSelected(ids)
}

// SummaryLabel derives the collapsed-header text: placeholder when
// nothing is selected, the option's label for exactly one, otherwise a
// "<n> <noun> selected" count. Recomputed from current state, never
// stored.
func (s *Controller) SummaryLabel(placeholder, noun string) string {
	switch len(s.order) {
	case 0:
		return placeholder
	case 1:
		if o, ok := s.catalog.ByID(s.order[0]); ok {
			return o.Label
		}
		return s.order[0]
	default:
		if noun == "" {
			noun = "campaigns"
		}
		return fmt.Sprintf("%d %s selected", len(s.order), noun)
	}
}

func (s *Controller) add(id string) {
	if _, ok := s.member[id]; ok {
		return
	}
	s.member[id] = struct{}{}
	s.order = append(s.order, id)
}

func (s *Controller) remove(id string) {
	if _, ok := s.member[id]; !ok {
		return
	}
	delete(s.member, id)
	for i, cur := range s.order {
		if cur == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Controller) allSelected(ids []string) bool {
	for _, id := range ids {
		if _, ok := s.member[id]; !ok {
			return false
		}
	}
	return true
}

// knownIDs drops ids the catalog does not know and de-duplicates,
// preserving order. Stale category sets reduce to their live members.
func (s *Controller) knownIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if !s.catalog.Contains(id) {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *Controller) emit() {
	if s.onChange != nil {
		s.onChange(s.Selected())
	}
}
