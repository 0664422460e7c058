package browser

// Keyed is a row with a canonical string id
type Keyed interface {
	Key() string
}

// Selection is the set of checked rows on the rendered page
type Selection[T Keyed] struct {
	visible  []T
	selected map[string]bool
}

// NewSelection creates an empty selection
func NewSelection[T Keyed]() *Selection[T] {
	return &Selection[T]{selected: make(map[string]bool)}
}

// SetVisible replaces the rendered rows. The selection is cleared because
// the previous ids are not guaranteed to be on the new page.
func (s *Selection[T]) SetVisible(items []T) {
	s.visible = items
	s.Clear()
}

// Visible returns the rendered rows
func (s *Selection[T]) Visible() []T {
	return s.visible
}

// ToggleRow flips one row; ids not on the page are ignored
func (s *Selection[T]) ToggleRow(id string) bool {
	if !s.isVisible(id) {
		return false
	}
	if s.selected[id] {
		delete(s.selected, id)
	} else {
		s.selected[id] = true
	}
	return true
}

// ToggleAll selects every visible row, or clears them if all are selected
func (s *Selection[T]) ToggleAll() {
	if len(s.visible) > 0 && s.Count() == len(s.visible) {
		s.Clear()
		return
	}
	for _, item := range s.visible {
		s.selected[item.Key()] = true
	}
}

// Clear deselects everything
func (s *Selection[T]) Clear() {
	s.selected = make(map[string]bool)
}

// IsSelected checks if a row is selected
func (s *Selection[T]) IsSelected(id string) bool {
	return s.selected[id]
}

// Count returns the number of selected rows
func (s *Selection[T]) Count() int {
	return len(s.selected)
}

// HasSelection checks if anything is selected
func (s *Selection[T]) HasSelection() bool {
	return len(s.selected) > 0
}

// IDs returns the selected ids in page order
func (s *Selection[T]) IDs() []string {
	var ids []string
	for _, item := range s.visible {
		if s.selected[item.Key()] {
			ids = append(ids, item.Key())
		}
	}
	return ids
}

// Resolve maps ids back to rows of the current page. Ids that are no longer
// present are dropped.
func (s *Selection[T]) Resolve(ids []string) []T {
	index := make(map[string]int, len(s.visible))
	for i, item := range s.visible {
		index[item.Key()] = i
	}
	var out []T
	for _, id := range ids {
		if i, ok := index[id]; ok {
			out = append(out, s.visible[i])
		}
	}
	return out
}

// Selected returns the selected rows in page order
func (s *Selection[T]) Selected() []T {
	return s.Resolve(s.IDs())
}

func (s *Selection[T]) isVisible(id string) bool {
	for _, item := range s.visible {
		if item.Key() == id {
			return true
		}
	}
	return false
}
