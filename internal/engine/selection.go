package engine

// SelectionStore is the ordered, duplicate-free set of selected element
// ids. Insertion order is preserved. Every mutation fires the change
// callback, including a no-op reselect, so dependent refresh logic never
// has to reason about whether a notification was skipped.
type SelectionStore struct {
	order    []string
	members  map[string]bool
	onChange func(selected []string)
}

// NewSelectionStore creates an empty selection. onChange may be nil.
func NewSelectionStore(onChange func([]string)) *SelectionStore {
	return &SelectionStore{
		members:  make(map[string]bool),
		onChange: onChange,
	}
}

// Select adds an element to the selection. With additive=false the
// selection is cleared first. With additive=true an already-selected
// element is toggled off instead.
func (s *SelectionStore) Select(id string, additive bool) {
	if !additive {
		s.order = s.order[:0]
		clear(s.members)
		s.order = append(s.order, id)
		s.members[id] = true
		s.notify()
		return
	}

	if s.members[id] {
		s.remove(id)
		s.notify()
		return
	}

	s.order = append(s.order, id)
	s.members[id] = true
	s.notify()
}

// Deselect removes a single element from the selection if present.
func (s *SelectionStore) Deselect(id string) {
	if !s.members[id] {
		return
	}
	s.remove(id)
	s.notify()
}

// Clear deselects everything.
func (s *SelectionStore) Clear() {
	if len(s.order) == 0 {
		s.notify()
		return
	}
	s.order = s.order[:0]
	clear(s.members)
	s.notify()
}

// Replace swaps the entire selection for the given ids (used when a
// duplication gesture transfers selection to the clones).
func (s *SelectionStore) Replace(ids []string) {
	s.order = s.order[:0]
	clear(s.members)
	for _, id := range ids {
		if s.members[id] {
			continue
		}
		s.order = append(s.order, id)
		s.members[id] = true
	}
	s.notify()
}

// Prune drops ids the document no longer knows about. Notifies only if
// something was actually removed.
func (s *SelectionStore) Prune(exists func(string) bool) {
	kept := s.order[:0]
	changed := false
	for _, id := range s.order {
		if exists(id) {
			kept = append(kept, id)
		} else {
			delete(s.members, id)
			changed = true
		}
	}
	s.order = kept
	if changed {
		s.notify()
	}
}

// Contains reports membership.
func (s *SelectionStore) Contains(id string) bool {
	return s.members[id]
}

// Len returns the selection size.
func (s *SelectionStore) Len() int {
	return len(s.order)
}

// Snapshot returns a copy of the ordered selection. Callers iterate the
// copy, so a nested mutation of the store can never invalidate their
// loop.
func (s *SelectionStore) Snapshot() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *SelectionStore) remove(id string) {
	delete(s.members, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

func (s *SelectionStore) notify() {
	if s.onChange != nil {
		s.onChange(s.Snapshot())
	}
}
