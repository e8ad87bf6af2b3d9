// Package selection tracks which template fields are checked.
package selection

// Tracker keeps per-field checked state. Bulk operations only touch the ids
// they are given, so selections outside a search-narrowed view survive.
// A Tracker is not safe for concurrent use; callers guard it.
type Tracker struct {
	checked map[string]struct{}
}

// New returns an empty tracker.
func New() *Tracker {
	return &Tracker{checked: make(map[string]struct{})}
}

// Reset clears every selection.
func (t *Tracker) Reset() {
	t.checked = make(map[string]struct{})
}

// IsChecked reports whether id is selected.
func (t *Tracker) IsChecked(id string) bool {
	_, ok := t.checked[id]
	return ok
}

// Set marks id as checked or unchecked.
func (t *Tracker) Set(id string, checked bool) {
	if t.checked == nil {
		t.checked = make(map[string]struct{})
	}
	if checked {
		t.checked[id] = struct{}{}
		return
	}
	delete(t.checked, id)
}

// Toggle flips id and returns the new state.
func (t *Tracker) Toggle(id string) bool {
	next := !t.IsChecked(id)
	t.Set(id, next)
	return next
}

// SetAll applies checked to every id in ids.
func (t *Tracker) SetAll(ids []string, checked bool) {
	for _, id := range ids {
		t.Set(id, checked)
	}
}

// AllSelected reports whether ids is non-empty and every id is checked.
func (t *Tracker) AllSelected(ids []string) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !t.IsChecked(id) {
			return false
		}
	}
	return true
}

// Selected returns the checked ids following order. Ids missing from order
// are not reported.
func (t *Tracker) Selected(order []string) []string {
	var out []string
	for _, id := range order {
		if t.IsChecked(id) {
			out = append(out, id)
		}
	}
	return out
}

// Count reports the number of checked ids.
func (t *Tracker) Count() int {
	return len(t.checked)
}

// Empty reports whether nothing is checked.
func (t *Tracker) Empty() bool {
	return len(t.checked) == 0
}
