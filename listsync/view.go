package listsync

import (
	"maps"
	"slices"

	"brickvault/models"
)

// View is an immutable copy of a List, handed to templates and JSON responses.
type View struct {
	Items     []models.Set           `json:"items"`
	Selection map[string]int         `json:"selection"`
	Feedback  map[string]Tag         `json:"feedback"`
	Pending   map[string]bool        `json:"pending"`
	Mode      Mode                   `json:"mode"`
	CanMutate bool                   `json:"canMutate"`
	Targets   []Tag                  `json:"targets"`
	Stats     models.CollectionStats `json:"stats"`
}

// Snapshot copies the current state.
func (l *List) Snapshot() View {
	stats := l.Stats()

	l.mu.Lock()
	defer l.mu.Unlock()
	pending := make(map[string]bool, len(l.pending))
	for id := range l.pending {
		pending[id] = true
	}
	return View{
		Items:     append([]models.Set(nil), l.items...),
		Selection: maps.Clone(l.selection),
		Feedback:  maps.Clone(l.feedback),
		Pending:   pending,
		Mode:      l.opts.Mode,
		CanMutate: l.opts.CanMutate,
		Targets:   l.opts.targets(),
		Stats:     stats,
	}
}

// IsSelected reports whether the action panel of id is open.
func (v View) IsSelected(id string) bool {
	_, ok := v.Selection[id]
	return ok
}

// CanAddTo reports whether the list can add sets to dest.
func (v View) CanAddTo(dest Tag) bool {
	return v.CanMutate && slices.Contains(v.Targets, dest)
}

// Quantity returns the pending quantity of id, or 0.
func (v View) Quantity(id string) int {
	return v.Selection[id]
}

// FeedbackFor returns the feedback tag of id, or "".
func (v View) FeedbackFor(id string) Tag {
	return v.Feedback[id]
}

// ButtonLabel returns the label of the add button for dest: a confirmation
// while the feedback tag is showing, the resting label otherwise.
func (v View) ButtonLabel(id string, dest Tag, resting string) string {
	if v.Feedback[id] != dest {
		return resting
	}
	switch dest {
	case TagCollection:
		return "Added to collection!"
	case TagWishlist:
		return "Added to wishlist!"
	}
	return "Done!"
}

// Empty reports whether no items are loaded.
func (v View) Empty() bool {
	return len(v.Items) == 0
}

// SelectedCount returns the number of open panels.
func (v View) SelectedCount() int {
	return len(v.Selection)
}
