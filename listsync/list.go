package listsync

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"brickvault/models"
)

// List is the shared state behind every set list screen.
// It is safe for concurrent use; network calls run without the lock held.
type List struct {
	mu        sync.Mutex
	opts      Options
	items     []models.Set
	selection map[string]int
	feedback  map[string]Tag
	timers    map[string]*time.Timer
	gens      map[string]uint64
	pending   map[string]struct{}
	nextGen   uint64
	closed    bool
}

// New creates a List holding items.
func New(items []models.Set, opts Options) *List {
	if opts.FeedbackDelay <= 0 {
		opts.FeedbackDelay = DefaultFeedbackDelay
	}
	return &List{
		opts:      opts,
		items:     append([]models.Set(nil), items...),
		selection: make(map[string]int),
		feedback:  make(map[string]Tag),
		timers:    make(map[string]*time.Timer),
		gens:      make(map[string]uint64),
		pending:   make(map[string]struct{}),
	}
}

// ToggleSelect opens or closes the action panel of id. Opening uses the
// default pending quantity of 1. In SingleSelect mode opening one panel
// closes every other.
func (l *List) ToggleSelect(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.opts.CanMutate {
		return ErrReadOnly
	}
	if l.indexOf(id) < 0 {
		return ErrUnknownItem
	}
	if _, ok := l.selection[id]; ok {
		delete(l.selection, id)
		return nil
	}
	if l.opts.Mode == SingleSelect {
		clear(l.selection)
	}
	l.selection[id] = 1
	return nil
}

// SetQuantity changes the pending quantity of a selected item. Anything but a
// positive integer is ignored, as is an id without an open panel. It reports
// whether the value changed.
func (l *List) SetQuantity(id, raw string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return l.SetQuantityInt(id, n)
}

// SetQuantityInt is SetQuantity for an already parsed value.
func (l *List) SetQuantityInt(id string, n int) bool {
	if n <= 0 {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.selection[id]; !ok {
		return false
	}
	l.selection[id] = n
	return true
}

// Add sends the given ids, or every selected id when none are given, to the
// collection or wishlist in a single request. On success the ids leave the
// selection and carry a feedback tag until the feedback delay elapses. On
// failure nothing changes and the error is returned. Repeated ids are sent
// once; an id that is not loaded fails the whole call with ErrUnknownItem.
func (l *List) Add(ctx context.Context, tag Tag, ids ...string) error {
	var adder Adder
	switch tag {
	case TagCollection:
		adder = l.opts.Collection
	case TagWishlist:
		adder = l.opts.Wishlist
	}
	if adder == nil {
		return ErrUnsupported
	}

	l.mu.Lock()
	if !l.opts.CanMutate {
		l.mu.Unlock()
		return ErrReadOnly
	}
	targets := ids
	if len(targets) == 0 {
		targets = l.selectedIDs()
	}
	if len(targets) == 0 {
		l.mu.Unlock()
		return ErrNothingSelected
	}
	seen := make(map[string]struct{}, len(targets))
	unique := make([]string, 0, len(targets))
	for _, id := range targets {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if l.indexOf(id) < 0 {
			l.mu.Unlock()
			return ErrUnknownItem
		}
		if _, busy := l.pending[id]; busy {
			l.mu.Unlock()
			return ErrInFlight
		}
		unique = append(unique, id)
	}
	targets = unique
	request := make([]models.AddItem, 0, len(targets))
	for _, id := range targets {
		qty := l.selection[id]
		if qty <= 0 {
			qty = 1
		}
		request = append(request, models.AddItem{SetNum: id, Quantity: qty})
		l.pending[id] = struct{}{}
	}
	l.mu.Unlock()

	err := adder.Add(ctx, request)

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range targets {
		delete(l.pending, id)
	}
	if err != nil {
		return fmt.Errorf("add to %s: %w", tag, err)
	}
	for _, id := range targets {
		delete(l.selection, id)
		l.markFeedback(id, tag)
	}
	return nil
}

// UpdateOwnedQuantity sets the owned quantity of a collection entry through the
// server. Values below 1 are refused without a request.
func (l *List) UpdateOwnedQuantity(ctx context.Context, id string, n int) error {
	if l.opts.Quantities == nil {
		return ErrUnsupported
	}
	if n < 1 {
		return ErrInvalidQuantity
	}

	l.mu.Lock()
	if err := l.checkOwnedLocked(id); err != nil {
		l.mu.Unlock()
		return err
	}
	if l.items[l.indexOf(id)].Quantity == n {
		l.mu.Unlock()
		return nil
	}
	l.pending[id] = struct{}{}
	l.mu.Unlock()

	err := l.opts.Quantities.UpdateQuantity(ctx, id, n)

	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.pending, id)
	if err != nil {
		return fmt.Errorf("update quantity of %s: %w", id, err)
	}
	if i := l.indexOf(id); i >= 0 {
		l.items[i].Quantity = n
	}
	return nil
}

// Increment raises the owned quantity of id by one.
func (l *List) Increment(ctx context.Context, id string) error {
	current, err := l.ownedQuantity(id)
	if err != nil {
		return err
	}
	return l.UpdateOwnedQuantity(ctx, id, current+1)
}

// Decrement lowers the owned quantity of id by one. At a quantity of 1 it does
// nothing; CanDecrement reports that boundary so the control can be disabled.
func (l *List) Decrement(ctx context.Context, id string) error {
	current, err := l.ownedQuantity(id)
	if err != nil {
		return err
	}
	if current <= 1 {
		return nil
	}
	return l.UpdateOwnedQuantity(ctx, id, current-1)
}

// CanDecrement reports whether the decrement control of id is enabled.
func (l *List) CanDecrement(id string) bool {
	q, err := l.ownedQuantity(id)
	return err == nil && q > 1
}

// ToggleComplete flips the complete flag of a collection entry.
func (l *List) ToggleComplete(ctx context.Context, id string) error {
	if l.opts.Completion == nil {
		return ErrUnsupported
	}

	l.mu.Lock()
	if err := l.checkOwnedLocked(id); err != nil {
		l.mu.Unlock()
		return err
	}
	next := !l.items[l.indexOf(id)].IsComplete()
	l.pending[id] = struct{}{}
	l.mu.Unlock()

	err := l.opts.Completion.SetComplete(ctx, id, next)

	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.pending, id)
	if err != nil {
		return fmt.Errorf("toggle complete of %s: %w", id, err)
	}
	if i := l.indexOf(id); i >= 0 {
		l.items[i].Complete = 0
		if next {
			l.items[i].Complete = 1
		}
	}
	return nil
}

// Remove deletes id from the backing store and from the list. confirmed must
// be true: it records that the user answered the confirmation dialog.
func (l *List) Remove(ctx context.Context, id string, confirmed bool) error {
	if l.opts.Remover == nil {
		return ErrUnsupported
	}
	return l.dropAfter(ctx, id, confirmed, "remove", l.opts.Remover.Remove)
}

// MoveToCollection converts a wishlist entry into a collection entry. The
// item leaves the list only when the server confirms the move.
func (l *List) MoveToCollection(ctx context.Context, id string) error {
	if l.opts.Mover == nil {
		return ErrUnsupported
	}
	return l.dropAfter(ctx, id, true, "move", l.opts.Mover.MoveToCollection)
}

func (l *List) dropAfter(ctx context.Context, id string, confirmed bool, op string, call func(context.Context, string) error) error {
	l.mu.Lock()
	if !l.opts.CanMutate {
		l.mu.Unlock()
		return ErrReadOnly
	}
	if !confirmed {
		l.mu.Unlock()
		return ErrNotConfirmed
	}
	if l.indexOf(id) < 0 {
		l.mu.Unlock()
		return ErrUnknownItem
	}
	if _, busy := l.pending[id]; busy {
		l.mu.Unlock()
		return ErrInFlight
	}
	l.pending[id] = struct{}{}
	l.mu.Unlock()

	err := call(ctx, id)

	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.pending, id)
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
	if i := l.indexOf(id); i >= 0 {
		l.items = append(l.items[:i], l.items[i+1:]...)
	}
	delete(l.selection, id)
	l.dropFeedback(id)
	return nil
}

// Replace swaps in a new page of items and closes every open panel.
func (l *List) Replace(items []models.Set) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append([]models.Set(nil), items...)
	clear(l.selection)
}

// Append adds items not already present, keeping the existing order.
// It returns how many were added.
func (l *List) Append(items []models.Set) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	added := 0
	for _, it := range items {
		if l.indexOf(it.SetNum) >= 0 {
			continue
		}
		l.items = append(l.items, it)
		added++
	}
	return added
}

// Items returns a copy of the loaded items.
func (l *List) Items() []models.Set {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.Set(nil), l.items...)
}

// Len returns the number of loaded items.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Stats sums the loaded items. Quantities count as 1 outside collection contexts.
func (l *List) Stats() models.CollectionStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	var stats models.CollectionStats
	themes := make(map[int]struct{})
	for _, it := range l.items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		stats.TotalSets += qty
		stats.UniqueSets++
		stats.TotalParts += it.NumParts * qty
		stats.TotalMinifigs += it.NumMinifigures * qty
		if it.IsComplete() {
			stats.CompleteSets++
		}
		themes[it.ThemeID] = struct{}{}
	}
	stats.UniqueThemes = len(themes)
	return stats
}

// Close stops pending feedback timers. The list stays readable.
func (l *List) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	for id, t := range l.timers {
		t.Stop()
		delete(l.timers, id)
	}
}

func (l *List) markFeedback(id string, tag Tag) {
	l.feedback[id] = tag
	if l.closed {
		return
	}
	if t, ok := l.timers[id]; ok {
		t.Stop()
	}
	l.nextGen++
	gen := l.nextGen
	l.gens[id] = gen
	l.timers[id] = time.AfterFunc(l.opts.FeedbackDelay, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		// A newer mutation on the same id owns the entry now.
		if l.gens[id] != gen {
			return
		}
		delete(l.feedback, id)
		delete(l.timers, id)
		delete(l.gens, id)
	})
}

func (l *List) dropFeedback(id string) {
	if t, ok := l.timers[id]; ok {
		t.Stop()
	}
	delete(l.feedback, id)
	delete(l.timers, id)
	delete(l.gens, id)
}

func (l *List) checkOwnedLocked(id string) error {
	if !l.opts.CanMutate {
		return ErrReadOnly
	}
	i := l.indexOf(id)
	if i < 0 {
		return ErrUnknownItem
	}
	if !l.items[i].Owned() {
		return ErrNotOwned
	}
	if _, busy := l.pending[id]; busy {
		return ErrInFlight
	}
	return nil
}

func (l *List) ownedQuantity(id string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(id)
	if i < 0 {
		return 0, ErrUnknownItem
	}
	if !l.items[i].Owned() {
		return 0, ErrNotOwned
	}
	return l.items[i].Quantity, nil
}

func (l *List) indexOf(id string) int {
	for i := range l.items {
		if l.items[i].SetNum == id {
			return i
		}
	}
	return -1
}

func (l *List) selectedIDs() []string {
	ids := make([]string, 0, len(l.selection))
	for id := range l.selection {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
