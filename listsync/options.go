package listsync

import (
	"context"
	"errors"
	"time"

	"brickvault/models"
)

// Mode decides how many action panels may be open at once.
type Mode int

const (
	// SingleSelect allows one selected item; selecting another deselects it.
	SingleSelect Mode = iota
	// MultiSelect allows any number of selected items, for bulk adds.
	MultiSelect
)

// Tag marks the outcome of the most recent mutation on an item.
type Tag string

const (
	TagCollection Tag = "collection"
	TagWishlist   Tag = "wishlist"
	TagDone       Tag = "done"
)

// DefaultFeedbackDelay is how long a feedback tag stays visible.
const DefaultFeedbackDelay = 2500 * time.Millisecond

var (
	ErrReadOnly        = errors.New("list is read-only for this user")
	ErrUnknownItem     = errors.New("item is not in the list")
	ErrNotOwned        = errors.New("item is not a confirmed collection member")
	ErrInFlight        = errors.New("an operation on this item is already in progress")
	ErrNotConfirmed    = errors.New("destructive action was not confirmed")
	ErrUnsupported     = errors.New("operation is not available on this list")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrNothingSelected = errors.New("no items selected")
)

// Adder adds sets, with quantities, to a collection or wishlist.
type Adder interface {
	Add(ctx context.Context, items []models.AddItem) error
}

// QuantityUpdater sets the owned quantity of a collection entry.
type QuantityUpdater interface {
	UpdateQuantity(ctx context.Context, setNum string, quantity int) error
}

// CompletionToggler sets the complete flag of a collection entry.
type CompletionToggler interface {
	SetComplete(ctx context.Context, setNum string, complete bool) error
}

// Remover deletes an entry from the list's backing store.
type Remover interface {
	Remove(ctx context.Context, setNum string) error
}

// Mover converts a wishlist entry into a collection entry.
type Mover interface {
	MoveToCollection(ctx context.Context, setNum string) error
}

// AdderFunc adapts a function to Adder.
type AdderFunc func(ctx context.Context, items []models.AddItem) error

func (f AdderFunc) Add(ctx context.Context, items []models.AddItem) error { return f(ctx, items) }

// QuantityUpdaterFunc adapts a function to QuantityUpdater.
type QuantityUpdaterFunc func(ctx context.Context, setNum string, quantity int) error

func (f QuantityUpdaterFunc) UpdateQuantity(ctx context.Context, setNum string, quantity int) error {
	return f(ctx, setNum, quantity)
}

// CompletionTogglerFunc adapts a function to CompletionToggler.
type CompletionTogglerFunc func(ctx context.Context, setNum string, complete bool) error

func (f CompletionTogglerFunc) SetComplete(ctx context.Context, setNum string, complete bool) error {
	return f(ctx, setNum, complete)
}

// RemoverFunc adapts a function to Remover.
type RemoverFunc func(ctx context.Context, setNum string) error

func (f RemoverFunc) Remove(ctx context.Context, setNum string) error { return f(ctx, setNum) }

// MoverFunc adapts a function to Mover.
type MoverFunc func(ctx context.Context, setNum string) error

func (f MoverFunc) MoveToCollection(ctx context.Context, setNum string) error { return f(ctx, setNum) }

// Options configures a List. A nil capability makes the matching
// operation answer ErrUnsupported.
type Options struct {
	Mode Mode
	// CanMutate is false when the viewer does not own the list and the
	// screen is not a public browse view.
	CanMutate     bool
	FeedbackDelay time.Duration

	Collection Adder
	Wishlist   Adder
	Quantities QuantityUpdater
	Completion CompletionToggler
	Remover    Remover
	Mover      Mover
}

// targets lists the destinations an Add can reach.
func (o Options) targets() []Tag {
	var tags []Tag
	if o.Collection != nil {
		tags = append(tags, TagCollection)
	}
	if o.Wishlist != nil {
		tags = append(tags, TagWishlist)
	}
	return tags
}
