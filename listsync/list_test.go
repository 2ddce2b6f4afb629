package listsync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"brickvault/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func sampleSets() []models.Set {
	return []models.Set{
		{SetNum: "10220-1", Name: "Volkswagen T1 Camper Van", Year: 2011, NumParts: 1334, ThemeID: 1, ThemeName: "Creator Expert"},
		{SetNum: "75192-1", Name: "Millennium Falcon", Year: 2017, NumParts: 7541, ThemeID: 2, ThemeName: "Star Wars"},
		{SetNum: "21318-1", Name: "Tree House", Year: 2019, NumParts: 3036, ThemeID: 3, ThemeName: "Ideas"},
	}
}

type recordingAdder struct {
	mu    sync.Mutex
	calls [][]models.AddItem
	err   error
}

func (a *recordingAdder) Add(_ context.Context, items []models.AddItem) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, items)
	return a.err
}

func TestToggleSelectTwiceRestoresSelection(t *testing.T) {
	for _, mode := range []Mode{SingleSelect, MultiSelect} {
		l := New(sampleSets(), Options{Mode: mode, CanMutate: true})
		before := l.Snapshot().Selection

		for _, s := range sampleSets() {
			require.NoError(t, l.ToggleSelect(s.SetNum))
			require.NoError(t, l.ToggleSelect(s.SetNum))
			assert.Empty(t, cmp.Diff(before, l.Snapshot().Selection))
		}
		l.Close()
	}
}

func TestSingleSelectKeepsOnePanelOpen(t *testing.T) {
	l := New(sampleSets(), Options{Mode: SingleSelect, CanMutate: true})
	defer l.Close()

	require.NoError(t, l.ToggleSelect("10220-1"))
	require.NoError(t, l.ToggleSelect("75192-1"))

	v := l.Snapshot()
	assert.False(t, v.IsSelected("10220-1"))
	assert.True(t, v.IsSelected("75192-1"))
	assert.Equal(t, 1, v.Quantity("75192-1"))
}

func TestMultiSelectKeepsEveryPanel(t *testing.T) {
	l := New(sampleSets(), Options{Mode: MultiSelect, CanMutate: true})
	defer l.Close()

	require.NoError(t, l.ToggleSelect("10220-1"))
	require.NoError(t, l.ToggleSelect("75192-1"))
	assert.Equal(t, 2, l.Snapshot().SelectedCount())
}

func TestToggleSelectRequiresPermission(t *testing.T) {
	l := New(sampleSets(), Options{Mode: MultiSelect})
	defer l.Close()
	assert.ErrorIs(t, l.ToggleSelect("10220-1"), ErrReadOnly)
	assert.ErrorIs(t, New(nil, Options{CanMutate: true}).ToggleSelect("x"), ErrUnknownItem)
}

func TestSetQuantityRejectsInvalidInput(t *testing.T) {
	l := New(sampleSets(), Options{Mode: MultiSelect, CanMutate: true})
	defer l.Close()
	require.NoError(t, l.ToggleSelect("10220-1"))
	require.True(t, l.SetQuantity("10220-1", "3"))

	for _, raw := range []string{"0", "-2", "abc", "1.5", "", " "} {
		assert.False(t, l.SetQuantity("10220-1", raw), raw)
		assert.Equal(t, 3, l.Snapshot().Quantity("10220-1"), raw)
	}
	assert.False(t, l.SetQuantity("75192-1", "2"), "no open panel")
}

func TestAddClearsSelectionAndSchedulesFeedbackClear(t *testing.T) {
	adder := &recordingAdder{}
	l := New(sampleSets(), Options{
		Mode:          MultiSelect,
		CanMutate:     true,
		FeedbackDelay: 30 * time.Millisecond,
		Collection:    adder,
	})
	defer l.Close()

	require.NoError(t, l.ToggleSelect("10220-1"))
	require.NoError(t, l.ToggleSelect("75192-1"))
	require.True(t, l.SetQuantity("75192-1", "2"))

	require.NoError(t, l.Add(context.Background(), TagCollection))

	require.Len(t, adder.calls, 1)
	assert.Equal(t, []models.AddItem{
		{SetNum: "10220-1", Quantity: 1},
		{SetNum: "75192-1", Quantity: 2},
	}, adder.calls[0])

	v := l.Snapshot()
	assert.Empty(t, v.Selection)
	assert.Equal(t, TagCollection, v.FeedbackFor("10220-1"))
	assert.Equal(t, TagCollection, v.FeedbackFor("75192-1"))
	assert.Equal(t, "Added to collection!", v.ButtonLabel("75192-1", TagCollection, "Add"))

	assert.Eventually(t, func() bool {
		return len(l.Snapshot().Feedback) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestAddFailureLeavesStateUntouched(t *testing.T) {
	adder := &recordingAdder{err: errors.New("boom")}
	l := New(sampleSets(), Options{Mode: SingleSelect, CanMutate: true, Wishlist: adder})
	defer l.Close()

	require.NoError(t, l.ToggleSelect("21318-1"))
	require.True(t, l.SetQuantity("21318-1", "4"))

	err := l.Add(context.Background(), TagWishlist)
	require.Error(t, err)

	v := l.Snapshot()
	assert.Equal(t, 4, v.Quantity("21318-1"))
	assert.Empty(t, v.Feedback)
	assert.Empty(t, v.Pending)
}

func TestAddWithoutDestinationIsUnsupported(t *testing.T) {
	l := New(sampleSets(), Options{CanMutate: true})
	defer l.Close()
	assert.ErrorIs(t, l.Add(context.Background(), TagWishlist, "10220-1"), ErrUnsupported)
	assert.ErrorIs(t, New(nil, Options{CanMutate: true, Collection: &recordingAdder{}}).Add(context.Background(), TagCollection), ErrNothingSelected)
}

func TestAddSendsEachLoadedIDOnce(t *testing.T) {
	adder := &recordingAdder{}
	l := New(sampleSets(), Options{Mode: MultiSelect, CanMutate: true, Collection: adder})
	defer l.Close()
	ctx := context.Background()

	assert.ErrorIs(t, l.Add(ctx, TagCollection, "10220-1", "99999-1"), ErrUnknownItem)
	assert.Empty(t, adder.calls)
	assert.Empty(t, l.Snapshot().Feedback)

	require.NoError(t, l.Add(ctx, TagCollection, "10220-1", "10220-1", "21318-1"))
	require.Len(t, adder.calls, 1)
	assert.Equal(t, []models.AddItem{
		{SetNum: "10220-1", Quantity: 1},
		{SetNum: "21318-1", Quantity: 1},
	}, adder.calls[0])
	assert.Len(t, l.Snapshot().Feedback, 2)
}

func TestFeedbackTimersAreScopedPerID(t *testing.T) {
	adder := &recordingAdder{}
	l := New(sampleSets(), Options{
		Mode:          MultiSelect,
		CanMutate:     true,
		FeedbackDelay: 100 * time.Millisecond,
		Collection:    adder,
		Wishlist:      adder,
	})
	defer l.Close()

	require.NoError(t, l.Add(context.Background(), TagCollection, "10220-1"))
	time.Sleep(60 * time.Millisecond)
	require.NoError(t, l.Add(context.Background(), TagWishlist, "75192-1"))
	require.NoError(t, l.Add(context.Background(), TagWishlist, "10220-1"))

	// The first timer for 10220-1 must not clear the newer wishlist tag.
	time.Sleep(60 * time.Millisecond)
	v := l.Snapshot()
	assert.Equal(t, TagWishlist, v.FeedbackFor("10220-1"))
	assert.Equal(t, TagWishlist, v.FeedbackFor("75192-1"))

	assert.Eventually(t, func() bool {
		return len(l.Snapshot().Feedback) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestSecondMutationWhileInFlightIsIgnored(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var calls int
	var mu sync.Mutex
	remover := RemoverFunc(func(ctx context.Context, setNum string) error {
		mu.Lock()
		calls++
		mu.Unlock()
		close(started)
		<-release
		return nil
	})
	l := New(sampleSets(), Options{CanMutate: true, Remover: remover})
	defer l.Close()

	done := make(chan error)
	go func() { done <- l.Remove(context.Background(), "75192-1", true) }()
	<-started

	assert.ErrorIs(t, l.Remove(context.Background(), "75192-1", true), ErrInFlight)
	assert.True(t, l.Snapshot().Pending["75192-1"])

	close(release)
	require.NoError(t, <-done)
	mu.Lock()
	assert.Equal(t, 1, calls)
	mu.Unlock()
}

func ownedCollection(updater QuantityUpdater) *List {
	return New([]models.Set{{SetNum: "10220-1", Name: "Volkswagen T1 Camper Van", Quantity: 1, ThemeID: 1}}, Options{
		Mode:       SingleSelect,
		CanMutate:  true,
		Quantities: updater,
	})
}

func TestIncrementDecrementIssuesOneCallPerClick(t *testing.T) {
	var sent []int
	l := ownedCollection(QuantityUpdaterFunc(func(_ context.Context, setNum string, q int) error {
		sent = append(sent, q)
		return nil
	}))
	defer l.Close()
	ctx := context.Background()

	require.NoError(t, l.Increment(ctx, "10220-1"))
	require.NoError(t, l.Increment(ctx, "10220-1"))
	require.NoError(t, l.Decrement(ctx, "10220-1"))

	assert.Equal(t, []int{2, 3, 2}, sent)
	assert.Equal(t, 2, l.Items()[0].Quantity)
}

func TestDecrementAtOneIsNoop(t *testing.T) {
	calls := 0
	l := ownedCollection(QuantityUpdaterFunc(func(context.Context, string, int) error {
		calls++
		return nil
	}))
	defer l.Close()

	assert.False(t, l.CanDecrement("10220-1"))
	require.NoError(t, l.Decrement(context.Background(), "10220-1"))
	assert.ErrorIs(t, l.UpdateOwnedQuantity(context.Background(), "10220-1", 0), ErrInvalidQuantity)
	assert.Equal(t, 0, calls)
	assert.Equal(t, 1, l.Items()[0].Quantity)
}

func TestUpdateQuantityFailureLeavesItem(t *testing.T) {
	l := ownedCollection(QuantityUpdaterFunc(func(context.Context, string, int) error {
		return errors.New("offline")
	}))
	defer l.Close()

	require.Error(t, l.Increment(context.Background(), "10220-1"))
	assert.Equal(t, 1, l.Items()[0].Quantity)
}

func TestUpdateQuantityRequiresOwnedItem(t *testing.T) {
	l := New(sampleSets(), Options{CanMutate: true, Quantities: QuantityUpdaterFunc(func(context.Context, string, int) error { return nil })})
	defer l.Close()
	assert.ErrorIs(t, l.UpdateOwnedQuantity(context.Background(), "10220-1", 2), ErrNotOwned)
}

func TestToggleCompleteFlipsFlag(t *testing.T) {
	var sent []bool
	l := New([]models.Set{{SetNum: "10220-1", Quantity: 1}}, Options{
		CanMutate: true,
		Completion: CompletionTogglerFunc(func(_ context.Context, _ string, complete bool) error {
			sent = append(sent, complete)
			return nil
		}),
	})
	defer l.Close()

	require.NoError(t, l.ToggleComplete(context.Background(), "10220-1"))
	assert.True(t, l.Items()[0].IsComplete())
	require.NoError(t, l.ToggleComplete(context.Background(), "10220-1"))
	assert.False(t, l.Items()[0].IsComplete())
	assert.Equal(t, []bool{true, false}, sent)
}

func TestRemoveRequiresConfirmation(t *testing.T) {
	calls := 0
	adder := &recordingAdder{}
	l := New(sampleSets(), Options{
		Mode:       MultiSelect,
		CanMutate:  true,
		Collection: adder,
		Remover: RemoverFunc(func(context.Context, string) error {
			calls++
			return nil
		}),
	})
	defer l.Close()

	assert.ErrorIs(t, l.Remove(context.Background(), "10220-1", false), ErrNotConfirmed)
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, 0, calls)

	require.NoError(t, l.Add(context.Background(), TagCollection, "10220-1"))
	require.NoError(t, l.ToggleSelect("10220-1"))
	require.NoError(t, l.Remove(context.Background(), "10220-1", true))

	v := l.Snapshot()
	for _, it := range v.Items {
		assert.NotEqual(t, "10220-1", it.SetNum)
	}
	assert.False(t, v.IsSelected("10220-1"))
	assert.Empty(t, v.FeedbackFor("10220-1"))
}

func TestRemoveFailureKeepsItem(t *testing.T) {
	l := New(sampleSets(), Options{CanMutate: true, Remover: RemoverFunc(func(context.Context, string) error {
		return errors.New("nope")
	})})
	defer l.Close()
	require.Error(t, l.Remove(context.Background(), "10220-1", true))
	assert.Equal(t, 3, l.Len())
}

func TestMoveLastWishlistItemEmptiesList(t *testing.T) {
	l := New([]models.Set{{SetNum: "75192-1", Name: "Millennium Falcon"}}, Options{
		Mode:      SingleSelect,
		CanMutate: true,
		Mover:     MoverFunc(func(context.Context, string) error { return nil }),
	})
	defer l.Close()

	require.NoError(t, l.MoveToCollection(context.Background(), "75192-1"))
	assert.True(t, l.Snapshot().Empty())
}

func TestReplaceResetsSelectionAndAppendDeduplicates(t *testing.T) {
	l := New(sampleSets()[:1], Options{Mode: MultiSelect, CanMutate: true})
	defer l.Close()
	require.NoError(t, l.ToggleSelect("10220-1"))

	assert.Equal(t, 2, l.Append(sampleSets()))
	assert.True(t, l.Snapshot().IsSelected("10220-1"))

	l.Replace(sampleSets()[1:])
	assert.Empty(t, l.Snapshot().Selection)
	assert.Equal(t, 2, l.Len())
}

func TestStatsSumsLoadedItems(t *testing.T) {
	l := New([]models.Set{
		{SetNum: "a", NumParts: 100, NumMinifigures: 2, Quantity: 2, Complete: 1, ThemeID: 1},
		{SetNum: "b", NumParts: 50, NumMinifigures: 1, Quantity: 1, ThemeID: 1},
		{SetNum: "c", NumParts: 10, ThemeID: 2},
	}, Options{})
	defer l.Close()

	assert.Equal(t, models.CollectionStats{
		TotalSets:     4,
		UniqueSets:    3,
		TotalParts:    260,
		TotalMinifigs: 5,
		UniqueThemes:  2,
		CompleteSets:  1,
	}, l.Stats())
}
