package listsync

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brickvault/models"
)

type logKey struct{ id int }

func (k logKey) ItemKey() string { return strconv.Itoa(k.id) }

func TestLoaderAppendsAndDeduplicates(t *testing.T) {
	var offsets []int
	l := NewLoader(2, func(_ context.Context, offset, limit int) (Page[logKey], error) {
		offsets = append(offsets, offset)
		switch offset {
		case 0:
			return Page[logKey]{Items: []logKey{{1}, {2}}, HasMore: true}, nil
		default:
			// the server shifted: item 2 shows up again
			return Page[logKey]{Items: []logKey{{2}, {3}}, HasMore: false}, nil
		}
	})

	n, err := l.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = l.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, []logKey{{1}, {2}, {3}}, l.Items())
	assert.Equal(t, []int{0, 2}, offsets)
	assert.False(t, l.HasMore())
}

func TestLoaderStopsPermanentlyWhenExhausted(t *testing.T) {
	var calls atomic.Int32
	l := NewLoader(10, func(context.Context, int, int) (Page[logKey], error) {
		calls.Add(1)
		return Page[logKey]{Items: []logKey{{1}}, HasMore: false}, nil
	})

	_, err := l.LoadMore(context.Background())
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = l.LoadMore(context.Background())
		assert.ErrorIs(t, err, ErrExhausted)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestLoaderRefusesDuplicateTriggerWhileInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	l := NewLoader(5, func(context.Context, int, int) (Page[logKey], error) {
		calls.Add(1)
		close(started)
		<-release
		return Page[logKey]{Items: []logKey{{1}}, HasMore: true}, nil
	})

	done := make(chan error)
	go func() {
		_, err := l.LoadMore(context.Background())
		done <- err
	}()
	<-started

	assert.True(t, l.Loading())
	_, err := l.LoadMore(context.Background())
	assert.ErrorIs(t, err, ErrInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 5, l.Offset())
}

func TestLoaderFailureKeepsOffsetForRetry(t *testing.T) {
	fail := true
	l := NewLoader(5, func(_ context.Context, offset, _ int) (Page[logKey], error) {
		if fail {
			return Page[logKey]{}, errors.New("timeout")
		}
		return Page[logKey]{Items: []logKey{{offset}}, HasMore: true}, nil
	})

	_, err := l.LoadMore(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, l.Offset())
	assert.True(t, l.HasMore())

	fail = false
	_, err = l.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []logKey{{0}}, l.Items())
}

func TestLoaderResetStartsOver(t *testing.T) {
	l := NewLoader(1, func(_ context.Context, offset, _ int) (Page[logKey], error) {
		return Page[logKey]{Items: []logKey{{offset}}, HasMore: false}, nil
	})
	_, err := l.LoadMore(context.Background())
	require.NoError(t, err)

	l.Reset()
	assert.Empty(t, l.Items())
	assert.True(t, l.HasMore())
	assert.Equal(t, 0, l.Offset())
}

func TestPagerReplacesItemsAndUsesServerPagination(t *testing.T) {
	var requested []int
	p := NewPager(func(_ context.Context, page int) ([]models.Set, models.Pagination, error) {
		requested = append(requested, page)
		return []models.Set{{SetNum: strconv.Itoa(page)}}, models.Pagination{CurrentPage: page, TotalPages: 3}, nil
	})
	var replaced [][]models.Set
	p.OnReplace = func(items []models.Set) { replaced = append(replaced, items) }

	require.NoError(t, p.Load(context.Background(), 0))
	require.NoError(t, p.Load(context.Background(), 2))

	assert.Equal(t, []int{1, 2}, requested)
	assert.Equal(t, []models.Set{{SetNum: "2"}}, p.Items())
	assert.Equal(t, 3, p.Pagination().TotalPages)
	assert.True(t, p.Pagination().HasPrev())
	assert.Len(t, replaced, 2)
}

func TestPagerDiscardsOvertakenPage(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	p := NewPager(func(_ context.Context, page int) ([]models.Set, models.Pagination, error) {
		if page == 2 {
			close(started)
			<-release
		}
		return []models.Set{{SetNum: "p" + strconv.Itoa(page)}}, models.Pagination{CurrentPage: page, TotalPages: 3}, nil
	})
	list := New(nil, Options{CanMutate: true})
	p.OnReplace = list.Replace

	slow := make(chan error, 1)
	go func() { slow <- p.Load(context.Background(), 2) }()
	<-started

	require.NoError(t, p.Load(context.Background(), 3))
	require.NoError(t, list.ToggleSelect("p3"))
	close(release)

	assert.ErrorIs(t, <-slow, context.Canceled)
	assert.Equal(t, 3, p.Pagination().CurrentPage)
	assert.Equal(t, []models.Set{{SetNum: "p3"}}, p.Items())
	assert.Equal(t, []models.Set{{SetNum: "p3"}}, list.Items())
	assert.True(t, list.Snapshot().IsSelected("p3"))
}

func TestFiltersResetPageOnChange(t *testing.T) {
	f := NewFilters(map[string]string{"status": "all"})
	f.SetPage(4)

	assert.False(t, f.Set("status", "all"))
	assert.Equal(t, 4, f.Page())

	assert.True(t, f.Set("status", "active"))
	assert.Equal(t, 1, f.Page())

	q := f.Query()
	assert.Equal(t, "1", q.Get("page"))
	assert.Equal(t, "active", q.Get("status"))

	f.Set("role", "")
	_, has := f.Query()["role"]
	assert.False(t, has)
}
