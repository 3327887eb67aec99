package console

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticFetch(items ...Option) FetchFunc[Option] {
	return func(context.Context) ([]Option, error) { return items, nil }
}

func TestSelectorFilter(t *testing.T) {
	s := NewSelector(true, staticFetch(
		Option{OptionID: 1, Name: "Pool"},
		Option{OptionID: 2, Name: "Spa"},
		Option{OptionID: 3, Name: "Pool Bar"},
	))
	require.NoError(t, s.Load(context.Background()))

	got := s.Filter("pOOl")
	require.Len(t, got, 2)
	assert.Equal(t, "Pool", got[0].Label())
	assert.Equal(t, "Pool Bar", got[1].Label())
	assert.Len(t, s.Filter(""), 3)
	assert.Empty(t, s.Filter("gym"))
}

func TestSelectorLoadOnceAndRetry(t *testing.T) {
	calls := 0
	fail := true
	s := NewSelector[Option](false, func(context.Context) ([]Option, error) {
		calls++
		if fail {
			return nil, errors.New("boom")
		}
		return []Option{{OptionID: 1, Name: "Bar"}}, nil
	})
	ctx := context.Background()

	require.Error(t, s.Load(ctx))
	assert.EqualError(t, s.Err(), "boom")
	assert.False(t, s.Loaded())

	fail = false
	require.NoError(t, s.Retry(ctx))
	assert.NoError(t, s.Err())
	require.NoError(t, s.Load(ctx))
	assert.Equal(t, 2, calls)
	assert.Len(t, s.Items(), 1)
}

func TestSelectorSelection(t *testing.T) {
	var seen [][]int64
	multi := NewSelector(true, staticFetch(), 7)
	multi.OnChange = func(ids []int64) { seen = append(seen, ids) }

	multi.Toggle(8)
	multi.Toggle(7)
	assert.Equal(t, []int64{8}, multi.Selected())
	multi.Clear()
	assert.Empty(t, multi.Selected())
	assert.Equal(t, [][]int64{{7, 8}, {8}, nil}, seen)

	single := NewSelector(false, staticFetch())
	single.Toggle(1)
	single.Toggle(2)
	assert.Equal(t, []int64{2}, single.Selected())
}

func TestSelectorCreate(t *testing.T) {
	posted := 0
	s := NewSelector(true, staticFetch(Option{OptionID: 1, Name: "Pool"}))
	s.Creator = func(_ context.Context, label string) (Option, error) {
		posted++
		return Option{OptionID: 42, Name: label}, nil
	}
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	assert.False(t, s.CanCreate("pool"))
	assert.False(t, s.CanCreate("   "))
	assert.True(t, s.CanCreate("Hot Tub"))

	it, err := s.Create(ctx, " Hot Tub ")
	require.NoError(t, err)
	assert.Equal(t, int64(42), it.ID())
	assert.Equal(t, "Hot Tub", it.Label())
	assert.Len(t, s.Items(), 2)
	assert.Equal(t, []int64{42}, s.Selected())
	assert.Equal(t, 1, posted)

	_, err = s.Create(ctx, "pool")
	assert.ErrorIs(t, err, ErrNoCreate)
	assert.Equal(t, 1, posted)
}

func TestSelectorCreateFailureLeavesState(t *testing.T) {
	s := NewSelector(false, staticFetch(Option{OptionID: 1, Name: "Bar"}), 1)
	s.Creator = func(context.Context, string) (Option, error) { return Option{}, errors.New("409") }
	require.NoError(t, s.Load(context.Background()))

	_, err := s.Create(context.Background(), "Lounge")
	require.Error(t, err)
	assert.Len(t, s.Items(), 1)
	assert.Equal(t, []int64{1}, s.Selected())
}

func TestSelectorWithoutCreator(t *testing.T) {
	s := NewSelector(true, staticFetch())
	assert.False(t, s.CanCreate("anything"))
}
