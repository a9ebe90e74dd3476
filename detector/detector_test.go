package detector

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spangroup/spangroup/types"
)

func TestFlags(t *testing.T) {
	records := []types.Record{
		{"trigger": 1},
		{"trigger": 0},
		{"trigger": 1},
		{"trigger": 0},
	}
	pred := func(rec types.Record) (bool, error) {
		return rec["trigger"] == 1, nil
	}

	flags, err := Flags(records, pred)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true, false}, flags)
}

func TestFlags_Empty(t *testing.T) {
	flags, err := Flags(nil, func(types.Record) (bool, error) { return true, nil })
	require.NoError(t, err)
	assert.Empty(t, flags)
}

func TestFlags_PredicateError(t *testing.T) {
	boom := errors.New("boom")
	records := []types.Record{{"a": 1}, {"a": 2}}
	_, err := Flags(records, func(rec types.Record) (bool, error) {
		if rec["a"] == 2 {
			return false, boom
		}
		return true, nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "record 1")
}

func TestHoles(t *testing.T) {
	spans := []types.Span{
		{Start: 2, End: 6},
		{Start: 5, End: 8},
		{Start: 9, End: 11},
		{Start: 14, End: 17},
	}
	holes := Holes(spans)
	require.Len(t, holes, 4)
	assert.True(t, math.IsInf(holes[0], 1))
	assert.Equal(t, []float64{-1, 1, 3}, holes[1:])
}

func TestHoles_Empty(t *testing.T) {
	assert.Empty(t, Holes(nil))
}

func TestHoles_NestedSpanDoesNotFakeGap(t *testing.T) {
	// (2,3) sits inside (1,10); the hole before (4,12) is measured
	// against the running max end 10, not against 3.
	spans := []types.Span{
		{Start: 1, End: 10},
		{Start: 2, End: 3},
		{Start: 4, End: 12},
	}
	holes := Holes(spans)
	require.Len(t, holes, 3)
	assert.True(t, math.IsInf(holes[0], 1))
	assert.Equal(t, []float64{-8, -6}, holes[1:])

	assert.Equal(t, []bool{true, false, false}, GapFlags(spans, 0))
}

func TestGapFlags(t *testing.T) {
	spans := []types.Span{
		{Start: 2, End: 6},
		{Start: 5, End: 8},
		{Start: 9, End: 11},
		{Start: 14, End: 17},
	}
	assert.Equal(t, []bool{true, false, true, true}, GapFlags(spans, 0))
}

func TestGapFlags_TouchingSpansSplitAtZeroThreshold(t *testing.T) {
	spans := []types.Span{
		{Start: 2, End: 6},
		{Start: 6, End: 9},
	}
	// Hole is exactly 0: >= 0 means a new group starts.
	assert.Equal(t, []bool{true, true}, GapFlags(spans, 0))
	// The tolerance variant keeps them together.
	assert.Equal(t, []bool{true, false}, GapFlagsWithin(spans, 0))
}

func TestGapFlagsWithin_Boundary(t *testing.T) {
	day := 24.0
	spans := []types.Span{
		{Start: 0, End: 10},
		{Start: 10 + day, End: 20 + day},
	}
	// Gap of exactly one day stays merged.
	assert.Equal(t, []bool{true, false}, GapFlagsWithin(spans, day))

	spans[1].Start += day
	spans[1].End += day
	// Gap of two days splits.
	assert.Equal(t, []bool{true, true}, GapFlagsWithin(spans, day))
}

func TestTimeGapFlags_Boundary(t *testing.T) {
	day := 24 * time.Hour
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	spans := []types.TimeSpan{
		{Start: base, End: base.Add(2 * time.Hour)},
		{Start: base.Add(2*time.Hour + day), End: base.Add(4*time.Hour + day)},
	}
	// Gap of exactly one day stays merged.
	assert.Equal(t, []bool{true, false}, TimeGapFlags(spans, day))

	spans[1].Start = spans[1].Start.Add(time.Nanosecond)
	// One nanosecond past the tolerance splits.
	assert.Equal(t, []bool{true, true}, TimeGapFlags(spans, day))
}

func TestTimeGapFlags_NanosecondGap(t *testing.T) {
	// float64 cannot tell these two timestamps apart; the time-domain
	// comparison must.
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	spans := []types.TimeSpan{
		{Start: base, End: base.Add(time.Hour)},
		{Start: base.Add(time.Hour + time.Nanosecond), End: base.Add(2 * time.Hour)},
	}
	assert.Equal(t, []bool{true, true}, TimeGapFlags(spans, 0))
}

func TestTimeGapFlags_NestedSpan(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	spans := []types.TimeSpan{
		{Start: base, End: base.Add(10 * time.Hour)},
		{Start: base.Add(time.Hour), End: base.Add(2 * time.Hour)},
		{Start: base.Add(4 * time.Hour), End: base.Add(12 * time.Hour)},
	}
	assert.Equal(t, []bool{true, false, false}, TimeGapFlags(spans, 0))
}

func TestCheckOrderedTime(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	ordered := []types.TimeSpan{
		{Start: base, End: base.Add(time.Hour)},
		{Start: base.Add(time.Hour), End: base.Add(2 * time.Hour)},
	}
	require.NoError(t, CheckOrderedTime(ordered))

	err := CheckOrderedTime([]types.TimeSpan{ordered[1], ordered[0]})
	require.Error(t, err)
	assert.True(t, types.IsOrderingViolation(err))
}

func TestCheckValidTime(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, CheckValidTime([]types.TimeSpan{{Start: base, End: base}}))

	err := CheckValidTime([]types.TimeSpan{{Start: base.Add(time.Hour), End: base}})
	require.Error(t, err)
	assert.True(t, types.IsInvalidInterval(err))
}

func TestCheckOrdered(t *testing.T) {
	require.NoError(t, CheckOrdered([]types.Span{{Start: 1, End: 2}, {Start: 1, End: 5}, {Start: 3, End: 4}}))
	require.NoError(t, CheckOrdered(nil))

	err := CheckOrdered([]types.Span{{Start: 5, End: 8}, {Start: 2, End: 6}})
	require.Error(t, err)
	assert.True(t, types.IsOrderingViolation(err))

	var violation *types.OrderingViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, 1, violation.Index)
	assert.Equal(t, 5.0, violation.Prev)
	assert.Equal(t, 2.0, violation.Curr)
}

func TestCheckValid(t *testing.T) {
	require.NoError(t, CheckValid([]types.Span{{Start: 1, End: 1}, {Start: 2, End: 9}}))

	err := CheckValid([]types.Span{{Start: 1, End: 2}, {Start: 6, End: 2}})
	require.Error(t, err)
	assert.True(t, types.IsInvalidInterval(err))

	var invalid *types.InvalidIntervalError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 1, invalid.Index)
}
