package timex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToTime(t *testing.T) {
	want := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	got, err := ToTime(want)
	require.NoError(t, err)
	assert.True(t, got.Equal(want))

	got, err = ToTime(&want)
	require.NoError(t, err)
	assert.True(t, got.Equal(want))

	got, err = ToTime("2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, want.Year(), got.Year())
	assert.Equal(t, want.Month(), got.Month())
	assert.Equal(t, want.Day(), got.Day())
}

func TestToTime_Formats(t *testing.T) {
	// dateparse handles heterogeneous source formats.
	for _, s := range []string{
		"2024-05-01 13:45:00",
		"05/01/2024",
		"May 1, 2024",
		"2024-05-01T13:45:00Z",
	} {
		got, err := ToTime(s)
		require.NoError(t, err, s)
		assert.Equal(t, 2024, got.Year(), s)
		assert.Equal(t, time.May, got.Month(), s)
	}
}

func TestToTime_Invalid(t *testing.T) {
	_, err := ToTime("not a date")
	assert.Error(t, err)

	_, err = ToTime(42.0)
	assert.Error(t, err)

	var nilTime *time.Time
	_, err = ToTime(nilTime)
	assert.Error(t, err)
}

func TestIsTimeLike(t *testing.T) {
	assert.True(t, IsTimeLike(time.Now()))
	assert.True(t, IsTimeLike("2024-05-01"))
	assert.False(t, IsTimeLike("banana"))
	assert.False(t, IsTimeLike(7))
}
