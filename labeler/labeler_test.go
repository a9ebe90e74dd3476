package labeler

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spangroup/spangroup/types"
)

func TestLabel(t *testing.T) {
	flags := []bool{true, false, true, false, false, false, true, false}
	assert.Equal(t, []int{1, 1, 2, 2, 2, 2, 3, 3}, Label(flags))
}

func TestLabel_Empty(t *testing.T) {
	assert.Empty(t, Label(nil))
	assert.Empty(t, Label([]bool{}))
}

func TestLabel_AllFalse(t *testing.T) {
	assert.Equal(t, []int{0, 0, 0, 0}, Label([]bool{false, false, false, false}))
}

func TestLabel_SingleRecord(t *testing.T) {
	assert.Equal(t, []int{1}, Label([]bool{true}))
	assert.Equal(t, []int{0}, Label([]bool{false}))
}

func TestLabel_MonotoneSteps(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		flags := make([]bool, rng.Intn(200))
		for i := range flags {
			flags[i] = rng.Intn(2) == 0
		}

		ids := Label(flags)
		require.Len(t, ids, len(flags))
		for i := 1; i < len(ids); i++ {
			step := ids[i] - ids[i-1]
			assert.Contains(t, []int{0, 1}, step, "step at %d", i)
		}
	}
}

func TestAnnotate(t *testing.T) {
	records := []types.Record{
		{"value": "a"},
		{"value": "b"},
		{"value": "c"},
	}
	flags := []bool{true, false, true}

	out, err := Annotate(records, flags, "")
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, 1, out[0][DefaultGroupIDField])
	assert.Equal(t, 1, out[1][DefaultGroupIDField])
	assert.Equal(t, 2, out[2][DefaultGroupIDField])

	// Inputs stay untouched.
	_, tainted := records[0][DefaultGroupIDField]
	assert.False(t, tainted)
}

func TestAnnotate_CustomField(t *testing.T) {
	out, err := Annotate([]types.Record{{"v": 1}}, []bool{true}, "run")
	require.NoError(t, err)
	assert.Equal(t, 1, out[0]["run"])
}

func TestAnnotate_LengthMismatch(t *testing.T) {
	_, err := Annotate([]types.Record{{"v": 1}}, []bool{true, false}, "")
	assert.Error(t, err)
}

func TestRuns(t *testing.T) {
	records := []types.Record{
		{"v": "a"}, {"v": "b"}, {"v": "c"}, {"v": "d"},
	}
	ids := []int{1, 1, 2, 3}

	groups, err := Runs(records, ids)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, 1, groups[0].ID)
	assert.Len(t, groups[0].Records, 2)
	assert.Equal(t, "a", groups[0].Records[0]["v"])
	assert.Equal(t, "b", groups[0].Records[1]["v"])
	assert.Equal(t, 2, groups[1].ID)
	assert.Equal(t, 3, groups[2].ID)
}

func TestRuns_DecreasingIDs(t *testing.T) {
	_, err := Runs([]types.Record{{"v": 1}, {"v": 2}}, []int{2, 1})
	assert.Error(t, err)
}

func TestLabeler_MatchesBatch(t *testing.T) {
	flags := []bool{false, true, true, false, true, false, false}
	want := Label(flags)

	var l Labeler
	for i, f := range flags {
		assert.Equal(t, want[i], l.Next(f), "position %d", i)
	}
	assert.Equal(t, want[len(want)-1], l.Current())

	l.Reset()
	assert.Equal(t, 0, l.Current())
}
