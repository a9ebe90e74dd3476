package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spangroup/spangroup/types"
)

func TestExprCondition_Evaluate(t *testing.T) {
	cond, err := NewExprCondition("pressure > 100")
	require.NoError(t, err)

	ok, err := cond.Evaluate(map[string]interface{}{"pressure": 125.5})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cond.Evaluate(map[string]interface{}{"pressure": 99.0})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExprCondition_CompoundExpression(t *testing.T) {
	cond, err := NewExprCondition(`state == "alarm" && level >= 2`)
	require.NoError(t, err)

	ok, err := cond.Evaluate(map[string]interface{}{"state": "alarm", "level": 3})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cond.Evaluate(map[string]interface{}{"state": "ok", "level": 3})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExprCondition_UndefinedVariable(t *testing.T) {
	cond, err := NewExprCondition("missing == 1")
	require.NoError(t, err)

	// Sparse records evaluate to false rather than erroring.
	ok, err := cond.Evaluate(map[string]interface{}{"other": 1})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExprCondition_CompileError(t *testing.T) {
	_, err := NewExprCondition("pressure >")
	assert.Error(t, err)
}

func TestExprCondition_Predicate(t *testing.T) {
	cond, err := NewExprCondition("value >= 10")
	require.NoError(t, err)

	pred := cond.Predicate()
	ok, err := pred(types.Record{"value": 10})
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, "value >= 10", cond.Source())
}
