package basis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusRoundTrip(t *testing.T) {
	p := toyProblem(t)
	b := NewAllLogical(p)
	b.SwapBasic(0, 0, MoveUpper)
	require.NoError(t, b.Validate())

	n, m := 2, 1
	codes := make([]Status, n+m)
	for v := 0; v < n+m; v++ {
		codes[v] = b.StatusOf(v)
	}

	restored, err := NewFromStatus(n, m, codes)
	require.NoError(t, err)
	require.NoError(t, restored.Validate())

	for v := 0; v < n+m; v++ {
		assert.Equal(t, b.IsBasic(v), restored.IsBasic(v), "variable %d", v)
		if !b.IsBasic(v) {
			assert.Equal(t, b.NonbasicMove[v], restored.NonbasicMove[v], "variable %d", v)
		}
	}
}

func TestNewFromStatusRejectsDimensionMismatch(t *testing.T) {
	_, err := NewFromStatus(2, 1, []Status{StatusLower, StatusLower})
	assert.Error(t, err)
}

func TestNewFromStatusRejectsWrongBasicCount(t *testing.T) {
	_, err := NewFromStatus(2, 1, []Status{StatusBasic, StatusBasic, StatusBasic})
	assert.Error(t, err)
}

func TestNewFromStatusRejectsUnknownCode(t *testing.T) {
	_, err := NewFromStatus(1, 1, []Status{Status(99), StatusBasic})
	assert.Error(t, err)
}
