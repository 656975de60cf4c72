package zarrcore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	zc "github.com/TuSKan/zarrcore"
)

func TestNormalizeSelection_FillsMissingTrailingDims(t *testing.T) {
	sel := zc.Selection{{Start: 1, Stop: 3}}
	got, err := zc.NormalizeSelection(sel, []int{4, 5})
	require.NoError(t, err)
	require.Equal(t, zc.Selection{{Start: 1, Stop: 3}, {Start: 0, Stop: 5}}, got)
}

func TestNormalizeSelection_OutOfBounds(t *testing.T) {
	sel := zc.Selection{{Start: 0, Stop: 10}}
	_, err := zc.NormalizeSelection(sel, []int{4})
	require.ErrorIs(t, err, zc.ErrSchemaMismatch)
}

func TestNormalizeSelection_TooManyDimensions(t *testing.T) {
	sel := zc.Selection{{Start: 0, Stop: 1}, {Start: 0, Stop: 1}}
	_, err := zc.NormalizeSelection(sel, []int{4})
	require.ErrorIs(t, err, zc.ErrSchemaMismatch)
}

func TestSelection_OutputShape_DropsIndexDims(t *testing.T) {
	sel := zc.Selection{{Start: 1, Stop: 2, IsIndex: true}, {Start: 0, Stop: 3}}
	require.Equal(t, []int{3}, sel.OutputShape())
}

func TestFullSelection(t *testing.T) {
	sel := zc.FullSelection([]int{2, 3})
	require.Equal(t, zc.Selection{{Start: 0, Stop: 2}, {Start: 0, Stop: 3}}, sel)
}
