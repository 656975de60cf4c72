package zarrcore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	zc "github.com/TuSKan/zarrcore"
)

func TestNewFilledNDArray(t *testing.T) {
	a, err := zc.NewFilledNDArray(zc.ArraySpec{Shape: zc.Shape{2, 2}, DType: zc.Int32, Order: zc.OrderC, FillValue: 7.0})
	require.NoError(t, err)
	require.Len(t, a.Data, 16)
	for i := 0; i < 4; i++ {
		v, err := zc.DecodeScalar(zc.Int32, a.Data[i*4:])
		require.NoError(t, err)
		require.Equal(t, int32(7), v)
	}
}

func TestNDArray_AllFillValue(t *testing.T) {
	a, err := zc.NewFilledNDArray(zc.ArraySpec{Shape: zc.Shape{3}, DType: zc.Uint8, Order: zc.OrderC, FillValue: 0.0})
	require.NoError(t, err)
	all, err := a.AllFillValue(0.0)
	require.NoError(t, err)
	require.True(t, all)

	a.Data[1] = 5
	all, err = a.AllFillValue(0.0)
	require.NoError(t, err)
	require.False(t, all)
}

func TestNDArray_Squeeze(t *testing.T) {
	a := &zc.NDArray{Shape: zc.Shape{1, 3, 1}, DType: zc.Uint8, Order: zc.OrderC, Data: []byte{1, 2, 3}}
	squeezed := a.Squeeze([]bool{true, false, true})
	require.Equal(t, zc.Shape{3}, squeezed.Shape)
	require.Equal(t, a.Data, squeezed.Data, "squeeze must be a view, not a copy")
}

func TestNDArray_Clone(t *testing.T) {
	a := &zc.NDArray{Shape: zc.Shape{2}, DType: zc.Uint8, Order: zc.OrderC, Data: []byte{1, 2}}
	b := a.Clone()
	b.Data[0] = 9
	require.Equal(t, byte(1), a.Data[0], "clone must be independent of the original")
}

func TestCopyRegion_CenterOfLargerBuffer(t *testing.T) {
	dst := zc.NewNDArray(zc.ArraySpec{Shape: zc.Shape{4, 4}, DType: zc.Uint8, Order: zc.OrderC})
	src := &zc.NDArray{Shape: zc.Shape{2, 2}, DType: zc.Uint8, Order: zc.OrderC, Data: []byte{1, 1, 1, 1}}

	dstSel := zc.SliceSelection{{Start: 1, Stop: 3}, {Start: 1, Stop: 3}}
	srcSel := zc.SliceSelection{{Start: 0, Stop: 2}, {Start: 0, Stop: 2}}
	require.NoError(t, zc.CopyRegion(dst, dstSel, src, srcSel))

	want := []byte{
		0, 0, 0, 0,
		0, 1, 1, 0,
		0, 1, 1, 0,
		0, 0, 0, 0,
	}
	require.Equal(t, want, dst.Data)
}

func TestCopyRegion_ColumnMajorMatchesRowMajor(t *testing.T) {
	// A 2x2 all-ones copy should look the same regardless of memory order
	// since every element in the region carries the same value.
	dstC := zc.NewNDArray(zc.ArraySpec{Shape: zc.Shape{2, 2}, DType: zc.Uint8, Order: zc.OrderC})
	dstF := zc.NewNDArray(zc.ArraySpec{Shape: zc.Shape{2, 2}, DType: zc.Uint8, Order: zc.OrderF})
	src := &zc.NDArray{Shape: zc.Shape{2, 2}, DType: zc.Uint8, Order: zc.OrderC, Data: []byte{1, 1, 1, 1}}
	full := zc.SliceSelection{{Start: 0, Stop: 2}, {Start: 0, Stop: 2}}

	require.NoError(t, zc.CopyRegion(dstC, full, src, full))
	require.NoError(t, zc.CopyRegion(dstF, full, src, full))
	require.Equal(t, dstC.Data, dstF.Data)
}

func TestCopyRegion_ScalarZeroRank(t *testing.T) {
	dst := zc.NewNDArray(zc.ArraySpec{Shape: zc.Shape{}, DType: zc.Int32})
	src := &zc.NDArray{Shape: zc.Shape{}, DType: zc.Int32, Data: []byte{9, 0, 0, 0}}
	require.NoError(t, zc.CopyRegion(dst, zc.SliceSelection{}, src, zc.SliceSelection{}))
	require.Equal(t, []byte{9, 0, 0, 0}, dst.Data)
}
