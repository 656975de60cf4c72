package zarrcore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	zc "github.com/TuSKan/zarrcore"
)

func TestEncodeDecodeScalar_RoundTrip(t *testing.T) {
	tests := []struct {
		dtype zc.DType
		value any
		want  any
	}{
		{zc.Bool, true, true},
		{zc.Int8, -5.0, int8(-5)},
		{zc.Uint8, 200.0, uint8(200)},
		{zc.Int32, -1234.0, int32(-1234)},
		{zc.Uint32, 4000000000.0, uint32(4000000000)},
		{zc.Int64, -123456789.0, int64(-123456789)},
		{zc.Float32, 3.5, float32(3.5)},
		{zc.Float64, 3.14, 3.14},
	}
	for _, tt := range tests {
		buf, err := zc.EncodeScalar(tt.dtype, tt.value)
		require.NoError(t, err)
		got, err := zc.DecodeScalar(tt.dtype, buf)
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}
}

func TestEncodeScalar_NilIsZero(t *testing.T) {
	buf, err := zc.EncodeScalar(zc.Int32, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 0}, buf)
}

func TestEncodeScalar_RejectsWrongTypeForBool(t *testing.T) {
	_, err := zc.EncodeScalar(zc.Bool, "nope")
	require.ErrorIs(t, err, zc.ErrSchemaMismatch)
}
