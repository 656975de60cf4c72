package zarrcore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	zc "github.com/TuSKan/zarrcore"
)

func TestParseDType(t *testing.T) {
	tests := []struct {
		input   string
		want    zc.DType
		wantErr bool
	}{
		{"<f4", zc.Float32, false},
		{"<i8", zc.Int64, false},
		{"|b1", zc.Bool, false},
		{"<u2", zc.Uint16, false},
		{"int32", zc.Int32, false},
		{"float64", zc.Float64, false},
		{">f4", "", true},
		{"x2", "", true},
		{"<x4", "", true},
		{"<i", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := zc.ParseDType(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDType_ItemSize(t *testing.T) {
	require.Equal(t, 1, zc.Bool.ItemSize())
	require.Equal(t, 4, zc.Float32.ItemSize())
	require.Equal(t, 8, zc.Int64.ItemSize())
	require.Equal(t, 0, zc.DType("nonsense").ItemSize())
}

func TestDType_DefaultFillValue(t *testing.T) {
	require.Equal(t, false, zc.Bool.DefaultFillValue())
	require.Equal(t, 0, zc.Int32.DefaultFillValue())
	require.Equal(t, 0.0, zc.Float64.DefaultFillValue())
}
