package zarrcore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	zc "github.com/TuSKan/zarrcore"
)

func validMetadata() zc.ArrayMetadata {
	return zc.ArrayMetadata{
		Shape:    zc.Shape{4, 4},
		DataType: "int32",
		ChunkGrid: zc.ChunkGrid{
			Name:          "regular",
			Configuration: zc.ChunkGridConfig{ChunkShape: zc.ChunkShape{2, 2}},
		},
		ChunkKeyEncoding: zc.ChunkKeyEncodingDoc{Name: "default", Configuration: zc.ChunkKeyEncodingConfig{Separator: "/"}},
		FillValue:        0.0,
		Codecs:           []zc.CodecConfig{{Name: "bytes"}},
		Attributes:       map[string]any{},
	}
}

func TestArrayMetadata_ToBytesAndBack(t *testing.T) {
	m := validMetadata()
	data, err := m.ToBytes()
	require.NoError(t, err)

	got, err := zc.MetadataFromBytes(data)
	require.NoError(t, err)
	require.Equal(t, m.Shape, got.Shape)
	require.Equal(t, m.ChunkGrid, got.ChunkGrid)
}

func TestArrayMetadata_Validate_ChunkArityMismatch(t *testing.T) {
	m := validMetadata()
	m.ChunkGrid.Configuration.ChunkShape = zc.ChunkShape{2, 2, 2}
	require.ErrorIs(t, m.Validate(), zc.ErrMalformedMetadata)
}

func TestArrayMetadata_Validate_NonPositiveDimension(t *testing.T) {
	m := validMetadata()
	m.Shape = zc.Shape{4, 0}
	require.ErrorIs(t, m.Validate(), zc.ErrMalformedMetadata)
}

func TestArrayMetadata_Validate_UnsupportedChunkGrid(t *testing.T) {
	m := validMetadata()
	m.ChunkGrid.Name = "sharded"
	require.ErrorIs(t, m.Validate(), zc.ErrUnsupported)
}

func TestArrayMetadata_GetChunkSpec(t *testing.T) {
	m := validMetadata()
	spec, err := m.GetChunkSpec(zc.ChunkCoord{1, 1}, zc.OrderC)
	require.NoError(t, err)
	require.Equal(t, zc.Shape{2, 2}, spec.Shape)
	require.Equal(t, zc.Int32, spec.DType)
	require.Equal(t, 0.0, spec.FillValue)
}

func TestChunkKeyEncodingDoc_Encoding_RejectsBadSeparator(t *testing.T) {
	doc := zc.ChunkKeyEncodingDoc{Name: "default", Configuration: zc.ChunkKeyEncodingConfig{Separator: ","}}
	_, err := doc.Encoding()
	require.ErrorIs(t, err, zc.ErrMalformedMetadata)
}
