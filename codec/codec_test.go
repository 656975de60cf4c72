package codec_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TuSKan/zarrcore/codec"

	zc "github.com/TuSKan/zarrcore"
)

func TestBuild_DefaultsToBytesOnly(t *testing.T) {
	r := codec.DefaultRegistry()
	aa, ab, bb, err := codec.Build(r, codec.DefaultCodecList())
	require.NoError(t, err)
	require.Empty(t, aa)
	require.Empty(t, bb)
	require.NotNil(t, ab)
}

func TestBuild_RejectsMissingArrayBytesCodec(t *testing.T) {
	r := codec.DefaultRegistry()
	_, _, _, err := codec.Build(r, []zc.CodecConfig{{Name: "gzip"}})
	require.ErrorIs(t, err, zc.ErrCodecViolation)
}

func TestBuild_RejectsTwoArrayBytesCodecs(t *testing.T) {
	r := codec.DefaultRegistry()
	_, _, _, err := codec.Build(r, []zc.CodecConfig{{Name: "bytes"}, {Name: "bytes"}})
	require.ErrorIs(t, err, zc.ErrCodecViolation)
}

func TestBuild_RejectsBBBeforeAB(t *testing.T) {
	r := codec.DefaultRegistry()
	_, _, _, err := codec.Build(r, []zc.CodecConfig{{Name: "gzip"}, {Name: "bytes"}})
	require.ErrorIs(t, err, zc.ErrCodecViolation)
}

func TestBuild_RejectsAAAfterAB(t *testing.T) {
	r := codec.DefaultRegistry()
	_, _, _, err := codec.Build(r, []zc.CodecConfig{{Name: "bytes"}, {Name: "transpose"}})
	require.ErrorIs(t, err, zc.ErrCodecViolation)
}

func TestBuild_UnknownCodec(t *testing.T) {
	r := codec.DefaultRegistry()
	_, _, _, err := codec.Build(r, []zc.CodecConfig{{Name: "does-not-exist"}})
	require.ErrorIs(t, err, zc.ErrCodecViolation)
}

func TestBytesCodec_RoundTrip(t *testing.T) {
	ctx := context.Background()
	_, ab, _, err := codec.Build(codec.DefaultRegistry(), codec.DefaultCodecList())
	require.NoError(t, err)

	spec := zc.ArraySpec{Shape: zc.Shape{2, 2}, DType: zc.Int32, Order: zc.OrderC}
	arr := &zc.NDArray{Shape: spec.Shape, DType: spec.DType, Order: spec.Order, Data: []byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0, 4, 0, 0, 0}}

	encoded, err := ab.EncodeBatch(ctx, []codec.ArraySpecPair{{Array: arr, Spec: spec}})
	require.NoError(t, err)
	require.Equal(t, arr.Data, encoded[0])

	decoded, err := ab.DecodeBatch(ctx, []codec.BytesSpecPair{{Bytes: encoded[0], Spec: spec}})
	require.NoError(t, err)
	require.Equal(t, arr.Data, decoded[0].Data)
}

func TestBytesCodec_NilIsAbsentThroughout(t *testing.T) {
	ctx := context.Background()
	_, ab, _, err := codec.Build(codec.DefaultRegistry(), codec.DefaultCodecList())
	require.NoError(t, err)

	spec := zc.ArraySpec{Shape: zc.Shape{2}, DType: zc.Uint8, Order: zc.OrderC}
	encoded, err := ab.EncodeBatch(ctx, []codec.ArraySpecPair{{Array: nil, Spec: spec}})
	require.NoError(t, err)
	require.Nil(t, encoded[0])

	decoded, err := ab.DecodeBatch(ctx, []codec.BytesSpecPair{{Bytes: nil, Spec: spec}})
	require.NoError(t, err)
	require.Nil(t, decoded[0])
}

func TestGzipCodec_RoundTrip(t *testing.T) {
	ctx := context.Background()
	r := codec.DefaultRegistry()
	_, _, bb, err := codec.Build(r, []zc.CodecConfig{{Name: "bytes"}, {Name: "gzip"}})
	require.NoError(t, err)
	require.Len(t, bb, 1)

	spec := zc.ArraySpec{}
	payload := []byte("hello chunk world hello chunk world")
	encoded, err := bb[0].EncodeBatch(ctx, []codec.BytesSpecPair{{Bytes: payload, Spec: spec}})
	require.NoError(t, err)
	require.NotEqual(t, payload, encoded[0])

	decoded, err := bb[0].DecodeBatch(ctx, []codec.BytesSpecPair{{Bytes: encoded[0], Spec: spec}})
	require.NoError(t, err)
	require.Equal(t, payload, decoded[0])
}

func TestZlibCodec_RoundTrip(t *testing.T) {
	ctx := context.Background()
	r := codec.DefaultRegistry()
	_, _, bb, err := codec.Build(r, []zc.CodecConfig{{Name: "bytes"}, {Name: "zlib"}})
	require.NoError(t, err)

	spec := zc.ArraySpec{}
	payload := []byte("zlib payload data data data")
	encoded, err := bb[0].EncodeBatch(ctx, []codec.BytesSpecPair{{Bytes: payload, Spec: spec}})
	require.NoError(t, err)

	decoded, err := bb[0].DecodeBatch(ctx, []codec.BytesSpecPair{{Bytes: encoded[0], Spec: spec}})
	require.NoError(t, err)
	require.Equal(t, payload, decoded[0])
}

func TestZstdCodec_RoundTrip(t *testing.T) {
	ctx := context.Background()
	r := codec.DefaultRegistry()
	_, _, bb, err := codec.Build(r, []zc.CodecConfig{{Name: "bytes"}, {Name: "zstd"}})
	require.NoError(t, err)

	spec := zc.ArraySpec{}
	payload := []byte("zstd payload data data data data")
	encoded, err := bb[0].EncodeBatch(ctx, []codec.BytesSpecPair{{Bytes: payload, Spec: spec}})
	require.NoError(t, err)

	decoded, err := bb[0].DecodeBatch(ctx, []codec.BytesSpecPair{{Bytes: encoded[0], Spec: spec}})
	require.NoError(t, err)
	require.Equal(t, payload, decoded[0])
}

func TestCrc32Codec_DetectsCorruption(t *testing.T) {
	ctx := context.Background()
	r := codec.DefaultRegistry()
	_, _, bb, err := codec.Build(r, []zc.CodecConfig{{Name: "bytes"}, {Name: "crc32"}})
	require.NoError(t, err)

	spec := zc.ArraySpec{}
	payload := []byte("checksum me")
	encoded, err := bb[0].EncodeBatch(ctx, []codec.BytesSpecPair{{Bytes: payload, Spec: spec}})
	require.NoError(t, err)

	decoded, err := bb[0].DecodeBatch(ctx, []codec.BytesSpecPair{{Bytes: encoded[0], Spec: spec}})
	require.NoError(t, err)
	require.Equal(t, payload, decoded[0])

	corrupted := append([]byte(nil), encoded[0]...)
	corrupted[0] ^= 0xFF
	_, err = bb[0].DecodeBatch(ctx, []codec.BytesSpecPair{{Bytes: corrupted, Spec: spec}})
	require.ErrorIs(t, err, zc.ErrCodecViolation)
}

func TestTransposeCodec_ReverseDefaultRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := codec.DefaultRegistry()
	aa, _, _, err := codec.Build(r, []zc.CodecConfig{{Name: "transpose"}, {Name: "bytes"}})
	require.NoError(t, err)
	require.Len(t, aa, 1)

	spec := zc.ArraySpec{Shape: zc.Shape{2, 3}, DType: zc.Uint8, Order: zc.OrderC}
	arr := &zc.NDArray{Shape: spec.Shape, DType: spec.DType, Order: spec.Order, Data: []byte{1, 2, 3, 4, 5, 6}}

	resolved := aa[0].ResolveMetadata(spec)
	require.Equal(t, zc.Shape{3, 2}, resolved.Shape)

	encoded, err := aa[0].EncodeBatch(ctx, []codec.ArraySpecPair{{Array: arr, Spec: spec}})
	require.NoError(t, err)
	require.Equal(t, zc.Shape{3, 2}, encoded[0].Shape)

	decoded, err := aa[0].DecodeBatch(ctx, []codec.ArraySpecPair{{Array: encoded[0], Spec: spec}})
	require.NoError(t, err)
	require.Equal(t, arr.Data, decoded[0].Data)
	require.Equal(t, arr.Shape, decoded[0].Shape)
}
