package codec

import (
	"context"
	"encoding/json"
	"fmt"

	zc "github.com/TuSKan/zarrcore"
)

// bytesConfig is the "bytes" array-bytes codec's configuration: which
// endianness multi-byte elements are serialized in. Single-byte dtypes
// ignore it.
type bytesConfig struct {
	Endian string `json:"endian"`
}

// BytesCodec is the default array-bytes codec: a direct, optionally
// byte-swapped, serialization of an NDArray's backing buffer. It is the Go
// counterpart of zarr-python's BytesCodec (referenced directly by
// original_source/src/zarr/v3/array.py's default codec list) and plays the
// role the teacher's Metadata.Compressor == nil path plays in reader.go:
// "no transform, the bytes on disk are the array".
type BytesCodec struct {
	bigEndian bool
}

func newBytesCodec(config []byte) (Codec, error) {
	cfg := bytesConfig{Endian: "little"}
	if len(config) > 0 {
		if err := json.Unmarshal(config, &cfg); err != nil {
			return nil, fmt.Errorf("%w: bytes codec config: %v", zc.ErrMalformedMetadata, err)
		}
	}
	switch cfg.Endian {
	case "little", "":
		return &BytesCodec{bigEndian: false}, nil
	case "big":
		return &BytesCodec{bigEndian: true}, nil
	default:
		return nil, fmt.Errorf("%w: bytes codec endian must be \"little\" or \"big\", got %q", zc.ErrMalformedMetadata, cfg.Endian)
	}
}

func (c *BytesCodec) ResolveMetadata(spec zc.ArraySpec) zc.ArraySpec { return spec }

func (c *BytesCodec) ComputeEncodedSize(inputSize int, spec zc.ArraySpec) int { return inputSize }

func (c *BytesCodec) DecodeBatch(ctx context.Context, items []BytesSpecPair) ([]*zc.NDArray, error) {
	out := make([]*zc.NDArray, len(items))
	for i, it := range items {
		if it.Bytes == nil {
			out[i] = nil
			continue
		}
		data := it.Bytes
		if c.bigEndian && it.Spec.DType.ItemSize() > 1 {
			data = swapEndian(data, it.Spec.DType.ItemSize())
		}
		want := zc.Size(it.Spec.Shape) * it.Spec.DType.ItemSize()
		if len(data) != want {
			return nil, fmt.Errorf("%w: chunk has %d bytes, expected %d for shape %v dtype %s",
				zc.ErrCodecViolation, len(data), want, it.Spec.Shape, it.Spec.DType)
		}
		out[i] = &zc.NDArray{Shape: it.Spec.Shape, DType: it.Spec.DType, Order: it.Spec.Order, Data: data}
	}
	return out, nil
}

func (c *BytesCodec) EncodeBatch(ctx context.Context, items []ArraySpecPair) ([][]byte, error) {
	out := make([][]byte, len(items))
	for i, it := range items {
		if it.Array == nil {
			out[i] = nil
			continue
		}
		data := it.Array.Data
		if c.bigEndian && it.Spec.DType.ItemSize() > 1 {
			data = swapEndian(data, it.Spec.DType.ItemSize())
		}
		out[i] = data
	}
	return out, nil
}

func swapEndian(data []byte, itemSize int) []byte {
	out := make([]byte, len(data))
	for off := 0; off+itemSize <= len(data); off += itemSize {
		for i := 0; i < itemSize; i++ {
			out[off+i] = data[off+itemSize-1-i]
		}
	}
	return out
}
