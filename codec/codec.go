// Package codec defines the abstract contracts for array-array (AA),
// array-bytes (AB) and bytes-bytes (BB) codecs (spec.md §4.B), plus their
// optional partial-I/O capabilities, and a handful of concrete
// implementations grounded on the teacher's compressor handling
// (reader.go, zarr/dataset.go) and its Metadata.Compressor field.
package codec

import (
	"context"
	"fmt"

	"github.com/TuSKan/zarrcore/store"

	zc "github.com/TuSKan/zarrcore"
)

// Codec is the common contract every codec family satisfies: resolving how
// it transforms the downstream ArraySpec, and predicting its encoded size.
type Codec interface {
	// ResolveMetadata returns the ArraySpec this codec's *input* spec turns
	// into for the next stage — e.g. a transpose changes Shape, a type cast
	// changes DType.
	ResolveMetadata(spec zc.ArraySpec) zc.ArraySpec
	// ComputeEncodedSize predicts the encoded byte length for an input of
	// inputSize bytes at spec.
	ComputeEncodedSize(inputSize int, spec zc.ArraySpec) int
}

// ArraySpecPair couples one item's array (possibly absent, meaning "use
// fill value") with the ArraySpec it was resolved to for this stage.
type ArraySpecPair struct {
	Array *zc.NDArray
	Spec  zc.ArraySpec
}

// BytesSpecPair couples one item's encoded bytes (possibly absent) with the
// ArraySpec it was resolved to for this stage.
type BytesSpecPair struct {
	Bytes []byte
	Spec  zc.ArraySpec
}

// ArrayArrayCodec transforms an in-memory array representation (layout,
// dtype) without serializing it.
type ArrayArrayCodec interface {
	Codec
	DecodeBatch(ctx context.Context, items []ArraySpecPair) ([]*zc.NDArray, error)
	EncodeBatch(ctx context.Context, items []ArraySpecPair) ([]*zc.NDArray, error)
}

// ArrayBytesCodec serializes/deserializes between an array and its byte
// representation. Exactly one appears in any codec list (spec.md §3).
type ArrayBytesCodec interface {
	Codec
	DecodeBatch(ctx context.Context, items []BytesSpecPair) ([]*zc.NDArray, error)
	EncodeBatch(ctx context.Context, items []ArraySpecPair) ([][]byte, error)
}

// BytesBytesCodec transforms a byte stream (compression, checksumming).
type BytesBytesCodec interface {
	Codec
	DecodeBatch(ctx context.Context, items []BytesSpecPair) ([][]byte, error)
	EncodeBatch(ctx context.Context, items []BytesSpecPair) ([][]byte, error)
}

// PartialDecodeItem is one unit of work for ArrayBytesPartialDecoder.
type PartialDecodeItem struct {
	Path      store.Path
	Selection zc.SliceSelection
	Spec      zc.ArraySpec
}

// ArrayBytesPartialDecoder is the optional partial-decode mixin: produce the
// selected region of a chunk without materializing the whole chunk. At most
// the array-bytes codec may implement this (spec.md §4.B, §4.C).
type ArrayBytesPartialDecoder interface {
	DecodePartialBatch(ctx context.Context, items []PartialDecodeItem) ([]*zc.NDArray, error)
}

// PartialEncodeItem is one unit of work for ArrayBytesPartialEncoder.
type PartialEncodeItem struct {
	Path      store.Path
	Array     *zc.NDArray
	Selection zc.SliceSelection
	Spec      zc.ArraySpec
}

// ArrayBytesPartialEncoder is the optional partial-encode mixin: merge a
// sub-region into an existing encoded chunk in place.
type ArrayBytesPartialEncoder interface {
	EncodePartialBatch(ctx context.Context, items []PartialEncodeItem) error
}

// Registry resolves a metadata CodecConfig by name to a constructed Codec.
// Metadata never imports this package (spec.md §9's cycle-avoidance note);
// callers (the pipeline builder, the array engine) own the registry.
type Registry map[string]func(config []byte) (Codec, error)

// DefaultRegistry returns the codecs this module ships: the "bytes"
// array-bytes codec and the bytes-bytes compressors the teacher's
// Metadata.Compressor handled (zstd, blosc, zlib/gzip), plus a crc32
// checksum codec and a transpose array-array codec.
func DefaultRegistry() Registry {
	return Registry{
		"bytes":     newBytesCodec,
		"transpose": newTransposeCodec,
		"gzip":      newGzipCodec,
		"zlib":      newZlibCodec,
		"zstd":      newZstdCodec,
		"blosc":     newBloscCodec,
		"crc32":     newCrc32Codec,
	}
}

// Build resolves cfgs against r into typed codec slices and validates
// spec.md §3's invariant: any number of AA codecs, then exactly one AB
// codec, then any number of BB codecs — i.e. every AA codec must precede
// the sole AB codec and every BB codec must follow it.
func Build(r Registry, cfgs []zc.CodecConfig) (aa []ArrayArrayCodec, ab ArrayBytesCodec, bb []BytesBytesCodec, err error) {
	var rawConfig func(c zc.CodecConfig) []byte
	rawConfig = func(c zc.CodecConfig) []byte { return []byte(c.Configuration) }

	seenAB := false
	for _, cfg := range cfgs {
		ctor, ok := r[cfg.Name]
		if !ok {
			return nil, nil, nil, fmt.Errorf("%w: unknown codec %q", zc.ErrCodecViolation, cfg.Name)
		}
		c, cerr := ctor(rawConfig(cfg))
		if cerr != nil {
			return nil, nil, nil, fmt.Errorf("%w: building codec %q: %v", zc.ErrCodecViolation, cfg.Name, cerr)
		}
		switch typed := c.(type) {
		case ArrayBytesCodec:
			if seenAB {
				return nil, nil, nil, fmt.Errorf("%w: more than one array-bytes codec", zc.ErrCodecViolation)
			}
			ab = typed
			seenAB = true
		case ArrayArrayCodec:
			if seenAB {
				return nil, nil, nil, fmt.Errorf("%w: array-array codec %q follows the array-bytes codec", zc.ErrCodecViolation, cfg.Name)
			}
			aa = append(aa, typed)
		case BytesBytesCodec:
			if !seenAB {
				return nil, nil, nil, fmt.Errorf("%w: bytes-bytes codec %q precedes the array-bytes codec", zc.ErrCodecViolation, cfg.Name)
			}
			bb = append(bb, typed)
		default:
			return nil, nil, nil, fmt.Errorf("%w: codec %q is not AA, AB or BB", zc.ErrCodecViolation, cfg.Name)
		}
	}
	if !seenAB {
		return nil, nil, nil, fmt.Errorf("%w: codec list must contain exactly one array-bytes codec", zc.ErrCodecViolation)
	}
	return aa, ab, bb, nil
}

// DefaultCodecList is used by Array.Create when the caller supplies no
// codecs, per spec.md §4.E ("codec list defaults to [array-bytes]").
func DefaultCodecList() []zc.CodecConfig {
	return []zc.CodecConfig{{Name: "bytes"}}
}
