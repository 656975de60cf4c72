package codec

import (
	"context"
	"fmt"

	"github.com/klauspost/compress/zstd"

	zc "github.com/TuSKan/zarrcore"
)

// ZstdCodec is a bytes-bytes codec over github.com/klauspost/compress/zstd,
// the exact decompressor the teacher's Dataset uses
// (zarr/dataset.go:NextBatch, exercised by dataset_test.go's
// TestDataset_NextBatch_Zstd).
type ZstdCodec struct{ level zstd.EncoderLevel }

func newZstdCodec(config []byte) (Codec, error) {
	cfg := struct {
		Level int `json:"level"`
	}{Level: int(zstd.SpeedDefault)}
	if len(config) > 0 {
		if err := jsonUnmarshal(config, &cfg); err != nil {
			return nil, err
		}
	}
	return &ZstdCodec{level: zstd.EncoderLevel(cfg.Level)}, nil
}

func (c *ZstdCodec) ResolveMetadata(spec zc.ArraySpec) zc.ArraySpec        { return spec }
func (c *ZstdCodec) ComputeEncodedSize(inputSize int, spec zc.ArraySpec) int { return inputSize }

func (c *ZstdCodec) DecodeBatch(ctx context.Context, items []BytesSpecPair) ([][]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd decoder: %v", zc.ErrCodecViolation, err)
	}
	defer dec.Close()

	out := make([][]byte, len(items))
	for i, it := range items {
		if it.Bytes == nil {
			continue
		}
		data, err := dec.DecodeAll(it.Bytes, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd decode: %v", zc.ErrCodecViolation, err)
		}
		out[i] = data
	}
	return out, nil
}

func (c *ZstdCodec) EncodeBatch(ctx context.Context, items []BytesSpecPair) ([][]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(c.level))
	if err != nil {
		return nil, fmt.Errorf("%w: zstd encoder: %v", zc.ErrCodecViolation, err)
	}
	defer enc.Close()

	out := make([][]byte, len(items))
	for i, it := range items {
		if it.Bytes == nil {
			continue
		}
		out[i] = enc.EncodeAll(it.Bytes, nil)
	}
	return out, nil
}
