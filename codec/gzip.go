package codec

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"

	zc "github.com/TuSKan/zarrcore"
)

// GzipCodec is a bytes-bytes codec using the standard library's gzip
// implementation — stdlib is the idiomatic choice here, the same way the
// teacher reaches directly for compress/zlib in reader.go rather than a
// third-party gzip binding.
type GzipCodec struct{ level int }

func newGzipCodec(config []byte) (Codec, error) {
	cfg := struct {
		Level int `json:"level"`
	}{Level: gzip.DefaultCompression}
	if len(config) > 0 {
		if err := jsonUnmarshal(config, &cfg); err != nil {
			return nil, err
		}
	}
	return &GzipCodec{level: cfg.Level}, nil
}

func (c *GzipCodec) ResolveMetadata(spec zc.ArraySpec) zc.ArraySpec    { return spec }
func (c *GzipCodec) ComputeEncodedSize(inputSize int, spec zc.ArraySpec) int { return inputSize }

func (c *GzipCodec) DecodeBatch(ctx context.Context, items []BytesSpecPair) ([][]byte, error) {
	out := make([][]byte, len(items))
	for i, it := range items {
		if it.Bytes == nil {
			continue
		}
		zr, err := gzip.NewReader(bytes.NewReader(it.Bytes))
		if err != nil {
			return nil, fmt.Errorf("%w: gzip decode: %v", zc.ErrCodecViolation, err)
		}
		data, err := io.ReadAll(zr)
		zr.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: gzip decode: %v", zc.ErrCodecViolation, err)
		}
		out[i] = data
	}
	return out, nil
}

func (c *GzipCodec) EncodeBatch(ctx context.Context, items []BytesSpecPair) ([][]byte, error) {
	out := make([][]byte, len(items))
	for i, it := range items {
		if it.Bytes == nil {
			continue
		}
		var buf bytes.Buffer
		zw, err := gzip.NewWriterLevel(&buf, c.level)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip encode: %v", zc.ErrCodecViolation, err)
		}
		if _, err := zw.Write(it.Bytes); err != nil {
			return nil, fmt.Errorf("%w: gzip encode: %v", zc.ErrCodecViolation, err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("%w: gzip encode: %v", zc.ErrCodecViolation, err)
		}
		out[i] = buf.Bytes()
	}
	return out, nil
}
