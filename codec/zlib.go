package codec

import (
	"bytes"
	"compress/zlib"
	"context"
	"fmt"
	"io"

	zc "github.com/TuSKan/zarrcore"
)

// ZlibCodec is a bytes-bytes codec wrapping the standard library's zlib
// implementation, matching the "zlib"/"gzip" branch of the teacher's
// compressor switch in reader.go.
type ZlibCodec struct{ level int }

func newZlibCodec(config []byte) (Codec, error) {
	cfg := struct {
		Level int `json:"level"`
	}{Level: zlib.DefaultCompression}
	if len(config) > 0 {
		if err := jsonUnmarshal(config, &cfg); err != nil {
			return nil, err
		}
	}
	return &ZlibCodec{level: cfg.Level}, nil
}

func (c *ZlibCodec) ResolveMetadata(spec zc.ArraySpec) zc.ArraySpec        { return spec }
func (c *ZlibCodec) ComputeEncodedSize(inputSize int, spec zc.ArraySpec) int { return inputSize }

func (c *ZlibCodec) DecodeBatch(ctx context.Context, items []BytesSpecPair) ([][]byte, error) {
	out := make([][]byte, len(items))
	for i, it := range items {
		if it.Bytes == nil {
			continue
		}
		zr, err := zlib.NewReader(bytes.NewReader(it.Bytes))
		if err != nil {
			return nil, fmt.Errorf("%w: zlib decode: %v", zc.ErrCodecViolation, err)
		}
		data, err := io.ReadAll(zr)
		zr.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: zlib decode: %v", zc.ErrCodecViolation, err)
		}
		out[i] = data
	}
	return out, nil
}

func (c *ZlibCodec) EncodeBatch(ctx context.Context, items []BytesSpecPair) ([][]byte, error) {
	out := make([][]byte, len(items))
	for i, it := range items {
		if it.Bytes == nil {
			continue
		}
		var buf bytes.Buffer
		zw, err := zlib.NewWriterLevel(&buf, c.level)
		if err != nil {
			return nil, fmt.Errorf("%w: zlib encode: %v", zc.ErrCodecViolation, err)
		}
		if _, err := zw.Write(it.Bytes); err != nil {
			return nil, fmt.Errorf("%w: zlib encode: %v", zc.ErrCodecViolation, err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("%w: zlib encode: %v", zc.ErrCodecViolation, err)
		}
		out[i] = buf.Bytes()
	}
	return out, nil
}
