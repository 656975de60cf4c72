package zarrcore

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeScalar renders value (as decoded from JSON or passed by a Go caller)
// into dtype's little-endian on-disk byte pattern. JSON numbers decode to
// float64 and bools to bool; both are accepted and coerced to dtype.
func EncodeScalar(dtype DType, value any) ([]byte, error) {
	size := dtype.ItemSize()
	if size == 0 {
		return nil, fmt.Errorf("%w: unknown dtype %q", ErrUnsupported, dtype)
	}
	buf := make([]byte, size)

	asFloat := func() (float64, bool) {
		switch v := value.(type) {
		case float64:
			return v, true
		case float32:
			return float64(v), true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		case bool:
			if v {
				return 1, true
			}
			return 0, true
		case nil:
			return 0, true
		}
		return 0, false
	}

	if dtype == Bool {
		b := false
		switch v := value.(type) {
		case bool:
			b = v
		case nil:
			b = false
		case float64:
			b = v != 0
		default:
			return nil, fmt.Errorf("%w: cannot encode %T as bool", ErrSchemaMismatch, value)
		}
		if b {
			buf[0] = 1
		}
		return buf, nil
	}

	f, ok := asFloat()
	if !ok {
		return nil, fmt.Errorf("%w: cannot encode %T as %s", ErrSchemaMismatch, value, dtype)
	}

	switch dtype {
	case Int8:
		buf[0] = byte(int8(f))
	case Uint8:
		buf[0] = byte(uint8(f))
	case Int16:
		binary.LittleEndian.PutUint16(buf, uint16(int16(f)))
	case Uint16:
		binary.LittleEndian.PutUint16(buf, uint16(f))
	case Int32:
		binary.LittleEndian.PutUint32(buf, uint32(int32(f)))
	case Uint32:
		binary.LittleEndian.PutUint32(buf, uint32(f))
	case Int64:
		binary.LittleEndian.PutUint64(buf, uint64(int64(f)))
	case Uint64:
		binary.LittleEndian.PutUint64(buf, uint64(f))
	case Float32:
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(f)))
	case Float64:
		binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
	default:
		return nil, fmt.Errorf("%w: unknown dtype %q", ErrUnsupported, dtype)
	}
	return buf, nil
}

// DecodeScalar reads a single little-endian element of dtype out of buf
// (which must be at least dtype.ItemSize() bytes) into a Go value.
func DecodeScalar(dtype DType, buf []byte) (any, error) {
	size := dtype.ItemSize()
	if size == 0 || len(buf) < size {
		return nil, fmt.Errorf("%w: buffer too small for %s", ErrSchemaMismatch, dtype)
	}
	switch dtype {
	case Bool:
		return buf[0] != 0, nil
	case Int8:
		return int8(buf[0]), nil
	case Uint8:
		return buf[0], nil
	case Int16:
		return int16(binary.LittleEndian.Uint16(buf)), nil
	case Uint16:
		return binary.LittleEndian.Uint16(buf), nil
	case Int32:
		return int32(binary.LittleEndian.Uint32(buf)), nil
	case Uint32:
		return binary.LittleEndian.Uint32(buf), nil
	case Int64:
		return int64(binary.LittleEndian.Uint64(buf)), nil
	case Uint64:
		return binary.LittleEndian.Uint64(buf), nil
	case Float32:
		return math.Float32frombits(binary.LittleEndian.Uint32(buf)), nil
	case Float64:
		return math.Float64frombits(binary.LittleEndian.Uint64(buf)), nil
	default:
		return nil, fmt.Errorf("%w: unknown dtype %q", ErrUnsupported, dtype)
	}
}
