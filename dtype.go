package zarrcore

import (
	"fmt"
	"strconv"
)

// DType names the element type of an array or chunk. Values mirror the
// canonical Zarr V3 data_type strings (e.g. "int32", "float64").
type DType string

const (
	Bool    DType = "bool"
	Int8    DType = "int8"
	Int16   DType = "int16"
	Int32   DType = "int32"
	Int64   DType = "int64"
	Uint8   DType = "uint8"
	Uint16  DType = "uint16"
	Uint32  DType = "uint32"
	Uint64  DType = "uint64"
	Float32 DType = "float32"
	Float64 DType = "float64"
)

// ItemSize returns the number of bytes a single element of d occupies.
func (d DType) ItemSize() int {
	switch d {
	case Bool, Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	default:
		return 0
	}
}

// Valid reports whether d is one of the DType constants.
func (d DType) Valid() bool {
	return d.ItemSize() > 0
}

// DefaultFillValue returns the metadata default fill value for d: false for
// bool, 0 (or 0.0) otherwise, per spec.md §4.E "create" defaults.
func (d DType) DefaultFillValue() any {
	if d == Bool {
		return false
	}
	if d == Float32 || d == Float64 {
		return 0.0
	}
	return 0
}

// ParseDType accepts either a canonical V3 name ("int32") or a legacy
// numpy-style V2 encoding ("<i4", "|b1") and returns the canonical DType.
// Big-endian ("> ") V2 encodings are rejected, matching the teacher's
// ParseDType behavior of refusing big-endian payloads outright.
func ParseDType(s string) (DType, error) {
	if d := DType(s); d.Valid() {
		return d, nil
	}

	if len(s) < 3 {
		return "", fmt.Errorf("%w: invalid dtype %q", ErrMalformedMetadata, s)
	}

	endian := s[0]
	if endian == '>' {
		return "", fmt.Errorf("%w: big-endian dtype unsupported: %q", ErrUnsupported, s)
	}

	kind := s[1]
	size, err := strconv.Atoi(s[2:])
	if err != nil {
		return "", fmt.Errorf("%w: invalid size in dtype %q", ErrMalformedMetadata, s)
	}

	var d DType
	switch kind {
	case 'b':
		d = Bool
	case 'i':
		d = DType(fmt.Sprintf("int%d", size*8))
	case 'u':
		d = DType(fmt.Sprintf("uint%d", size*8))
	case 'f':
		d = DType(fmt.Sprintf("float%d", size*8))
	default:
		return "", fmt.Errorf("%w: unsupported dtype kind %q in %q", ErrUnsupported, string(kind), s)
	}
	if !d.Valid() {
		return "", fmt.Errorf("%w: unsupported dtype %q", ErrUnsupported, s)
	}
	return d, nil
}
