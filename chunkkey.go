package zarrcore

import (
	"strconv"
	"strings"
)

// ChunkKeyEncoding maps a ChunkCoord to the relative key a chunk is stored
// under, per spec.md §6. It is adapted from the teacher's ChunkKey helper
// (zarr/chunk.go), generalized to the two V3 variants and their scalar
// (N=0) special cases.
type ChunkKeyEncoding interface {
	// Encode returns the relative key for coord.
	Encode(coord ChunkCoord) string
	// Name identifies the variant for metadata round-tripping.
	Name() string
	// Separator is the configured separator, "." or "/".
	Separator() string
}

// DefaultChunkKeyEncoding implements the "default" variant: "c{sep}i0{sep}i1…",
// with the bare "c" for a 0-d (scalar) array.
type DefaultChunkKeyEncoding struct{ Sep string }

func (e DefaultChunkKeyEncoding) Name() string      { return "default" }
func (e DefaultChunkKeyEncoding) Separator() string { return e.Sep }

func (e DefaultChunkKeyEncoding) Encode(coord ChunkCoord) string {
	if len(coord) == 0 {
		return "c"
	}
	var sb strings.Builder
	sb.WriteByte('c')
	for _, idx := range coord {
		sb.WriteString(e.Sep)
		sb.WriteString(strconv.Itoa(idx))
	}
	return sb.String()
}

// V2ChunkKeyEncoding implements the "v2" variant: "i0{sep}i1…", with "0" for
// a 0-d (scalar) array.
type V2ChunkKeyEncoding struct{ Sep string }

func (e V2ChunkKeyEncoding) Name() string      { return "v2" }
func (e V2ChunkKeyEncoding) Separator() string { return e.Sep }

func (e V2ChunkKeyEncoding) Encode(coord ChunkCoord) string {
	if len(coord) == 0 {
		return "0"
	}
	parts := make([]string, len(coord))
	for i, idx := range coord {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, e.Sep)
}
