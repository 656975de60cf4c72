package zarrcore

import "fmt"

// Shape is the ordered extent of an array or chunk.
type Shape []int

// ChunkShape is a Shape with the same arity as the array it chunks.
type ChunkShape []int

// ChunkCoord indexes a chunk on the regular chunk grid.
type ChunkCoord []int

// Size returns the product of a shape's dimensions (1 for a 0-d shape).
func Size(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// DimSelector is one dimension's worth of a Selection: either a contiguous
// [Start, Stop) range with Step == 1, or a single integer index (IsIndex
// true, Stop == Start+1), which is squeezed out of the indexer's output
// shape. spec.md §3 fixes Step at 1; there is no general-step algorithm in
// §4.A, so it is not modeled here.
type DimSelector struct {
	Start   int
	Stop    int
	IsIndex bool
}

// Selection is the normalized, per-dimension form of a logical slice.
type Selection []DimSelector

// Range is a half-open [Start, Stop) interval, used for both intra-chunk
// (chunk_selection) and intra-output (out_selection) addressing.
type Range struct {
	Start, Stop int
}

// Len reports the number of elements the range covers.
func (r Range) Len() int { return r.Stop - r.Start }

// SliceSelection is the per-chunk equivalent of a Selection: one Range per
// dimension, with no integer-index squeeze (it always addresses a region
// inside a fixed-rank chunk or output buffer).
type SliceSelection []Range

// Shape returns the extent described by s.
func (s SliceSelection) Shape() []int {
	out := make([]int, len(s))
	for i, r := range s {
		out[i] = r.Len()
	}
	return out
}

// NormalizeSelection expands sel (which may be shorter than shape, with
// missing trailing dimensions treated as full-range) against shape, validates
// arity and bounds, and returns the normalized per-dimension ranges.
func NormalizeSelection(sel Selection, shape []int) (Selection, error) {
	if len(sel) > len(shape) {
		return nil, fmt.Errorf("%w: selection has %d dimensions, shape has %d", ErrSchemaMismatch, len(sel), len(shape))
	}
	out := make(Selection, len(shape))
	for i, extent := range shape {
		if i < len(sel) {
			d := sel[i]
			if d.Start < 0 || d.Stop < d.Start || d.Stop > extent {
				return nil, fmt.Errorf("%w: selection [%d:%d) out of bounds for dimension %d of extent %d", ErrSchemaMismatch, d.Start, d.Stop, i, extent)
			}
			out[i] = d
		} else {
			out[i] = DimSelector{Start: 0, Stop: extent}
		}
	}
	return out, nil
}

// FullSelection returns the selection (:,)*N covering all of shape.
func FullSelection(shape []int) Selection {
	sel := make(Selection, len(shape))
	for i, extent := range shape {
		sel[i] = DimSelector{Start: 0, Stop: extent}
	}
	return sel
}

// OutputShape returns the shape of the buffer a Selection reads into:
// one entry per non-index dimension, in order.
func (s Selection) OutputShape() []int {
	out := make([]int, 0, len(s))
	for _, d := range s {
		if !d.IsIndex {
			out = append(out, d.Stop-d.Start)
		}
	}
	return out
}
