// Package indexing implements spec.md §4.A: normalizing a logical selection
// on a shape into the chunk-wise work items a read or write is carried out
// as. It is the Go-native expression of the original's
// zarr.v3.indexing.BasicIndexer, generalized to arbitrary rank from the
// teacher's fixed 2-level nested loops in reader.go (ReadFull/ReadRegion)
// and zarr/dataset.go (iterateSubGrid).
package indexing

import (
	"fmt"

	zc "github.com/TuSKan/zarrcore"
)

// WorkItem is one (chunk_coord, chunk_selection, out_selection) triple:
// chunk_selection addresses a sub-region inside the full-rank chunk,
// out_selection addresses the same region inside the full-rank output
// buffer allocated at BasicIndexer.FullShape(). Both carry one Range per
// array dimension, including integer-indexed ones (a length-1 range) — the
// squeeze down to BasicIndexer.Shape() happens once, after all chunks have
// been copied into the buffer, since dropping an extent-1 dimension never
// changes the flat byte layout (zc.NDArray.Squeeze).
type WorkItem struct {
	ChunkCoord     zc.ChunkCoord
	ChunkSelection zc.SliceSelection
	OutSelection   zc.SliceSelection
}

// BasicIndexer enumerates the chunk-wise coverage of a selection over shape
// chunked by chunkShape, per spec.md §4.A.
type BasicIndexer struct {
	selection zc.Selection
	shape     zc.Shape
	chunk     zc.ChunkShape
	squeeze   []bool
}

// NewBasicIndexer normalizes sel against shape and prepares an indexer. It
// validates arity and bounds (ErrSchemaMismatch) and that chunkShape has the
// same arity as shape (also ErrSchemaMismatch here; metadata validation
// already rejects such a document with ErrMalformedMetadata, so arity is
// re-checked here defensively).
func NewBasicIndexer(sel zc.Selection, shape zc.Shape, chunkShape zc.ChunkShape) (*BasicIndexer, error) {
	if len(shape) != len(chunkShape) {
		return nil, fmt.Errorf("%w: shape arity %d does not match chunk shape arity %d", zc.ErrSchemaMismatch, len(shape), len(chunkShape))
	}
	norm, err := zc.NormalizeSelection(sel, shape)
	if err != nil {
		return nil, err
	}
	squeeze := make([]bool, len(norm))
	for i, d := range norm {
		squeeze[i] = d.IsIndex
	}
	return &BasicIndexer{selection: norm, shape: shape, chunk: chunkShape, squeeze: squeeze}, nil
}

// Shape is the squeezed shape of the output buffer a caller must allocate:
// one entry per non-index dimension, per spec.md §4.A.
func (idx *BasicIndexer) Shape() zc.Shape {
	return zc.Shape(idx.selection.OutputShape())
}

// FullShape is the unsqueezed shape (one entry per array dimension, 1 for
// index dimensions) the pipeline actually allocates and writes into; see
// WorkItem's doc comment for why this is safe to later squeeze for free.
func (idx *BasicIndexer) FullShape() zc.Shape {
	out := make(zc.Shape, len(idx.selection))
	for i, d := range idx.selection {
		out[i] = d.Stop - d.Start
	}
	return out
}

// SqueezeMask reports, per dimension, whether it was an integer index (and
// so should be dropped by zc.NDArray.Squeeze once the full-rank buffer has
// been filled in).
func (idx *BasicIndexer) SqueezeMask() []bool {
	return append([]bool(nil), idx.squeeze...)
}

// Items enumerates every (chunk_coord, chunk_selection, out_selection)
// triple covering the indexer's selection. The result is a finite slice —
// restarting the "sequence" is just re-ranging it, which spec.md §4.A's
// "restartable" requirement is trivially satisfied by.
func (idx *BasicIndexer) Items() []WorkItem {
	n := len(idx.selection)
	if n == 0 {
		return []WorkItem{{ChunkCoord: zc.ChunkCoord{}, ChunkSelection: zc.SliceSelection{}, OutSelection: zc.SliceSelection{}}}
	}

	// Per dimension, enumerate the chunk indices the selection intersects
	// and the (chunk_selection, out_selection) range pair for each, per
	// the formulas in spec.md §4.A.
	type dimChunk struct {
		coord   int
		chunkR  zc.Range
		outR    zc.Range
	}
	perDim := make([][]dimChunk, n)
	for i := 0; i < n; i++ {
		start, stop := idx.selection[i].Start, idx.selection[i].Stop
		c := idx.chunk[i]
		firstChunk := start / c
		lastChunk := (stop - 1) / c
		if stop <= start {
			perDim[i] = nil
			continue
		}
		for k := firstChunk; k <= lastChunk; k++ {
			chunkStartGlobal := k * c
			chunkEndGlobal := chunkStartGlobal + c
			s := max(start, chunkStartGlobal)
			e := min(stop, chunkEndGlobal)
			perDim[i] = append(perDim[i], dimChunk{
				coord:  k,
				chunkR: zc.Range{Start: s - chunkStartGlobal, Stop: e - chunkStartGlobal},
				outR:   zc.Range{Start: s - start, Stop: e - start},
			})
		}
	}

	var items []WorkItem
	coord := make(zc.ChunkCoord, n)
	chunkSel := make(zc.SliceSelection, n)
	outSel := make(zc.SliceSelection, n)

	var walk func(dim int)
	walk = func(dim int) {
		if dim == n {
			cc := append(zc.ChunkCoord(nil), coord...)
			cs := append(zc.SliceSelection(nil), chunkSel...)
			os := append(zc.SliceSelection(nil), outSel...)
			items = append(items, WorkItem{ChunkCoord: cc, ChunkSelection: cs, OutSelection: os})
			return
		}
		for _, dc := range perDim[dim] {
			coord[dim] = dc.coord
			chunkSel[dim] = dc.chunkR
			outSel[dim] = dc.outR
			walk(dim + 1)
		}
	}
	walk(0)
	return items
}

// IsTotalSlice reports whether sel covers the entirety of a chunk shaped
// chunkShape on every dimension — the decisive predicate for the
// read-modify-write fast path (spec.md §4.A invariant iv, §4.C step 2a).
func IsTotalSlice(sel zc.SliceSelection, chunkShape zc.Shape) bool {
	if len(sel) != len(chunkShape) {
		return false
	}
	for i, r := range sel {
		if r.Start != 0 || r.Stop != chunkShape[i] {
			return false
		}
	}
	return true
}

// AllChunkCoords enumerates every ChunkCoord on the regular grid chunking
// shape by chunkShape — used by Array.Resize to find chunks to delete.
func AllChunkCoords(shape zc.Shape, chunkShape zc.ChunkShape) []zc.ChunkCoord {
	n := len(shape)
	if n == 0 {
		return []zc.ChunkCoord{{}}
	}
	grid := make([]int, n)
	for i := range shape {
		grid[i] = (shape[i] + chunkShape[i] - 1) / chunkShape[i]
	}
	var out []zc.ChunkCoord
	coord := make(zc.ChunkCoord, n)
	var walk func(dim int)
	walk = func(dim int) {
		if dim == n {
			out = append(out, append(zc.ChunkCoord(nil), coord...))
			return
		}
		for i := 0; i < grid[dim]; i++ {
			coord[dim] = i
			walk(dim + 1)
		}
	}
	walk(0)
	return out
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
