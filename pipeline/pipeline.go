// Package pipeline implements the batched codec pipeline of spec.md §4.C:
// ordered composition of an array-array prefix, the single array-bytes
// codec, and a bytes-bytes suffix, with batched encode/decode, the
// partial-I/O fast paths, read-modify-write merging and fill-value elision.
// It is a direct Go port of
// original_source/src/zarr/v3/codecs/batched_pipeline.py's
// BatchedCodecPipeline — every method here has the same name and the same
// stage ordering as its Python original.
package pipeline

import (
	"context"

	"github.com/TuSKan/zarrcore/codec"
	"github.com/TuSKan/zarrcore/concurrency"
	"github.com/TuSKan/zarrcore/indexing"
	"github.com/TuSKan/zarrcore/store"

	zc "github.com/TuSKan/zarrcore"
)

// BatchItem is one unit of work for ReadBatched/WriteBatched: a chunk's
// store location, its ArraySpec, and the chunk-local / output-local regions
// it contributes.
type BatchItem struct {
	Path           store.Path
	ChunkSpec      zc.ArraySpec
	ChunkSelection zc.SliceSelection
	OutSelection   zc.SliceSelection
}

// Pipeline is the ordered codec list, partitioned into its three families
// per spec.md §4.C.
type Pipeline struct {
	aa []codec.ArrayArrayCodec
	ab codec.ArrayBytesCodec
	bb []codec.BytesBytesCodec
}

// New partitions codecs into the array-array prefix, the sole array-bytes
// codec and the bytes-bytes suffix via codec.Build, which also enforces
// spec.md §3's "exactly one array-bytes codec" invariant.
func New(registry codec.Registry, codecs []zc.CodecConfig) (*Pipeline, error) {
	aa, ab, bb, err := codec.Build(registry, codecs)
	if err != nil {
		return nil, err
	}
	return &Pipeline{aa: aa, ab: ab, bb: bb}, nil
}

// SupportsPartialDecode reports whether decode can skip materializing whole
// chunks: the array-bytes codec must implement the partial-decode mixin,
// and it must be the pipeline's only codec (spec.md §4.C).
func (p *Pipeline) SupportsPartialDecode() bool {
	if len(p.aa) != 0 || len(p.bb) != 0 {
		return false
	}
	_, ok := p.ab.(codec.ArrayBytesPartialDecoder)
	return ok
}

// SupportsPartialEncode is SupportsPartialDecode's encode-side counterpart.
func (p *Pipeline) SupportsPartialEncode() bool {
	if len(p.aa) != 0 || len(p.bb) != 0 {
		return false
	}
	_, ok := p.ab.(codec.ArrayBytesPartialEncoder)
	return ok
}

// stage pairs a codec with the ArraySpec batch it sees: the spec each item
// is in BEFORE that codec's ResolveMetadata is applied, matching
// batched_pipeline.py's aa_codecs_with_spec / bb_codecs_with_spec pairing.
// Only DecodeBatched consumes these stages; EncodeBatched does not reuse
// them and recomputes the same per-stage specs inline, applying each
// codec's ResolveMetadata in the same order.
type aaStage struct {
	codec codec.ArrayArrayCodec
	specs []zc.ArraySpec
}
type bbStage struct {
	codec codec.BytesBytesCodec
	specs []zc.ArraySpec
}

// codecsWithResolvedSpecs threads chunkSpecs forward through every codec in
// order, recording at each stage the specs that stage's codec actually
// sees (i.e. before its own resolve), and returns the AB stage's own specs
// alongside. Port of _codecs_with_resolved_metadata_batched.
func (p *Pipeline) codecsWithResolvedSpecs(chunkSpecs []zc.ArraySpec) ([]aaStage, []zc.ArraySpec, []bbStage) {
	aaStages := make([]aaStage, 0, len(p.aa))
	specs := chunkSpecs
	for _, c := range p.aa {
		aaStages = append(aaStages, aaStage{codec: c, specs: specs})
		next := make([]zc.ArraySpec, len(specs))
		for i, s := range specs {
			next[i] = c.ResolveMetadata(s)
		}
		specs = next
	}

	abSpecs := specs
	next := make([]zc.ArraySpec, len(specs))
	for i, s := range specs {
		next[i] = p.ab.ResolveMetadata(s)
	}
	specs = next

	bbStages := make([]bbStage, 0, len(p.bb))
	for _, c := range p.bb {
		bbStages = append(bbStages, bbStage{codec: c, specs: specs})
		next := make([]zc.ArraySpec, len(specs))
		for i, s := range specs {
			next[i] = c.ResolveMetadata(s)
		}
		specs = next
	}

	return aaStages, abSpecs, bbStages
}

// DecodeBatched reverses the full codec chain: BB suffix (in reverse), then
// AB, then AA prefix (in reverse). A nil entry at any stage means "absent
// chunk" and stays nil through the remaining stages.
func (p *Pipeline) DecodeBatched(ctx context.Context, chunkBytes [][]byte, chunkSpecs []zc.ArraySpec) ([]*zc.NDArray, error) {
	aaStages, abSpecs, bbStages := p.codecsWithResolvedSpecs(chunkSpecs)

	bytesBatch := chunkBytes
	for i := len(bbStages) - 1; i >= 0; i-- {
		items := make([]codec.BytesSpecPair, len(bytesBatch))
		for j, b := range bytesBatch {
			items[j] = codec.BytesSpecPair{Bytes: b, Spec: bbStages[i].specs[j]}
		}
		out, err := bbStages[i].codec.DecodeBatch(ctx, items)
		if err != nil {
			return nil, err
		}
		bytesBatch = out
	}

	abItems := make([]codec.BytesSpecPair, len(bytesBatch))
	for j, b := range bytesBatch {
		abItems[j] = codec.BytesSpecPair{Bytes: b, Spec: abSpecs[j]}
	}
	arrayBatch, err := p.ab.DecodeBatch(ctx, abItems)
	if err != nil {
		return nil, err
	}

	for i := len(aaStages) - 1; i >= 0; i-- {
		items := make([]codec.ArraySpecPair, len(arrayBatch))
		for j, a := range arrayBatch {
			items[j] = codec.ArraySpecPair{Array: a, Spec: aaStages[i].specs[j]}
		}
		out, err := aaStages[i].codec.DecodeBatch(ctx, items)
		if err != nil {
			return nil, err
		}
		arrayBatch = out
	}
	return arrayBatch, nil
}

// EncodeBatched runs the full codec chain forward: AA prefix, then AB, then
// BB suffix. A nil array at any stage means "elided, absent chunk" and
// stays nil through encoding; every codec here must accept nil by producing
// nil (spec.md §4.C step 2e).
func (p *Pipeline) EncodeBatched(ctx context.Context, chunkArrays []*zc.NDArray, chunkSpecs []zc.ArraySpec) ([][]byte, error) {
	specs := chunkSpecs
	arrayBatch := chunkArrays
	for _, c := range p.aa {
		items := make([]codec.ArraySpecPair, len(arrayBatch))
		for j, a := range arrayBatch {
			items[j] = codec.ArraySpecPair{Array: a, Spec: specs[j]}
		}
		out, err := c.EncodeBatch(ctx, items)
		if err != nil {
			return nil, err
		}
		arrayBatch = out
		next := make([]zc.ArraySpec, len(specs))
		for i, s := range specs {
			next[i] = c.ResolveMetadata(s)
		}
		specs = next
	}

	abItems := make([]codec.ArraySpecPair, len(arrayBatch))
	for j, a := range arrayBatch {
		abItems[j] = codec.ArraySpecPair{Array: a, Spec: specs[j]}
	}
	bytesBatch, err := p.ab.EncodeBatch(ctx, abItems)
	if err != nil {
		return nil, err
	}
	next := make([]zc.ArraySpec, len(specs))
	for i, s := range specs {
		next[i] = p.ab.ResolveMetadata(s)
	}
	specs = next

	for _, c := range p.bb {
		items := make([]codec.BytesSpecPair, len(bytesBatch))
		for j, b := range bytesBatch {
			items[j] = codec.BytesSpecPair{Bytes: b, Spec: specs[j]}
		}
		out, err := c.EncodeBatch(ctx, items)
		if err != nil {
			return nil, err
		}
		bytesBatch = out
		next := make([]zc.ArraySpec, len(specs))
		for i, s := range specs {
			next[i] = c.ResolveMetadata(s)
		}
		specs = next
	}
	return bytesBatch, nil
}

// ComputeEncodedSize predicts the encoded byte length of an input of
// byteLength bytes at spec, threading spec through every codec's
// ResolveMetadata in order.
func (p *Pipeline) ComputeEncodedSize(byteLength int, spec zc.ArraySpec) int {
	for _, c := range p.aa {
		byteLength = c.ComputeEncodedSize(byteLength, spec)
		spec = c.ResolveMetadata(spec)
	}
	byteLength = p.ab.ComputeEncodedSize(byteLength, spec)
	spec = p.ab.ResolveMetadata(spec)
	for _, c := range p.bb {
		byteLength = c.ComputeEncodedSize(byteLength, spec)
		spec = c.ResolveMetadata(spec)
	}
	return byteLength
}

// ReadBatched is spec.md §4.C's read_batched: the partial-decode fast path
// when available, else a full get+decode of every chunk followed by a
// slice-and-place into out.
func (p *Pipeline) ReadBatched(ctx context.Context, batchInfo []BatchItem, out *zc.NDArray, rt zc.RuntimeConfiguration) error {
	if p.SupportsPartialDecode() {
		pd := p.ab.(codec.ArrayBytesPartialDecoder)
		items := make([]codec.PartialDecodeItem, len(batchInfo))
		for i, b := range batchInfo {
			items[i] = codec.PartialDecodeItem{Path: b.Path, Selection: b.ChunkSelection, Spec: b.ChunkSpec}
		}
		arrays, err := pd.DecodePartialBatch(ctx, items)
		if err != nil {
			return err
		}
		for i, a := range arrays {
			if err := placeOrFill(out, batchInfo[i].OutSelection, a, batchInfo[i].ChunkSpec); err != nil {
				return err
			}
		}
		return nil
	}

	chunkBytes, err := concurrency.Map(ctx, batchInfo, rt.Concurrency, func(ctx context.Context, b BatchItem) ([]byte, error) {
		return b.Path.Get(ctx)
	})
	if err != nil {
		return err
	}

	specs := make([]zc.ArraySpec, len(batchInfo))
	for i, b := range batchInfo {
		specs[i] = b.ChunkSpec
	}
	arrays, err := p.DecodeBatched(ctx, chunkBytes, specs)
	if err != nil {
		return err
	}

	for i, a := range arrays {
		b := batchInfo[i]
		if a == nil {
			if err := placeOrFill(out, b.OutSelection, nil, b.ChunkSpec); err != nil {
				return err
			}
			continue
		}
		sliced := &zc.NDArray{Shape: zc.Shape(b.ChunkSelection.Shape()), DType: a.DType, Order: a.Order, Data: make([]byte, zc.Size(b.ChunkSelection.Shape())*a.DType.ItemSize())}
		if err := zc.CopyRegion(sliced, fullSelection(sliced.Shape), a, b.ChunkSelection); err != nil {
			return err
		}
		if err := placeOrFill(out, b.OutSelection, sliced, b.ChunkSpec); err != nil {
			return err
		}
	}
	return nil
}

func placeOrFill(out *zc.NDArray, outSel zc.SliceSelection, a *zc.NDArray, spec zc.ArraySpec) error {
	if a == nil {
		filled, err := zc.NewFilledNDArray(zc.ArraySpec{Shape: zc.Shape(outSel.Shape()), DType: out.DType, Order: out.Order, FillValue: spec.FillValue})
		if err != nil {
			return err
		}
		return zc.CopyRegion(out, outSel, filled, fullSelection(filled.Shape))
	}
	return zc.CopyRegion(out, outSel, a, fullSelection(a.Shape))
}

func fullSelection(shape []int) zc.SliceSelection {
	sel := make(zc.SliceSelection, len(shape))
	for i, d := range shape {
		sel[i] = zc.Range{Start: 0, Stop: d}
	}
	return sel
}

// WriteBatched is spec.md §4.C's write_batched: the partial-encode fast
// path when available, else the full read-modify-write: conditional get,
// decode, merge, fill-elide, encode, conditional set/delete.
func (p *Pipeline) WriteBatched(ctx context.Context, batchInfo []BatchItem, value *zc.NDArray, rt zc.RuntimeConfiguration) error {
	if p.SupportsPartialEncode() {
		pe := p.ab.(codec.ArrayBytesPartialEncoder)
		items := make([]codec.PartialEncodeItem, len(batchInfo))
		for i, b := range batchInfo {
			slice, err := extractRegion(value, b.OutSelection)
			if err != nil {
				return err
			}
			items[i] = codec.PartialEncodeItem{Path: b.Path, Array: slice, Selection: b.ChunkSelection, Spec: b.ChunkSpec}
		}
		return pe.EncodePartialBatch(ctx, items)
	}

	type fetchItem struct {
		path  store.Path
		fetch bool
	}
	fetchItems := make([]fetchItem, len(batchInfo))
	for i, b := range batchInfo {
		fetchItems[i] = fetchItem{path: b.Path, fetch: !indexing.IsTotalSlice(b.ChunkSelection, b.ChunkSpec.Shape)}
	}
	chunkBytes, err := concurrency.Map(ctx, fetchItems, rt.Concurrency, func(ctx context.Context, it fetchItem) ([]byte, error) {
		if !it.fetch {
			return nil, nil
		}
		return it.path.Get(ctx)
	})
	if err != nil {
		return err
	}

	specs := make([]zc.ArraySpec, len(batchInfo))
	for i, b := range batchInfo {
		specs[i] = b.ChunkSpec
	}
	existing, err := p.DecodeBatched(ctx, chunkBytes, specs)
	if err != nil {
		return err
	}

	merged := make([]*zc.NDArray, len(batchInfo))
	for i, b := range batchInfo {
		newSlice, err := extractRegion(value, b.OutSelection)
		if err != nil {
			return err
		}
		m, err := mergeChunk(existing[i], newSlice, b.ChunkSpec, b.ChunkSelection)
		if err != nil {
			return err
		}
		merged[i] = m
	}

	for i, b := range batchInfo {
		if merged[i] == nil {
			continue
		}
		allFill, err := merged[i].AllFillValue(b.ChunkSpec.FillValue)
		if err != nil {
			return err
		}
		if allFill {
			merged[i] = nil
		}
	}

	encoded, err := p.EncodeBatched(ctx, merged, specs)
	if err != nil {
		return err
	}

	type writeItem struct {
		path  store.Path
		bytes []byte
	}
	writeItems := make([]writeItem, len(batchInfo))
	for i, b := range batchInfo {
		writeItems[i] = writeItem{path: b.Path, bytes: encoded[i]}
	}
	_, err = concurrency.Map(ctx, writeItems, rt.Concurrency, func(ctx context.Context, it writeItem) (struct{}, error) {
		if it.bytes == nil {
			return struct{}{}, it.path.Delete(ctx)
		}
		return struct{}{}, it.path.Set(ctx, it.bytes)
	})
	return err
}

// extractRegion returns value[sel] as a standalone NDArray.
func extractRegion(value *zc.NDArray, sel zc.SliceSelection) (*zc.NDArray, error) {
	shape := zc.Shape(sel.Shape())
	out := &zc.NDArray{Shape: shape, DType: value.DType, Order: value.Order, Data: make([]byte, zc.Size(shape)*value.DType.ItemSize())}
	if err := zc.CopyRegion(out, fullSelection(shape), value, sel); err != nil {
		return nil, err
	}
	return out, nil
}

// mergeChunk implements spec.md §4.C step 2c.
func mergeChunk(existing *zc.NDArray, newSlice *zc.NDArray, spec zc.ArraySpec, chunkSelection zc.SliceSelection) (*zc.NDArray, error) {
	if indexing.IsTotalSlice(chunkSelection, spec.Shape) {
		return newSlice, nil
	}
	var chunkArray *zc.NDArray
	if existing == nil {
		filled, err := zc.NewFilledNDArray(spec)
		if err != nil {
			return nil, err
		}
		chunkArray = filled
	} else {
		chunkArray = existing.Clone()
	}
	if err := zc.CopyRegion(chunkArray, chunkSelection, newSlice, fullSelection(newSlice.Shape)); err != nil {
		return nil, err
	}
	return chunkArray, nil
}
