// Package array implements the public array engine of spec.md §4.E: opening
// and creating arrays, GetItem/SetItem selection I/O routed through the
// indexer and codec pipeline, resize, and attribute updates. It collapses
// the original's AsyncArray/Array split into one type, per spec.md §9's
// design note that a Go caller has no need for a separate executor handle —
// every exported method here is already synchronous from the caller's point
// of view, the same shape the teacher's Dataset and Reader types present in
// zarr/dataset.go and reader.go.
package array

import (
	"context"
	"fmt"

	"gocloud.dev/blob"

	"github.com/TuSKan/zarrcore/codec"
	"github.com/TuSKan/zarrcore/indexing"
	"github.com/TuSKan/zarrcore/pipeline"
	"github.com/TuSKan/zarrcore/store"

	zc "github.com/TuSKan/zarrcore"
)

// Array is a handle on one stored array: its metadata, the store path its
// chunks and zarr.json live under, the codec pipeline built from its codec
// list, and the runtime options governing its I/O.
type Array struct {
	path     store.Path
	metadata zc.ArrayMetadata
	chunkKey zc.ChunkKeyEncoding
	pipeline *pipeline.Pipeline
	runtime  zc.RuntimeConfiguration
}

// Create writes a new zarr.json at path and returns the Array opened
// against it. It fails with ErrConflict if a document already exists there,
// matching the teacher's "don't clobber" stance on dataset construction;
// there is no option to overwrite an existing document. A nil
// spec.FillValue is replaced by the dtype's DefaultFillValue.
func Create(ctx context.Context, path store.Path, spec zc.ArraySpec, chunkShape zc.ChunkShape, opts ...Option) (*Array, error) {
	if exists, err := path.Join(zc.ZarrJSON).Exists(ctx); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("%w: zarr.json already exists at %q", zc.ErrConflict, path.Join(zc.ZarrJSON).Key())
	}

	cfg := newConfig(opts)

	fillValue := spec.FillValue
	if fillValue == nil {
		fillValue = spec.DType.DefaultFillValue()
	}
	m := zc.ArrayMetadata{
		Shape: spec.Shape,
		ChunkGrid: zc.ChunkGrid{
			Name:          "regular",
			Configuration: zc.ChunkGridConfig{ChunkShape: chunkShape},
		},
		ChunkKeyEncoding: cfg.chunkKeyEncoding,
		FillValue:        fillValue,
		Codecs:           cfg.codecs,
		DimensionNames:   cfg.dimensionNames,
		Attributes:       cfg.attributes,
	}
	dtypeName, err := dtypeDocName(spec.DType)
	if err != nil {
		return nil, err
	}
	m.DataType = dtypeName
	if err := m.Validate(); err != nil {
		return nil, err
	}

	data, err := m.ToBytes()
	if err != nil {
		return nil, err
	}
	if err := path.Join(zc.ZarrJSON).Set(ctx, data); err != nil {
		return nil, err
	}
	return openWith(path, m, cfg.registry, cfg.runtime)
}

// Open loads an existing array's metadata from path/zarr.json.
func Open(ctx context.Context, path store.Path, opts ...Option) (*Array, error) {
	cfg := newConfig(opts)
	data, err := path.Join(zc.ZarrJSON).Get(ctx)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%w: no zarr.json at %q", zc.ErrStoreError, path.Join(zc.ZarrJSON).Key())
	}
	m, err := zc.MetadataFromBytes(data)
	if err != nil {
		return nil, err
	}
	return openWith(path, m, cfg.registry, cfg.runtime)
}

// OpenAuto is currently identical to Open: it fails if the v3 metadata key
// (zarr.json) is absent. It exists as a distinct entry point for a future
// v2-metadata auto-detection path, which is not yet implemented.
func OpenAuto(ctx context.Context, path store.Path, opts ...Option) (*Array, error) {
	exists, err := path.Join(zc.ZarrJSON).Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: no zarr.json at %q, v2 metadata is not supported", zc.ErrUnsupported, path.Join(zc.ZarrJSON).Key())
	}
	return Open(ctx, path, opts...)
}

// FromDict constructs an Array directly from an already-parsed metadata
// document, bypassing the store round trip — used by callers that receive
// zarr.json out of band (e.g. a consolidated-metadata listing).
func FromDict(path store.Path, m zc.ArrayMetadata, opts ...Option) (*Array, error) {
	cfg := newConfig(opts)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return openWith(path, m, cfg.registry, cfg.runtime)
}

func openWith(path store.Path, m zc.ArrayMetadata, registry codec.Registry, rt zc.RuntimeConfiguration) (*Array, error) {
	chunkKey, err := m.ChunkKeyEncoding.Encoding()
	if err != nil {
		return nil, err
	}
	pl, err := pipeline.New(registry, m.Codecs)
	if err != nil {
		return nil, err
	}
	return &Array{path: path, metadata: m, chunkKey: chunkKey, pipeline: pl, runtime: rt.Normalized()}, nil
}

func dtypeDocName(d zc.DType) (string, error) {
	if !d.Valid() {
		return "", fmt.Errorf("%w: invalid dtype %q", zc.ErrSchemaMismatch, d)
	}
	return string(d), nil
}

// Shape returns the array's current logical shape.
func (a *Array) Shape() zc.Shape { return a.metadata.Shape }

// Ndim returns the array's rank.
func (a *Array) Ndim() int { return len(a.metadata.Shape) }

// Size returns the total element count.
func (a *Array) Size() int { return zc.Size(a.metadata.Shape) }

// DType returns the array's parsed element type.
func (a *Array) DType() (zc.DType, error) { return a.metadata.DType() }

// ChunkShape returns the regular chunk grid's chunk shape.
func (a *Array) ChunkShape() zc.ChunkShape { return a.metadata.ChunkShapeOf() }

// Attributes returns the array's user attribute map.
func (a *Array) Attributes() map[string]any { return a.metadata.Attributes }

// Metadata returns a copy of the array's current metadata document.
func (a *Array) Metadata() zc.ArrayMetadata { return a.metadata }

func (a *Array) chunkPath(coord zc.ChunkCoord) store.Path {
	return a.path.Join(a.chunkKey.Encode(coord))
}

// buildBatch turns an indexer's WorkItems into pipeline.BatchItems by
// resolving each chunk's ArraySpec and store path.
func (a *Array) buildBatch(items []indexing.WorkItem, order zc.MemoryOrder) ([]pipeline.BatchItem, error) {
	out := make([]pipeline.BatchItem, len(items))
	for i, it := range items {
		chunkSpec, err := a.metadata.GetChunkSpec(it.ChunkCoord, order)
		if err != nil {
			return nil, err
		}
		out[i] = pipeline.BatchItem{
			Path:           a.chunkPath(it.ChunkCoord),
			ChunkSpec:      chunkSpec,
			ChunkSelection: it.ChunkSelection,
			OutSelection:   it.OutSelection,
		}
	}
	return out, nil
}

// GetItem reads sel out of the array, returning a freshly allocated buffer
// in the runtime's configured memory order. A fully-index selection (every
// dimension an integer) returns a 0-d array holding the single element.
func (a *Array) GetItem(ctx context.Context, sel zc.Selection) (*zc.NDArray, error) {
	idx, err := indexing.NewBasicIndexer(sel, a.metadata.Shape, a.metadata.ChunkShapeOf())
	if err != nil {
		return nil, err
	}
	dtype, err := a.metadata.DType()
	if err != nil {
		return nil, err
	}
	order := a.runtime.Order

	full := zc.NewNDArray(zc.ArraySpec{Shape: idx.FullShape(), DType: dtype, Order: order})
	items := idx.Items()
	batch, err := a.buildBatch(items, order)
	if err != nil {
		return nil, err
	}
	if err := a.pipeline.ReadBatched(ctx, batch, full, a.runtime); err != nil {
		return nil, err
	}
	return full.Squeeze(idx.SqueezeMask()), nil
}

// SetItem writes value into the region described by sel. value's shape must
// equal the selection's squeezed output shape.
func (a *Array) SetItem(ctx context.Context, sel zc.Selection, value *zc.NDArray) error {
	idx, err := indexing.NewBasicIndexer(sel, a.metadata.Shape, a.metadata.ChunkShapeOf())
	if err != nil {
		return err
	}
	want := idx.Shape()
	if !shapeEqual(want, value.Shape) {
		return fmt.Errorf("%w: value shape %v does not match selection shape %v", zc.ErrSchemaMismatch, value.Shape, want)
	}

	unsqueezed := unsqueezeShape(idx.FullShape(), idx.SqueezeMask(), value)

	items := idx.Items()
	batch, err := a.buildBatch(items, a.runtime.Order)
	if err != nil {
		return err
	}
	return a.pipeline.WriteBatched(ctx, batch, unsqueezed, a.runtime)
}

func shapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// unsqueezeShape reinterprets value (shaped per the caller-visible squeezed
// shape) as a view over fullShape, re-inserting the length-1 index
// dimensions the indexer dropped. It never copies: see NDArray.Squeeze.
func unsqueezeShape(fullShape zc.Shape, squeeze []bool, value *zc.NDArray) *zc.NDArray {
	return &zc.NDArray{Shape: append(zc.Shape(nil), fullShape...), DType: value.DType, Order: value.Order, Data: value.Data}
}

// Resize persists a metadata document with newShape and deletes chunks that
// fall entirely outside it on any shrunk dimension, returning a new Array
// instance carrying the replaced metadata. The receiver is left untouched,
// so a reader sharing it never observes a shape change mid-read.
func (a *Array) Resize(ctx context.Context, newShape zc.Shape) (*Array, error) {
	if len(newShape) != len(a.metadata.Shape) {
		return nil, fmt.Errorf("%w: resize rank %d does not match array rank %d", zc.ErrSchemaMismatch, len(newShape), len(a.metadata.Shape))
	}
	for _, d := range newShape {
		if d <= 0 {
			return nil, fmt.Errorf("%w: resize dimension must be positive, got %d", zc.ErrSchemaMismatch, d)
		}
	}

	oldShape := a.metadata.Shape
	chunkShape := a.metadata.ChunkShapeOf()

	updated := a.metadata
	updated.Shape = newShape
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	data, err := updated.ToBytes()
	if err != nil {
		return nil, err
	}
	if err := a.path.Join(zc.ZarrJSON).Set(ctx, data); err != nil {
		return nil, err
	}

	shrunk := false
	for i := range newShape {
		if newShape[i] < oldShape[i] {
			shrunk = true
		}
	}
	if shrunk {
		for _, coord := range indexing.AllChunkCoords(oldShape, chunkShape) {
			if chunkEntirelyOutside(coord, chunkShape, newShape) {
				if err := a.chunkPath(coord).Delete(ctx); err != nil {
					return nil, err
				}
			}
		}
	}

	return &Array{path: a.path, metadata: updated, chunkKey: a.chunkKey, pipeline: a.pipeline, runtime: a.runtime}, nil
}

func chunkEntirelyOutside(coord zc.ChunkCoord, chunkShape zc.ChunkShape, shape zc.Shape) bool {
	for i, c := range coord {
		if c*chunkShape[i] >= shape[i] {
			return true
		}
	}
	return false
}

// UpdateAttributes persists a metadata document with attrs replacing the
// array's user attributes, returning a new Array instance carrying the
// replaced metadata. The receiver is left untouched.
func (a *Array) UpdateAttributes(ctx context.Context, attrs map[string]any) (*Array, error) {
	updated := a.metadata
	updated.Attributes = attrs
	data, err := updated.ToBytes()
	if err != nil {
		return nil, err
	}
	if err := a.path.Join(zc.ZarrJSON).Set(ctx, data); err != nil {
		return nil, err
	}
	return &Array{path: a.path, metadata: updated, chunkKey: a.chunkKey, pipeline: a.pipeline, runtime: a.runtime}, nil
}

// OpenStore is a convenience wrapper around store.OpenBucket + store.NewPath
// for callers that only have a bucket URL and a prefix, mirroring how the
// teacher's top-level constructors take a single path string.
func OpenStore(ctx context.Context, urlstr, prefix string) (store.Path, *blob.Bucket, error) {
	bucket, err := store.OpenBucket(ctx, urlstr)
	if err != nil {
		return store.Path{}, nil, err
	}
	return store.NewPath(bucket, prefix), bucket, nil
}
