package codec

import (
	"context"
	"encoding/json"
	"fmt"

	zc "github.com/TuSKan/zarrcore"
)

// transposeConfig names the permutation of axes to apply, e.g. [1, 0] to
// swap the two axes of a matrix. An empty order reverses all axes, the
// conventional meaning of a bare "transpose".
type transposeConfig struct {
	Order []int `json:"order"`
}

// TransposeCodec is an array-array codec that permutes axis order without
// touching dtype — the AA counterpart to the teacher's Metadata.Order field
// (zarr/metadata.go's "C"/"F" order), generalized from a memory-order flag
// to an arbitrary axis permutation the way zarr-python's TransposeCodec
// works.
type TransposeCodec struct {
	order []int // order[i] = which input axis becomes output axis i
}

func newTransposeCodec(config []byte) (Codec, error) {
	var cfg transposeConfig
	if len(config) > 0 {
		if err := json.Unmarshal(config, &cfg); err != nil {
			return nil, fmt.Errorf("%w: transpose codec config: %v", zc.ErrMalformedMetadata, err)
		}
	}
	return &TransposeCodec{order: cfg.Order}, nil
}

func (c *TransposeCodec) resolvedOrder(rank int) []int {
	if len(c.order) == rank {
		return c.order
	}
	order := make([]int, rank)
	for i := range order {
		order[i] = rank - 1 - i
	}
	return order
}

func (c *TransposeCodec) ResolveMetadata(spec zc.ArraySpec) zc.ArraySpec {
	order := c.resolvedOrder(len(spec.Shape))
	shape := make(zc.Shape, len(spec.Shape))
	for i, axis := range order {
		shape[i] = spec.Shape[axis]
	}
	return spec.WithShape(shape)
}

func (c *TransposeCodec) ComputeEncodedSize(inputSize int, spec zc.ArraySpec) int { return inputSize }

func (c *TransposeCodec) DecodeBatch(ctx context.Context, items []ArraySpecPair) ([]*zc.NDArray, error) {
	out := make([]*zc.NDArray, len(items))
	for i, it := range items {
		if it.Array == nil {
			out[i] = nil
			continue
		}
		order := c.resolvedOrder(len(it.Spec.Shape))
		inverse := make([]int, len(order))
		for outAxis, inAxis := range order {
			inverse[inAxis] = outAxis
		}
		out[i] = permuteAxes(it.Array, it.Spec.Shape, inverse)
	}
	return out, nil
}

func (c *TransposeCodec) EncodeBatch(ctx context.Context, items []ArraySpecPair) ([]*zc.NDArray, error) {
	out := make([]*zc.NDArray, len(items))
	for i, it := range items {
		if it.Array == nil {
			out[i] = nil
			continue
		}
		order := c.resolvedOrder(len(it.Spec.Shape))
		out[i] = permuteAxes(it.Array, zc.Shape(permuteShape(it.Spec.Shape, order)), order)
	}
	return out, nil
}

func permuteShape(shape zc.Shape, order []int) zc.Shape {
	out := make(zc.Shape, len(shape))
	for i, axis := range order {
		out[i] = shape[axis]
	}
	return out
}

// permuteAxes reinterprets src (whose own shape is src.Shape) as having
// dstShape, populating each output position dst[o] from src[applyOrder(o)],
// where applyOrder maps an output coordinate vector to the input coordinate
// vector it was permuted from: inCoord[order[i]] = outCoord[i].
func permuteAxes(src *zc.NDArray, dstShape zc.Shape, order []int) *zc.NDArray {
	itemSize := src.DType.ItemSize()
	dst := &zc.NDArray{Shape: dstShape, DType: src.DType, Order: src.Order, Data: make([]byte, len(src.Data))}
	srcStrides := zc.Strides(src.Shape, src.Order)
	dstStrides := zc.Strides(dstShape, dst.Order)
	n := len(dstShape)
	if n == 0 {
		copy(dst.Data, src.Data)
		return dst
	}
	outCoord := make([]int, n)
	inCoord := make([]int, n)
	var walk func(dim int)
	walk = func(dim int) {
		if dim == n {
			for i := 0; i < n; i++ {
				inCoord[order[i]] = outCoord[i]
			}
			srcOff, dstOff := 0, 0
			for a := 0; a < n; a++ {
				srcOff += inCoord[a] * srcStrides[a]
				dstOff += outCoord[a] * dstStrides[a]
			}
			copy(dst.Data[dstOff*itemSize:(dstOff+1)*itemSize], src.Data[srcOff*itemSize:(srcOff+1)*itemSize])
			return
		}
		for i := 0; i < dstShape[dim]; i++ {
			outCoord[dim] = i
			walk(dim + 1)
		}
	}
	walk(0)
	return dst
}
