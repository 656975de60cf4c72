package array

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gomlx/gomlx/pkg/core/tensors"

	zc "github.com/TuSKan/zarrcore"
)

// GetItemTensor reads sel and materializes it as a gomlx tensor, the same
// float32/int32/int64 switch the teacher's Dataset.NextBatch performs when
// converting a decoded chunk buffer into a *tensors.Tensor
// (zarr/dataset.go). Other dtypes return ErrUnsupported; convert via
// GetItem and a caller-side cast instead.
func (a *Array) GetItemTensor(ctx context.Context, sel zc.Selection) (*tensors.Tensor, error) {
	nd, err := a.GetItem(ctx, sel)
	if err != nil {
		return nil, err
	}
	return toTensor(nd)
}

func toTensor(nd *zc.NDArray) (*tensors.Tensor, error) {
	shape := []int(nd.Shape)
	switch nd.DType {
	case zc.Float32:
		return tensors.FromFlatDataAndDimensions(decodeFloat32s(nd.Data), shape...), nil
	case zc.Int32:
		return tensors.FromFlatDataAndDimensions(decodeInt32s(nd.Data), shape...), nil
	case zc.Int64:
		return tensors.FromFlatDataAndDimensions(decodeInt64s(nd.Data), shape...), nil
	default:
		return nil, fmt.Errorf("%w: tensor conversion only supports float32/int32/int64, got %s", zc.ErrUnsupported, nd.DType)
	}
}

func decodeFloat32s(data []byte) []float32 {
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out
}

func decodeInt32s(data []byte) []int32 {
	out := make([]int32, len(data)/4)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out
}

func decodeInt64s(data []byte) []int64 {
	out := make([]int64, len(data)/8)
	for i := range out {
		out[i] = int64(binary.LittleEndian.Uint64(data[i*8:]))
	}
	return out
}
