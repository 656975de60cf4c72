package zarrcore

// MemoryOrder is the in-memory layout of a buffer: row-major ("C") or
// column-major ("F").
type MemoryOrder string

const (
	OrderC MemoryOrder = "C"
	OrderF MemoryOrder = "F"
)

// ArraySpec is the per-chunk view codecs operate against: shape of this
// chunk, element dtype, fill value, and memory order. It is derived from
// ArrayMetadata plus a ChunkCoord and carries no reference back to the
// metadata that produced it, which is what keeps the codec contract free of
// the cycle spec.md §9 calls out (codecs never see the full metadata).
type ArraySpec struct {
	Shape     Shape
	DType     DType
	FillValue any
	Order     MemoryOrder
}

// WithShape returns a copy of s with Shape replaced, used by codecs whose
// ResolveMetadata changes the downstream shape (e.g. a transpose).
func (s ArraySpec) WithShape(shape Shape) ArraySpec {
	s.Shape = shape
	return s
}

// WithDType returns a copy of s with DType replaced.
func (s ArraySpec) WithDType(d DType) ArraySpec {
	s.DType = d
	return s
}

// WithOrder returns a copy of s with Order replaced.
func (s ArraySpec) WithOrder(o MemoryOrder) ArraySpec {
	s.Order = o
	return s
}
