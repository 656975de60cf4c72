package zarrcore

import (
	"encoding/json"
	"fmt"
)

// ZarrJSON is the well-known metadata key every array is persisted under,
// per spec.md §6.
const ZarrJSON = "zarr.json"

// ChunkGridConfig is the "regular" chunk grid's configuration: a single
// ChunkShape (spec.md §3 only defines the regular grid).
type ChunkGridConfig struct {
	ChunkShape ChunkShape `json:"chunk_shape"`
}

// ChunkGrid is the tagged {name, configuration} chunk grid document.
type ChunkGrid struct {
	Name          string          `json:"name"`
	Configuration ChunkGridConfig `json:"configuration"`
}

// ChunkKeyEncodingConfig names the separator used by a chunk key encoding.
type ChunkKeyEncodingConfig struct {
	Separator string `json:"separator"`
}

// ChunkKeyEncodingDoc is the tagged {name, configuration} chunk key encoding
// document.
type ChunkKeyEncodingDoc struct {
	Name          string                 `json:"name"`
	Configuration ChunkKeyEncodingConfig `json:"configuration"`
}

// Encoding constructs the ChunkKeyEncoding this document describes.
func (d ChunkKeyEncodingDoc) Encoding() (ChunkKeyEncoding, error) {
	sep := d.Configuration.Separator
	if sep != "." && sep != "/" {
		return nil, fmt.Errorf("%w: chunk_key_encoding separator must be \".\" or \"/\", got %q", ErrMalformedMetadata, sep)
	}
	switch d.Name {
	case "default", "":
		return DefaultChunkKeyEncoding{Sep: sep}, nil
	case "v2":
		return V2ChunkKeyEncoding{Sep: sep}, nil
	default:
		return nil, fmt.Errorf("%w: unknown chunk_key_encoding %q", ErrMalformedMetadata, d.Name)
	}
}

// CodecConfig is one entry of the metadata's ordered codec list: a name and
// an opaque, codec-specific configuration object. Keeping codec
// configuration opaque here (rather than a concrete union type) is what
// avoids the cyclic reference spec.md §9 warns about: metadata owns a list
// of names+configs, nothing here imports the codec package.
type CodecConfig struct {
	Name          string          `json:"name"`
	Configuration json.RawMessage `json:"configuration,omitempty"`
}

// ArrayMetadata is the immutable, per-version document persisted at
// ZarrJSON under an array's prefix (spec.md §3, §6).
type ArrayMetadata struct {
	Shape            Shape               `json:"shape"`
	DataType         string              `json:"data_type"`
	ChunkGrid        ChunkGrid           `json:"chunk_grid"`
	ChunkKeyEncoding ChunkKeyEncodingDoc `json:"chunk_key_encoding"`
	FillValue        any                 `json:"fill_value"`
	Codecs           []CodecConfig       `json:"codecs"`
	DimensionNames   []string            `json:"dimension_names,omitempty"`
	Attributes       map[string]any      `json:"attributes"`
}

// Validate checks the invariants from spec.md §3: the chunk grid's arity
// matches the shape's arity. (The "exactly one array-bytes codec" invariant
// is checked once the codec list is resolved against a registry, which is a
// codec-package concern — see pipeline.New and codec.Build.)
func (m ArrayMetadata) Validate() error {
	if m.ChunkGrid.Name != "regular" && m.ChunkGrid.Name != "" {
		return fmt.Errorf("%w: non-regular chunk grid %q", ErrUnsupported, m.ChunkGrid.Name)
	}
	if len(m.ChunkGrid.Configuration.ChunkShape) != len(m.Shape) {
		return fmt.Errorf("%w: chunk grid arity %d does not match shape arity %d",
			ErrMalformedMetadata, len(m.ChunkGrid.Configuration.ChunkShape), len(m.Shape))
	}
	for i, d := range m.Shape {
		if d <= 0 {
			return fmt.Errorf("%w: shape dimension %d must be positive, got %d", ErrMalformedMetadata, i, d)
		}
	}
	for i, d := range m.ChunkGrid.Configuration.ChunkShape {
		if d <= 0 {
			return fmt.Errorf("%w: chunk shape dimension %d must be positive, got %d", ErrMalformedMetadata, i, d)
		}
	}
	return nil
}

// ChunkShapeOf returns the regular chunk grid's chunk shape.
func (m ArrayMetadata) ChunkShapeOf() ChunkShape {
	return m.ChunkGrid.Configuration.ChunkShape
}

// DType parses the metadata's data_type field.
func (m ArrayMetadata) DType() (DType, error) {
	return ParseDType(m.DataType)
}

// GetChunkSpec derives the ArraySpec for the chunk at coord: chunks at the
// trailing edge get the full configured chunk shape (not truncated) per
// spec.md §3 — the indexer is solely responsible for covering the partial
// logical region.
func (m ArrayMetadata) GetChunkSpec(coord ChunkCoord, order MemoryOrder) (ArraySpec, error) {
	dtype, err := m.DType()
	if err != nil {
		return ArraySpec{}, err
	}
	return ArraySpec{
		Shape:     Shape(append(ChunkShape(nil), m.ChunkShapeOf()...)),
		DType:     dtype,
		FillValue: m.FillValue,
		Order:     order,
	}, nil
}

// ToBytes serializes m as the zarr.json document bytes.
func (m ArrayMetadata) ToBytes() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// MetadataFromBytes parses a persisted zarr.json document.
func MetadataFromBytes(data []byte) (ArrayMetadata, error) {
	var m ArrayMetadata
	if err := json.Unmarshal(data, &m); err != nil {
		return ArrayMetadata{}, fmt.Errorf("%w: %v", ErrMalformedMetadata, err)
	}
	if err := m.Validate(); err != nil {
		return ArrayMetadata{}, err
	}
	return m, nil
}
