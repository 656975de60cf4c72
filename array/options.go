package array

import (
	"github.com/TuSKan/zarrcore/codec"

	zc "github.com/TuSKan/zarrcore"
)

// config collects the options Create/Open/OpenAuto/FromDict accept, each
// with a default matching spec.md §4.E's "create" defaults.
type config struct {
	codecs           []zc.CodecConfig
	chunkKeyEncoding zc.ChunkKeyEncodingDoc
	dimensionNames   []string
	attributes       map[string]any
	registry         codec.Registry
	runtime          zc.RuntimeConfiguration
}

func newConfig(opts []Option) config {
	cfg := config{
		codecs:           codec.DefaultCodecList(),
		chunkKeyEncoding: zc.ChunkKeyEncodingDoc{Name: "default", Configuration: zc.ChunkKeyEncodingConfig{Separator: "/"}},
		attributes:       map[string]any{},
		registry:         codec.DefaultRegistry(),
		runtime:          zc.DefaultRuntimeConfiguration(),
	}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// Option configures Create/Open/OpenAuto/FromDict.
type Option func(*config)

// WithCodecs overrides the default single-"bytes"-codec list.
func WithCodecs(codecs []zc.CodecConfig) Option {
	return func(c *config) { c.codecs = codecs }
}

// WithChunkKeyEncoding overrides the default ("default", "/") chunk key
// encoding.
func WithChunkKeyEncoding(doc zc.ChunkKeyEncodingDoc) Option {
	return func(c *config) { c.chunkKeyEncoding = doc }
}

// WithDimensionNames attaches named dimensions to the array.
func WithDimensionNames(names []string) Option {
	return func(c *config) { c.dimensionNames = names }
}

// WithAttributes sets the array's initial user attributes.
func WithAttributes(attrs map[string]any) Option {
	return func(c *config) { c.attributes = attrs }
}

// WithRegistry overrides the codec registry used to build the pipeline,
// e.g. to add a caller-defined codec not in codec.DefaultRegistry.
func WithRegistry(r codec.Registry) Option {
	return func(c *config) { c.registry = r }
}

// WithRuntime overrides the runtime configuration governing I/O concurrency
// and output memory order.
func WithRuntime(rt zc.RuntimeConfiguration) Option {
	return func(c *config) { c.runtime = rt }
}
