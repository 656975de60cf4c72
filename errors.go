package zarrcore

import "errors"

// Error kinds per spec.md §7. Every package in this module wraps one of
// these with %w so callers can errors.Is against a stable sentinel while
// the wrapped message still names the offending value.
var (
	// ErrMalformedMetadata: the persisted zarr.json document does not
	// conform to the schema.
	ErrMalformedMetadata = errors.New("malformed metadata")

	// ErrSchemaMismatch: a caller-supplied selection arity or value shape
	// disagrees with the array shape or the indexer's output shape.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrCodecViolation: a codec failed to encode/decode, or the codec
	// list does not contain exactly one array-bytes codec.
	ErrCodecViolation = errors.New("codec violation")

	// ErrStoreError: an underlying get/set/delete/exists call failed for
	// a reason other than "key absent".
	ErrStoreError = errors.New("store error")

	// ErrConflict: Create found an existing zarr.json at the target path.
	ErrConflict = errors.New("object already exists")

	// ErrUnsupported: e.g. a non-regular chunk grid reached the engine.
	ErrUnsupported = errors.New("unsupported")
)
