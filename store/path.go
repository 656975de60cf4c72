// Package store provides the hierarchical key abstraction (spec.md §4.F,
// §6 "Store contract") chunk and metadata I/O is addressed through. It wraps
// a gocloud.dev/blob.Bucket exactly the way the teacher's Reader and Dataset
// do (reader.go, zarr/dataset.go): open a bucket URL once, then NewReader /
// WriteAll / Delete / gcerrors.Code against keys relative to it.
package store

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	zc "github.com/TuSKan/zarrcore"
)

// Path is an opaque handle to one key within a store: a bucket plus a
// prefix. Composition by Join mirrors spec.md §3's "/"-append semantics.
type Path struct {
	bucket *blob.Bucket
	key    string
}

// OpenBucket opens the store backing urlstr (e.g. "file:///tmp/arr",
// "s3://bucket", "mem://") via gocloud.dev/blob, matching the teacher's
// NewReader/NewDataset construction.
func OpenBucket(ctx context.Context, urlstr string) (*blob.Bucket, error) {
	b, err := blob.OpenBucket(ctx, urlstr)
	if err != nil {
		return nil, fmt.Errorf("%w: open bucket %q: %v", zc.ErrStoreError, urlstr, err)
	}
	return b, nil
}

// NewPath builds a Path rooted at prefix within bucket.
func NewPath(bucket *blob.Bucket, prefix string) Path {
	return Path{bucket: bucket, key: strings.TrimSuffix(prefix, "/")}
}

// Join appends a relative segment, composing keys the way the array engine
// composes a chunk key onto its store_path (spec.md §3).
func (p Path) Join(rel string) Path {
	if p.key == "" {
		return Path{bucket: p.bucket, key: rel}
	}
	return Path{bucket: p.bucket, key: p.key + "/" + rel}
}

// Key returns the path's full key string.
func (p Path) Key() string { return p.key }

// Bucket returns the backing bucket, so callers can derive sibling Paths.
func (p Path) Bucket() *blob.Bucket { return p.bucket }

// Get returns the bytes stored at p, or (nil, nil) if the key is absent —
// spec.md §6: "get of an absent key returns the absent sentinel (not an
// error)". Modeled directly on reader.go's gcerrors.Code(err)==NotFound
// handling.
func (p Path) Get(ctx context.Context) ([]byte, error) {
	r, err := p.bucket.NewReader(ctx, p.key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get %q: %v", zc.ErrStoreError, p.key, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read %q: %v", zc.ErrStoreError, p.key, err)
	}
	return data, nil
}

// Set writes data at p, replacing any existing value.
func (p Path) Set(ctx context.Context, data []byte) error {
	if err := p.bucket.WriteAll(ctx, p.key, data, nil); err != nil {
		return fmt.Errorf("%w: set %q: %v", zc.ErrStoreError, p.key, err)
	}
	return nil
}

// Delete removes the value at p. Deleting an absent key is a no-op, not an
// error, per spec.md §6.
func (p Path) Delete(ctx context.Context) error {
	err := p.bucket.Delete(ctx, p.key)
	if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return fmt.Errorf("%w: delete %q: %v", zc.ErrStoreError, p.key, err)
	}
	return nil
}

// Exists reports whether a value is present at p.
func (p Path) Exists(ctx context.Context) (bool, error) {
	ok, err := p.bucket.Exists(ctx, p.key)
	if err != nil {
		return false, fmt.Errorf("%w: exists %q: %v", zc.ErrStoreError, p.key, err)
	}
	return ok, nil
}
