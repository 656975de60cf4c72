package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	_ "gocloud.dev/blob/memblob"

	"github.com/TuSKan/zarrcore/store"
)

func TestPath_GetAbsentKeyReturnsNilNotError(t *testing.T) {
	ctx := context.Background()
	bucket, err := store.OpenBucket(ctx, "mem://")
	require.NoError(t, err)
	p := store.NewPath(bucket, "root")

	data, err := p.Join("missing").Get(ctx)
	require.NoError(t, err)
	require.Nil(t, data)
}

func TestPath_SetGetDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	bucket, err := store.OpenBucket(ctx, "mem://")
	require.NoError(t, err)
	p := store.NewPath(bucket, "root").Join("chunk")

	require.NoError(t, p.Set(ctx, []byte("hello")))
	exists, err := p.Exists(ctx)
	require.NoError(t, err)
	require.True(t, exists)

	data, err := p.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), data)

	require.NoError(t, p.Delete(ctx))
	exists, err = p.Exists(ctx)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestPath_DeleteAbsentKeyIsNotAnError(t *testing.T) {
	ctx := context.Background()
	bucket, err := store.OpenBucket(ctx, "mem://")
	require.NoError(t, err)
	p := store.NewPath(bucket, "root").Join("never-existed")
	require.NoError(t, p.Delete(ctx))
}

func TestPath_JoinComposesKeys(t *testing.T) {
	ctx := context.Background()
	bucket, err := store.OpenBucket(ctx, "mem://")
	require.NoError(t, err)
	p := store.NewPath(bucket, "root")
	require.Equal(t, "root/a/b", p.Join("a").Join("b").Key())
}
