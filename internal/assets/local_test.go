package assets

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreSaveOpenDelete(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "media/photo.png", strings.NewReader("png-bytes")))

	rc, mime, err := store.Open(ctx, "media/photo.png")
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, "image/png", mime)
	blob, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(blob))

	require.NoError(t, store.Delete(ctx, "media/photo.png"))
	_, _, err = store.Open(ctx, "media/photo.png")
	assert.Error(t, err)
	assert.Error(t, store.Delete(ctx, "media/photo.png"))
}

func TestLocalStoreMimeTypes(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	cases := map[string]string{
		"media/a.jpg":  "image/jpeg",
		"media/b.webp": "image/webp",
		"media/c.mp4":  "video/mp4",
	}
	for path, want := range cases {
		require.NoError(t, store.Save(ctx, path, strings.NewReader("x")))
		rc, mime, err := store.Open(ctx, path)
		require.NoError(t, err)
		rc.Close()
		assert.Equal(t, want, mime, path)
	}
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, path := range []string{"../outside.txt", "media/../../outside.txt", ".."} {
		err := store.Save(ctx, path, strings.NewReader("x"))
		assert.Error(t, err, "path %q must be rejected", path)
		_, _, err = store.Open(ctx, path)
		assert.Error(t, err, "path %q must be rejected", path)
	}
}
