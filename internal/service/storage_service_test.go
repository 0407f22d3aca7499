package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lshigami/mockprep/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_UploadAndDelete(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStorage(root)
	ctx := context.Background()

	key := ObjectKey("voice", 3, "webm")
	url, err := s.Upload(ctx, key, []byte("data"), "audio/webm")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/"+key, url)

	stored, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "data", string(stored))

	require.NoError(t, s.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is not an error
	assert.NoError(t, s.Delete(ctx, key))
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	s := NewLocalStorage(t.TempDir())
	for _, key := range []string{"../outside", "/etc/passwd", "..", "."} {
		_, err := s.Upload(context.Background(), key, []byte("x"), "")
		assert.Error(t, err, "key %q", key)
	}
}

func TestObjectKey(t *testing.T) {
	a := ObjectKey("frames", 9, ".jpg")
	b := ObjectKey("frames", 9, "jpg")
	assert.True(t, strings.HasPrefix(a, "frames/9/"))
	assert.True(t, strings.HasSuffix(b, ".jpg"))
	assert.NotEqual(t, a, b)
}

func TestNewStorageService_UnknownType(t *testing.T) {
	_, err := NewStorageService(&config.Config{Storage: config.Storage{Type: "ftp"}})
	assert.Error(t, err)

	s, err := NewStorageService(&config.Config{Storage: config.Storage{Type: "LOCAL", LocalPath: t.TempDir()}})
	require.NoError(t, err)
	assert.NotNil(t, s)
}
