package upload

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	s := NewStorage(dir, 1024)

	url, err := s.Save(context.Background(), "Photo.JPG", "image/jpeg", strings.NewReader("jpegdata"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, URLPrefix)))
	require.NoError(t, err)
	assert.Equal(t, "jpegdata", string(data))
}

func TestSaveRejects(t *testing.T) {
	dir := t.TempDir()
	s := NewStorage(dir, 4)

	_, err := s.Save(context.Background(), "notes.txt", "text/plain", strings.NewReader("hi"))
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = s.Save(context.Background(), "big.png", "image/png", bytes.NewReader(make([]byte, 10)))
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected uploads must not leave files behind")
}

func TestSaveCanceled(t *testing.T) {
	s := NewStorage(t.TempDir(), 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Save(ctx, "a.png", "image/png", strings.NewReader("data"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".png", extension("x.PNG"))
	assert.Equal(t, "", extension("noext"))
	assert.Equal(t, "", extension("weird.averyverylongext"))
	assert.Equal(t, ".gif", extension("../../etc/a.gif"))
}
