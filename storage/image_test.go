package storage

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestValidateImage(t *testing.T) {
	t.Run("recommended size has no warning", func(t *testing.T) {
		info, err := ValidateImage(pngBytes(t, RecommendedWidth, RecommendedHeight), DefaultMaxBytes)
		require.NoError(t, err)
		assert.Equal(t, "image/png", info.ContentType)
		assert.Equal(t, ".png", info.Ext)
		assert.Empty(t, info.Warning)
	})

	t.Run("other sizes warn but pass", func(t *testing.T) {
		info, err := ValidateImage(pngBytes(t, 640, 480), DefaultMaxBytes)
		require.NoError(t, err)
		assert.Equal(t, 640, info.Width)
		assert.Equal(t, 480, info.Height)
		assert.Contains(t, info.Warning, "640x480")
	})

	t.Run("rejects non images", func(t *testing.T) {
		_, err := ValidateImage([]byte("hello, this is plain text"), DefaultMaxBytes)
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("rejects oversized files", func(t *testing.T) {
		_, err := ValidateImage(make([]byte, 2<<20), 1<<20)
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("rejects truncated images", func(t *testing.T) {
		data := pngBytes(t, 10, 10)
		_, err := ValidateImage(data[:20], DefaultMaxBytes)
		assert.ErrorIs(t, err, ErrInvalidImage)
	})
}

func TestObjectName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	pattern := regexp.MustCompile(`^projects/[0-9a-f-]{36}-1700000000123\.png$`)

	assert.Regexp(t, pattern, ObjectName("projects", ".png", now))
	assert.Regexp(t, pattern, ObjectName("", ".png", now))
	assert.Regexp(t, `^avatars/`, ObjectName("../avatars/", ".png", now))
	assert.NotEqual(t, ObjectName("projects", ".png", now), ObjectName("projects", ".png", now))
}

func TestUploaderDiskStore(t *testing.T) {
	root := t.TempDir()
	disk, err := NewDiskStore(root, "/uploads/")
	require.NoError(t, err)

	up := NewUploader(disk, 0)
	assert.Equal(t, int64(DefaultMaxBytes), up.MaxBytes())

	res, err := up.Upload(context.Background(), "projects", pngBytes(t, 32, 32))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/"+res.Key, res.URL)
	assert.NotEmpty(t, res.Warning)

	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(res.Key)))
	assert.NoError(t, err)

	require.NoError(t, disk.Delete(context.Background(), res.Key))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(res.Key)))
	assert.True(t, os.IsNotExist(err))
}

func TestDiskStoreRejectsEscapingKeys(t *testing.T) {
	disk, err := NewDiskStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	err = disk.Put(context.Background(), "../outside.png", bytes.NewReader([]byte("x")), 1, "image/png")
	assert.Error(t, err)
}
