package storage

import (
	"bytes"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HeicConvert/internal/codec"
)

func TestSaveKeepsExtension(t *testing.T) {
	u, err := NewUploads(t.TempDir(), 0)
	require.NoError(t, err)

	path, err := u.Save(strings.NewReader("data"), "IMG_0001.HEIC")
	require.NoError(t, err)

	assert.Equal(t, ".heic", filepath.Ext(path))
	assert.True(t, Within(u.Dir(), path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "data", string(b))
}

func TestSaveWithoutExtension(t *testing.T) {
	u, err := NewUploads(t.TempDir(), 0)
	require.NoError(t, err)

	path, err := u.Save(strings.NewReader("x"), "noext")
	require.NoError(t, err)
	assert.Equal(t, ".bin", filepath.Ext(path))
}

func TestSaveTooLarge(t *testing.T) {
	dir := t.TempDir()
	u, err := NewUploads(dir, 4)
	require.NoError(t, err)

	_, err = u.Save(strings.NewReader("12345"), "a.heic")
	require.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRemove(t *testing.T) {
	u, err := NewUploads(t.TempDir(), 0)
	require.NoError(t, err)
	path, err := u.Save(strings.NewReader("x"), "a.png")
	require.NoError(t, err)

	require.NoError(t, u.Remove(filepath.Base(path)))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, u.Remove(filepath.Base(path)))
	assert.NoError(t, u.Remove("../escape.png"))
	assert.NoError(t, u.Remove("."))
	assert.DirExists(t, u.Dir())
}

func TestWithin(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, Within(dir, filepath.Join(dir, "a", "b.jpg")))
	assert.True(t, Within(dir, dir))
	assert.False(t, Within(dir, filepath.Join(dir, "..", "other.jpg")))
	assert.False(t, Within(dir, dir+"-sibling"))
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{uint8(x), uint8(y), uint8(x ^ y), 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestThumbnailSmallNativeFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "small.png")
	writePNG(t, p, 8, 8)

	b, mime, err := Thumbnail(p, ThumbnailMaxBytes)
	require.NoError(t, err)

	assert.Equal(t, "image/png", mime)
	orig, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, orig, b)
}

func TestThumbnailRecompressesNonNativeFormat(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src.png")
	writePNG(t, src, 2000, 100)
	img, err := codec.New().Decode(src)
	require.NoError(t, err)
	p := filepath.Join(t.TempDir(), "big.bmp")
	require.NoError(t, codec.New().Encode(img, p, "bmp"))

	b, mime, err := Thumbnail(p, ThumbnailMaxBytes)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)
	assert.LessOrEqual(t, int64(len(b)), ThumbnailMaxBytes)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, maxThumbnailPixels, cfg.Width)
	assert.Equal(t, 64, cfg.Height)
}

func TestThumbnailImpossibleLimit(t *testing.T) {
	p := filepath.Join(t.TempDir(), "big.png")
	writePNG(t, p, 64, 64)

	_, _, err := Thumbnail(p, 1)
	assert.Error(t, err)
}

func TestThumbnailMissing(t *testing.T) {
	_, _, err := Thumbnail(filepath.Join(t.TempDir(), "nope.png"), ThumbnailMaxBytes)
	assert.Error(t, err)
}
