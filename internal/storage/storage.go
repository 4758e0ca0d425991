package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"HeicConvert/internal/codec"
)

const (
	// MaxUploadBytes caps a single uploaded file.
	MaxUploadBytes int64 = 64 << 20
	// ThumbnailMaxBytes caps preview payloads served to the browser.
	ThumbnailMaxBytes int64 = 2 << 20
)

// ErrTooLarge is returned by Save when an upload exceeds the size limit.
var ErrTooLarge = errors.New("file exceeds maximum size")

// Dir returns the OS-specific directory for uploaded sources (heicconv/uploads).
func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(configDir, "heicconv", "uploads"), nil
}

// Uploads stores files received by the web API until they are converted.
type Uploads struct {
	dir      string
	maxBytes int64
}

// NewUploads creates dir if needed. maxBytes <= 0 disables the size limit.
func NewUploads(dir string, maxBytes int64) (*Uploads, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create dir %s: %w", dir, err)
	}
	return &Uploads{dir: dir, maxBytes: maxBytes}, nil
}

// Dir returns the directory uploads are stored in.
func (u *Uploads) Dir() string { return u.dir }

// Save copies src to a uuid-named file keeping the extension of filename and
// returns its absolute path.
func (u *Uploads) Save(src io.Reader, filename string) (string, error) {
	ext := normalizeExtension(filename)
	if ext == "" {
		ext = ".bin"
	}
	path := filepath.Join(u.dir, uuid.NewString()+ext)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	cleanup := func(err error) (string, error) {
		out.Close()
		os.Remove(path)
		return "", err
	}

	r := src
	if u.maxBytes > 0 {
		r = io.LimitReader(src, u.maxBytes+1)
	}
	n, err := io.Copy(out, r)
	if err != nil {
		return cleanup(fmt.Errorf("write upload: %w", err))
	}
	if u.maxBytes > 0 && n > u.maxBytes {
		return cleanup(ErrTooLarge)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close upload: %w", err)
	}
	return path, nil
}

// Remove deletes an uploaded file by name. Names outside the uploads
// directory are ignored, as is a file that is already gone.
func (u *Uploads) Remove(name string) error {
	if name == "" || strings.Contains(name, "..") {
		return nil
	}
	path := filepath.Join(u.dir, filepath.FromSlash(name))
	if !Within(u.dir, path) || filepath.Clean(path) == filepath.Clean(u.dir) {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Within reports whether path is dir itself or lies below it.
func Within(dir, path string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return absPath == absDir || strings.HasPrefix(absPath, absDir+string(filepath.Separator))
}

func normalizeExtension(filename string) string {
	ext := strings.ToLower(strings.TrimSpace(filepath.Ext(filename)))
	if ext == "." {
		return ""
	}
	return ext
}

const maxThumbnailPixels = 1280

// compressImageToMaxBytes resizes img and re-encodes it as JPEG until size <= maxBytes.
func compressImageToMaxBytes(img image.Image, maxBytes int64) ([]byte, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid image size")
	}
	scale := 1.0
	if w > maxThumbnailPixels || h > maxThumbnailPixels {
		if w > h {
			scale = float64(maxThumbnailPixels) / float64(w)
		} else {
			scale = float64(maxThumbnailPixels) / float64(h)
		}
	}
	newW := max(int(float64(w)*scale+0.5), 1)
	newH := max(int(float64(h)*scale+0.5), 1)
	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	for quality := 88; quality >= 50; quality -= 10 {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
		if int64(buf.Len()) <= maxBytes {
			return buf.Bytes(), nil
		}
	}
	return nil, fmt.Errorf("image still over %d bytes after compress", maxBytes)
}

// browserMIME maps extensions a browser renders natively.
var browserMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// Thumbnail returns displayable bytes and a MIME type for the image at absPath.
// Small files in a browser-native format are returned as they are; anything
// else (HEIC, TIFF, BMP, oversized files) is decoded and re-encoded as JPEG.
func Thumbnail(absPath string, maxBytes int64) ([]byte, string, error) {
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, "", err
	}
	if mime, ok := browserMIME[strings.ToLower(filepath.Ext(absPath))]; ok && info.Size() <= maxBytes {
		b, err := os.ReadFile(absPath)
		if err != nil {
			return nil, "", err
		}
		return b, mime, nil
	}
	img, err := codec.New().Decode(absPath)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	b, err := compressImageToMaxBytes(img, maxBytes)
	if err != nil {
		return nil, "", err
	}
	return b, "image/jpeg", nil
}
