// Package codec decodes source pictures (HEIC/HEIF or common raster formats) and
// encodes them to a target format on disk.
package codec

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"os"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"HeicConvert/internal/domain"
)

// HEIFDecoder decodes a HEIC/HEIF stream into a raw frame.
type HEIFDecoder interface {
	DecodeHEIF(r io.Reader) (Frame, error)
}

// Adapter routes HEIC/HEIF files through a HEIFDecoder and everything else through
// the registered image decoders. All failures come back as *domain.Error.
type Adapter struct {
	heif HEIFDecoder
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithHEIFDecoder replaces the HEIC/HEIF decoder.
func WithHEIFDecoder(d HEIFDecoder) Option {
	return func(a *Adapter) { a.heif = d }
}

// New returns an Adapter using the compiled-in HEIF decoder unless overridden.
func New(opts ...Option) *Adapter {
	a := &Adapter{heif: defaultHEIFDecoder()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Convert decodes src and writes it to dst as format. An existing dst is overwritten.
func (a *Adapter) Convert(src, dst, format string) error {
	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewError(domain.KindInputNotFound, src, err)
		}
		return domain.NewError(domain.KindDecodeError, src, err)
	}
	if !Supported(format) {
		return domain.NewError(domain.KindEncodeError, dst, fmt.Errorf("unsupported target format %q", format))
	}
	img, err := a.Decode(src)
	if err != nil {
		return err
	}
	return a.Encode(img, dst, format)
}

// Decode reads path into an in-memory image.
func (a *Adapter) Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewError(domain.KindInputNotFound, path, err)
		}
		return nil, domain.NewError(domain.KindDecodeError, path, err)
	}
	defer f.Close()

	if IsHEIF(path) {
		frame, err := a.heif.DecodeHEIF(f)
		if err != nil {
			return nil, domain.NewError(domain.KindDecodeError, path, fmt.Errorf("heif decode: %w", err))
		}
		img, err := Reconstruct(frame)
		if err != nil {
			return nil, domain.NewError(domain.KindDecodeError, path, fmt.Errorf("rebuild frame: %w", err))
		}
		return img, nil
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, domain.NewError(domain.KindDecodeError, path, fmt.Errorf("decode image: %w", err))
	}
	return img, nil
}

// Encode writes img to dst as format. A partially written file is removed on failure.
func (a *Adapter) Encode(img image.Image, dst, format string) error {
	enc, ok := encoderFor(format)
	if !ok {
		return domain.NewError(domain.KindEncodeError, dst, fmt.Errorf("unsupported target format %q", format))
	}
	out, err := os.Create(dst)
	if err != nil {
		return domain.NewError(domain.KindEncodeError, dst, fmt.Errorf("create output: %w", err))
	}
	if err := enc(out, img); err != nil {
		out.Close()
		os.Remove(dst)
		return domain.NewError(domain.KindEncodeError, dst, fmt.Errorf("encode %s: %w", NormalizeFormat(format), err))
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return domain.NewError(domain.KindEncodeError, dst, fmt.Errorf("close output: %w", err))
	}
	return nil
}

type encodeFunc func(w io.Writer, img image.Image) error

func encoderFor(format string) (encodeFunc, bool) {
	switch NormalizeFormat(format) {
	case "jpg", "jpeg":
		return func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
		}, true
	case "png":
		return png.Encode, true
	case "gif":
		return func(w io.Writer, img image.Image) error {
			return gif.Encode(w, img, nil)
		}, true
	case "bmp":
		return bmp.Encode, true
	case "tif", "tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}, true
	default:
		return nil, false
	}
}
