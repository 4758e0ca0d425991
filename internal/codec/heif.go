//go:build !noheif

package codec

import (
	"io"

	"github.com/jdeng/goheif"
)

type goheifDecoder struct{}

// DecodeHEIF decodes the primary image of a HEIC/HEIF container.
func (goheifDecoder) DecodeHEIF(r io.Reader) (Frame, error) {
	img, err := goheif.Decode(r)
	if err != nil {
		return Frame{}, err
	}
	return FrameFromImage(img), nil
}

func defaultHEIFDecoder() HEIFDecoder { return goheifDecoder{} }

// HEIFSupported returns true if HEIC support is compiled in.
func HEIFSupported() bool { return true }
