//go:build noheif

package codec

import (
	"errors"
	"io"
)

var errHEIFUnsupported = errors.New("HEIC/HEIF support not compiled in (built with noheif)")

type stubDecoder struct{}

func (stubDecoder) DecodeHEIF(io.Reader) (Frame, error) {
	return Frame{}, errHEIFUnsupported
}

func defaultHEIFDecoder() HEIFDecoder { return stubDecoder{} }

// HEIFSupported returns false when built with the noheif tag.
func HEIFSupported() bool { return false }
