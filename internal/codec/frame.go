package codec

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Pixel layouts a Frame can carry.
const (
	ModeRGB  = "RGB"  // 3 bytes per pixel
	ModeRGBA = "RGBA" // 4 bytes per pixel, straight alpha
	ModeL    = "L"    // 1 byte per pixel, grayscale
)

var bytesPerPixel = map[string]int{
	ModeRGB:  3,
	ModeRGBA: 4,
	ModeL:    1,
}

// Frame is a raw decoded picture. Row y starts at Data[y*Stride]; bytes past
// Width*bpp in a row are padding.
type Frame struct {
	Mode   string
	Width  int
	Height int
	Stride int
	Data   []byte
}

// Reconstruct builds an image from a raw frame, honouring its mode and stride.
func Reconstruct(f Frame) (image.Image, error) {
	bpp, ok := bytesPerPixel[f.Mode]
	if !ok {
		return nil, fmt.Errorf("unsupported pixel mode %q", f.Mode)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", f.Width, f.Height)
	}
	rowLen := f.Width * bpp
	if f.Stride < rowLen {
		return nil, fmt.Errorf("stride %d shorter than a %d byte row", f.Stride, rowLen)
	}
	if need := f.Stride*(f.Height-1) + rowLen; len(f.Data) < need {
		return nil, fmt.Errorf("frame data has %d bytes, need %d", len(f.Data), need)
	}

	rect := image.Rect(0, 0, f.Width, f.Height)
	switch f.Mode {
	case ModeL:
		img := image.NewGray(rect)
		for y := 0; y < f.Height; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+rowLen], f.Data[y*f.Stride:y*f.Stride+rowLen])
		}
		return img, nil
	case ModeRGBA:
		img := image.NewNRGBA(rect)
		for y := 0; y < f.Height; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+rowLen], f.Data[y*f.Stride:y*f.Stride+rowLen])
		}
		return img, nil
	default: // ModeRGB
		img := image.NewNRGBA(rect)
		for y := 0; y < f.Height; y++ {
			src := f.Data[y*f.Stride : y*f.Stride+rowLen]
			dst := img.Pix[y*img.Stride : y*img.Stride+f.Width*4]
			for x := 0; x < f.Width; x++ {
				dst[x*4] = src[x*3]
				dst[x*4+1] = src[x*3+1]
				dst[x*4+2] = src[x*3+2]
				dst[x*4+3] = 0xff
			}
		}
		return img, nil
	}
}

// FrameFromImage flattens a decoded image into a Frame. Gray and NRGBA images keep
// their own buffer and stride; YCbCr is packed to RGB; anything else is drawn into RGBA.
func FrameFromImage(img image.Image) Frame {
	b := img.Bounds()
	switch m := img.(type) {
	case *image.Gray:
		return Frame{Mode: ModeL, Width: b.Dx(), Height: b.Dy(), Stride: m.Stride, Data: m.Pix[m.PixOffset(b.Min.X, b.Min.Y):]}
	case *image.NRGBA:
		return Frame{Mode: ModeRGBA, Width: b.Dx(), Height: b.Dy(), Stride: m.Stride, Data: m.Pix[m.PixOffset(b.Min.X, b.Min.Y):]}
	case *image.YCbCr:
		stride := b.Dx() * 3
		data := make([]byte, stride*b.Dy())
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := data[(y-b.Min.Y)*stride:]
			for x := b.Min.X; x < b.Max.X; x++ {
				yi := m.YOffset(x, y)
				ci := m.COffset(x, y)
				r, g, bl := color.YCbCrToRGB(m.Y[yi], m.Cb[ci], m.Cr[ci])
				i := (x - b.Min.X) * 3
				row[i], row[i+1], row[i+2] = r, g, bl
			}
		}
		return Frame{Mode: ModeRGB, Width: b.Dx(), Height: b.Dy(), Stride: stride, Data: data}
	default:
		dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return Frame{Mode: ModeRGBA, Width: b.Dx(), Height: b.Dy(), Stride: dst.Stride, Data: dst.Pix}
	}
}
