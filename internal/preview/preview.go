// Package preview is a small built-in image viewer, used when viewer.mode is "builtin".
package preview

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"

	"HeicConvert/internal/codec"
	"HeicConvert/internal/display"
	"HeicConvert/internal/logger"
)

const minWindowSize = 128

// Viewer implements ebiten.Game for a single still picture.
type Viewer struct {
	img  *ebiten.Image
	w, h int
}

// Update closes the window on Escape or Q.
func (v *Viewer) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) || ebiten.IsKeyPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	return nil
}

// Draw renders the picture.
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.DrawImage(v.img, &ebiten.DrawImageOptions{})
}

// Layout returns the picture size; the window is sized to match.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.w, v.h
}

// FitSize scales w x h down to fit inside maxW x maxH, keeping the aspect ratio.
// Pictures that already fit are returned unchanged.
func FitSize(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	scale := float64(maxW) / float64(w)
	if s := float64(maxH) / float64(h); s < scale {
		scale = s
	}
	nw := int(float64(w)*scale + 0.5)
	nh := int(float64(h)*scale + 0.5)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

// Load decodes path and scales it to fit inside maxW x maxH.
func Load(path string, maxW, maxH int) (image.Image, error) {
	img, err := codec.New().Decode(path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), maxW, maxH)
	if w == b.Dx() && h == b.Dy() {
		return img, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst, nil
}

// Opener shows a file in the built-in viewer and blocks until the window closes.
// Ebiten allows one window per process, so Open should be called at most once.
type Opener struct{}

// Open displays path at up to 80% of the primary display size.
func (Opener) Open(path string) error {
	sw, sh := display.PrimarySize()
	img, err := Load(path, sw*8/10, sh*8/10)
	if err != nil {
		return fmt.Errorf("preview %s: %w", path, err)
	}
	b := img.Bounds()
	v := &Viewer{img: ebiten.NewImageFromImage(img), w: b.Dx(), h: b.Dy()}

	ww, wh := v.w, v.h
	if ww < minWindowSize {
		ww = minWindowSize
	}
	if wh < minWindowSize {
		wh = minWindowSize
	}
	logger.Debug("preview open", "path", path, "width", v.w, "height", v.h)
	ebiten.SetWindowTitle("heicconv - " + filepath.Base(path))
	ebiten.SetWindowSize(ww, wh)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(v)
}
