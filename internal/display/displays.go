package display

import (
	"image"

	"github.com/kbinani/screenshot"
)

// fallbackScreen stands in when the session reports no usable display.
var fallbackScreen = image.Rect(0, 0, 1920, 1080)

// Screens returns the bounds of the active displays, primary first.
// Displays reporting an empty size are replaced by fallbackScreen.
func Screens() []image.Rectangle {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return nil
	}
	out := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		b := screenshot.GetDisplayBounds(i)
		if b.Dx() <= 0 || b.Dy() <= 0 {
			b = fallbackScreen
		}
		out = append(out, b)
	}
	return out
}

// PrimarySize returns the primary display size, or 1920x1080 when none is reported.
func PrimarySize() (width, height int) {
	screens := Screens()
	if len(screens) == 0 {
		return fallbackScreen.Dx(), fallbackScreen.Dy()
	}
	return screens[0].Dx(), screens[0].Dy()
}
