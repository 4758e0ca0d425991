// Package display talks to the desktop: monitors, the default image viewer and file-type
// association.
package display

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrUnsupported is returned when the platform offers no way to open a file.
var ErrUnsupported = errors.New("operation not supported on this platform")

// SystemOpener opens files with the platform's default application.
type SystemOpener struct{}

// Open hands path to the default viewer. Failures are reported, not retried.
func (SystemOpener) Open(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	return openFile(path)
}

// Associate acknowledges a request to make heicconv the handler for format. Registering
// file types is OS-specific and is not performed.
func Associate(format string) string {
	f := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(format)), ".")
	if f == "" {
		f = "heic"
	}
	return fmt.Sprintf("File association for .%s noted. Set heicconv as the default app for .%s files in your system settings.", f, f)
}
