//go:build !darwin && !windows

package display

import (
	"fmt"
	"os/exec"
)

// openFile uses xdg-open, which dispatches to the desktop's default viewer.
func openFile(path string) error {
	bin, err := exec.LookPath("xdg-open")
	if err != nil {
		return fmt.Errorf("xdg-open not found: %w", ErrUnsupported)
	}
	if out, err := exec.Command(bin, path).CombinedOutput(); err != nil {
		return fmt.Errorf("xdg-open: %w (%s)", err, string(out))
	}
	return nil
}
