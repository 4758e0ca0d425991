//go:build darwin

package display

import (
	"fmt"
	"os/exec"
)

// openFile opens path with the application macOS associates with it.
func openFile(path string) error {
	if out, err := exec.Command("open", path).CombinedOutput(); err != nil {
		return fmt.Errorf("open: %w (%s)", err, string(out))
	}
	return nil
}
