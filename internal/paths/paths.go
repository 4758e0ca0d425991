// Package paths derives output file names and the default output directory.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"HeicConvert/internal/domain"
)

// DefaultDirName is the output directory created next to the program.
const DefaultDirName = "Converted"

// ProgramDir returns the directory holding the running executable. Binaries started by
// `go run` or `go test` live in a throwaway go-build directory; for those the working
// directory is used instead.
func ProgramDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	dir := filepath.Dir(exe)
	if isTransientBuildDir(dir) {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("working dir: %w", err)
		}
		return wd, nil
	}
	return dir, nil
}

func isTransientBuildDir(dir string) bool {
	return strings.Contains(filepath.ToSlash(dir), "/go-build")
}

// DefaultOutputDir returns <program dir>/Converted.
func DefaultOutputDir() (string, error) {
	dir, err := ProgramDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultDirName), nil
}

// OutputName is the source base name with its extension replaced by the lowercased format.
func OutputName(sourcePath, format string) string {
	base := filepath.Base(sourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + "." + strings.ToLower(strings.TrimPrefix(format, "."))
}

// EnsureDir creates dir and its parents. It is a no-op when dir already exists.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return domain.NewError(domain.KindIOError, dir, fmt.Errorf("create output directory: %w", err))
	}
	return nil
}

// Resolver computes output paths. An empty BaseDir means ProgramDir().
type Resolver struct {
	BaseDir string
}

// OutputDir returns outputDir, or BaseDir/Converted when outputDir is empty.
func (r Resolver) OutputDir(outputDir string) (string, error) {
	if outputDir != "" {
		return outputDir, nil
	}
	base := r.BaseDir
	if base == "" {
		var err error
		if base, err = ProgramDir(); err != nil {
			return "", domain.NewError(domain.KindIOError, "", err)
		}
	}
	return filepath.Join(base, DefaultDirName), nil
}

// Resolve returns the output path for sourcePath and makes sure its directory exists.
// An existing file at that path is not checked for; the encoder overwrites it.
func (r Resolver) Resolve(sourcePath, format, outputDir string) (string, error) {
	dir, err := r.OutputDir(outputDir)
	if err != nil {
		return "", err
	}
	if err := EnsureDir(dir); err != nil {
		return "", err
	}
	return filepath.Join(dir, OutputName(sourcePath, format)), nil
}

// Resolve uses a Resolver rooted at the program directory.
func Resolve(sourcePath, format, outputDir string) (string, error) {
	return Resolver{}.Resolve(sourcePath, format, outputDir)
}
