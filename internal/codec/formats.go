package codec

import (
	"path/filepath"
	"strings"
)

// JPEGQuality is the fixed quality used for lossy output.
const JPEGQuality = 95

// IsHEIF reports whether path has a .heic or .heif extension, ignoring case.
func IsHEIF(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".heic" || ext == ".heif"
}

// NormalizeFormat lowercases a format name and strips a leading dot.
func NormalizeFormat(format string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(format)), ".")
}

// TargetFormats lists the formats Encode can write.
func TargetFormats() []string {
	return []string{"jpg", "jpeg", "png", "gif", "bmp", "tif", "tiff"}
}

// Supported reports whether format is a known target format.
func Supported(format string) bool {
	f := NormalizeFormat(format)
	for _, t := range TargetFormats() {
		if t == f {
			return true
		}
	}
	return false
}
