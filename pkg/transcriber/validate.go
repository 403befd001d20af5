package transcriber

import (
	"catatin/pkg/audio"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

const (
	MaxFileSize = 50 * 1024 * 1024 // 50MB
	MaxDuration = 10 * time.Minute
)

// SupportedFormats lists the accepted file extensions.
var SupportedFormats = []string{"mp3", "wav", "m4a", "aac", "ogg"}

// AudioInfo describes a file that passed validation.
type AudioInfo struct {
	Path   string
	Name   string
	Format string
	Size   int64
	// Duration is zero when it cannot be measured from the file.
	Duration time.Duration
}

// FormatOf returns the lowercased extension of name without the dot.
func FormatOf(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// IsSupported reports whether name has an accepted extension.
func IsSupported(name string) bool {
	return slices.Contains(SupportedFormats, FormatOf(name))
}

// Validate checks, in order, format, size ceiling, emptiness and duration
// ceiling, and returns the first failure as a *ValidationError.
func Validate(path string) (*AudioInfo, error) {
	return validate(path, filepath.Base(path))
}

// ValidateAs is Validate for a file stored under a temporary name; the
// format is taken from name.
func ValidateAs(path, name string) (*AudioInfo, error) {
	return validate(path, name)
}

func validate(path, name string) (*AudioInfo, error) {
	if !IsSupported(name) {
		return nil, &ValidationError{
			Err:     ErrUnsupportedFormat,
			Message: "Unsupported file format. Use: " + strings.Join(SupportedFormats, ", "),
		}
	}

	format := FormatOf(name)

	var size int64
	if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
		size = fi.Size()
	}

	if size > MaxFileSize {
		return nil, &ValidationError{
			Err:     ErrTooLarge,
			Message: fmt.Sprintf("File is too large. Maximum is %dMB", MaxFileSize/(1024*1024)),
		}
	}

	if size == 0 {
		return nil, &ValidationError{
			Err:     ErrEmptyFile,
			Message: "File is invalid or empty",
		}
	}

	duration := measureDuration(path, format)
	if duration > MaxDuration {
		return nil, &ValidationError{
			Err:     ErrTooLong,
			Message: fmt.Sprintf("Audio is too long. Maximum is %d minutes", int(MaxDuration.Minutes())),
		}
	}

	return &AudioInfo{
		Path:     path,
		Name:     name,
		Format:   format,
		Size:     size,
		Duration: duration,
	}, nil
}

// measureDuration reads the WAV header; compressed formats are not
// measured and report zero.
func measureDuration(path, format string) time.Duration {
	if format != "wav" {
		return 0
	}
	d, err := audio.Duration(path)
	if err != nil {
		log.Warnf("Could not read WAV header of %s: %v", filepath.Base(path), err)
		return 0
	}
	return d
}
