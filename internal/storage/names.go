package storage

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"filereducer/internal/model"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename reduces a client supplied name to a safe base name made of
// ASCII letters, digits, underscore, dot and dash. It may return an empty string.
func SanitizeFilename(name string) string {
	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// UniqueName builds "<sanitized base>_<8 hex chars><lowercase ext>".
func UniqueName(originalName string) string {
	clean := SanitizeFilename(originalName)
	ext := filepath.Ext(clean)
	base := strings.TrimSuffix(clean, ext)
	if base == "" {
		base = "file"
	}
	return base + "_" + uuid.NewString()[:8] + strings.ToLower(ext)
}

// stagingPrefix marks processed output that is still being written.
// Sanitized names never start with a dot, so it cannot collide with an upload.
const stagingPrefix = ".staging-"

// IsStaging reports whether name is an unpublished processed file.
func IsStaging(name string) bool {
	return strings.HasPrefix(name, stagingPrefix)
}

// Ext returns the lowercase extension of name without the leading dot.
func Ext(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

// OriginalName maps a processed file name back to the upload it was derived from.
func OriginalName(processedName string) (string, bool) {
	name, ok := strings.CutPrefix(processedName, model.ProcessedPrefix)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// ValidateName rejects names that are empty or contain path elements.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return ErrInvalidName
	}
	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name || strings.Contains(name, "\x00") {
		return ErrInvalidName
	}
	return nil
}
