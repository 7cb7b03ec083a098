package middleware

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Input validation and sanitization utilities

// allowedMediaTypes is the closed set accepted at the upload boundary.
// Anything else is rejected before extraction is attempted.
var allowedMediaTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// ValidateMediaType checks the declared media type against the allow-list.
func ValidateMediaType(mediaType string) error {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if !allowedMediaTypes[mt] {
		return fmt.Errorf("unsupported media type: %s", mediaType)
	}
	return nil
}

// SanitizeFilename strips directory components and control characters from a
// client-supplied filename before it is used in a scratch path.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	var result strings.Builder
	for _, r := range name {
		if r >= 32 && r != '\x7f' {
			result.WriteRune(r)
		}
	}
	cleaned := strings.TrimSpace(result.String())
	if cleaned == "" || cleaned == "." || cleaned == ".." {
		return "upload"
	}
	return cleaned
}

// ValidateLimit clamps a recent-list limit into a sane range.
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 10 // default
	}
	if limit > 20 {
		return 20 // max limit
	}
	return limit
}

// ValidateLanguage falls back to English for empty or oversized codes.
func ValidateLanguage(code string) string {
	code = strings.TrimSpace(code)
	if code == "" || len(code) > 8 {
		return "en"
	}
	return code
}
