// Package extract converts uploaded artifacts into plain text by declared
// media type. Library-level failures become typed extraction errors; a
// corrupted file never propagates a raw panic or parser error to callers.
package extract

import (
	"context"
	"strings"
	"unicode/utf8"

	domain "github.com/contractshield/contractshield/internal/domain/analysis"
)

type Service struct {
	// TesseractBin is the OCR binary name or path. Defaults to "tesseract".
	TesseractBin string
	// OCRLanguage is fixed to English in the default deployment.
	OCRLanguage string
}

func NewService() *Service {
	return &Service{TesseractBin: "tesseract", OCRLanguage: "eng"}
}

// Extract dispatches on the declared media type, first match wins:
// exact application/pdf, then word/document types, then image/* (OCR),
// then a best-effort raw text decode as the documented last resort.
func (s *Service) Extract(ctx context.Context, data []byte, mediaType, filename string) (string, error) {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	switch {
	case mt == "application/pdf":
		return extractPDF(data)
	case strings.Contains(mt, "word") || strings.Contains(mt, "document"):
		return extractDOCX(data)
	case strings.HasPrefix(mt, "image/"):
		return s.extractImage(ctx, data)
	default:
		return extractRawText(data)
	}
}

// extractRawText decodes the bytes as UTF-8 text. Best-effort path for
// unrecognized media types, not a silent catch-all.
func extractRawText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", domain.NewExtractionError("file is not readable as plain text", nil)
	}
	return string(data), nil
}
