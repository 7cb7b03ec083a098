package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	domain "github.com/contractshield/contractshield/internal/domain/analysis"
)

// extractImage runs the tesseract binary over the image and reads the
// recognized text from stdout. Language is fixed by the service config.
func (s *Service) extractImage(ctx context.Context, data []byte) (string, error) {
	bin := s.TesseractBin
	if bin == "" {
		bin = "tesseract"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return "", domain.NewExtractionError("OCR engine is not available on this server", err)
	}

	tmp, err := os.CreateTemp("", "contractshield-ocr-*")
	if err != nil {
		return "", domain.NewExtractionError("could not stage image for OCR", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if rmErr := os.Remove(tmpPath); rmErr != nil {
			fmt.Printf("Warning: failed to remove OCR scratch file %s: %v\n", tmpPath, rmErr)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", domain.NewExtractionError("could not stage image for OCR", err)
	}
	if err := tmp.Close(); err != nil {
		return "", domain.NewExtractionError("could not stage image for OCR", err)
	}

	lang := s.OCRLanguage
	if lang == "" {
		lang = "eng"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, tmpPath, "stdout", "-l", lang)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", domain.NewExtractionError("image could not be read by OCR", fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String())))
	}
	return stdout.String(), nil
}
