package extract

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"

	domain "github.com/contractshield/contractshield/internal/domain/analysis"
)

// extractPDF pulls plain text from a PDF. The parser panics on some malformed
// inputs, so the whole read runs behind a recover.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = domain.NewExtractionError("PDF may be corrupted or encrypted", fmt.Errorf("pdf parser panic: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.NewExtractionError("PDF may be corrupted or encrypted", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", domain.NewExtractionError("could not read text from PDF", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", domain.NewExtractionError("could not read text from PDF", err)
	}
	return buf.String(), nil
}
