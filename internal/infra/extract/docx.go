package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	domain "github.com/contractshield/contractshield/internal/domain/analysis"
)

// extractDOCX reads word/document.xml out of the OOXML zip container and
// collects the text runs, one line per paragraph. Legacy .doc files are not
// zip archives and fail here with a typed error.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.NewExtractionError("document may be corrupted or in an unsupported legacy format", err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", domain.NewExtractionError("document is missing its word processing content", errors.New("word/document.xml not found"))
	}

	rc, err := doc.Open()
	if err != nil {
		return "", domain.NewExtractionError("document may be corrupted", err)
	}
	defer rc.Close()

	text, err := collectRuns(rc)
	if err != nil {
		return "", domain.NewExtractionError("document content could not be parsed", err)
	}
	return text, nil
}

// collectRuns walks the WordprocessingML token stream, appending w:t character
// data and a newline at each paragraph end.
func collectRuns(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
