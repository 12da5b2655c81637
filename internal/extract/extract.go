package extract

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxContentLength bounds the text sent to the analysis service regardless
// of document size.
const MaxContentLength = 30000

// PDFExtractionFailed is the sentinel returned when a PDF cannot be parsed.
// Analysis still proceeds with it so the pipeline never hard-fails on a
// corrupt document.
const PDFExtractionFailed = "PDF content could not be extracted."

// Kind classifies a file by extension for the analysis pipeline.
type Kind int

const (
	KindImage Kind = iota
	KindText
	KindUnknown
)

// Classify buckets a file name into image, text-extractable or unknown.
func Classify(fileName string) Kind {
	switch ext(fileName) {
	case "jpg", "jpeg", "png":
		return KindImage
	case "pdf", "txt", "csv", "json", "md":
		return KindText
	default:
		return KindUnknown
	}
}

// ImageMIME returns the MIME type for a supported image file.
func ImageMIME(fileName string) string {
	if ext(fileName) == "png" {
		return "image/png"
	}
	return "image/jpeg"
}

// Text pulls plain text from a text-extractable payload, truncated to
// MaxContentLength. Unknown formats degrade to a placeholder naming the
// file rather than failing.
func Text(content []byte, fileName string) string {
	var text string
	switch ext(fileName) {
	case "pdf":
		text = pdfText(content)
	case "txt", "csv", "json", "md":
		text = string(content)
	default:
		return fmt.Sprintf("[File: %s]", fileName)
	}

	if len(text) > MaxContentLength {
		text = text[:MaxContentLength]
	}
	return text
}

func pdfText(content []byte) string {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return PDFExtractionFailed
	}

	var buf bytes.Buffer
	plain, err := reader.GetPlainText()
	if err != nil {
		return PDFExtractionFailed
	}
	if _, err := io.Copy(&buf, plain); err != nil {
		return PDFExtractionFailed
	}
	return buf.String()
}

func ext(fileName string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
}
