// Package extract pulls plain text out of uploaded PDF files.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// NoTextMessage is returned instead of an error when a PDF parses but
// yields no extractable text (scanned pages, images only).
const NoTextMessage = "No text could be extracted from this PDF."

// Text extracts the text of every page, concatenated with blank-line
// separators.
func Text(fileBytes []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var parts []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			continue
		}
		if text != "" {
			parts = append(parts, text)
		}
	}

	return join(parts), nil
}

func join(parts []string) string {
	out := strings.TrimSpace(strings.Join(parts, "\n\n"))
	if out == "" {
		return NoTextMessage
	}
	return out
}
