package pdfextract

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrDocumentUnreadable marks a file that cannot be parsed as a PDF at all.
// Callers exclude the file from the batch and continue with its siblings.
var ErrDocumentUnreadable = errors.New("document unreadable")

// ExtractText reads all of r and extracts plain text page by page, joining
// pages with a newline. Pages with no extractable text (scanned images,
// extraction errors) contribute an empty string instead of failing the
// document. The result may be empty; that is not an error here.
func ExtractText(r io.Reader) (text string, err error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", ErrDocumentUnreadable
	}

	// ledongthuc/pdf panics on some malformed content streams.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = ErrDocumentUnreadable
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return "", ErrDocumentUnreadable
	}

	var pages []string
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pageText, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, pageText)
	}

	return strings.Join(pages, "\n"), nil
}
