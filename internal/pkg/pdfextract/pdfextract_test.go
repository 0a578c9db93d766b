package pdfextract

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractTextUnreadable(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"not a pdf", "hello, this is plain text pretending to be a contract"},
		{"truncated header", "%PDF-1.7\ngarbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractText(strings.NewReader(tt.input))
			if !errors.Is(err, ErrDocumentUnreadable) {
				t.Errorf("ExtractText() error = %v, want ErrDocumentUnreadable", err)
			}
		})
	}
}
