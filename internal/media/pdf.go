package media

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// DefaultMaxPDFBytes bounds an uploaded CV.
const DefaultMaxPDFBytes = 5 * 1024 * 1024

// ValidatePDF checks that data parses as a PDF with at least one page and returns the page count.
func ValidatePDF(data []byte, maxBytes int) (pages int, err error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxPDFBytes
	}
	if len(data) > maxBytes {
		return 0, fmt.Errorf("%w: CV is %d KB, limit is %d KB", ErrTooLarge, len(data)/1024, maxBytes/1024)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return 0, ErrInvalidPDF
	}
	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("%w: %v", ErrInvalidPDF, r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	pages = r.NumPage()
	if pages < 1 {
		return 0, fmt.Errorf("%w: document has no pages", ErrInvalidPDF)
	}
	return pages, nil
}
