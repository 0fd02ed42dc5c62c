package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

const mimePDF = "application/pdf"

var (
	// ErrUnsupportedMediaType is returned when the declared content type is not PDF.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrNoText is returned when a PDF parses cleanly but carries no extractable
	// text, e.g. a scanned document. Such files must not proceed to analysis.
	ErrNoText = errors.New("document contains no extractable text")

	// ErrUnreadable is returned when the byte stream cannot be parsed as a PDF.
	ErrUnreadable = errors.New("unreadable document")
)

// Text extracts the concatenated page text of a PDF, in page order.
// Library used: github.com/ledongthuc/pdf.
func Text(data []byte, contentType string) (string, error) {
	if normalizeContentType(contentType) != mimePDF {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMediaType, contentType)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	text, err := plainText(reader)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}

func plainText(reader *pdf.Reader) (text string, err error) {
	// The pdf library panics on some malformed content streams.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf parse panic: %v", rec)
		}
	}()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func normalizeContentType(contentType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
}
