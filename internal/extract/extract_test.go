package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// buildPDF assembles a minimal single-page PDF with the given text so tests
// do not depend on binary fixtures. Object offsets are computed as written.
func buildPDF(text string) []byte {
	var buf bytes.Buffer
	offsets := make([]int, 6)

	buf.WriteString("%PDF-1.4\n")

	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	writeObj(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>")

	content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	writeObj(4, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	writeObj(5, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	xrefStart := buf.Len()
	buf.WriteString("xref\n0 6\n")
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 6 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xrefStart)

	return buf.Bytes()
}

func TestTextExtractsPageText(t *testing.T) {
	data := buildPDF("Hello PDF world")

	text, err := Text(data, "application/pdf")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if !strings.Contains(text, "Hello PDF world") {
		t.Fatalf("expected extracted text to contain page content, got %q", text)
	}
}

func TestTextAllowsContentTypeParameters(t *testing.T) {
	data := buildPDF("params")

	if _, err := Text(data, "application/pdf; charset=binary"); err != nil {
		t.Fatalf("expected parameterized PDF content type to be accepted, got %v", err)
	}
}

func TestTextRejectsNonPDFContentType(t *testing.T) {
	_, err := Text([]byte("plain text"), "text/plain")
	if !errors.Is(err, ErrUnsupportedMediaType) {
		t.Fatalf("expected ErrUnsupportedMediaType, got %v", err)
	}
}

func TestTextRejectsCorruptStream(t *testing.T) {
	_, err := Text([]byte("definitely not a pdf"), "application/pdf")
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
}

func TestTextRejectsTextlessPDF(t *testing.T) {
	// Whitespace-only page content trims to nothing, the scanned-PDF case.
	data := buildPDF(" ")

	_, err := Text(data, "application/pdf")
	if !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
}
