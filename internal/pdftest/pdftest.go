// Package pdftest builds minimal but well-formed PDF fixtures so tests can
// exercise the real parse and write paths instead of mocks.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// BasePDF renders a syntactically complete PDF with the given number of
// Letter-sized pages and no interactive forms layer.
func BasePDF(pageCount int) []byte {
	return BasePDFSized(pageCount, 612, 792)
}

// BasePDFSized is BasePDF with an explicit page size in points. The
// cross-reference offsets are computed from the actual byte positions.
func BasePDFSized(pageCount int, width, height float64) []byte {
	if pageCount < 1 {
		pageCount = 1
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	var offsets []int
	writeObj := func(num int, body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	// Object layout: 1 catalog, 2 page tree, then one page and one content
	// stream per page. MediaBox sits on the tree node so pages inherit it.
	kids := make([]string, pageCount)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", 3+i)
	}

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 %g %g] >>",
		strings.Join(kids, " "), pageCount, width, height))
	for i := 0; i < pageCount; i++ {
		writeObj(3+i, fmt.Sprintf("<< /Type /Page /Parent 2 0 R /Contents %d 0 R >>",
			3+pageCount+i))
	}
	const content = "q Q\n"
	for i := 0; i < pageCount; i++ {
		writeObj(3+pageCount+i, fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream",
			len(content), content))
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefOffset)

	return buf.Bytes()
}

// WriteBase writes a Letter-sized base fixture into a fresh temp directory
// and returns its path.
func WriteBase(tb testing.TB, pageCount int) string {
	return WriteBaseSized(tb, pageCount, 612, 792)
}

// WriteBaseSized writes a base fixture with an explicit page size.
func WriteBaseSized(tb testing.TB, pageCount int, width, height float64) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "base.pdf")
	if err := os.WriteFile(path, BasePDFSized(pageCount, width, height), 0o644); err != nil {
		tb.Fatalf("failed to write base fixture: %v", err)
	}
	return path
}
