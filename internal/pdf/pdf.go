// Package pdf renders the weekly report for printing.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mandolyte/mdtopdf"
)

// WriteMarkdownAsPDF renders markdown into a PDF at pdfPath, creating missing parent
// directories, and returns the absolute path of the PDF.
func WriteMarkdownAsPDF(markdown []byte, pdfPath string) (string, error) {
	if dir := filepath.Dir(pdfPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
		}
	}

	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process(markdown); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}
	return absPath, nil
}
