package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMarkdown = `# Weekly learning report

## Summary

- Study time: 0.7h
- Conversations: 3
`

func TestWriteMarkdownAsPDF(t *testing.T) {
	tests := []struct {
		name    string
		pdfPath func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "existing directory",
			pdfPath: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "weekly-report.pdf")
			},
		},
		{
			name: "missing parent directories are created",
			pdfPath: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "reports", "2025", "2025-03-08.pdf")
			},
		},
		{
			name: "parent is a file",
			pdfPath: func(t *testing.T) string {
				parent := filepath.Join(t.TempDir(), "reports")
				require.NoError(t, os.WriteFile(parent, []byte("not a directory"), 0644))
				return filepath.Join(parent, "2025-03-08.pdf")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pdfPath := tt.pdfPath(t)

			got, err := WriteMarkdownAsPDF([]byte(sampleMarkdown), pdfPath)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, pdfPath, got)

			content, err := os.ReadFile(got)
			require.NoError(t, err)
			require.Greater(t, len(content), 4)
			assert.Equal(t, "%PDF", string(content[:4]))
		})
	}
}
