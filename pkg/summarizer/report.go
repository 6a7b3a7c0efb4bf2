// Package summarizer builds the sidecar report written next to an exported
// clip.
package summarizer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/user/replayclip/pkg/ports"
)

// Formatter renders a Summary as a document. Extension is the file
// extension of that document, including the dot.
type Formatter interface {
	Format(summary *Summary) string
	Extension() string
}

// Writer stores reports beside the clips they describe.
type Writer struct {
	formatter Formatter
	fs        ports.FileSystem
}

func NewWriter(formatter Formatter, fs ports.FileSystem) *Writer {
	return &Writer{formatter: formatter, fs: fs}
}

// ReportPath swaps the extension of clipPath for ext. A dot in a directory
// name is not taken for an extension.
func ReportPath(clipPath, ext string) string {
	return strings.TrimSuffix(clipPath, filepath.Ext(clipPath)) + ext
}

// WriteFor writes the report for the clip at clipPath and returns where it
// went. The clip's directory is created if it was removed in the meantime.
func (w *Writer) WriteFor(clipPath string, summary *Summary) (string, error) {
	path := ReportPath(clipPath, w.formatter.Extension())
	if dir := filepath.Dir(path); dir != "." {
		if err := w.fs.MkdirAll(dir); err != nil {
			return path, fmt.Errorf("create report directory: %w", err)
		}
	}
	if err := w.fs.WriteFile(path, []byte(w.formatter.Format(summary))); err != nil {
		return path, fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
