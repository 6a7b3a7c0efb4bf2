package export

import (
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// createScratch makes a fresh scratch directory. A leftover directory of the
// same name is wiped first, never merged.
func (e *Exporter) createScratch() (string, error) {
	dir := filepath.Join(e.opts.ScratchRoot, ScratchPrefix+e.newID())
	if err := e.fs.RemoveAll(dir); err != nil {
		return "", &Error{Kind: ScratchFailed, Err: err}
	}
	if err := e.fs.MkdirAll(dir); err != nil {
		return "", &Error{Kind: ScratchFailed, Err: err}
	}
	e.logger.Debug("Scratch directory %s", dir)
	return dir, nil
}

// discardScratch removes dir after a failed export. Removal errors are only
// logged; the export error takes precedence.
func (e *Exporter) discardScratch(dir string) {
	if err := e.fs.RemoveAll(dir); err != nil {
		e.logger.Warn("Could not remove scratch directory %s: %v", dir, err)
	}
}

// IsScratchDir reports whether name looks like a scratch directory.
func IsScratchDir(name string) bool {
	return strings.HasPrefix(filepath.Base(name), ScratchPrefix)
}

// LeftoverScratch lists scratch directories under root, such as those left
// by a crash between materialization and cleanup.
func (e *Exporter) LeftoverScratch() ([]string, error) {
	names, err := e.fs.ReadDir(e.opts.ScratchRoot)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, n := range names {
		if IsScratchDir(n) {
			dirs = append(dirs, filepath.Join(e.opts.ScratchRoot, n))
		}
	}
	return dirs, nil
}

func humanBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}
