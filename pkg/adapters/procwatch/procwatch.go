// Package procwatch reports whether a named process is running.
package procwatch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/user/replayclip/pkg/ports"
)

const listTimeout = 5 * time.Second

// Lister returns the names of running processes.
type Lister func(ctx context.Context) ([]string, error)

// Finder implements ports.ProcessFinder.
type Finder struct {
	list Lister
}

// New creates a Finder using the platform process list.
func New() *Finder {
	return &Finder{list: platformLister()}
}

// NewWithLister creates a Finder with a custom process listing.
func NewWithLister(list Lister) *Finder {
	return &Finder{list: list}
}

// Running reports whether any process matches name.
func (f *Finder) Running(name string) (bool, error) {
	want := Normalize(name)
	if want == "" {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
	defer cancel()

	names, err := f.list(ctx)
	if err != nil {
		return false, fmt.Errorf("list processes: %w", err)
	}
	for _, n := range names {
		if Normalize(n) == want {
			return true, nil
		}
	}
	return false, nil
}

// Normalize lowercases a process name and strips directories and a trailing
// ".exe".
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	name = strings.ToLower(name)
	return strings.TrimSuffix(name, ".exe")
}

func platformLister() Lister {
	switch runtime.GOOS {
	case "linux":
		return func(ctx context.Context) ([]string, error) { return ListProc("/proc") }
	case "windows":
		return listTasklist
	default:
		return listPS
	}
}

// ListProc reads process names from a procfs mount. comm is cut to 15
// bytes by the kernel, so each process also contributes the base name of
// argv[0] and of its exe link when those differ.
func ListProc(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() || !isPID(e.Name()) {
			continue
		}
		names = append(names, procNames(filepath.Join(root, e.Name()))...)
	}
	return names, nil
}

// procNames returns the distinct names of one /proc/<pid> entry. Entries
// of processes that exit midway yield whatever was read before.
func procNames(dir string) []string {
	var names []string
	add := func(n string) {
		n = strings.TrimSpace(n)
		if n != "" && n != "." && n != "/" && !slices.Contains(names, n) {
			names = append(names, n)
		}
	}
	if data, err := os.ReadFile(filepath.Join(dir, "comm")); err == nil {
		add(string(data))
	}
	if data, err := os.ReadFile(filepath.Join(dir, "cmdline")); err == nil {
		argv0, _, _ := bytes.Cut(data, []byte{0})
		if len(argv0) > 0 {
			add(filepath.Base(string(argv0)))
		}
	}
	// Readable only for our own processes unless privileged.
	if target, err := os.Readlink(filepath.Join(dir, "exe")); err == nil {
		add(filepath.Base(strings.TrimSuffix(target, " (deleted)")))
	}
	return names
}

func isPID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func listPS(ctx context.Context) ([]string, error) {
	out, err := exec.CommandContext(ctx, "ps", "-A", "-o", "comm=").Output()
	if err != nil {
		return nil, fmt.Errorf("run ps: %w", err)
	}
	return ParseLines(bytes.NewReader(out)), nil
}

func listTasklist(ctx context.Context) ([]string, error) {
	out, err := exec.CommandContext(ctx, "tasklist", "/FO", "CSV", "/NH").Output()
	if err != nil {
		return nil, fmt.Errorf("run tasklist: %w", err)
	}
	return ParseTasklistCSV(bytes.NewReader(out))
}

// ParseLines returns the non-empty trimmed lines of r.
func ParseLines(r io.Reader) []string {
	var names []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			names = append(names, line)
		}
	}
	return names
}

// ParseTasklistCSV extracts the image names from `tasklist /FO CSV /NH` output.
func ParseTasklistCSV(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	var names []string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return names, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse tasklist: %w", err)
		}
		if len(rec) > 0 && rec[0] != "" {
			names = append(names, rec[0])
		}
	}
}

var _ ports.ProcessFinder = (*Finder)(nil)
