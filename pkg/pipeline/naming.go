package pipeline

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// FramePrefix and FrameExt name the stills written to a scratch directory.
const (
	FramePrefix = "frame_"
	FrameExt    = ".png"
)

const minSequenceWidth = 4

// SequenceWidth returns the zero-padded index width for count frames:
// the number of digits of the largest index, at least four.
func SequenceWidth(count int) int {
	w := len(strconv.Itoa(max(count-1, 0)))
	return max(w, minSequenceWidth)
}

// FrameName returns the file name of the still at index.
func FrameName(index, width int) string {
	return fmt.Sprintf("%s%0*d%s", FramePrefix, width, index, FrameExt)
}

// FramePattern returns the printf-style pattern the encoder reads, e.g.
// dir/frame_%04d.png.
func FramePattern(dir string, width int) string {
	return filepath.Join(dir, fmt.Sprintf("%s%%0%dd%s", FramePrefix, width, FrameExt))
}

var frameNameRe = regexp.MustCompile(`^frame_(\d+)\.png$`)

// Sequence is a contiguous run of numbered stills found in a directory.
type Sequence struct {
	Width       int
	StartNumber int
	Count       int
}

// DetectSequence finds the numbered stills among names. The stills must share
// one index width and be contiguous from the lowest index; a gap ends the run.
func DetectSequence(names []string) (Sequence, error) {
	type entry struct {
		index int
		width int
	}
	var entries []entry
	for _, name := range names {
		m := frameNameRe.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		entries = append(entries, entry{index: idx, width: len(m[1])})
	}
	if len(entries) == 0 {
		return Sequence{}, fmt.Errorf("no frame stills found")
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].index < entries[j].index })

	seq := Sequence{Width: entries[0].width, StartNumber: entries[0].index, Count: 1}
	for _, e := range entries[1:] {
		if e.width != seq.Width {
			return Sequence{}, fmt.Errorf("mixed index widths %d and %d", seq.Width, e.width)
		}
		if e.index != seq.StartNumber+seq.Count {
			break
		}
		seq.Count++
	}
	return seq, nil
}
