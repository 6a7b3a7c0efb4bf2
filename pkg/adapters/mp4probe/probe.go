// Package mp4probe implements ports.VideoProber for MP4 containers using mp4ff.
package mp4probe

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/replayclip/pkg/ports"
)

// ErrNoVideoTrack is returned when the container has no video track.
var ErrNoVideoTrack = errors.New("mp4probe: no video track found")

// Prober reads MP4 metadata.
type Prober struct{}

// New creates a Prober.
func New() *Prober {
	return &Prober{}
}

// Probe reads the first video track of the file at path.
func (p *Prober) Probe(path string) (ports.VideoInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ports.VideoInfo{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return ProbeReader(f)
}

// ProbeReader reads the first video track from r.
func ProbeReader(r io.ReadSeeker) (ports.VideoInfo, error) {
	file, err := mp4.DecodeFile(r)
	if err != nil {
		return ports.VideoInfo{}, fmt.Errorf("decode mp4: %w", err)
	}

	if file.IsFragmented() {
		return probeFragmented(file)
	}
	return probeProgressive(file)
}

func probeProgressive(file *mp4.File) (ports.VideoInfo, error) {
	if file.Moov == nil {
		return ports.VideoInfo{}, ErrNoVideoTrack
	}
	trak := videoTrack(file.Moov.Traks)
	if trak == nil {
		return ports.VideoInfo{}, ErrNoVideoTrack
	}

	info := trackInfo(trak)
	if stbl := trak.Mdia.Minf.Stbl; stbl.Stsz != nil {
		info.Frames = int(stbl.Stsz.SampleNumber)
	}
	if mdhd := trak.Mdia.Mdhd; mdhd != nil && mdhd.Timescale > 0 {
		info.Duration = ticks(mdhd.Duration, mdhd.Timescale)
	}
	return info, nil
}

func probeFragmented(file *mp4.File) (ports.VideoInfo, error) {
	if file.Init == nil || file.Init.Moov == nil {
		return ports.VideoInfo{}, ErrNoVideoTrack
	}
	moov := file.Init.Moov
	trak := videoTrack(moov.Traks)
	if trak == nil {
		return ports.VideoInfo{}, ErrNoVideoTrack
	}
	info := trackInfo(trak)
	trackID := trak.Tkhd.TrackID

	var trex *mp4.TrexBox
	if moov.Mvex != nil {
		for _, t := range moov.Mvex.Trexs {
			if t.TrackID == trackID {
				trex = t
				break
			}
		}
	}

	var total uint64
	for _, seg := range file.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			samples, err := frag.GetFullSamples(trex)
			if err != nil {
				return info, fmt.Errorf("read samples: %w", err)
			}
			for _, s := range samples {
				total += uint64(s.Dur)
			}
			info.Frames += len(samples)
		}
	}
	if mdhd := trak.Mdia.Mdhd; mdhd != nil && mdhd.Timescale > 0 {
		info.Duration = ticks(total, mdhd.Timescale)
	}
	return info, nil
}

// videoTrack returns the first track with a video handler and a sample table.
func videoTrack(traks []*mp4.TrakBox) *mp4.TrakBox {
	for _, trak := range traks {
		if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
			continue
		}
		if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil {
			continue
		}
		return trak
	}
	return nil
}

func trackInfo(trak *mp4.TrakBox) ports.VideoInfo {
	var info ports.VideoInfo
	if trak.Tkhd != nil {
		info.Width = int(trak.Tkhd.Width >> 16)
		info.Height = int(trak.Tkhd.Height >> 16)
	}
	if stsd := trak.Mdia.Minf.Stbl.Stsd; stsd != nil {
		for _, child := range stsd.Children {
			info.Codec = child.Type()
			if vse, ok := child.(*mp4.VisualSampleEntryBox); ok && info.Width == 0 {
				info.Width = int(vse.Width)
				info.Height = int(vse.Height)
			}
			break
		}
	}
	return info
}

func ticks(n uint64, timescale uint32) time.Duration {
	return time.Duration(n) * time.Second / time.Duration(timescale)
}

var _ ports.VideoProber = (*Prober)(nil)
