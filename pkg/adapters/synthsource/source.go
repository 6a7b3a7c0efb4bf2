// Package synthsource renders a moving test pattern, used when no real
// capture device is wanted (demos, tests, CI).
package synthsource

import (
	"context"
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/user/replayclip/pkg/adapters/pollsource"
	"github.com/user/replayclip/pkg/frame"
	"github.com/user/replayclip/pkg/ports"
)

// Name identifies the synthetic source in logs and reports.
const Name = "synthetic"

var (
	background = color.RGBA{R: 0x1e, G: 0x1e, B: 0x2e, A: 0xff}
	barColor   = color.RGBA{R: 0xf3, G: 0x8b, B: 0xa8, A: 0xff}
	gridColor  = color.RGBA{R: 0x45, G: 0x47, B: 0x5a, A: 0xff}
	textColor  = color.RGBA{R: 0xcd, G: 0xd6, B: 0xf4, A: 0xff}
)

// Options configures the pattern.
type Options struct {
	Width  int
	Height int
	FPS    float64
	Queue  int
	Logger ports.Logger
	Now    func() time.Time
}

// Pattern draws numbered frames on a single reused canvas.
type Pattern struct {
	width  int
	height int
	now    func() time.Time

	mu     sync.Mutex
	canvas ports.Canvas
	seq    int
}

// NewPattern creates a pattern of the given size drawn on one canvas from painter.
func NewPattern(painter ports.Painter, width, height int, now func() time.Time) *Pattern {
	if now == nil {
		now = time.Now
	}
	return &Pattern{
		width:  width,
		height: height,
		now:    now,
		canvas: painter.NewCanvas(width, height),
	}
}

// Next draws the next frame and copies it into a pooled handle.
func (p *Pattern) Next(ctx context.Context) (frame.Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := p.seq
	p.seq++

	c := p.canvas
	c.Fill(background)
	step := max(p.width/8, 1)
	for x := 0; x < p.width; x += step {
		c.Line(x, 0, x, p.height, gridColor, 1)
	}

	barW := p.width / 10
	if barW < 2 {
		barW = 2
	}
	travel := p.width - barW
	pos := 0
	if travel > 0 {
		pos = (n * 4) % (2 * travel)
		if pos > travel {
			pos = 2*travel - pos
		}
	}
	c.RoundedRect(pos, p.height/3, barW, p.height/3, barW/4, barColor)

	c.Label(fmt.Sprintf("#%06d", n), 8, 12, textColor, ports.AlignLeft)
	c.Label(p.now().Format("15:04:05.000"), p.width-8, p.height-12, textColor, ports.AlignRight)

	return frame.NewRGBA(c.Image()), nil
}

// Size returns the pattern dimensions.
func (p *Pattern) Size() (int, int) { return p.width, p.height }

// New creates a polling source that renders the pattern at opts.FPS.
func New(painter ports.Painter, opts Options) *pollsource.Source {
	if opts.Width <= 0 {
		opts.Width = 640
	}
	if opts.Height <= 0 {
		opts.Height = 360
	}
	p := NewPattern(painter, opts.Width, opts.Height, opts.Now)
	return pollsource.New(Name, p.Next, p.Size, pollsource.Options{
		FPS:    opts.FPS,
		Queue:  opts.Queue,
		Logger: opts.Logger,
	})
}
