package mocks

import (
	"image"
	"image/color"
	"sync"

	"github.com/user/replayclip/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer. Without EncodeStillFunc
// it returns a fixed placeholder; without FitFunc it returns a blank image of
// the requested size.
type Renderer struct {
	EncodeStillFunc func(img image.Image) ([]byte, error)
	FitFunc         func(img image.Image, width, height int) image.Image

	mu      sync.Mutex
	encoded int
	fitted  int
}

func (m *Renderer) EncodeStill(img image.Image) ([]byte, error) {
	m.mu.Lock()
	m.encoded++
	m.mu.Unlock()
	if m.EncodeStillFunc != nil {
		return m.EncodeStillFunc(img)
	}
	return []byte("png"), nil
}

func (m *Renderer) Fit(img image.Image, width, height int) image.Image {
	m.mu.Lock()
	m.fitted++
	m.mu.Unlock()
	if m.FitFunc != nil {
		return m.FitFunc(img, width, height)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

func (m *Renderer) NewCanvas(width, height int) ports.Canvas {
	return NewCanvas(width, height)
}

// Counts returns the number of EncodeStill and Fit calls.
func (m *Renderer) Counts() (encoded, fitted int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.encoded, m.fitted
}

var _ ports.Renderer = (*Renderer)(nil)

// Canvas is a mock implementation of ports.Canvas that records labels.
type Canvas struct {
	mu     sync.Mutex
	img    *image.RGBA
	Labels []string
}

// NewCanvas returns a blank mock canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (m *Canvas) Fill(c color.Color)                                    {}
func (m *Canvas) Rect(x, y, w, h int, c color.Color)                    {}
func (m *Canvas) RoundedRect(x, y, w, h, radius int, c color.Color)     {}
func (m *Canvas) Line(x1, y1, x2, y2 int, c color.Color, width float64) {}

func (m *Canvas) Label(text string, x, y int, c color.Color, align ports.TextAlign) {
	m.mu.Lock()
	m.Labels = append(m.Labels, text)
	m.mu.Unlock()
}

func (m *Canvas) Image() image.Image { return m.img }

var _ ports.Canvas = (*Canvas)(nil)
