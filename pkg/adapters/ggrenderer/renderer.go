// Package ggrenderer implements ports.Renderer with the gg drawing library
// and x/image scaling.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/replayclip/pkg/ports"
)

// Renderer is safe for concurrent use; the materialize workers share one.
type Renderer struct {
	png *png.Encoder
}

// New creates a Renderer that favors PNG speed over size, since stills are
// read once by the encoder and then deleted.
func New() *Renderer {
	return NewWithCompression(png.BestSpeed)
}

// NewWithCompression creates a Renderer with the given PNG compression level.
func NewWithCompression(level png.CompressionLevel) *Renderer {
	return &Renderer{
		png: &png.Encoder{CompressionLevel: level, BufferPool: &bufferPool{}},
	}
}

// EncodeStill encodes img as PNG.
func (r *Renderer) EncodeStill(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// Fit scales img to width x height with Catmull-Rom interpolation. An image
// already of that size is returned as is.
func (r *Renderer) Fit(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// NewCanvas creates a transparent gg canvas.
func (r *Renderer) NewCanvas(width, height int) ports.Canvas {
	return &Canvas{dc: gg.NewContext(width, height)}
}

var _ ports.Renderer = (*Renderer)(nil)

// bufferPool lets concurrent PNG encodes reuse their scratch buffers.
type bufferPool struct {
	pool sync.Pool
}

func (p *bufferPool) Get() *png.EncoderBuffer {
	b, _ := p.pool.Get().(*png.EncoderBuffer)
	return b
}

func (p *bufferPool) Put(b *png.EncoderBuffer) {
	p.pool.Put(b)
}

// Canvas implements ports.Canvas on a gg.Context. Labels use gg's built-in
// bitmap face.
type Canvas struct {
	dc *gg.Context
}

func (c *Canvas) Fill(col color.Color) {
	c.dc.SetColor(col)
	c.dc.Clear()
}

func (c *Canvas) Rect(x, y, w, h int, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	c.dc.Fill()
}

func (c *Canvas) RoundedRect(x, y, w, h, radius int, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRoundedRectangle(float64(x), float64(y), float64(w), float64(h), float64(radius))
	c.dc.Fill()
}

func (c *Canvas) Line(x1, y1, x2, y2 int, col color.Color, width float64) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(width)
	c.dc.DrawLine(float64(x1), float64(y1), float64(x2), float64(y2))
	c.dc.Stroke()
}

func (c *Canvas) Label(text string, x, y int, col color.Color, align ports.TextAlign) {
	ax := 0.0
	switch align {
	case ports.AlignCenter:
		ax = 0.5
	case ports.AlignRight:
		ax = 1
	}
	c.dc.SetColor(col)
	c.dc.DrawStringAnchored(text, float64(x), float64(y), ax, 0.5)
}

// Image returns the canvas pixels. The image shares memory with the canvas.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

var _ ports.Canvas = (*Canvas)(nil)
