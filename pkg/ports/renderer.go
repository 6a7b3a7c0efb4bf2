package ports

import (
	"image"
	"image/color"
)

// StillEncoder prepares frames for the clip encoder.
type StillEncoder interface {
	// EncodeStill returns img as a lossless PNG.
	EncodeStill(img image.Image) ([]byte, error)

	// Fit returns img scaled to exactly width x height.
	Fit(img image.Image, width, height int) image.Image
}

// Painter creates canvases for generated frames.
type Painter interface {
	NewCanvas(width, height int) Canvas
}

// Renderer is the full image toolkit used by the run command.
type Renderer interface {
	StillEncoder
	Painter
}

// Canvas is a reusable drawing surface. Image returns a view of the current
// pixels, so callers copy it before drawing the next frame.
type Canvas interface {
	Fill(c color.Color)
	Rect(x, y, w, h int, c color.Color)
	RoundedRect(x, y, w, h, radius int, c color.Color)
	Line(x1, y1, x2, y2 int, c color.Color, width float64)

	// Label draws one line of text vertically centered on y, aligned on x.
	Label(text string, x, y int, c color.Color, align TextAlign)

	Image() image.Image
}

// TextAlign is the horizontal anchor of a label.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)
