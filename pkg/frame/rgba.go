package frame

import (
	"image"
	"sync"

	"golang.org/x/image/draw"
)

// Pooled RGBA backing buffers, refilled as released frames return them.
var rgbaPool sync.Pool // stores *image.RGBA

// acquireRGBA returns an RGBA image sized to rect, reusing pooled memory when possible.
func acquireRGBA(rect image.Rectangle) *image.RGBA {
	w, h := rect.Dx(), rect.Dy()
	if w <= 0 || h <= 0 {
		return &image.RGBA{Rect: rect}
	}
	needed := w * h * 4
	var img *image.RGBA
	if v := rgbaPool.Get(); v != nil {
		img = v.(*image.RGBA)
	}
	if img == nil || cap(img.Pix) < needed {
		return &image.RGBA{Pix: make([]byte, needed), Stride: w * 4, Rect: rect}
	}
	img.Stride = w * 4
	img.Rect = rect
	img.Pix = img.Pix[:needed]
	return img
}

type rgbaHandle struct {
	img *image.RGBA
}

// NewRGBA copies src into a pooled RGBA buffer. The buffer returns to the
// pool when the handle is released, so src may be reused by the caller.
func NewRGBA(src image.Image) Handle {
	b := src.Bounds()
	dst := acquireRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return &rgbaHandle{img: dst}
}

func (h *rgbaHandle) Image() (image.Image, error) {
	if h.img == nil {
		return nil, ErrReleased
	}
	return h.img, nil
}

func (h *rgbaHandle) Bytes() int64 {
	if h.img == nil {
		return 0
	}
	return int64(len(h.img.Pix))
}

func (h *rgbaHandle) Release() {
	if h.img == nil {
		return
	}
	if h.img.Pix != nil {
		rgbaPool.Put(h.img)
	}
	h.img = nil
}
