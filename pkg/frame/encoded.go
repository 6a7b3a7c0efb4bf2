package frame

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
)

// Format identifies the compression of an encoded handle.
type Format int

const (
	FormatJPEG Format = iota
	FormatPNG
)

type encodedHandle struct {
	data   []byte
	format Format
}

// NewEncoded keeps compressed image bytes and decodes them on demand.
func NewEncoded(data []byte, format Format) Handle {
	return &encodedHandle{data: data, format: format}
}

func (h *encodedHandle) Image() (image.Image, error) {
	if h.data == nil {
		return nil, ErrReleased
	}
	r := bytes.NewReader(h.data)
	var (
		img image.Image
		err error
	)
	switch h.format {
	case FormatJPEG:
		img, err = jpeg.Decode(r)
	case FormatPNG:
		img, err = png.Decode(r)
	default:
		img, _, err = image.Decode(r)
	}
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return img, nil
}

func (h *encodedHandle) Bytes() int64 {
	return int64(len(h.data))
}

func (h *encodedHandle) Release() {
	h.data = nil
}
