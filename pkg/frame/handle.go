// Package frame defines captured frame handles and the reference-counted
// records the replay buffer stores them in.
package frame

import (
	"errors"
	"image"
)

// ErrReleased is returned when a handle is read after its last reference was dropped.
var ErrReleased = errors.New("frame: handle already released")

// Handle is an opaque captured image. Whoever holds a Handle owns it and must
// call Release exactly once when done with it.
type Handle interface {
	// Image materializes the frame. It may fail for lazily decoded handles.
	Image() (image.Image, error)

	// Bytes estimates the memory held by the handle.
	Bytes() int64

	// Release frees the underlying resources.
	Release()
}

// imageHandle wraps an image without copying it.
type imageHandle struct {
	img       image.Image
	onRelease func()
}

// FromImage wraps img as a Handle. onRelease, if non-nil, runs on Release.
func FromImage(img image.Image, onRelease func()) Handle {
	return &imageHandle{img: img, onRelease: onRelease}
}

func (h *imageHandle) Image() (image.Image, error) {
	if h.img == nil {
		return nil, ErrReleased
	}
	return h.img, nil
}

func (h *imageHandle) Bytes() int64 {
	if h.img == nil {
		return 0
	}
	return estimateBytes(h.img)
}

func (h *imageHandle) Release() {
	if h.img == nil {
		return
	}
	h.img = nil
	if h.onRelease != nil {
		h.onRelease()
	}
}

// estimateBytes approximates the pixel memory of an image.
func estimateBytes(img image.Image) int64 {
	switch v := img.(type) {
	case *image.RGBA:
		return int64(len(v.Pix))
	case *image.NRGBA:
		return int64(len(v.Pix))
	case *image.Gray:
		return int64(len(v.Pix))
	case *image.YCbCr:
		return int64(len(v.Y) + len(v.Cb) + len(v.Cr))
	default:
		b := img.Bounds()
		return int64(b.Dx()) * int64(b.Dy()) * 4
	}
}
