package bitmapcache

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/h2non/filetype"
	"golang.org/x/image/draw"
)

// ErrNotImage is returned when fetched bytes are not a supported image.
var ErrNotImage = errors.New("bitmapcache: not an image")

// decode sniffs data and decodes it into an image.
func decode(data []byte, name string) (image.Image, error) {
	if !filetype.IsImage(data) {
		mime := "unknown"
		if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
			mime = kind.MIME.Value
		}
		return nil, fmt.Errorf("bitmapcache: %q is %s: %w", name, mime, ErrNotImage)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("bitmapcache: decode %q: %w", name, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("bitmapcache: %q decoded as empty %s: %w", name, format, ErrNotImage)
	}
	return img, nil
}

// fit downsamples img to w by h device pixels. Images already within the
// hint, and hints with a zero side, are returned unchanged.
func fit(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if w <= 0 || h <= 0 || (b.Dx() <= w && b.Dy() <= h) {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
