package raster

import "image"

// intersectMasks returns the per-pixel product of a and b as a new mask.
// A nil a is full coverage and b is returned as is.
func intersectMasks(a, b *image.Alpha) *image.Alpha {
	if a == nil {
		return b
	}
	out := image.NewAlpha(b.Rect)
	for i := range out.Pix {
		out.Pix[i] = mul8(a.Pix[i], b.Pix[i])
	}
	return out
}

// invertMask replaces every coverage value v with 255-v in place.
func invertMask(m *image.Alpha) {
	for i, v := range m.Pix {
		m.Pix[i] = 255 - v
	}
}

func mul8(a, b uint8) uint8 {
	return uint8((uint32(a)*uint32(b) + 127) / 255)
}
