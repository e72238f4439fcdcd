package sapling

import "strings"

// ViewBoxTransform returns the matrix that maps src into dst according to a
// preserveAspectRatio alignment ("xMinYMin" through "xMaxYMax", or "none")
// and a meet-or-slice mode. With align "none" or MeetOrSliceNone the box is
// stretched to fill dst on both axes. A degenerate src yields Identity.
func ViewBoxTransform(src, dst Rect, align string, mos MeetOrSlice) Matrix {
	if src.Width <= 0 || src.Height <= 0 {
		return Identity
	}
	sx := dst.Width / src.Width
	sy := dst.Height / src.Height

	if align == "" {
		align = "xMidYMid"
	}
	uniform := align != "none" && mos != MeetOrSliceNone
	if uniform {
		s := sx
		if mos == Slice {
			if sy > s {
				s = sy
			}
		} else if sy < s {
			s = sy
		}
		sx, sy = s, s
	}

	tx := dst.X - src.X*sx
	ty := dst.Y - src.Y*sy
	if uniform {
		extraX := dst.Width - src.Width*sx
		extraY := dst.Height - src.Height*sy
		switch {
		case strings.Contains(align, "xMid"):
			tx += extraX / 2
		case strings.Contains(align, "xMax"):
			tx += extraX
		}
		switch {
		case strings.Contains(align, "YMid"):
			ty += extraY / 2
		case strings.Contains(align, "YMax"):
			ty += extraY
		}
	}
	return Matrix{sx, 0, 0, sy, tx, ty}
}
