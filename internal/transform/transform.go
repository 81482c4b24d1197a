// Package transform converts between view space (the page as currently
// rotated for display) and canonical page space (0° rotation, scale 1).
// It is the only place in the codebase allowed to do rotation math.
package transform

import (
	"fmt"

	"github.com/kpauljoseph/pagemark/pkg/models"
)

// Normalize reduces an accumulation of ±90° steps into [0, 360).
func Normalize(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg
}

// ToCanonical maps a view-space point back into canonical page space.
// rotation is the page's total effective rotation and must be one of
// 0, 90, 180, 270; anything else is a caller bug and panics.
func ToCanonical(x, y float64, rotation int, pageW, pageH float64) (float64, float64) {
	switch rotation {
	case 0:
		return x, y
	case 90:
		return pageW - y, x
	case 180:
		return pageW - x, pageH - y
	case 270:
		return y, pageH - x
	}
	panic(fmt.Sprintf("transform: invalid rotation %d, want multiple of 90 in [0,360)", rotation))
}

// ToView is the inverse of ToCanonical for the same rotation.
func ToView(x, y float64, rotation int, pageW, pageH float64) (float64, float64) {
	switch rotation {
	case 0:
		return x, y
	case 90:
		return y, pageW - x
	case 180:
		return pageW - x, pageH - y
	case 270:
		return pageH - y, x
	}
	panic(fmt.Sprintf("transform: invalid rotation %d, want multiple of 90 in [0,360)", rotation))
}

// BoundingBoxToView maps a canonical-space box into view space. The box
// center is transformed rather than its corner; corner transforms are not
// rotation-stable for non-square boxes. Width and height swap at 90/270.
func BoundingBoxToView(box models.Rect, rotation int, pageW, pageH float64) models.Rect {
	center := box.Center()
	cx, cy := ToView(center.X, center.Y, rotation, pageW, pageH)

	w, h := box.Width, box.Height
	if rotation == 90 || rotation == 270 {
		w, h = h, w
	}

	return models.Rect{
		X:      cx - w/2,
		Y:      cy - h/2,
		Width:  w,
		Height: h,
	}
}

// BoundingBoxToCanonical inverts BoundingBoxToView.
func BoundingBoxToCanonical(box models.Rect, rotation int, pageW, pageH float64) models.Rect {
	center := box.Center()
	cx, cy := ToCanonical(center.X, center.Y, rotation, pageW, pageH)

	w, h := box.Width, box.Height
	if rotation == 90 || rotation == 270 {
		w, h = h, w
	}

	return models.Rect{
		X:      cx - w/2,
		Y:      cy - h/2,
		Width:  w,
		Height: h,
	}
}
