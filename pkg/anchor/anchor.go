// Package anchor places an overlay over a base image at one of nine
// symbolic positions.
package anchor

import (
	"image"
	"strings"
)

type Anchor int

const (
	BottomRight Anchor = iota
	Top
	Bottom
	Left
	Right
	Center
	TopLeft
	TopRight
	BottomLeft
)

// All lists every anchor in token order.
var All = []Anchor{Top, Bottom, Left, Right, Center, TopLeft, TopRight, BottomLeft, BottomRight}

var tokens = map[string]Anchor{
	"t":  Top,
	"b":  Bottom,
	"l":  Left,
	"r":  Right,
	"c":  Center,
	"lt": TopLeft,
	"rt": TopRight,
	"lb": BottomLeft,
	"rb": BottomRight,
}

// Parse maps a position token (t, b, l, r, c, lt, rt, lb, rb) to an anchor.
// Unknown tokens fall back to BottomRight.
func Parse(token string) Anchor {
	if a, ok := tokens[strings.ToLower(strings.TrimSpace(token))]; ok {
		return a
	}
	return BottomRight
}

// Token returns the short token accepted by Parse.
func (a Anchor) Token() string {
	switch a {
	case Top:
		return "t"
	case Bottom:
		return "b"
	case Left:
		return "l"
	case Right:
		return "r"
	case Center:
		return "c"
	case TopLeft:
		return "lt"
	case TopRight:
		return "rt"
	case BottomLeft:
		return "lb"
	default:
		return "rb"
	}
}

func (a Anchor) String() string {
	switch a {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	case Center:
		return "center"
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomLeft:
		return "bottom-left"
	default:
		return "bottom-right"
	}
}

// Resolve returns the top-left point where an overlay of size ov must be
// drawn over a base of size base. The margin only applies to the top and
// left edges. The result isn't clamped, so it is negative on any axis
// where the overlay is larger than the base.
func Resolve(base, ov image.Point, a Anchor, margin int) image.Point {
	centerX := (base.X - ov.X) / 2
	centerY := (base.Y - ov.Y) / 2
	endX := base.X - ov.X
	endY := base.Y - ov.Y

	switch a {
	case Top:
		return image.Pt(centerX, margin)
	case Bottom:
		return image.Pt(centerX, endY)
	case Left:
		return image.Pt(margin, centerY)
	case Right:
		return image.Pt(endX, centerY)
	case Center:
		return image.Pt(centerX, centerY)
	case TopLeft:
		return image.Pt(margin, margin)
	case TopRight:
		return image.Pt(endX, margin)
	case BottomLeft:
		return image.Pt(margin, endY)
	default:
		return image.Pt(endX, endY)
	}
}
