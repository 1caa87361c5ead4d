// Package compose draws a label over a base image and flattens the result
// for encodings without an alpha channel.
package compose

import (
	"errors"
	"image"
	"reflect"

	"github.com/igolaizola/inko/pkg/anchor"
	inkimg "github.com/igolaizola/inko/pkg/image"
	"golang.org/x/image/draw"
)

// ErrInput is returned when there is no base image.
var ErrInput = errors.New("compose: base image is missing")

// Overlay draws overlay over base at the anchored position and returns a new
// image along with the position the overlay was drawn at. The canvas is as
// large as the biggest of both images on each axis, so the overlay is never
// cut by the base bounds. When the format can't carry alpha the result is
// flattened.
//
// A nil overlay returns an unflattened copy of base and a zero position.
func Overlay(base, overlay image.Image, a anchor.Anchor, margin int, format inkimg.Format) (*image.NRGBA, image.Point, error) {
	if IsNil(base) {
		return nil, image.Point{}, ErrInput
	}
	if IsNil(overlay) {
		return Clone(base), image.Point{}, nil
	}
	bs := base.Bounds().Size()
	ov := overlay.Bounds().Size()

	canvas := image.NewNRGBA(image.Rect(0, 0, max(bs.X, ov.X), max(bs.Y, ov.Y)))
	copyInto(canvas, base)

	pos := anchor.Resolve(bs, ov, a, margin)
	Over(canvas, overlay, pos)

	if !format.HasAlpha() {
		Flatten(canvas)
	}
	return canvas, pos, nil
}

// IsNil reports whether m is nil, including nil pointers wrapped in the
// interface.
func IsNil(m image.Image) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Clone copies m into a new image whose origin is (0, 0).
func Clone(m image.Image) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, m.Bounds().Dx(), m.Bounds().Dy()))
	copyInto(out, m)
	return out
}

// copyInto replaces the top-left area of dst with the pixels of src.
func copyInto(dst *image.NRGBA, src image.Image) {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok {
		// Copy rows verbatim to keep non-opaque pixels exact
		w := b.Dx() * 4
		for y := 0; y < b.Dy(); y++ {
			so := n.PixOffset(b.Min.X, b.Min.Y+y)
			do := dst.PixOffset(0, y)
			copy(dst.Pix[do:do+w], n.Pix[so:so+w])
		}
		return
	}
	draw.Draw(dst, image.Rect(0, 0, b.Dx(), b.Dy()), src, b.Min, draw.Src)
}
