package compose

import (
	"image"
	"image/color"
)

// Over blends src onto dst with its top-left corner at pos using the
// "over" operator on non-premultiplied pixels. Transparent source pixels
// leave dst untouched and pixels outside dst are clipped.
func Over(dst *image.NRGBA, src image.Image, pos image.Point) {
	sb := src.Bounds()
	area := image.Rectangle{Min: pos, Max: pos.Add(sb.Size())}.Intersect(dst.Bounds())
	if area.Empty() {
		return
	}
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			s := color.NRGBAModel.Convert(src.At(sb.Min.X+x-pos.X, sb.Min.Y+y-pos.Y)).(color.NRGBA)
			i := dst.PixOffset(x, y)
			p := dst.Pix[i : i+4 : i+4]
			d := color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
			c := blend(s, d)
			p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
		}
	}
}

// blend returns s over d.
func blend(s, d color.NRGBA) color.NRGBA {
	switch {
	case s.A == 0:
		return d
	case s.A == 0xff || d.A == 0:
		return s
	}
	sa := uint32(s.A)
	// Destination weight scaled by 255
	dw := uint32(d.A) * (0xff - sa)
	// Output alpha scaled by 255
	oa := sa*0xff + dw
	ch := func(sc, dc uint8) uint8 {
		return uint8((uint32(sc)*sa*0xff + uint32(dc)*dw + oa/2) / oa)
	}
	return color.NRGBA{
		R: ch(s.R, d.R),
		G: ch(s.G, d.G),
		B: ch(s.B, d.B),
		A: uint8((oa + 0x7f) / 0xff),
	}
}
