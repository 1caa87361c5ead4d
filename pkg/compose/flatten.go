package compose

import "image"

// Flatten drops the alpha channel of m in place: fully transparent pixels
// become opaque white and every other pixel keeps its color as if it were
// opaque, with no blending of partially transparent pixels.
func Flatten(m *image.NRGBA) *image.NRGBA {
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := m.PixOffset(b.Min.X, y)
		row := m.Pix[i : i+4*b.Dx()]
		for j := 0; j < len(row); j += 4 {
			if row[j+3] == 0 {
				row[j], row[j+1], row[j+2] = 0xff, 0xff, 0xff
			}
			row[j+3] = 0xff
		}
	}
	return m
}
