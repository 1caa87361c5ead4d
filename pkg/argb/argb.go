// Package argb parses colors written as #AARRGGBB.
package argb

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
)

// ErrParse is returned for colors that aren't exactly '#' followed by eight
// hexadecimal digits.
var ErrParse = errors.New("argb: invalid color")

// Parse converts "#AARRGGBB" into a non-premultiplied color.
func Parse(s string) (color.NRGBA, error) {
	if len(s) != 9 || s[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("%w %q: expected #AARRGGBB", ErrParse, s)
	}
	var b [4]uint8
	for i := range b {
		pair := s[1+2*i : 3+2*i]
		v, err := strconv.ParseUint(pair, 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w %q: non-hex digits %q", ErrParse, s, pair)
		}
		b[i] = uint8(v)
	}
	return color.NRGBA{A: b[0], R: b[1], G: b[2], B: b[3]}, nil
}

// Format is the inverse of Parse.
func Format(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.A, c.R, c.G, c.B)
}
