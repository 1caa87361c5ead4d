package label

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// ErrConfig is returned for invalid label parameters.
var ErrConfig = errors.New("label: invalid configuration")

type Style int

const (
	Plain Style = iota
	Bold
	Italic
	BoldItalic
)

func (s Style) String() string {
	switch s {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case BoldItalic:
		return "bolditalic"
	default:
		return "plain"
	}
}

// ParseStyle accepts b|bold, i|italic, bi|bolditalic and p|plain.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "b", "bold":
		return Bold, nil
	case "i", "italic":
		return Italic, nil
	case "bi", "bolditalic":
		return BoldItalic, nil
	case "p", "plain":
		return Plain, nil
	default:
		return Plain, fmt.Errorf("%w: unknown font style %q", ErrConfig, s)
	}
}

// MaxSize is the largest font size in points.
const MaxSize = 1000

// ParseSize parses a font size in points. Only plain decimals such as 50 or
// 12.5 are accepted.
func ParseSize(s string) (float64, error) {
	t := strings.TrimSpace(s)
	if !isDecimal(t) {
		return 0, fmt.Errorf("%w: font size %q is not a number", ErrConfig, s)
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: font size %q is not a number", ErrConfig, s)
	}
	if v <= 0 || v > MaxSize {
		return 0, fmt.Errorf("%w: font size %q must be between 0 and %d", ErrConfig, s, MaxSize)
	}
	return v, nil
}

// isDecimal reports whether s is made of digits with at most one inner dot.
func isDecimal(s string) bool {
	digits, dot := 0, false
	for i, c := range s {
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' && !dot && i > 0 && i < len(s)-1:
			dot = true
		default:
			return false
		}
	}
	return digits > 0
}

// ParseMargin parses a margin in pixels.
func ParseMargin(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: margin %q is not a number", ErrConfig, s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: margin %q must not be negative", ErrConfig, s)
	}
	return v, nil
}

// Spec describes how a label is rendered. It is a plain value: build one per
// render and pass it along.
type Spec struct {
	// Family is a built-in family name (go, gomono, gomedium) or the path of
	// a .ttf/.otf file.
	Family     string
	Style      Style
	Size       float64
	Foreground color.NRGBA
	Background color.NRGBA
	Margin     int
	MaxWidth   int
}

// Default returns the spec used when nothing is configured.
func Default() Spec {
	return Spec{
		Family:     "go",
		Style:      Bold,
		Size:       50,
		Foreground: color.NRGBA{A: 255},
		Margin:     10,
	}
}

// Validate checks the spec before rendering.
func (s Spec) Validate() error {
	if math.IsNaN(s.Size) || s.Size <= 0 || s.Size > MaxSize {
		return fmt.Errorf("%w: font size %v must be between 0 and %d", ErrConfig, s.Size, MaxSize)
	}
	if s.Margin < 0 {
		return fmt.Errorf("%w: margin %d must not be negative", ErrConfig, s.Margin)
	}
	if s.MaxWidth <= 2*s.Margin {
		return fmt.Errorf("%w: max width %d must be greater than twice the margin %d", ErrConfig, s.MaxWidth, s.Margin)
	}
	return nil
}
