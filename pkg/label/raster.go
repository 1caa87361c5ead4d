// Package label renders a line of text into a standalone label image,
// wrapping it over several lines when it doesn't fit the maximum width.
package label

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

// Layout is the result of splitting a text into label lines.
type Layout struct {
	Lines      []string
	Width      int
	LineHeight int
	Descent    int
	// TextWidth is the measured width of the whole text on a single line.
	TextWidth int
}

// Height returns the label height, always a multiple of the line height.
func (l *Layout) Height() int {
	return l.LineHeight * len(l.Lines)
}

// Measure returns the single line width of text and the line height for the
// spec font.
func Measure(text string, spec Spec) (width, lineHeight int, err error) {
	face, err := NewFace(spec)
	if err != nil {
		return 0, 0, err
	}
	defer face.Close()
	return font.MeasureString(face, norm.NFC.String(text)).Ceil(), face.Metrics().Height.Ceil(), nil
}

// NewLayout splits text into lines. Lines are cut by character count: the
// number of lines is the ratio between the text width and the available
// width (max width minus both margins) rounded up, and every line but the
// last holds the same number of characters.
func NewLayout(text string, spec Spec) (*Layout, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	face, err := NewFace(spec)
	if err != nil {
		return nil, err
	}
	defer face.Close()
	return newLayout(face, norm.NFC.String(text), spec), nil
}

func newLayout(face font.Face, text string, spec Spec) *Layout {
	metrics := face.Metrics()
	textWidth := font.MeasureString(face, text).Ceil()
	runes := []rune(text)

	lines, perLine := 1, len(runes)
	if textWidth > 0 {
		divisor := float64(textWidth) / float64(spec.MaxWidth-2*spec.Margin)
		lines = int(math.Ceil(divisor))
		perLine = int(math.Floor(float64(len(runes)) / divisor))
	}
	if lines < 1 {
		lines = 1
	}
	if perLine < 1 {
		perLine = 1
	}

	width := textWidth
	if lines > 1 {
		width = spec.MaxWidth
	}
	return &Layout{
		Lines:      chunks(runes, lines, perLine),
		Width:      width,
		LineHeight: metrics.Height.Ceil(),
		Descent:    metrics.Descent.Ceil(),
		TextWidth:  textWidth,
	}
}

// chunks cuts runes into n chunks of size runes, the last one taking
// whatever remains.
func chunks(runes []rune, n, size int) []string {
	out := make([]string, n)
	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i == n-1 || end > len(runes) {
			end = len(runes)
		}
		if start > end {
			start = end
		}
		out[i] = string(runes[start:end])
		start = end
	}
	return out
}

// Rasterize renders text into a new label image. It returns nil when there
// is no text to render.
func Rasterize(text string, spec Spec) (*image.NRGBA, error) {
	if text == "" {
		return nil, nil
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	face, err := NewFace(spec)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	layout := newLayout(face, norm.NFC.String(text), spec)
	img := image.NewNRGBA(image.Rect(0, 0, layout.Width, layout.Height()))
	draw.Draw(img, img.Bounds(), image.NewUniform(spec.Background), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(spec.Foreground),
		Face: face,
	}
	y := layout.LineHeight
	for _, line := range layout.Lines {
		// Baseline sits one descent above the bottom of the line.
		d.Dot = fixed.P(0, y-layout.Descent)
		d.DrawString(line)
		y += layout.LineHeight
	}
	return img, nil
}
