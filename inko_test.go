package inko

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/igolaizola/inko/pkg/anchor"
	"github.com/igolaizola/inko/pkg/compose"
	inkimg "github.com/igolaizola/inko/pkg/image"
	"github.com/igolaizola/inko/pkg/label"
	"github.com/igolaizola/inko/pkg/meta"
)

func newBase(w, h int, c color.NRGBA) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetNRGBA(x, y, c)
		}
	}
	return m
}

func lookup(k meta.Kind) (string, error) {
	if k == meta.CameraModel {
		return "Canon", nil
	}
	return "", meta.ErrMissing
}

func TestRender(t *testing.T) {
	base := newBase(600, 300, color.NRGBA{R: 20, G: 40, B: 60, A: 255})
	spec := label.Default()
	spec.Size = 24
	opts := &Options{
		Program:   meta.Program{meta.Ref(meta.CameraModel), meta.Text("Lausanne")},
		Separator: meta.DefaultSeparator,
		Label:     spec,
		Anchor:    anchor.BottomRight,
		Format:    inkimg.PNG,
	}
	res, err := Render(base, meta.LookupFunc(lookup), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "Canon - Lausanne" {
		t.Fatalf("text = %q; want %q", res.Text, "Canon - Lausanne")
	}
	if res.Label == nil {
		t.Fatal("label = nil; want image")
	}
	if got := res.Image.Bounds(); got != base.Bounds() {
		t.Fatalf("bounds = %v; want %v", got, base.Bounds())
	}
	ls := res.Label.Bounds().Size()
	if want := image.Pt(600-ls.X, 300-ls.Y); res.Position != want {
		t.Fatalf("position = %v; want %v", res.Position, want)
	}
	if got := res.Image.NRGBAAt(0, 0); got != base.NRGBAAt(0, 0) {
		t.Fatalf("pixel outside label = %v; want %v", got, base.NRGBAAt(0, 0))
	}
	if opts.Label.MaxWidth != 0 {
		t.Fatal("Render modified the options")
	}
}

func TestRenderEmptyProgram(t *testing.T) {
	base := newBase(10, 10, color.NRGBA{R: 1, G: 2, B: 3, A: 0})
	res, err := Render(base, nil, &Options{Label: label.Default(), Format: inkimg.JPEG})
	if err != nil {
		t.Fatal(err)
	}
	if res.Label != nil || res.Text != "" {
		t.Fatalf("label = %v, text = %q; want no label", res.Label, res.Text)
	}
	if got := res.Image.NRGBAAt(5, 5); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("pixel = %v; want flattened white", got)
	}
}

func TestRenderErrors(t *testing.T) {
	if _, err := Render(nil, nil, &Options{}); !errors.Is(err, compose.ErrInput) {
		t.Fatalf("Render(nil) err = %v; want ErrInput", err)
	}
	var typed *image.NRGBA
	if _, err := Render(typed, nil, &Options{}); !errors.Is(err, compose.ErrInput) {
		t.Fatalf("Render(typed nil) err = %v; want ErrInput", err)
	}
	base := newBase(20, 20, color.NRGBA{A: 255})
	opts := &Options{Program: meta.Program{meta.Text("hello")}, Label: label.Default(), Format: inkimg.PNG}
	if _, err := Render(base, nil, opts); !errors.Is(err, label.ErrConfig) {
		t.Fatalf("Render(max width 20, margin 10) err = %v; want ErrConfig", err)
	}
}
