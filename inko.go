// Package inko writes a label made of image metadata and free text over an
// image.
package inko

import (
	"fmt"
	"image"

	"github.com/igolaizola/inko/pkg/anchor"
	"github.com/igolaizola/inko/pkg/compose"
	inkimg "github.com/igolaizola/inko/pkg/image"
	"github.com/igolaizola/inko/pkg/label"
	"github.com/igolaizola/inko/pkg/meta"
)

// Options configures one render. Build a new value for every render.
type Options struct {
	Program   meta.Program
	Separator string
	Label     label.Spec
	Anchor    anchor.Anchor
	Format    inkimg.Format
}

// Result holds the output of a render.
type Result struct {
	Text  string
	Image *image.NRGBA
	// Label is nil when the text is empty.
	Label *image.NRGBA
	// Position is where the label was drawn.
	Position image.Point
}

// Render assembles the label text, rasterizes it and composites it over
// base. A zero Label.MaxWidth uses the base width.
func Render(base image.Image, lookup meta.Lookup, opts *Options) (*Result, error) {
	if compose.IsNil(base) {
		return nil, compose.ErrInput
	}
	spec := opts.Label
	if spec.MaxWidth == 0 {
		spec.MaxWidth = base.Bounds().Dx()
	}

	text := meta.Assemble(opts.Program, lookup, opts.Separator)
	lbl, err := label.Rasterize(text, spec)
	if err != nil {
		return nil, fmt.Errorf("inko: couldn't rasterize label: %w", err)
	}

	var ovl image.Image
	if lbl != nil {
		ovl = lbl
	}
	out, pos, err := compose.Overlay(base, ovl, opts.Anchor, spec.Margin, opts.Format)
	if err != nil {
		return nil, err
	}
	if lbl == nil && !opts.Format.HasAlpha() {
		compose.Flatten(out)
	}
	return &Result{
		Text:     text,
		Image:    out,
		Label:    lbl,
		Position: pos,
	}, nil
}
