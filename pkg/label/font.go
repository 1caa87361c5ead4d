package label

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultFamily is used for unknown family names.
const DefaultFamily = "go"

// family holds the font data of one family indexed by style.
type family [4][]byte

var families = map[string]family{
	"go": {
		Plain:      goregular.TTF,
		Bold:       gobold.TTF,
		Italic:     goitalic.TTF,
		BoldItalic: gobolditalic.TTF,
	},
	"gomono": {
		Plain:      gomono.TTF,
		Bold:       gomonobold.TTF,
		Italic:     gomonoitalic.TTF,
		BoldItalic: gomonobolditalic.TTF,
	},
	"gomedium": {
		Plain:      gomedium.TTF,
		Bold:       gomedium.TTF,
		Italic:     gomediumitalic.TTF,
		BoldItalic: gomediumitalic.TTF,
	},
}

// Families returns the names of the built-in families.
func Families() []string {
	return []string{"go", "gomono", "gomedium"}
}

// fontData returns the raw font for the family and style. Families ending in
// .ttf or .otf are read from disk and the style is ignored.
func fontData(name string, style Style) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ttf", ".otf":
		b, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("label: couldn't read font %q: %w", name, err)
		}
		return b, nil
	}
	f, ok := families[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		log.Printf("label: unknown font family %q, using %s\n", name, DefaultFamily)
		f = families[DefaultFamily]
	}
	return f[style], nil
}

// NewFace loads the font face described by the spec. The caller must close
// it.
func NewFace(spec Spec) (font.Face, error) {
	if spec.Style < Plain || spec.Style > BoldItalic {
		return nil, fmt.Errorf("%w: unknown font style %d", ErrConfig, spec.Style)
	}
	b, err := fontData(spec.Family, spec.Style)
	if err != nil {
		return nil, err
	}
	ft, err := opentype.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("label: couldn't parse font %q: %w", spec.Family, err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    spec.Size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("label: couldn't create face: %w", err)
	}
	return face, nil
}
