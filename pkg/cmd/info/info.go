package info

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"os"

	inkimg "github.com/igolaizola/inko/pkg/image"
	"github.com/igolaizola/inko/pkg/meta"
)

type Config struct {
	Debug      bool
	Input      string
	DateLayout string
	GMT        int

	// Out defaults to stdout.
	Out io.Writer
}

// Run prints every metadata field of the input image.
func Run(ctx context.Context, cfg *Config) error {
	if cfg.Input == "" {
		return fmt.Errorf("info: input is required")
	}
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	b, err := os.ReadFile(cfg.Input)
	if err != nil {
		return fmt.Errorf("info: couldn't read input: %w", err)
	}
	w, h, err := inkimg.Size(cfg.Input, b)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}
	reader := meta.NewReader(bytes.NewReader(b), image.Pt(w, h), meta.Options{
		DateLayout: cfg.DateLayout,
		GMT:        cfg.GMT,
	})
	if err := reader.Err(); err != nil && cfg.Debug {
		log.Printf("info: no exif data in %s: %v\n", cfg.Input, err)
	}
	for _, k := range meta.Kinds {
		v, err := reader.Lookup(k)
		if err != nil {
			v = meta.Fallback(k)
		}
		fmt.Fprintf(out, "%s: %s\n", k, v)
	}
	return nil
}
