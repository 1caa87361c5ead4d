package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/igolaizola/inko"
	"github.com/igolaizola/inko/pkg/anchor"
	"github.com/igolaizola/inko/pkg/argb"
	"github.com/igolaizola/inko/pkg/compose"
	"github.com/igolaizola/inko/pkg/filestore"
	inkimg "github.com/igolaizola/inko/pkg/image"
	"github.com/igolaizola/inko/pkg/label"
	"github.com/igolaizola/inko/pkg/meta"
	"github.com/igolaizola/inko/pkg/storage"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/browser"
)

// Params are the textual label and placement settings shared by the command
// line and the HTTP service.
type Params struct {
	Format     string
	Position   string
	Font       string
	FontStyle  string
	FontSize   string
	Color      string
	Background string
	Margin     string
	MaxWidth   int
	Separator  string
	DateLayout string
	GMT        int
}

// DefaultParams returns the default settings.
func DefaultParams() Params {
	return Params{
		Format:     string(inkimg.JPEG),
		Position:   anchor.BottomRight.Token(),
		Font:       label.DefaultFamily,
		FontStyle:  "bold",
		FontSize:   "50",
		Color:      "#FF000000",
		Background: "#00000000",
		Margin:     "10",
		Separator:  meta.DefaultSeparator,
		DateLayout: meta.DefaultDateLayout,
		GMT:        -2,
	}
}

// Options parses the params into render options. Errors wrap
// label.ErrConfig or argb.ErrParse.
func (p *Params) Options(program meta.Program) (*inko.Options, error) {
	format, err := inkimg.ParseFormat(p.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", label.ErrConfig, err)
	}
	style, err := label.ParseStyle(p.FontStyle)
	if err != nil {
		return nil, err
	}
	size, err := label.ParseSize(p.FontSize)
	if err != nil {
		return nil, err
	}
	margin, err := label.ParseMargin(p.Margin)
	if err != nil {
		return nil, err
	}
	if p.MaxWidth < 0 {
		return nil, fmt.Errorf("%w: max width must not be negative: %d", label.ErrConfig, p.MaxWidth)
	}
	fg, err := argb.Parse(p.Color)
	if err != nil {
		return nil, fmt.Errorf("render: color: %w", err)
	}
	bg, err := argb.Parse(p.Background)
	if err != nil {
		return nil, fmt.Errorf("render: background: %w", err)
	}
	return &inko.Options{
		Program:   program,
		Separator: p.Separator,
		Label: label.Spec{
			Family:     p.Font,
			Style:      style,
			Size:       size,
			Foreground: fg,
			Background: bg,
			Margin:     margin,
			MaxWidth:   p.MaxWidth,
		},
		Anchor: anchor.Parse(p.Position),
		Format: format,
	}, nil
}

// Meta returns the metadata options of the params.
func (p *Params) Meta() meta.Options {
	return meta.Options{DateLayout: p.DateLayout, GMT: p.GMT}
}

type Config struct {
	Debug  bool
	DBType string
	DBConn string
	FSType string
	FSConn string
	Proxy  string

	Input   string
	Output  string
	Program meta.Program
	Show    bool
	Params  Params
}

// Run renders the label over the input image and saves the result.
func Run(ctx context.Context, cfg *Config) error {
	debug := func(format string, args ...interface{}) {
		if !cfg.Debug {
			return
		}
		format += "\n"
		log.Printf(format, args...)
	}

	if cfg.Input == "" {
		return fmt.Errorf("render: input is required: %w", compose.ErrInput)
	}
	if cfg.Output == "" {
		return errors.New("render: output is required")
	}
	opts, err := cfg.Params.Options(cfg.Program)
	if err != nil {
		return err
	}

	b, err := os.ReadFile(cfg.Input)
	if err != nil {
		return fmt.Errorf("render: couldn't read input: %w: %w", compose.ErrInput, err)
	}
	base, err := inkimg.DecodeFile(cfg.Input, b)
	if err != nil {
		return fmt.Errorf("render: %w: %w", compose.ErrInput, err)
	}
	reader := meta.NewReader(bytes.NewReader(b), base.Bounds().Size(), cfg.Params.Meta())
	if err := reader.Err(); err != nil {
		debug("render: no exif data in %s: %v", cfg.Input, err)
	}

	res, err := inko.Render(base, reader, opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	debug("render: label %q at %v", res.Text, res.Position)

	output := Output(cfg.Output, opts.Format)
	if err := inkimg.Save(output, opts.Format, res.Image); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	log.Printf("render: saved %s\n", output)

	if cfg.DBType != "" {
		if err := record(ctx, cfg, output, opts, res); err != nil {
			return err
		}
	}

	if cfg.Show {
		if err := browser.OpenFile(output); err != nil {
			return fmt.Errorf("render: couldn't open %s: %w", output, err)
		}
	}
	return nil
}

// Output returns the output path with the extension of the format. Paths
// that already carry it are returned unchanged.
func Output(path string, f inkimg.Format) string {
	ext := "." + f.Extension()
	if filepath.Ext(path) == ext {
		return path
	}
	return path + ext
}

func record(ctx context.Context, cfg *Config, output string, opts *inko.Options, res *inko.Result) error {
	store, err := storage.New(cfg.DBType, cfg.DBConn, cfg.Debug)
	if err != nil {
		return fmt.Errorf("render: couldn't create orm store: %w", err)
	}
	if err := store.Start(ctx); err != nil {
		return fmt.Errorf("render: couldn't start orm store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("render: couldn't close orm store: %v\n", err)
		}
	}()
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("render: couldn't migrate orm store: %w", err)
	}

	v := NewRecord(cfg.Input, output, opts, res)
	if err := store.SetRender(ctx, v); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if cfg.FSType == "" {
		return nil
	}
	fs, err := filestore.New(cfg.FSType, cfg.FSConn, cfg.Proxy, cfg.Debug, store)
	if err != nil {
		return fmt.Errorf("render: couldn't create file storage: %w", err)
	}
	if err := fs.SetImage(ctx, output, v.ID, opts.Format); err != nil {
		return fmt.Errorf("render: couldn't upload %s: %w", output, err)
	}
	v.Uploaded = true
	if err := store.SetRender(ctx, v); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	log.Printf("render: uploaded %s as %s\n", output, filestore.Name(v.ID, opts.Format))
	return nil
}

// NewRecord builds the history record of a render.
func NewRecord(input, output string, opts *inko.Options, res *inko.Result) *storage.Render {
	v := &storage.Render{
		ID:     ulid.Make().String(),
		Input:  input,
		Output: output,
		Format: string(opts.Format),
		Text:   res.Text,
		Anchor: opts.Anchor.Token(),
		Font:   fmt.Sprintf("%s %s %g", opts.Label.Family, opts.Label.Style, opts.Label.Size),
		Width:  res.Image.Bounds().Dx(),
		Height: res.Image.Bounds().Dy(),
		X:      res.Position.X,
		Y:      res.Position.Y,
	}
	if res.Label != nil {
		ls := res.Label.Bounds().Size()
		v.LabelWidth, v.LabelHeight = ls.X, ls.Y
	}
	return v
}
