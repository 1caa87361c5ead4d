package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/igolaizola/inko/pkg/cmd/history"
	"github.com/igolaizola/inko/pkg/cmd/info"
	"github.com/igolaizola/inko/pkg/cmd/render"
	"github.com/igolaizola/inko/pkg/cmd/serve"
	"github.com/igolaizola/inko/pkg/label"
	"github.com/igolaizola/inko/pkg/meta"
	"github.com/peterbourgon/ff/ffyaml"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
)

func New(version, commit, date string) *ffcli.Command {
	fs := flag.NewFlagSet("inko", flag.ExitOnError)

	return &ffcli.Command{
		ShortUsage: "inko [flags] <subcommand>",
		FlagSet:    fs,
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
		Subcommands: []*ffcli.Command{
			newVersionCommand(version, commit, date),
			newRenderCommand(),
			newInfoCommand(),
			newHistoryCommand(),
			newServeCommand(),
		},
	}
}

func newVersionCommand(version, commit, date string) *ffcli.Command {
	return &ffcli.Command{
		Name:       "version",
		ShortUsage: "inko version",
		ShortHelp:  "print version",
		Exec: func(ctx context.Context, args []string) error {
			v := version
			if v == "" {
				if buildInfo, ok := debug.ReadBuildInfo(); ok {
					v = buildInfo.Main.Version
				}
			}
			if v == "" {
				v = "dev"
			}
			versionFields := []string{v}
			if commit != "" {
				versionFields = append(versionFields, commit)
			}
			if date != "" {
				versionFields = append(versionFields, date)
			}
			fmt.Println(strings.Join(versionFields, " "))
			return nil
		},
	}
}

func newRenderCommand() *ffcli.Command {
	cmd := "render"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	cfg := &render.Config{Params: render.DefaultParams()}

	fs.BoolVar(&cfg.Debug, "debug", false, "debug mode")
	fs.StringVar(&cfg.DBType, "db-type", "", "db type to record renders (sqlite, mysql, postgres)")
	fs.StringVar(&cfg.DBConn, "db-conn", "", "path for sqlite, dsn for mysql or postgres")
	fs.StringVar(&cfg.FSType, "fs-type", "", "fs type to upload renders (local, s3, telegram)")
	fs.StringVar(&cfg.FSConn, "fs-conn", "", "path for local, key:secret@bucket.region for s3, token@chat for telegram")
	fs.StringVar(&cfg.Proxy, "proxy", "", "proxy to use")

	fs.StringVar(&cfg.Input, "input", "", "input image")
	fs.StringVar(&cfg.Output, "output", "OverlaidImage", "output image path (the format extension is added)")
	fs.BoolVar(&cfg.Show, "show", false, "open the output image when done")
	programFlags(fs, &cfg.Program)
	paramFlags(fs, &cfg.Params)

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("inko %s [flags]", cmd),
		Options: []ff.Option{
			ff.WithConfigFileFlag("config"),
			ff.WithConfigFileParser(orderedParser(ffyaml.Parser)),
			ff.WithEnvVarPrefix("INKO"),
		},
		ShortHelp: "write a metadata label over an image",
		FlagSet:   fs,
		Exec: func(ctx context.Context, args []string) error {
			if err := checkFieldEnv(); err != nil {
				return err
			}
			return render.Run(ctx, cfg)
		},
	}
}

func newInfoCommand() *ffcli.Command {
	cmd := "info"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	cfg := &info.Config{}

	fs.BoolVar(&cfg.Debug, "debug", false, "debug mode")
	fs.StringVar(&cfg.Input, "input", "", "input image")
	fs.StringVar(&cfg.DateLayout, "date-format", meta.DefaultDateLayout, "date layout")
	fs.IntVar(&cfg.GMT, "gmt", -2, "hour offset added to the date taken")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("inko %s [flags]", cmd),
		Options: []ff.Option{
			ff.WithConfigFileFlag("config"),
			ff.WithConfigFileParser(ffyaml.Parser),
			ff.WithEnvVarPrefix("INKO"),
		},
		ShortHelp: "print the metadata fields of an image",
		FlagSet:   fs,
		Exec: func(ctx context.Context, args []string) error {
			return info.Run(ctx, cfg)
		},
	}
}

func newHistoryCommand() *ffcli.Command {
	cmd := "history"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	cfg := &history.Config{}

	fs.BoolVar(&cfg.Debug, "debug", false, "debug mode")
	fs.StringVar(&cfg.DBType, "db-type", "", "db type (sqlite, mysql, postgres)")
	fs.StringVar(&cfg.DBConn, "db-conn", "", "path for sqlite, dsn for mysql or postgres")
	fs.IntVar(&cfg.Page, "page", 1, "page to list")
	fs.IntVar(&cfg.Limit, "limit", 20, "renders per page")
	fs.StringVar(&cfg.Text, "text", "", "only renders whose label contains this text")
	fs.StringVar(&cfg.CSV, "csv", "", "export to this csv file instead of printing")
	fs.StringVar(&cfg.Download, "download", "", "render id to download from the file store")
	fs.StringVar(&cfg.Delete, "delete", "", "render id to delete from the history")
	fs.StringVar(&cfg.Output, "output", "", "download path (defaults to <id>.<format>)")
	fs.StringVar(&cfg.FSType, "fs-type", "", "fs type to download from (local, s3, telegram)")
	fs.StringVar(&cfg.FSConn, "fs-conn", "", "path for local, key:secret@bucket.region for s3, token@chat for telegram")
	fs.StringVar(&cfg.Proxy, "proxy", "", "proxy to use")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("inko %s [flags]", cmd),
		Options: []ff.Option{
			ff.WithConfigFileFlag("config"),
			ff.WithConfigFileParser(ffyaml.Parser),
			ff.WithEnvVarPrefix("INKO"),
		},
		ShortHelp: "list, download or delete recorded renders",
		FlagSet:   fs,
		Exec: func(ctx context.Context, args []string) error {
			return history.Run(ctx, cfg)
		},
	}
}

func newServeCommand() *ffcli.Command {
	cmd := "serve"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	cfg := &serve.Config{}

	fs.BoolVar(&cfg.Debug, "debug", false, "debug mode")
	fs.StringVar(&cfg.DBType, "db-type", "", "db type to record renders (sqlite, mysql, postgres)")
	fs.StringVar(&cfg.DBConn, "db-conn", "", "path for sqlite, dsn for mysql or postgres")
	fs.StringVar(&cfg.Addr, "addr", ":8080", "address to listen on")
	fsMapVar(fs, &cfg.Credentials, "creds", nil, "credentials to use (semicolon separated) Example: user1:pass1;user2:pass2")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("inko %s [flags]", cmd),
		Options: []ff.Option{
			ff.WithConfigFileFlag("config"),
			ff.WithConfigFileParser(ffyaml.Parser),
			ff.WithEnvVarPrefix("INKO"),
		},
		ShortHelp: "serve the render endpoint over http",
		FlagSet:   fs,
		Exec: func(ctx context.Context, args []string) error {
			return serve.Serve(ctx, cfg)
		},
	}
}

func paramFlags(fs *flag.FlagSet, p *render.Params) {
	fs.StringVar(&p.Format, "format", p.Format, "output format (jpeg, jpg, png, gif, bmp, tiff)")
	fs.StringVar(&p.Position, "position", p.Position, "label position (t, b, l, r, c, lt, rt, lb, rb)")
	fs.StringVar(&p.Font, "font", p.Font, fmt.Sprintf("font family (%s) or a .ttf/.otf file", strings.Join(label.Families(), ", ")))
	fs.StringVar(&p.FontStyle, "font-style", p.FontStyle, "font style (p, b, i, bi)")
	fs.StringVar(&p.FontSize, "font-size", p.FontSize, "font size in points")
	fs.StringVar(&p.Color, "color", p.Color, "text color as #AARRGGBB")
	fs.StringVar(&p.Background, "background", p.Background, "label background as #AARRGGBB")
	fs.StringVar(&p.Margin, "margin", p.Margin, "margin in pixels")
	fs.IntVar(&p.MaxWidth, "max-width", 0, "maximum label width in pixels (0 means the image width)")
	fs.StringVar(&p.Separator, "sep", p.Separator, "separator between fields")
	fs.StringVar(&p.DateLayout, "date-format", p.DateLayout, "date layout")
	fs.IntVar(&p.GMT, "gmt", p.GMT, "hour offset added to the date taken")
}

// programFlags registers the field flags. Fields are appended in the order
// they appear on the command line.
func programFlags(fs *flag.FlagSet, p *meta.Program) {
	for _, k := range []struct {
		name  string
		kind  meta.Kind
		usage string
	}{
		{"date", meta.DateTaken, "add the date taken"},
		{"model", meta.CameraModel, "add the camera model"},
		{"size", meta.ImageDimensions, "add the image size"},
		{"gps", meta.GPSCoordinates, "add the gps location"},
	} {
		fs.Var(&kindValue{p: p, kind: k.kind}, k.name, k.usage)
	}
	fs.Var(&textValue{p: p}, "text", "add a literal text")
	fs.Var(&programFileValue{p: p}, "program", "yaml file with the fields to add")
}

// ErrUnordered is returned when field flags come from a source that doesn't
// keep their order.
var ErrUnordered = errors.New("cli: field flags can't be set from config files or env vars, use an ordered program list")

// fieldFlags are the flags that append to the program.
var fieldFlags = []string{"date", "model", "size", "gps", "text"}

func isFieldFlag(name string) bool {
	for _, f := range fieldFlags {
		if f == name {
			return true
		}
	}
	return false
}

// orderedParser wraps a config file parser to reject field flags. Keys come
// out of a yaml map in random order, so the fields must be listed in a
// program file instead.
func orderedParser(parser ff.ConfigFileParser) ff.ConfigFileParser {
	return func(r io.Reader, set func(name, value string) error) error {
		return parser(r, func(name, value string) error {
			if isFieldFlag(name) {
				return fmt.Errorf("%w: %q in config file, set \"program: <file>\" instead", ErrUnordered, name)
			}
			return set(name, value)
		})
	}
}

// checkFieldEnv rejects field flags set through env vars. Env vars are
// visited in flag name order, not in the order the user meant.
func checkFieldEnv() error {
	for _, f := range fieldFlags {
		key := "INKO_" + strings.ToUpper(f)
		if _, ok := os.LookupEnv(key); ok {
			return fmt.Errorf("%w: %s is set, use INKO_PROGRAM instead", ErrUnordered, key)
		}
	}
	return nil
}

type kindValue struct {
	p    *meta.Program
	kind meta.Kind
}

func (v *kindValue) String() string   { return "" }
func (v *kindValue) IsBoolFlag() bool { return true }

func (v *kindValue) Set(value string) error {
	switch value {
	case "true":
		*v.p = append(*v.p, meta.Ref(v.kind))
	case "false":
	default:
		return fmt.Errorf("invalid value %q for %s", value, v.kind)
	}
	return nil
}

type textValue struct {
	p *meta.Program
}

func (v *textValue) String() string { return "" }

func (v *textValue) Set(value string) error {
	*v.p = append(*v.p, meta.Text(value))
	return nil
}

type programFileValue struct {
	p *meta.Program
}

func (v *programFileValue) String() string { return "" }

func (v *programFileValue) Set(value string) error {
	program, err := meta.ReadProgram(value)
	if err != nil {
		return err
	}
	*v.p = append(*v.p, program...)
	return nil
}

type mapValue struct {
	v *map[string]string
}

func (m *mapValue) String() string {
	if m.v == nil {
		return ""
	}
	return fmt.Sprintf("%v", map[string]string(*m.v))
}

func (m *mapValue) Set(value string) error {
	if m.v == nil {
		return errors.New("nil map reference")
	}
	pairs := strings.Split(value, ";")
	for _, pair := range pairs {
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid map entry: %s", pair)
		}
		(*m.v)[parts[0]] = parts[1]
	}
	return nil
}

func fsMapVar(fs *flag.FlagSet, p *map[string]string, name string, value map[string]string, usage string) {
	if value == nil {
		value = make(map[string]string)
	}
	*p = value
	fs.Var(&mapValue{p}, name, usage)
}
