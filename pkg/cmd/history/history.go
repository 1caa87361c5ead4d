package history

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/igolaizola/inko/pkg/filestore"
	inkimg "github.com/igolaizola/inko/pkg/image"
	"github.com/igolaizola/inko/pkg/storage"
)

type Config struct {
	Debug  bool
	DBType string
	DBConn string

	Page  int
	Limit int
	Text  string
	CSV   string

	// Download fetches the uploaded image of this render id to Output.
	Download string
	// Delete removes this render id from the history.
	Delete string
	Output string

	FSType string
	FSConn string
	Proxy  string

	// Out defaults to stdout.
	Out io.Writer
}

// Run lists the recorded renders, newest first. When CSV is set the records
// are exported to that file instead. Download and Delete act on a single
// render.
func Run(ctx context.Context, cfg *Config) error {
	if cfg.DBType == "" {
		return fmt.Errorf("history: db type is required")
	}
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = 20
	}

	store, err := storage.New(cfg.DBType, cfg.DBConn, cfg.Debug)
	if err != nil {
		return fmt.Errorf("history: couldn't create orm store: %w", err)
	}
	if err := store.Start(ctx); err != nil {
		return fmt.Errorf("history: couldn't start orm store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("history: couldn't close orm store: %v\n", err)
		}
	}()
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("history: couldn't migrate orm store: %w", err)
	}

	switch {
	case cfg.Download != "":
		return download(ctx, cfg, store)
	case cfg.Delete != "":
		return remove(ctx, cfg.Delete, store)
	}

	var filters []storage.Filter
	if cfg.Text != "" {
		filters = append(filters, storage.Where("text LIKE ?", "%"+cfg.Text+"%"))
	}
	vs, err := store.ListRenders(ctx, cfg.Page, limit, "id desc", filters...)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}

	if cfg.CSV != "" {
		f, err := os.Create(cfg.CSV)
		if err != nil {
			return fmt.Errorf("history: couldn't create %s: %w", cfg.CSV, err)
		}
		if err := gocsv.MarshalFile(&vs, f); err != nil {
			_ = f.Close()
			return fmt.Errorf("history: couldn't write csv: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("history: couldn't close %s: %w", cfg.CSV, err)
		}
		log.Printf("history: exported %d renders to %s\n", len(vs), cfg.CSV)
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tOUTPUT\tSIZE\tTEXT")
	for _, v := range vs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%dx%d\t%s\n", v.ID, v.CreatedAt.Local().Format(time.DateTime),
			v.Output, v.Width, v.Height, v.Text)
	}
	return tw.Flush()
}

func download(ctx context.Context, cfg *Config, store *storage.Store) error {
	if cfg.FSType == "" {
		return fmt.Errorf("history: fs type is required to download")
	}
	v, err := store.GetRender(ctx, cfg.Download)
	if err != nil {
		return fmt.Errorf("history: couldn't get render %s: %w", cfg.Download, err)
	}
	if !v.Uploaded {
		return fmt.Errorf("history: render %s wasn't uploaded", v.ID)
	}
	format, err := inkimg.ParseFormat(v.Format)
	if err != nil {
		return fmt.Errorf("history: render %s: %w", v.ID, err)
	}
	fs, err := filestore.New(cfg.FSType, cfg.FSConn, cfg.Proxy, cfg.Debug, store)
	if err != nil {
		return fmt.Errorf("history: couldn't create file store: %w", err)
	}
	output := cfg.Output
	if output == "" {
		output = filestore.Name(v.ID, format)
	}
	if err := fs.GetImage(ctx, output, v.ID, format); err != nil {
		return fmt.Errorf("history: couldn't download render %s: %w", v.ID, err)
	}
	log.Printf("history: downloaded %s to %s\n", v.ID, output)
	return nil
}

// remove deletes the render record and the file reference kept for its
// upload. Remote files aren't deleted.
func remove(ctx context.Context, id string, store *storage.Store) error {
	v, err := store.GetRender(ctx, id)
	if err != nil {
		return fmt.Errorf("history: couldn't get render %s: %w", id, err)
	}
	if v.Uploaded {
		if format, err := inkimg.ParseFormat(v.Format); err == nil {
			if err := store.DeleteFile(ctx, filestore.Name(v.ID, format)); err != nil {
				return fmt.Errorf("history: %w", err)
			}
		}
	}
	if err := store.DeleteRender(ctx, v.ID); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	log.Printf("history: deleted render %s\n", v.ID)
	return nil
}
