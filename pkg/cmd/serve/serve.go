package serve

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/igolaizola/inko"
	"github.com/igolaizola/inko/pkg/argb"
	"github.com/igolaizola/inko/pkg/cmd/render"
	"github.com/igolaizola/inko/pkg/compose"
	inkimg "github.com/igolaizola/inko/pkg/image"
	"github.com/igolaizola/inko/pkg/label"
	"github.com/igolaizola/inko/pkg/meta"
	"github.com/igolaizola/inko/pkg/storage"
)

// MaxBodySize is the largest image accepted by the render endpoint.
const MaxBodySize = 64 << 20

type Config struct {
	Debug  bool
	DBType string
	DBConn string

	Addr        string
	Credentials map[string]string
}

// Serve starts the render service.
func Serve(ctx context.Context, cfg *Config) error {
	log.Println("serve: server started")
	defer log.Println("serve: server ended")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var store *storage.Store
	if cfg.DBType != "" {
		var err error
		store, err = storage.New(cfg.DBType, cfg.DBConn, cfg.Debug)
		if err != nil {
			return fmt.Errorf("serve: couldn't create orm store: %w", err)
		}
		if err := store.Start(ctx); err != nil {
			return fmt.Errorf("serve: couldn't start orm store: %w", err)
		}
		defer store.Close()
		if err := store.Migrate(ctx); err != nil {
			return fmt.Errorf("serve: couldn't migrate orm store: %w", err)
		}
	}

	addr, note, err := listenAddr(cfg.Addr)
	if err != nil {
		return err
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           Handler(cfg, store),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("serve: listening on %s\n", note)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("serve: failed to start server: %v\n", err)
			cancel()
		}
	}()

	<-ctx.Done()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("serve: couldn't shutdown server: %w", err)
	}
	return nil
}

// listenAddr validates a host:port address and returns it with a note for
// the startup log. IPv6 hosts must be bracketed.
func listenAddr(addr string) (string, string, error) {
	host, p, err := net.SplitHostPort(addr)
	if err != nil {
		return "", "", fmt.Errorf("serve: invalid address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(p)
	if err != nil || port < 0 || port > 65535 {
		return "", "", fmt.Errorf("serve: invalid port: %s", p)
	}
	hostPort := net.JoinHostPort(host, strconv.Itoa(port))
	if host == "" {
		return hostPort, fmt.Sprintf("all interfaces http://localhost:%d", port), nil
	}
	return hostPort, "http://" + hostPort, nil
}

// Handler returns the router of the service. Renders are recorded when
// store isn't nil.
func Handler(cfg *Config, store *storage.Store) http.Handler {
	mux := chi.NewRouter()

	mux.Use(middleware.RealIP)
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.Timeout(60 * time.Second))
	if len(cfg.Credentials) > 0 {
		mux.Use(middleware.BasicAuth("inko", cfg.Credentials))
	}
	if cfg.Debug {
		mux.Use(middleware.Logger)
	}

	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.Post("/render", func(w http.ResponseWriter, r *http.Request) {
		// Every request builds its own options
		params, program, err := FromQuery(r.URL.Query())
		if err != nil {
			httpError(w, err)
			return
		}
		opts, err := params.Options(program)
		if err != nil {
			httpError(w, err)
			return
		}

		b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodySize))
		if err != nil {
			httpError(w, fmt.Errorf("serve: couldn't read body: %w: %w", compose.ErrInput, err))
			return
		}
		base, _, err := inkimg.Decode(b)
		if err != nil {
			httpError(w, fmt.Errorf("serve: %w: %w", compose.ErrInput, err))
			return
		}
		reader := meta.NewReader(bytes.NewReader(b), base.Bounds().Size(), params.Meta())

		res, err := inko.Render(base, reader, opts)
		if err != nil {
			httpError(w, err)
			return
		}

		if store != nil {
			v := render.NewRecord("http:"+r.RemoteAddr, "", opts, res)
			if err := store.SetRender(r.Context(), v); err != nil {
				log.Printf("serve: couldn't record render: %v\n", err)
			}
		}

		w.Header().Set("Content-Type", opts.Format.ContentType())
		w.Header().Set("X-Inko-Text", res.Text)
		if err := opts.Format.Encode(w, res.Image); err != nil {
			log.Printf("serve: couldn't write response: %v\n", err)
		}
	})
	return mux
}

// FromQuery reads render params from query values. Fields are read from the
// repeated "field" parameter in order: date, model, size, gps or
// text:<literal>.
func FromQuery(q map[string][]string) (render.Params, meta.Program, error) {
	p := render.DefaultParams()
	get := func(key string, dst *string) {
		if vs := q[key]; len(vs) > 0 {
			*dst = vs[0]
		}
	}
	get("format", &p.Format)
	get("position", &p.Position)
	get("font", &p.Font)
	get("style", &p.FontStyle)
	get("size", &p.FontSize)
	get("color", &p.Color)
	get("background", &p.Background)
	get("margin", &p.Margin)
	get("sep", &p.Separator)
	get("date-format", &p.DateLayout)

	var maxWidth, gmt string
	get("max-width", &maxWidth)
	get("gmt", &gmt)
	if maxWidth != "" {
		v, err := strconv.Atoi(maxWidth)
		if err != nil {
			return p, nil, fmt.Errorf("%w: max width %q is not a number", label.ErrConfig, maxWidth)
		}
		p.MaxWidth = v
	}
	if gmt != "" {
		v, err := strconv.Atoi(gmt)
		if err != nil {
			return p, nil, fmt.Errorf("%w: gmt %q is not a number", label.ErrConfig, gmt)
		}
		p.GMT = v
	}

	var program meta.Program
	for _, f := range q["field"] {
		if text, ok := strings.CutPrefix(f, "text:"); ok {
			program = append(program, meta.Text(text))
			continue
		}
		k, err := meta.ParseKind(f)
		if err != nil {
			return p, nil, fmt.Errorf("%w: %w", label.ErrConfig, err)
		}
		program = append(program, meta.Ref(k))
	}
	return p, program, nil
}

func httpError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, label.ErrConfig), errors.Is(err, argb.ErrParse), errors.Is(err, compose.ErrInput):
		code = http.StatusBadRequest
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		code = http.StatusRequestEntityTooLarge
	}
	if code == http.StatusInternalServerError {
		log.Printf("serve: %v\n", err)
	}
	http.Error(w, err.Error(), code)
}
