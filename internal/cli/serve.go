package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackflame/pkg/buildinfo"
	"github.com/matzehuels/stackflame/pkg/cache"
	"github.com/matzehuels/stackflame/pkg/errors"
	"github.com/matzehuels/stackflame/pkg/observability"
	"github.com/matzehuels/stackflame/pkg/pipeline"
	"github.com/matzehuels/stackflame/pkg/render/flame/layout"
	"github.com/matzehuels/stackflame/pkg/render/flame/palette"
)

const (
	defaultAddr     = ":8080"
	maxRequestBytes = 64 << 20
	shutdownTimeout = 10 * time.Second
)

type serveFlags struct {
	addr       string
	redis      string
	paletteMap string
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	flags := serveFlags{addr: defaultAddr}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve flame graph rendering over HTTP",
		Long: `Serve starts an HTTP server that renders collapsed stacks.

  POST /render    body: collapsed stack lines; query: render options
  GET  /palettes  available palette names
  GET  /healthz   liveness probe

Render options are passed as query parameters named like the render flags,
for example /render?title=CPU&colors=java&inverted=true&format=json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") && c.config.Serve.Addr != "" {
				flags.addr = c.config.Serve.Addr
			}
			if !cmd.Flags().Changed("redis") && c.config.Serve.Redis != "" {
				flags.redis = c.config.Serve.Redis
			}
			return c.runServe(cmd.Context(), &flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", flags.addr, "listen address")
	cmd.Flags().StringVar(&flags.redis, "redis", "", "redis URL for the shared artifact cache (redis://host:port/db)")
	cmd.Flags().StringVar(&flags.paletteMap, "palette-map", "", "palette map applied to every render (read only)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, flags *serveFlags) error {
	logger := loggerFromContext(ctx)

	srv := &server{logger: logger, runner: pipeline.NewRunner(nil, nil, logger)}
	if flags.redis != "" {
		rc, err := cache.NewRedisCache(ctx, flags.redis, appName+":")
		if err != nil {
			return err
		}
		srv.runner = pipeline.NewRunner(rc, versionKeyer(), logger)
		logger.Info("Using redis artifact cache")
	}
	defer srv.runner.Close()

	if flags.paletteMap != "" {
		m, err := palette.LoadMapFile(flags.paletteMap)
		if err != nil {
			return err
		}
		srv.palette = m
		logger.Info("Loaded palette map", "names", m.Len())
	}

	httpSrv := &http.Server{
		Addr:              flags.addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- httpSrv.ListenAndServe() }()
	logger.Infof("Listening on %s", flags.addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("Shutting down")
	return httpSrv.Shutdown(shutdownCtx)
}

// server renders flame graphs for HTTP clients. Each request gets its own
// copy of the palette map, so concurrent renders never share one.
type server struct {
	logger  *log.Logger
	runner  *pipeline.Runner
	palette *palette.Map
}

type ctxRequestID struct{}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/palettes", s.handlePalettes)
	r.Post("/render", s.handleRender)
	return r
}

// requestID tags each request with a fresh id, unless the client sent one.
func (s *server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), ctxRequestID{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}

// requestLogger returns the server logger tagged with the request id.
func (s *server) requestLogger(ctx context.Context) *log.Logger {
	if id, ok := ctx.Value(ctxRequestID{}).(string); ok {
		return s.logger.With("request_id", id)
	}
	return s.logger
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok\n")
}

func (s *server) handlePalettes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"palettes": palette.Names()})
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r.Context())

	opts, err := optionsFromQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, logger, err)
		return
	}
	if s.palette != nil {
		opts.PaletteMap = s.palette.Clone()
	}

	body := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	runner := &pipeline.Runner{Cache: s.runner.Cache, Keyer: s.runner.Keyer, Logger: logger}
	res, err := runner.Execute(r.Context(), opts, []io.Reader{body})
	if err != nil {
		s.writeError(w, logger, err)
		return
	}

	logger.Info("rendered", "format", opts.Format, "bytes", len(res.Artifact), "cached", res.CacheHit)
	w.Header().Set("Content-Type", contentType(opts.Format))
	w.Header().Set("Server", buildinfo.UserAgent())
	w.Header().Set("X-Stackflame-Ignored-Lines", strconv.Itoa(res.Input.Ignored))
	w.WriteHeader(http.StatusOK)
	w.Write(res.Artifact)
}

// optionsFromQuery maps query parameters to render options. Parameters are
// named like the render command's flags.
func optionsFromQuery(q map[string][]string) (pipeline.Options, error) {
	get := func(k string) string {
		if v := q[k]; len(v) > 0 {
			return v[0]
		}
		return ""
	}

	f := defaultRenderFlags()
	for k, dst := range map[string]*string{
		"title":       &f.title,
		"subtitle":    &f.subtitle,
		"notes":       &f.notes,
		"colors":      &f.colors,
		"bgcolors":    &f.bgcolors,
		"fonttype":    &f.fontType,
		"countname":   &f.countName,
		"nametype":    &f.nameType,
		"searchcolor": &f.searchColor,
		"format":      &f.format,
	} {
		if v := get(k); v != "" {
			*dst = v
		}
	}
	for k, dst := range map[string]*float64{
		"factor":    &f.factor,
		"minwidth":  &f.minWidth,
		"width":     &f.width,
		"height":    &f.height,
		"fontsize":  &f.fontSize,
		"fontwidth": &f.fontWidth,
	} {
		if v := get(k); v != "" {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return pipeline.Options{}, errors.New(errors.ErrCodeInvalidOption, "%s: not a number: %q", k, v)
			}
			*dst = n
		}
	}
	for k, dst := range map[string]*bool{
		"hash":          &f.hash,
		"inverted":      &f.inverted,
		"reverse":       &f.reverse,
		"negate":        &f.negate,
		"pretty_xml":    &f.prettyXML,
		"no_javascript": &f.noJS,
	} {
		if v := get(k); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return pipeline.Options{}, errors.New(errors.ErrCodeInvalidOption, "%s: not a boolean: %q", k, v)
			}
			*dst = b
		}
	}
	if v := get("seed"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return pipeline.Options{}, errors.New(errors.ErrCodeInvalidOption, "seed: not an unsigned integer: %q", v)
		}
		f.seed = n
	}
	if v := get("direction"); v != "" {
		d, err := layout.ParseDirection(v)
		if err != nil {
			return pipeline.Options{}, err
		}
		f.inverted = d == layout.Inverted
	}

	opts, err := f.options()
	if err != nil {
		return pipeline.Options{}, err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatJSON:
		return "application/json"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatPDF:
		return "application/pdf"
	default:
		return "image/svg+xml"
	}
}

// statusFor maps an error to an HTTP status code.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeNoStacks:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInput:
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return http.StatusRequestEntityTooLarge
		}
		return http.StatusBadRequest
	case errors.ErrCodeInvalidOption, errors.ErrCodeInvalidPalette, errors.ErrCodeInvalidColor,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidDirection:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *server) writeError(w http.ResponseWriter, logger *log.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("render failed", "err", err)
	} else {
		logger.Debug("rejected request", "status", status, "err", err)
	}
	writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
