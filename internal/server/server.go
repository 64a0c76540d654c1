// Package server implements the preview HTTP server: a small chi router that
// renders the configured disk listing on demand, so style files can be
// iterated on with a browser refresh instead of a CLI round trip.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sectorviz/sectorviz/pkg/buildinfo"
	"github.com/sectorviz/sectorviz/pkg/errors"
	"github.com/sectorviz/sectorviz/pkg/pipeline"
)

// Config holds the fixed inputs of a preview server. The listing and style
// are read per request, so edits show up without a restart.
type Config struct {
	ListingPath string
	StylePath   string
}

// Server renders preview images over HTTP.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a preview server around a pipeline runner.
func New(cfg Config, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{cfg: cfg, runner: runner, logger: logger}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Get("/render", s.handleRender)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"built":   buildinfo.Date,
	})
}

// handleRender renders one artifact per request.
//
// Query parameters:
//   - format: png (default) or svg
//   - side: 0 or 1 to render one side; omit for a nested both-sides render
//   - width, height: canvas size in pixels (default 800x800)
//   - supersample: raster supersampling factor (1, 2, 4, 8)
//   - refresh: bypass the artifact cache
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts := pipeline.Options{
		ListingPath: s.cfg.ListingPath,
		StylePath:   s.cfg.StylePath,
		Logger:      s.logger,
	}

	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatPNG
	}
	opts.Formats = []string{format}

	artifact := format
	if v := q.Get("side"); v != "" {
		side, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "side must be an integer, got %q", v))
			return
		}
		opts.Sides = []int{side}
		artifact = format + ":" + v
	}

	var err error
	if opts.Width, err = floatParam(q.Get("width")); err != nil {
		s.writeError(w, err)
		return
	}
	if opts.Height, err = floatParam(q.Get("height")); err != nil {
		s.writeError(w, err)
		return
	}
	if v := q.Get("supersample"); v != "" {
		if opts.Supersample, err = strconv.Atoi(v); err != nil {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "supersample must be an integer, got %q", v))
			return
		}
	}
	opts.Refresh = q.Get("refresh") == "true"

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, ok := result.Artifacts[artifact]
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeInternal, "pipeline produced no %q artifact", artifact))
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("X-Listing-Hash", result.ListingHash)
	_, _ = w.Write(data)
}

// writeError maps error codes onto HTTP statuses and emits a JSON body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidColor, errors.ErrCodeInvalidStyle,
		errors.ErrCodeInvalidBlendMode, errors.ErrCodeInvalidListing, errors.ErrCodeInvalidFormat,
		errors.ErrCodeUnknownMask, errors.ErrCodeUnknownElement, errors.ErrCodeInsufficientRadius:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}

	s.logger.Error("request failed", "status", status, "err", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":  string(errors.GetCode(err)),
		"error": errors.UserMessage(err),
	})
}

func floatParam(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "expected a number, got %q", v)
	}
	return f, nil
}

func contentType(format string) string {
	if format == pipeline.FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}
