package server

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dtowler/folio/extract"
	"github.com/dtowler/folio/rebuild"
)

// DefaultMaxUpload caps request bodies at 32 MB.
const DefaultMaxUpload = 32 << 20

// Config carries the server's dependencies and limits.
type Config struct {
	Engine    *extract.Engine
	Builder   *rebuild.Builder
	Log       *logrus.Logger
	MaxUpload int64
	// TempDir receives uploaded documents for the duration of one
	// request. Empty means the system default.
	TempDir string
}

// Server exposes document extraction and reconstruction over HTTP.
type Server struct {
	engine    *extract.Engine
	builder   *rebuild.Builder
	log       *logrus.Logger
	maxUpload int64
	tempDir   string
}

// New creates a Server from cfg, filling in defaults for anything unset.
func New(cfg Config) *Server {
	s := &Server{
		engine:    cfg.Engine,
		builder:   cfg.Builder,
		log:       cfg.Log,
		maxUpload: cfg.MaxUpload,
		tempDir:   cfg.TempDir,
	}
	if s.engine == nil {
		s.engine = extract.NewEngine()
	}
	if s.builder == nil {
		s.builder = rebuild.NewBuilder()
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	if s.maxUpload <= 0 {
		s.maxUpload = DefaultMaxUpload
	}
	return s
}

// Handler returns the server's route table wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/extract", s.handleExtract)
	mux.HandleFunc("/api/reconstruct", s.handleReconstruct)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/", s.handleIndex)
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
