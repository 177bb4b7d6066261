package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/matzehuels/movegraph/pkg/moves"
	"github.com/matzehuels/movegraph/pkg/observability/prom"
	"github.com/matzehuels/movegraph/pkg/viewer"
)

// DefaultDebounce is how long the watcher waits for a burst of file events
// to settle before reloading.
const DefaultDebounce = 250 * time.Millisecond

// Options configures a [Server].
type Options struct {
	Addr      string
	StaticDir string
	Source    moves.Source

	// WatchPath is the moveset file to watch for edits. Empty disables
	// watching.
	WatchPath string
	Debounce  time.Duration

	// RateLimit bounds layout-triggering requests per second. Zero disables
	// the limit.
	RateLimit float64
	Burst     int

	Viewer  viewer.Options
	Metrics *prom.Collector
	Logger  *log.Logger
}

// Server is the HTTP front end of one viewer session.
type Server struct {
	opts    Options
	logger  *log.Logger
	session *viewer.Session
	hub     *Hub
	limiter *rate.Limiter
}

// New creates a server and its session. Zoom restyles are pushed to
// websocket clients in addition to any surface set in opts.Viewer.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	s := &Server{
		opts:   opts,
		logger: logger,
		hub:    NewHub(logger),
	}
	if opts.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), max(opts.Burst, 1))
	}

	vopts := opts.Viewer
	vopts.Logger = logger
	if vopts.Surface != nil {
		vopts.Surface = viewer.Surfaces{vopts.Surface, hubSurface{s.hub}}
	} else {
		vopts.Surface = hubSurface{s.hub}
	}
	s.session = viewer.New(vopts)
	return s
}

// Session returns the served session.
func (s *Server) Session() *viewer.Session { return s.session }

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub { return s.hub }

// Initialize performs the first load. Errors leave the server running with
// an empty graph so that /healthz and /moveset can report it.
func (s *Server) Initialize(ctx context.Context) error {
	return s.session.Initialize(ctx, s.opts.Source)
}

// Reload reloads the moveset and tells clients. A failed reload keeps the
// previous graph.
func (s *Server) Reload(ctx context.Context) error {
	if err := s.session.Reload(ctx, s.opts.Source); err != nil {
		s.hub.Broadcast(Message{Type: MessageError, Detail: err.Error()})
		return err
	}
	s.hub.Broadcast(Message{Type: MessageReload, Moves: s.session.Graph().NodeCount()})
	return nil
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger, s.opts.Metrics))

	r.Get("/", s.handleIndex)
	if s.opts.StaticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(s.opts.StaticDir)))
		r.Handle("/static/*", fs)
	}
	r.Get("/moveset", s.handleMoveset)
	r.Get("/healthz", s.handleHealth)
	r.Get("/ws", s.handleWebsocket)
	if s.opts.Metrics != nil {
		r.Handle("/metrics", s.opts.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/nodes/{id}", s.handleNode)
		r.Get("/style", s.handleStyle)
		r.Group(func(r chi.Router) {
			r.Use(rateLimit(s.limiter))
			r.Get("/graph", s.handleGraph)
			r.Get("/graph.svg", s.handleGraphSVG)
			r.Post("/events", s.handleEvent)
		})
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully. The file
// watcher runs alongside when configured.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.hub.Run(ctx)
	if s.opts.WatchPath != "" {
		go func() {
			err := Watch(ctx, s.opts.WatchPath, s.opts.Debounce, s.logger, func() {
				if err := s.Reload(ctx); err == nil {
					s.logger.Info("moveset reloaded", "path", s.opts.WatchPath)
				}
			})
			if err != nil {
				s.logger.Error("file watch stopped", "path", s.opts.WatchPath, "err", err)
			}
		}()
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving", "addr", s.opts.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, done := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer done()
		return srv.Shutdown(shutdownCtx)
	}
}

// Close releases the session.
func (s *Server) Close() { s.session.Close() }
