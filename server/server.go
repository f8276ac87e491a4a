// Package server runs an editing session behind HTTP. One simulation goroutine
// owns the editor: it ticks the layout and animations, and every request
// reaches the editor as a closure executed on that goroutine.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/TFMV/forcegraph/editor"
	"github.com/TFMV/forcegraph/geom"
	"github.com/TFMV/forcegraph/render"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
)

// ErrStopped is returned by Do once the simulation has stopped
var ErrStopped = errors.New("simulation stopped")

// Config for the server
type Config struct {
	Address      string
	TickInterval time.Duration
	StreamFPS    float64
	Width        float64
	Height       float64
}

// DefaultConfig returns a 60Hz simulation streamed at 20 frames per second
func DefaultConfig() Config {
	return Config{
		Address:      ":8080",
		TickInterval: time.Second / 60,
		StreamFPS:    20,
		Width:        800,
		Height:       600,
	}
}

type command struct {
	fn   func(ed *editor.Editor) error
	done chan error
}

// Server serves one editor
type Server struct {
	cfg      Config
	log      *slog.Logger
	editor   *editor.Editor
	commands chan command
	stopped  chan struct{}
	metrics  *metrics
	validate *validator.Validate
	upgrader websocket.Upgrader
}

// New creates a server for ed. The editor must not be touched by anyone else
// once Simulate runs.
func New(ed *editor.Editor, cfg Config, log *slog.Logger) *Server {
	def := DefaultConfig()
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = def.TickInterval
	}
	if cfg.StreamFPS <= 0 {
		cfg.StreamFPS = def.StreamFPS
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = def.Width, def.Height
	}
	ed.SetViewport(geom.Vec(cfg.Width, cfg.Height))

	return &Server{
		cfg:      cfg,
		log:      log,
		editor:   ed,
		commands: make(chan command),
		stopped:  make(chan struct{}),
		metrics:  newMetrics(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 10 * time.Second,
			CheckOrigin:      func(r *http.Request) bool { return true },
		},
	}
}

// Simulate ticks the editor until ctx is done, running submitted commands
// between ticks
func (s *Server) Simulate(ctx context.Context) {
	defer close(s.stopped)

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	s.log.Info("simulation started", "interval", s.cfg.TickInterval)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("simulation stopped")
			return
		case now := <-ticker.C:
			s.tick(now)
		case cmd := <-s.commands:
			err := cmd.fn(s.editor)
			s.metrics.commands.Inc()
			cmd.done <- err
		}
	}
}

func (s *Server) tick(now time.Time) {
	start := time.Now()
	s.editor.Advance(now)
	s.metrics.observe(s.editor, time.Since(start))
}

// Do runs fn on the simulation goroutine and returns its error
func (s *Server) Do(ctx context.Context, fn func(ed *editor.Editor) error) error {
	cmd := command{fn: fn, done: make(chan error, 1)}

	select {
	case s.commands <- cmd:
	case <-s.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-cmd.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Scene captures the editor as it looks at the last tick
func (s *Server) Scene(ctx context.Context) (*render.Scene, error) {
	var scene *render.Scene
	err := s.Do(ctx, func(ed *editor.Editor) error {
		scene = render.Capture(ed.Graph(), ed.Selection(), ed.Palette(), ed.Now())
		return nil
	})
	return scene, err
}

// Run serves HTTP on the configured address and simulates until ctx is done
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.Simulate(ctx)

	server := &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("starting server", "addr", s.cfg.Address)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdown, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := server.Shutdown(shutdown); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
