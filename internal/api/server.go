// Package api serves simulations over HTTP.
package api

import (
	"os"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/rpgo/household-sim/internal/calculation"
	"github.com/rpgo/household-sim/internal/config"
	"github.com/rpgo/household-sim/internal/storage"
)

// DefaultPort is used when PORT is not set.
const DefaultPort = "5001"

// DefaultRequestTimeout bounds a single simulation request.
const DefaultRequestTimeout = 2 * time.Minute

// Server routes requests to the simulation engine.
type Server struct {
	Engine         *calculation.SimulationEngine
	Parser         *config.InputParser
	Archive        *storage.Store // optional Monte Carlo archive
	Logger         calculation.Logger
	StartYear      int
	RequestTimeout time.Duration
	// Workers bounds Monte Carlo concurrency per request; 0 means runtime.NumCPU().
	Workers int
}

// NewServer creates a server over engine (a default engine when nil).
func NewServer(engine *calculation.SimulationEngine) *Server {
	if engine == nil {
		engine = calculation.NewSimulationEngine()
	}
	return &Server{
		Engine:         engine,
		Parser:         config.NewInputParser(),
		Logger:         calculation.NopLogger{},
		StartYear:      config.DefaultStartYear,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// SetLogger sets the request logger. It is also used for parameter warnings.
func (s *Server) SetLogger(l calculation.Logger) {
	s.Logger = calculation.WithPrefix(l, "api")
	s.Parser.SetLogger(s.Logger)
}

// Addr returns the listen address from the PORT environment variable.
func Addr() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = DefaultPort
	}
	return ":" + port
}

// Handler returns the request router.
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		switch string(ctx.Path()) {
		case "/health":
			s.handleHealth(ctx)
		case "/api/run-simulation":
			s.handleRunSimulation(ctx)
		case "/api/run-monte-carlo":
			s.handleRunMonteCarlo(ctx)
		case "/api/sample-config":
			s.handleSampleConfig(ctx)
		case "/download-template":
			s.handleDownloadTemplate(ctx)
		default:
			writeError(ctx, fasthttp.StatusNotFound, "Not found")
		}
		s.Logger.Infof("%s %s -> %d (%s)", ctx.Method(), ctx.Path(), ctx.Response.StatusCode(), time.Since(start).Round(time.Millisecond))
	}
}

// ListenAndServe serves on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.Logger.Infof("household simulator starting on %s", addr)
	srv := &fasthttp.Server{
		Handler:            s.Handler(),
		Name:               "household-sim",
		MaxRequestBodySize: 8 << 20,
	}
	return srv.ListenAndServe(addr)
}
