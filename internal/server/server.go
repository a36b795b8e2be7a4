// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the document-to-PDF conversion endpoint over HTTP.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// NewRouter builds the route table:
//
//	POST /convert  base64 document in, base64 PDF out
//	GET  /health   liveness probe
func NewRouter(h *Handler, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, AccessLog(log), middleware.Recoverer)

	r.Post("/convert", h.Convert)
	r.Get("/health", Health)

	return otelhttp.NewHandler(r, "doc2pdf")
}

// HTTPServer wraps http.Server with explicit start and stop.
type HTTPServer struct {
	server *http.Server
	log    *zap.Logger
	ln     net.Listener
}

type Option func(*HTTPServer)

func NewHTTPServer(handler http.Handler, log *zap.Logger, options ...Option) *HTTPServer {
	srv := &HTTPServer{
		server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}

	for _, opt := range options {
		opt(srv)
	}

	return srv
}

func WithAddress(address string) Option {
	return func(srv *HTTPServer) {
		srv.server.Addr = address
	}
}

// Listen binds the configured address. Calling it before Serve lets callers
// learn the bound port when the address uses port 0.
func (s *HTTPServer) Listen() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	return nil
}

// Addr returns the bound address, or the configured one before Listen.
func (s *HTTPServer) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.server.Addr
}

// Start serves until Stop is called. It returns http.ErrServerClosed after
// a clean shutdown.
func (s *HTTPServer) Start() error {
	if s.ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	s.log.Info("Document-to-PDF service listening at " + displayURL(s.Addr()))
	return s.server.Serve(s.ln)
}

// Stop waits for in-flight requests until ctx ends.
func (s *HTTPServer) Stop(ctx context.Context) error {
	s.log.Info("Stopping HTTP server", zap.String("address", s.Addr()))
	return s.server.Shutdown(ctx)
}

func displayURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "::" || host == "0.0.0.0" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
