package infra

import (
	"context"
	"net/http"
	"time"
)

// HTTPServer owns the http.Server lifecycle: blocking start, context-bounded
// shutdown.
type HTTPServer struct {
	server *http.Server
}

// NewHTTPServer builds the server with the configured timeouts. WriteTimeout
// applies per response; the SSE stream lifts its own deadline through
// http.ResponseController, so a generous value here still protects every
// other endpoint.
func NewHTTPServer(cfg *Config, handler http.Handler) *HTTPServer {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		MaxHeaderBytes:    1 << 20,
	}

	return &HTTPServer{server: srv}
}

// Start blocks serving requests until Shutdown is called or the listener
// fails.
func (s *HTTPServer) Start() error {
	if s.server == nil {
		return nil
	}
	return s.server.ListenAndServe()
}

// Shutdown stops accepting connections and drains in-flight requests until
// the context expires.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
