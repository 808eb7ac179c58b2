package server

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/kahvi/internal/model"
	"github.com/gin-gonic/gin"
)

// Greeting is the message served at the API root.
const Greeting = "Hello, welcome to tonnon-kahvi version 0.1!"

// EndpointsMessage heads the route listing.
const EndpointsMessage = "TonnoCoffeeAPI endpoints:"

// Server bundles router and dependencies for the REST API.
type Server struct {
	store   Store
	engine  *gin.Engine
	routes  []model.Endpoint
	origins []string
	cert    *tls.Certificate
	timeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins sets the CORS allow-list.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithQueryTimeout bounds every store call.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.timeout = d
	}
}

// WithTLSCertificate makes Run serve HTTPS with cert.
func WithTLSCertificate(cert tls.Certificate) Option {
	return func(s *Server) {
		s.cert = &cert
	}
}

// New constructs a server with routes and middleware.
func New(store Store, opts ...Option) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		store:   store,
		engine:  gin.New(),
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(requestLogger())
	s.engine.Use(corsMiddleware(s.origins))
	s.registerRoutes()
	return s
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Routes returns the registered API routes in registration order.
func (s *Server) Routes() []model.Endpoint {
	out := make([]model.Endpoint, len(s.routes))
	copy(out, s.routes)
	return out
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	listen := srv.ListenAndServe
	if s.cert != nil {
		srv.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{*s.cert},
			MinVersion:   tls.VersionTLS12,
		}
		listen = func() error { return srv.ListenAndServeTLS("", "") }
	}

	errCh := make(chan error, 1)
	go func() {
		if err := listen(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.get("/", "root", s.handleRoot)
	s.get("/endpoints", "get_all_endpoints", s.handleEndpoints)
	s.get("/coffees", "get_coffee_prices", s.handleCoffees)
	s.get("/coffees/products", "list_products", s.handleProducts)
	s.get("/coffees/:product_id/history", "get_price_history", s.handleHistory)
	s.get("/healthz", "healthz", s.handleHealth)
}

// get registers a GET route and records it for the route listing, with gin
// parameters shown in {braces}.
func (s *Server) get(path, name string, handler gin.HandlerFunc) {
	s.engine.GET(path, handler)
	s.routes = append(s.routes, model.Endpoint{
		Path:    displayPath(path),
		Name:    name,
		Methods: []string{http.MethodGet},
	})
}

func displayPath(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if strings.HasPrefix(p, ":") {
			parts[i] = "{" + p[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
}
