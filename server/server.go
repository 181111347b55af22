package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trendtags/config"
	"trendtags/server/handlers"
	"trendtags/utils"
)

// Server wraps the HTTP listener and its router.
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer builds the router and the HTTP server around source.
func NewServer(cfg *config.Config, source handlers.TrendSource, logger *utils.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CorsOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	hashtagHandler := handlers.NewHashtagHandler(source, cfg.Defaults, logger)

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})
		r.Get("/generate-hashtags", hashtagHandler.GenerateHashtags)
		r.Get("/trends", hashtagHandler.GetTrends)
		r.Get("/trends.csv", hashtagHandler.GetTrendsCSV)
	})
	router.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      writeTimeout(cfg.Defaults),
	}

	return &Server{server: httpServer, router: router}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Router exposes the handler tree, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// writeTimeout leaves room for every acquisition stage at its default
// timeout plus extraction. Requests that raise the timeouts through query
// parameters beyond this are cut off by the server.
func writeTimeout(d config.RequestOptions) time.Duration {
	total := d.PageLoadTimeout() + d.ConsentTimeout() + 2*d.TabClickTimeout()
	return total + 60*time.Second
}

// requestLogger logs one line per request through the process logger.
func requestLogger(logger *utils.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.With("request_id", middleware.GetReqID(r.Context())).
					Info("[http] %s %s -> %d (%d bytes, %s)", r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(), time.Since(start).Round(time.Millisecond))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
