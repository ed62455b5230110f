package server

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"time"

	"storefront/internal/config"
	custommiddleware "storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	ports  []string
}

func NewServer(cfg *config.Config, logger *zap.Logger, store repository.Store) *Server {
	router := NewRouter(cfg, logger, store)

	return &Server{
		Server: &http.Server{
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		ports:  cfg.Server.Ports,
	}
}

// NewRouter assembles the chi router with the full middleware stack and all
// catalog, cart and order routes.
func NewRouter(cfg *config.Config, logger *zap.Logger, store repository.Store) chi.Router {
	router := chi.NewRouter()

	// Add basic middleware
	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.Env == "development"))

	if cfg.RateLimit.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "ratelimit",
		}, logger))
	}

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Register routes
	transport.NewProductHandler(store, logger).RegisterRoutes(router)
	transport.NewCartHandler(store, logger).RegisterRoutes(router)
	transport.NewOrderHandler(store, logger).RegisterRoutes(router)

	if cfg.Server.StaticDir != "" {
		router.Handle("/*", http.FileServer(http.Dir(cfg.Server.StaticDir)))
	} else {
		router.Get("/", func(w http.ResponseWriter, r *http.Request) {
			custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Hello World!"})
		})
	}

	return router
}

// ListenAndServe binds the first free port from the configured list, moving
// on to the next when an address is already in use.
func (s *Server) ListenAndServe() error {
	for i, port := range s.ports {
		addr := ":" + port

		ln, err := net.Listen("tcp", addr)
		if err != nil {
			if errors.Is(err, syscall.EADDRINUSE) && i < len(s.ports)-1 {
				s.logger.Warn("Port in use, trying next", zap.String("addr", addr))
				continue
			}
			return err
		}

		s.Addr = addr
		s.logger.Info("Server listening", zap.String("addr", addr))
		return s.Serve(ln)
	}

	return errors.New("no server port configured")
}

// Close releases server resources.
func (s *Server) Close() error {
	s.logger.Info("Closing server resources")
	s.logger.Sync()
	return nil
}
