package main

import (
	"fmt"
	"net/http"

	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/middleware"

	"github.com/go-chi/chi/v5"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

// The registry is a single-route discovery stub: clients ask it where the
// API server lives before talking to it.
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	apiAddr := "localhost"
	if len(cfg.Server.Ports) > 0 {
		apiAddr = fmt.Sprintf("localhost:%s", cfg.Server.Ports[0])
	}

	router := chi.NewRouter()
	router.Get("/getServer", func(w http.ResponseWriter, r *http.Request) {
		middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"code":   http.StatusOK,
			"server": apiAddr,
		})
	})

	log.Info("Registry listening",
		zap.String("port", cfg.Registry.Port),
		zap.String("server", apiAddr),
	)

	if err := http.ListenAndServe(":"+cfg.Registry.Port, router); err != nil {
		log.Fatal("Registry server error", zap.Error(err))
	}
}
