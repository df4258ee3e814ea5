package main

import (
	"context"
	"depot-analysis/internal/adapters/solver"
	"depot-analysis/internal/api"
	"depot-analysis/internal/app"
	"depot-analysis/internal/config"
	"depot-analysis/internal/ports"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// main is the application composition root.
// It wires concrete adapters (provider, cache, solver) behind ports and starts the HTTP server.
func main() {
	config.LoadDotEnv()
	env := config.FromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := app.Build(ctx, env)
	if err != nil {
		log.Fatal(err)
	}
	defer components.Close()

	router := api.NewRouter(api.Deps{
		Provider:  components.Provider,
		Optimizer: solver.New(),
		Runs:      components.Runs,
		Travel: ports.TravelOptions{
			Mode:   config.Get("TRAVEL_MODE", "driving"),
			Units:  "metric",
			Region: config.Get("REGION", ""),
		},
	})

	// Timeouts are tuned for cold-cache comparisons (external API latency).
	srv := &http.Server{
		Addr:              ":" + env.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Server listening addr=:%s", env.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
