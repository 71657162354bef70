package main

import (
	"context"
	"errors"
	"flag"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hvac_simulator/internal/config"
	"hvac_simulator/internal/logger"
	"hvac_simulator/internal/server"
	"hvac_simulator/internal/simulator"
	"hvac_simulator/internal/store"
	"hvac_simulator/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not configured yet.
		logger.New(logger.Config{}).Fatal().Err(err).Msg("failed to load configuration")
	}

	addr := flag.String("addr", cfg.Addr, "listen address")
	frontendDir := flag.String("frontend-dir", cfg.FrontendDir, "directory containing frontend build")
	seed := flag.Uint64("seed", cfg.Seed, "random seed (0 seeds from the clock)")
	logLevel := flag.String("log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	devMode := flag.Bool("dev", false, "disable response compression")
	flag.Parse()

	log := logger.New(logger.Config{Level: *logLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)

	hub := ws.NewHub(log)
	bridge := ws.NewBridge(hub)
	engine := simulator.New(store.New(), newSource(*seed), bridge, log)

	// Sample the default table up front so the first page load is served from cache.
	rows := engine.Environment()
	log.Info().Int("rows", len(rows)).Uint64("seed", *seed).Msg("environment ready")

	srv := server.New(server.Config{
		Log:         log,
		Engine:      engine,
		WS:          ws.NewHandler(hub, engine),
		Addr:        *addr,
		FrontendDir: *frontendDir,
		CORSOrigins: cfg.CORSOrigins,
		DevMode:     *devMode,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server stopped")
}

// newSource returns a PCG source; seed 0 draws a seed from the runtime.
func newSource(seed uint64) rand.Source {
	if seed == 0 {
		return rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return rand.NewPCG(seed, seed)
}
