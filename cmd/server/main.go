package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/katalvlaran/courierround/internal/api"
	"github.com/katalvlaran/courierround/internal/config"
	"github.com/katalvlaran/courierround/internal/store"
	"github.com/katalvlaran/courierround/session"
)

// main is the composition root: configuration, SQL store, session manager
// and HTTP server.
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	assembler, err := cfg.Assembler()
	if err != nil {
		log.Fatal(err)
	}
	assembler.Cache = store.NewDistanceCache(st)

	sessions := session.NewManager(assembler, cfg.SolverOptions())
	e := api.NewServer(api.NewHandler(sessions, store.NewSnapshotRepo(st)))

	// WriteTimeout covers one solve wave; ComputeRound extends it per request.
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      max(cfg.SolverTimeLimit, api.MaxTimeLimit) + time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening addr=:%s strategy=%s partition=%s db=%s",
			cfg.ServerPort, cfg.SolverStrategy, cfg.Partition, cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
