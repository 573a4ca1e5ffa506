package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alanderos91/BindrTest/internal/lattice"
)

func main() {
	cfg := loadServerConfig()
	logger := NewLogger(cfg.LogLevel)

	srv := NewServer(logger)
	srv.SetDataDir(cfg.DataDir)
	defer srv.Close()

	if cfg.ModelFile != "" {
		modelCfg, err := lattice.LoadModelConfig(cfg.ModelFile)
		if err != nil {
			logger.Fatalf("Failed to load model file %s: %v", cfg.ModelFile, err)
		}
		if err := srv.RegisterModel(modelCfg); err != nil {
			logger.Fatalf("Failed to register model from %s: %v", cfg.ModelFile, err)
		}
		logger.Infof("Model registered at startup: name=%s file=%s", modelCfg.Name, cfg.ModelFile)
	}

	mux := http.NewServeMux()
	srv.routes(mux)

	httpSrv := &http.Server{
		Addr:    cfg.Addr,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("Listening on %s", cfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Shutdown error: %v", err)
	}
}
