// Command foliod serves document extraction and reconstruction over
// HTTP. Configuration comes from the environment (FOLIO_ADDR,
// FOLIO_MAX_UPLOAD, FOLIO_TEMP_DIR, FOLIO_LOG_LEVEL); a local .env file
// is loaded when present.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/dtowler/folio/extract"
	"github.com/dtowler/folio/internal/config"
	"github.com/dtowler/folio/internal/server"
	"github.com/dtowler/folio/rebuild"
)

func main() {
	log := logrus.New()

	if err := godotenv.Load(); err != nil {
		log.Debug(".env not found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load configuration")
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
	}

	srv := server.New(server.Config{
		Engine:    extract.NewEngine(extract.WithLogger(log)),
		Builder:   rebuild.NewBuilder(rebuild.WithLogger(log)),
		Log:       log,
		MaxUpload: cfg.MaxUpload,
		TempDir:   cfg.TempDir,
	})

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}

	go func() {
		log.WithField("addr", cfg.Addr).Info("foliod listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
