package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/dga.report/internal/api"
	"github.com/banshee-data/dga.report/internal/config"
	"github.com/banshee-data/dga.report/internal/db"
)

func handleServe(args []string) error {
	f := newAnalysisFlags("serve", log.Writer())
	listen := f.fs.String("listen", ":8080", "listen address")
	cfg, err := f.parse(args)
	if err != nil {
		return err
	}

	database, err := db.NewDB(cfg.GetDatabase())
	if err != nil {
		return err
	}
	defer database.Close()

	handler, err := newServeHandler(database, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return serve(ctx, &http.Server{Addr: *listen, Handler: handler})
}

// newServeHandler mounts the API and the admin routes behind the request
// logger.
func newServeHandler(database *db.DB, cfg *config.AnalysisConfig) (http.Handler, error) {
	mux := api.NewServer(database, cfg.GetThresholds()).ServeMux()
	if err := database.AttachAdminRoutes(mux); err != nil {
		return nil, err
	}
	return api.LoggingMiddleware(mux), nil
}

// serve runs server until ctx is cancelled, then shuts it down.
func serve(ctx context.Context, server *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		if err := server.Close(); err != nil {
			log.Printf("HTTP server force close error: %v", err)
		}
	}
	log.Printf("Graceful shutdown complete")
	return nil
}
