package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	docchatui "github.com/MegaGrindStone/doc-chat-ui"
	"github.com/MegaGrindStone/doc-chat-ui/internal/handlers"
	"github.com/MegaGrindStone/doc-chat-ui/internal/services"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(fmt.Errorf("error loading config: %w", err))
	}

	backend := services.NewBackend(
		cfg.Backend.BaseURL,
		time.Duration(cfg.Backend.RequestTimeout),
		time.Duration(cfg.Backend.HealthTimeout),
	)

	store := services.NewMemoryStore()
	notifier := services.NewNotifier(services.DefaultNotificationTTL)
	uploader := services.NewUploader(backend, backend.BaseURL(), cfg.Upload.MaxSize, store, notifier, logger)
	querier := services.NewQuerier(backend, backend.BaseURL(), store, logger)
	monitor := services.NewMonitor(backend, time.Duration(cfg.Backend.ProbeInterval), logger)

	m, err := handlers.NewMain(store, uploader, querier, monitor, notifier, logger)
	if err != nil {
		log.Fatal(fmt.Errorf("error creating handlers: %w", err))
	}

	// Live updates flow through the handlers' SSE server, so the hooks are wired after it exists.
	notifier.OnChange(m.PublishNotification)
	monitor.OnChange(m.PublishConnectivity)
	monitor.Start()

	// Serve static files
	staticFS, err := fs.Sub(docchatui.StaticFS, "static")
	if err != nil {
		log.Fatal(fmt.Errorf("error loading static assets: %w", err))
	}
	fileServer := http.FileServer(http.FS(staticFS))

	// Create custom mux
	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", fileServer))
	mux.HandleFunc("/", m.HandleHome)
	mux.HandleFunc("/chats", m.HandleChats)
	mux.HandleFunc("/documents", m.HandleUpload)
	mux.HandleFunc("/documents/delete", m.HandleDocumentDelete)
	mux.HandleFunc("/connection/retry", m.HandleRetry)
	mux.HandleFunc("/notifications/dismiss", m.HandleDismiss)
	mux.HandleFunc("/sse/updates", m.HandleSSE)

	// Create custom server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	srv.RegisterOnShutdown(func() {
		// The monitor ticker and the notification timer must not fire against torn-down state.
		monitor.Stop()
		notifier.Stop()

		if err := m.Shutdown(context.Background()); err != nil {
			logger.Error("Failed to shutdown sse server", slog.String("err", err.Error()))
		}
	})

	// Channel to listen for errors coming from the listener
	serverErrors := make(chan error, 1)

	// Start server in goroutine
	go func() {
		logger.Info("Server starting",
			slog.String("port", cfg.Port),
			slog.String("backend", backend.BaseURL()))
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt/terminate signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Blocking select waiting for either interrupt or server error
	select {
	case err := <-serverErrors:
		logger.Error("Server error", slog.String("err", err.Error()))

	case sig := <-shutdown:
		logger.Info("Start shutdown", slog.String("signal", sig.String()))

		// Create context with timeout for shutdown
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// Gracefully shutdown the server
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown failed", slog.String("err", err.Error()))
			if err := srv.Close(); err != nil {
				logger.Error("Forcing server close", slog.String("err", err.Error()))
			}
		}
	}
}
