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

	"github.com/joho/godotenv"

	"github.com/gatherhall/concierge/backend/internal/config"
	"github.com/gatherhall/concierge/backend/internal/handler"
	"github.com/gatherhall/concierge/backend/internal/service/ai"
	"github.com/gatherhall/concierge/backend/internal/service/history"
	"github.com/gatherhall/concierge/backend/internal/service/ratelimit"
	"github.com/gatherhall/concierge/backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	var st store.Store
	if cfg.Store.DatabasePath != "" {
		st, err = store.NewSQLiteStore(cfg.Store.DatabasePath)
		if err != nil {
			log.Fatalf("failed to open store: %v", err)
		}
	} else {
		log.Println("DATABASE_PATH not set, using in-memory store (data is lost on restart)")
		st = store.NewMemoryStore()
	}
	defer st.Close()

	hist := history.NewService(st, cfg.Chat.HistoryLimit)
	limiter := ratelimit.New(cfg.Chat.RateLimit, cfg.Chat.RateWindow)

	var genClient ai.Client
	if cfg.AI.Enabled() {
		genClient, err = ai.NewClient(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize generation backend: %v", err)
			log.Println("continuing without assistant functionality")
		} else {
			log.Printf("generation backend initialized (provider=%s)", cfg.AI.Provider)
		}
	} else {
		log.Println("generation credentials not configured, assistant disabled")
	}

	router := handler.NewRouter(st, hist, limiter, genClient, cfg.Chat)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("event concierge backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
