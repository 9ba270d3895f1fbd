package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"

	"chat-engine/auth"
	"chat-engine/gateway"
	"chat-engine/repositories"
	"chat-engine/runtime"
	"chat-engine/runtime/workers"
	"chat-engine/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting, so every defer (database cleanup
// included) executes before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := newLogger(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	store, err := repositories.NewStore(db)
	if err != nil {
		return fmt.Errorf("store setup failed: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	// 3. Repositories, registry and presence tracking
	conversationRepo := repositories.NewConversationRepository(store, log)
	messageRepo := repositories.NewMessageRepository(store, log)
	presenceRepo := repositories.NewPresenceRepository(store)
	userRepo := repositories.NewUserRepository(store)

	registry := runtime.NewRegistry()
	tracker := runtime.NewPresenceTracker(presenceRepo, log)
	broadcaster := runtime.NewBroadcaster(log, registry, config.BufferSize, config.SinkTimeout)

	// 4. Services and gateway
	membership := services.NewMembershipService(conversationRepo, messageRepo, config.HistoryPageSize, log)
	messages := services.NewMessageService(store, messageRepo, userRepo, log)
	verifier := auth.NewVerifier(config.JWTSecret)

	server := gateway.NewServer(log, verifier, registry, tracker, broadcaster,
		membership, messages, config.ConnectionBufferSize)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. Supervised delivery worker
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(broadcaster)
	go sup.Run(ctx)

	// 7. HTTP server hosting the websocket endpoint
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", server.HandleConnection)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{Addr: address, Handler: mux}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting gateway", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 9. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown incomplete", "error", err)
	}
	sup.Stop()
	log.Info("Program stopped cleanly")

	return nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		l = slog.LevelDebug
	case "WARN":
		l = slog.LevelWarn
	case "ERROR":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
}
