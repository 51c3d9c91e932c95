package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/adrianwozniak/hearth/internal/adapter/driven/familyapi"
	sqliteadapter "github.com/adrianwozniak/hearth/internal/adapter/driven/sqlite"
	httphandler "github.com/adrianwozniak/hearth/internal/adapter/driving/http"
	webhandler "github.com/adrianwozniak/hearth/internal/adapter/driving/web"
	"github.com/adrianwozniak/hearth/internal/application"
	"github.com/adrianwozniak/hearth/internal/config"
	"github.com/adrianwozniak/hearth/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	logging.Setup()

	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"api_url", cfg.APIBaseURL,
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"credential_encryption", len(cfg.SecretKey) > 0,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire the session over the durable credential store and restore
	// any credential from a previous run.
	credentialStore, err := sqliteadapter.NewCredentialRepo(db, cfg.SecretKey)
	if err != nil {
		return err
	}
	session := application.NewSession(credentialStore)
	if err := session.Restore(ctx); err != nil {
		slog.Warn("session restore failed, starting logged out", "error", err)
	}
	slog.Info("session restored", "authenticated", session.Authenticated())

	// 6. Create the family API client. Stale credentials are discovered
	// lazily: the first 401 on an authenticated call invalidates the
	// session.
	api, err := familyapi.NewClient(familyapi.Options{
		BaseURL: cfg.APIBaseURL,
		Tokens:  session.Token,
		OnUnauthorized: func() {
			session.Invalidate(context.Background())
		},
		Timeout: cfg.RequestTimeout,
	})
	if err != nil {
		return err
	}

	go func() {
		for range session.Invalidations() {
			slog.Info("session invalidated by upstream 401, user must log in again")
		}
	}()

	// 7. Wire services and driving adapters.
	authSvc := application.NewAuthService(api, session)

	mux := http.NewServeMux()

	apiHandler := httphandler.NewHandler(session, slog.Default())
	httphandler.RegisterRoutes(mux, apiHandler)

	webHandler := webhandler.NewHandler(api, session, authSvc, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler, session)

	handler := httphandler.Middleware(slog.Default(), mux)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("hearth started", "listen_addr", cfg.ListenAddr)

	// 8. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 9. Graceful shutdown with 10s timeout for HTTP server drain.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
		return err
	}

	slog.Info("shutdown complete")
	return nil
}
