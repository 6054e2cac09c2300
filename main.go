package main

import (
	"context"
	stderrors "errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"

	applog "github.com/nambiararyan24/portfolio/internal"
	"github.com/nambiararyan24/portfolio/internal/config"
	"github.com/nambiararyan24/portfolio/internal/container"
	"github.com/nambiararyan24/portfolio/internal/errors"
	"github.com/nambiararyan24/portfolio/internal/migration"
)

// initDatabase connects to PostgreSQL and brings the schema up to date
func initDatabase(ctx context.Context, appConfig *config.Config, logger *applog.Logger) (*sqlx.DB, error) {
	db, err := container.Connect(ctx, appConfig.Database)
	if err != nil {
		return nil, err
	}

	migrator := migration.NewRunner(logger)
	if err := migrator.Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "database migration failed")
	}
	return db, nil
}

func main() {
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := applog.NewLogger(applog.ParseLevel(appConfig.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := initDatabase(ctx, appConfig, logger)
	if err != nil {
		logger.Error("Failed to initialize database: %v", err)
		os.Exit(1)
	}

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		logger.Error("Failed to create application container: %v", err)
		os.Exit(1)
	}
	if err := appContainer.InitWithDatabase(ctx, db); err != nil {
		logger.Error("Failed to initialize container: %v", err)
		_ = appContainer.Shutdown(context.Background())
		os.Exit(1)
	}
	if err := appContainer.BootstrapAdmin(ctx); err != nil {
		logger.Warn("Admin bootstrap failed: %v", err)
	}

	server := appContainer.HTTP().Server(":" + appConfig.Server.Port)
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting portfolio server on port %s", appConfig.Server.Port)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !stderrors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed: %v", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown: %v", err)
	}
	if err := appContainer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Container shutdown: %v", err)
	}
}
