// Command migrate applies the database schema and exits. It is the entry
// point used by deploy hooks; portfolio-cli migrate does the same.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	applog "github.com/nambiararyan24/portfolio/internal"
	"github.com/nambiararyan24/portfolio/internal/config"
	"github.com/nambiararyan24/portfolio/internal/container"
	"github.com/nambiararyan24/portfolio/internal/migration"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := applog.NewLogger(applog.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := container.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.NewRunner(logger).Run(ctx, db); err != nil {
		logger.Error("Migration failed: %v", err)
		_ = db.Close()
		os.Exit(1)
	}
}
