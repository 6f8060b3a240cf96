package main

// Run database migrations:
//   go run ./cmd/migrate            # apply pending migrations
//   go run ./cmd/migrate status     # show applied state
//   go run ./cmd/migrate down       # roll back the latest migration

import (
	"context"
	"os"

	"pdfchat-backend/internal/shared/config"
	"pdfchat-backend/internal/shared/storage/db"
	"pdfchat-backend/internal/shared/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		telemetry.Error("config.invalid", map[string]any{"error": err})
		os.Exit(1)
	}
	telemetry.Configure(cfg.LogLevel)
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect", map[string]any{"error": err})
		os.Exit(1)
	}
	defer sqlDB.Close()

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "up":
		err = db.RunMigrations(ctx, sqlDB)
	case "status":
		err = db.MigrationStatus(ctx, sqlDB)
	case "down":
		err = db.RollbackLast(ctx, sqlDB)
	default:
		telemetry.Error("migrate.usage", map[string]any{"command": command, "expected": "up|status|down"})
		sqlDB.Close()
		os.Exit(2)
	}
	if err != nil {
		telemetry.Error("migrate.failed", map[string]any{"command": command, "error": err})
		sqlDB.Close()
		os.Exit(1)
	}
	telemetry.Info("migrate.done", map[string]any{"command": command})
}
