package main

import (
	"database/sql"
	"flag"
	"log/slog"
	"os"

	"github.com/BradenHooton/tunevault/internal/config"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding goose migrations")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.Database.URL())
	if err != nil {
		logger.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		logger.Error("failed to set goose dialect", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := goose.Run(command, db, *dir, flag.Args()[min(1, flag.NArg()):]...); err != nil {
		logger.Error("migration failed",
			slog.String("command", command),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	logger.Info("migration finished", slog.String("command", command))
}
