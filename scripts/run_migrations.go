package main

import (
	"context"
	"os"
	"time"

	"github.com/JamissonSilvaTico/LavaJato/internal/config"
	"github.com/JamissonSilvaTico/LavaJato/internal/database"
	"github.com/JamissonSilvaTico/LavaJato/internal/logging"
	"github.com/JamissonSilvaTico/LavaJato/migrations"
	zlog "github.com/rs/zerolog/log"
)

func main() {
	if len(os.Args) < 2 {
		zlog.Fatal().Msg("usage: go run scripts/run_migrations.go [up|down]")
	}

	files, err := migrations.Load(os.Args[1])
	if err != nil {
		zlog.Fatal().Err(err).Msg("load migrations")
	}

	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("load config")
	}
	logger, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		zlog.Fatal().Err(err).Msg("configure logging")
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	for _, f := range files {
		logger.Info().Str("file", f.Name).Msg("running migration")
		if _, err := db.ExecContext(ctx, f.SQL); err != nil {
			logger.Fatal().Err(err).Str("file", f.Name).Msg("execute migration")
		}
	}

	logger.Info().Int("count", len(files)).Str("direction", os.Args[1]).Msg("migrations applied")
}
