package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/config"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/database"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/repository"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/repository/memory"
)

// ErrNoDatabaseURL is returned when a SQL backend is selected without a URL.
var ErrNoDatabaseURL = errors.New("no database URL configured")

// OpenStore builds the persistence backend selected by cfg.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Store, error) {
	backend := cfg.StorageBackend()
	if backend == config.BackendMemory {
		logger.Warn("using in-memory storage; saved tables are lost on restart")
		return memory.NewStore(), nil
	}

	url := cfg.DatabaseURL()
	if url == "" {
		return nil, fmt.Errorf("%s backend: %w", backend, ErrNoDatabaseURL)
	}
	db, dialect, err := database.Open(ctx, database.Config{
		URL:             url,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("connected to database",
		zap.String("driver", dialect.Driver()),
		zap.String("url", database.Redact(url)),
		zap.String("backend", backend))

	if cfg.Database.AutoSchema {
		if err := database.EnsureSchema(ctx, db, dialect); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	switch backend {
	case config.BackendQueryBuilder:
		return repository.NewQueryBuilderStore(database.NewQueryBuilder(db, dialect)), nil
	default:
		return repository.NewSQLStore(db, dialect), nil
	}
}
