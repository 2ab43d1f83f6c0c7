package enginebuilder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/park285/btch-engine/internal/adapter/viewer"
	"github.com/park285/btch-engine/internal/archive"
	"github.com/park285/btch-engine/internal/config"
	"github.com/park285/btch-engine/internal/game"
	"github.com/park285/btch-engine/internal/msgcat"
	"github.com/park285/btch-engine/internal/obslog"
	"github.com/park285/btch-engine/internal/service/gameplay"
)

// Archive is the finished-game sink plus lookup.
type Archive interface {
	game.ResultSink
	Get(ctx context.Context, gameID string) (archive.Entry, error)
}

type Deps struct {
	Service  *gameplay.Service
	Manager  *game.Manager
	Store    game.Store
	Archive  Archive
	Renderer *viewer.Renderer
	Catalog  *msgcat.Catalog

	closers []func() error
}

// Close releases the Redis client and the database pool.
func (d *Deps) Close() error {
	if d == nil {
		return nil
	}
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogOptions maps the logging part of cfg onto obslog.
func LogOptions(cfg *config.AppConfig) obslog.Options {
	return obslog.Options{
		Level:   cfg.LogLevel,
		Console: cfg.LogToConsole,
		File:    cfg.LogFile,
		Caller:  cfg.LogCaller,
		Format:  cfg.LogFormat,
	}
}

// New wires storage, archive, rendering and the service. Without REDIS_URL games live
// in process memory; without DATABASE_URL finished games are archived in memory.
func New(cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Deps{}

	catalog, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	d.Catalog = catalog

	if strings.TrimSpace(cfg.RedisURL) != "" {
		opts, err := game.ParseRedisURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		d.closers = append(d.closers, rdb.Close)
		d.Store = game.NewRedisStore(rdb, cfg.SnapshotTTL, logger)
		logger.Info("game_store", zap.String("backend", "redis"), zap.Duration("ttl", cfg.SnapshotTTL))
	} else {
		d.Store = game.NewMemoryStore()
		logger.Info("game_store", zap.String("backend", "memory"))
	}

	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		repo, err := archive.NewRepository(cfg.DatabaseURL)
		if err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("open archive: %w", err)
		}
		d.closers = append(d.closers, repo.Close)
		if cfg.ArchiveSchema {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := repo.EnsureSchema(ctx); err != nil {
				_ = d.Close()
				return nil, fmt.Errorf("archive schema: %w", err)
			}
		}
		d.Archive = repo
	} else {
		d.Archive = archive.NewMemoryRepository()
	}

	d.Manager, err = game.NewManager(d.Store, d.Archive, logger)
	if err != nil {
		_ = d.Close()
		return nil, err
	}
	d.Renderer = viewer.NewRenderer(cfg.RenderSquareSize)
	d.Service, err = gameplay.NewService(d.Manager, d.Renderer, catalog, logger)
	if err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}
