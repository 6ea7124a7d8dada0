// Package storage provides the durable client storage that backs a session:
// a small string key/value contract with interchangeable drivers.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-volunteerhub/internal/pkg/config"
)

// Keys of the two entries a session persists.
const (
	KeyToken = "auth.token"
	KeyUser  = "auth.user"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown storage driver")

// Storage is a durable string key/value store. Get reports a missing key as
// ok == false with a nil error.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Open builds the driver named by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (Storage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("Opening durable storage", zap.String("driver", cfg.Driver))

	switch strings.ToLower(cfg.Driver) {
	case "memory", "":
		return NewMemory(), nil
	case "badger":
		return OpenBadger(BadgerConfig{
			Path:       cfg.Badger.Path,
			InMemory:   cfg.Badger.InMemory,
			SyncWrites: cfg.Badger.SyncWrites,
			Logger:     logger,
		})
	case "sqlite":
		return OpenSQLite(ctx, cfg.SQLite.Path)
	case "redis":
		return OpenRedis(ctx, RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	case "postgres":
		return OpenPostgres(ctx, cfg.Postgres, logger)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
}

// scoped namespaces every key under one client instance.
type scoped struct {
	Storage
	prefix string
}

// Scoped returns a view of s whose keys live under instanceID. Closing the
// view does not close s.
func Scoped(s Storage, instanceID string) Storage {
	return &scoped{Storage: s, prefix: "client:" + instanceID + ":"}
}

func (s *scoped) Get(ctx context.Context, key string) (string, bool, error) {
	return s.Storage.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key, value string) error {
	return s.Storage.Set(ctx, s.prefix+key, value)
}

func (s *scoped) Delete(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}
	return s.Storage.Delete(ctx, full...)
}

func (s *scoped) Close() error { return nil }
