// Package redis stores per-user documents (wallet, owned passes) as JSON blobs.
package redis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	goredis "github.com/go-redis/redis/v8"

	"github.com/abhijeet-0165/ridefusion/config"
	"github.com/abhijeet-0165/ridefusion/pkg/logger"
	"github.com/abhijeet-0165/ridefusion/storage"
)

type Store struct {
	rdb *goredis.Client
	log logger.ILogger
}

func New(ctx context.Context, cfg config.Config, log logger.ILogger) (*Store, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("Redis connection failed", logger.String("addr", cfg.RedisAddr()), logger.Error(err))
		_ = rdb.Close()
		return nil, wrapErr(err)
	}

	log.Info("Redis connection established")
	return NewWithClient(rdb, log), nil
}

func NewWithClient(rdb *goredis.Client, log logger.ILogger) *Store {
	return &Store{rdb: rdb, log: log}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, storage.ErrNotFound
		}
		s.log.Error("redis get failed", logger.String("key", key), logger.Error(err))
		return nil, wrapErr(err)
	}
	return val, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		s.log.Error("redis set failed", logger.String("key", key), logger.Error(err))
		return wrapErr(err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

func wrapErr(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.EOF) || errors.Is(err, goredis.ErrClosed) {
		return fmt.Errorf("%w: %v", storage.ErrConnection, err)
	}
	return err
}
