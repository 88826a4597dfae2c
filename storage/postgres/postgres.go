package postgres

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abhijeet-0165/ridefusion/config"
	"github.com/abhijeet-0165/ridefusion/pkg/logger"
	"github.com/abhijeet-0165/ridefusion/storage"
)

type Store struct {
	pool *pgxpool.Pool
	log  logger.ILogger
}

func New(ctx context.Context, cfg config.Config, log logger.ILogger) (*Store, error) {
	url := cfg.PostgresURL()

	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		log.Error("error while parsing Postgres config", logger.Error(err))
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Error("failed to connect Postgres", logger.Error(err))
		return nil, wrapErr(err)
	}

	if err := pool.Ping(ctx); err != nil {
		log.Error("Postgres ping failed", logger.Error(err))
		pool.Close()
		return nil, wrapErr(err)
	}

	if err := runMigrations(cfg, url, log); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info("Postgres connected")

	return &Store{
		pool: pool,
		log:  log,
	}, nil
}

func runMigrations(cfg config.Config, url string, log logger.ILogger) error {
	mPath := cfg.MigrationsPath
	if !filepath.IsAbs(mPath) {
		cwd, _ := os.Getwd()
		mPath = filepath.Join(cwd, mPath)
	}

	m, err := migrate.New("file://"+mPath, url)
	if err != nil {
		log.Error("migration init error or no migrations found", logger.String("path", mPath), logger.Error(err))
		return nil
	}
	defer m.Close()

	if err = m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no migrations to apply")
			return nil
		}
		log.Error("migration up error", logger.Error(err))
		return err
	}
	return nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// Pool exposes the connection pool for maintenance commands.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

func (s *Store) User() storage.IUserStorage       { return NewUserRepo(s.pool, s.log) }
func (s *Store) Ride() storage.IRideStorage       { return NewRideRepo(s.pool, s.log) }
func (s *Store) Booking() storage.IBookingStorage { return NewBookingRepo(s.pool, s.log) }
