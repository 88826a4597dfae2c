package main

import (
	"context"

	"github.com/abhijeet-0165/ridefusion/config"
	"github.com/abhijeet-0165/ridefusion/pkg/logger"
	"github.com/abhijeet-0165/ridefusion/storage/postgres"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)
	pg, err := postgres.New(context.Background(), cfg, log)
	if err != nil {
		panic(err)
	}
	defer pg.Close()

	// Wallets and passes live in the key-value store and are left alone.
	_, err = pg.Pool().Exec(context.Background(), "TRUNCATE TABLE bookings, rides, users")
	if err != nil {
		log.Error("failed to truncate tables", logger.Error(err))
		return
	}
	log.Info("truncated bookings, rides and users")
}
