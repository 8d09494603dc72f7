// Package main runs the dbzmanager HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dharsanguruparan/dbzmanager/internal/api"
	"github.com/dharsanguruparan/dbzmanager/internal/config"
	"github.com/dharsanguruparan/dbzmanager/internal/database"
	"github.com/dharsanguruparan/dbzmanager/internal/logger"
	"github.com/dharsanguruparan/dbzmanager/internal/memstore"
	"github.com/dharsanguruparan/dbzmanager/internal/repository"
	"github.com/dharsanguruparan/dbzmanager/internal/s3storage"
	"github.com/dharsanguruparan/dbzmanager/internal/signing"
	"github.com/dharsanguruparan/dbzmanager/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	if cfg.GeneratedSecret {
		log.Warn("JWT_SECRET not set; using a random secret, tokens will not survive a restart")
	}

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	assets := storage.NewAssets(backend, cfg.PublicBaseURL, log)
	signer := signing.NewSigner(cfg.JWTSecret)

	log.Info("starting server",
		"address", cfg.Address,
		"db_driver", cfg.DBDriver,
		"asset_backend", cfg.AssetBackend,
		"require_auth", cfg.RequireAuth,
	)
	return api.New(cfg, store, assets, signer, log).Run(ctx)
}

func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (api.Store, func(), error) {
	if cfg.DBDriver == config.DriverMemory {
		log.Warn("using the in-memory store; data is lost on exit")
		return memstore.New(), func() {}, nil
	}
	if err := database.Migrate(cfg, log); err != nil {
		return nil, nil, err
	}
	pool, err := database.Connect(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewStore(pool), pool.Close, nil
}

func openBackend(ctx context.Context, cfg *config.Config) (storage.Backend, error) {
	if cfg.AssetBackend != config.BackendS3 {
		return storage.NewDiskBackend(cfg.UploadDir)
	}
	b, err := s3storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init s3 backend: %w", err)
	}
	if err := b.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return b, nil
}
