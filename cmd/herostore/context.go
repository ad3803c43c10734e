package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sagarc03/herostore"
	"github.com/sagarc03/herostore/config"
	"github.com/sagarc03/herostore/storage"
)

func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return config.WithContext(ctx, cfg)
}

// openService opens the configured container and builds a HeroService over it.
// The returned func releases the container.
func openService(ctx context.Context) (*herostore.HeroService, herostore.BlobStore, func(), error) {
	cfg, err := config.FromContext(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	store, closeStore, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open storage: %w", err)
	}
	slog.Debug("opened storage", "backend", cfg.Storage.Backend)

	ids, err := cfg.IDGenerator()
	if err != nil {
		closeStore()
		return nil, nil, nil, fmt.Errorf("id generator: %w", err)
	}

	service, err := herostore.NewHeroService(store, herostore.ServiceConfig{
		IDs:             ids,
		SerializeWrites: cfg.Service.SerializeWrites,
	})
	if err != nil {
		closeStore()
		return nil, nil, nil, fmt.Errorf("create service: %w", err)
	}

	return service, store, closeStore, nil
}
