// Command seed replaces the portfolio content with a JSON dataset.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"

	"gorm.io/gorm"

	"portfolio/common"
	"portfolio/config"
	"portfolio/database"
	"portfolio/store"
)

func main() {
	file := flag.String("file", "seed/resume.json", "dataset to load")
	flag.Parse()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	common.InitLogger(cfg.LogLevel)

	if err := run(context.Background(), cfg, *file); err != nil {
		slog.Error("seed failed", "file", *file, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, file string) error {
	ds, err := LoadDataset(file)
	if err != nil {
		return err
	}

	db, err := common.ConnectDb(cfg.DBDriver, cfg.ServiceDatabaseURL)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(db); err != nil {
		return err
	}

	client, err := serviceClient(db, cfg)
	if err != nil {
		return err
	}

	slog.Info("seeding", "file", file)
	counts, err := Seed(ctx, client, ds)
	if err != nil {
		return err
	}
	slog.Info("seed complete",
		"profiles", counts.Profiles,
		"projects", counts.Projects,
		"experience", counts.Experience,
		"skills", counts.Skills)
	return nil
}

// serviceClient needs the service-role key, except against a local sqlite
// file where no policies are enforced by the database itself.
func serviceClient(db *gorm.DB, cfg config.Config) (*store.Client, error) {
	if cfg.StoreServiceRoleKey != "" {
		c, err := store.Connect(db, cfg.StoreServiceRoleKey, cfg.StoreJWTSecret)
		if err != nil {
			return nil, err
		}
		if c.Role() != store.RoleService {
			return nil, errors.New("seed: storeServiceRoleKey does not carry the service_role role")
		}
		return c, nil
	}
	if cfg.DBDriver == "sqlite" {
		return store.New(db, store.RoleService), nil
	}
	return nil, errors.New("seed: STORE_SERVICE_ROLE_KEY is required")
}
