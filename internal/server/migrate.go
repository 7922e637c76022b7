package server

import (
	"errors"
	"fmt"
	"log"
	"net/url"

	"taskboard/internal/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func runMigrations(cfg *config.Config) error {
	dbURL := fmt.Sprintf("pgx5://%s:%s@%s:%s/%s?sslmode=disable",
		url.QueryEscape(cfg.DBUser), url.QueryEscape(cfg.DBPassword),
		cfg.DBHost, cfg.DBPort, cfg.DBName,
	)

	m, err := migrate.New("file://"+cfg.MigrationsPath, dbURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("✅ Database schema up to date")
			return nil
		}
		return err
	}

	log.Println("✅ Database migrations applied")
	return nil
}
