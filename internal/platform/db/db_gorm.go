// Package db opens the gorm database backing the quote cache.
package db

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	gpostgres "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/roman91DE/portfolio-dashboard/internal/feature/quotes/adapters"
)

// BuildPostgresDSN assembles the connection string for the PostgreSQL driver.
func BuildPostgresDSN(host, port, user, password, name string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, name)
}

// ResolveSQLitePath returns the SQLite file path, falling back to the
// default location when unset.
func ResolveSQLitePath(path string) string {
	if path == "" {
		return filepath.Join("database", "stock_data.db")
	}
	return path
}

// OpenDB opens the cache database. The default is a local SQLite file
// (SQLITE_PATH, falling back to database/stock_data.db); setting
// DB_DRIVER=postgres switches to PostgreSQL built from the DB_* variables.
func OpenDB() *gorm.DB {
	var (
		db  *gorm.DB
		err error
	)

	if os.Getenv("DB_DRIVER") == "postgres" {
		dsn := BuildPostgresDSN(
			os.Getenv("DB_HOST"), os.Getenv("DB_PORT"),
			os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"))

		deadline := time.Now().Add(60 * time.Second)
		for {
			db, err = gorm.Open(gpostgres.Open(dsn), &gorm.Config{})
			if err == nil {
				break
			}
			if time.Now().After(deadline) {
				log.Fatalf("DB connect failed after 60s: %v", err)
			}
			log.Printf("DB connect failed, retrying...: %v", err)
			time.Sleep(3 * time.Second)
		}
	} else {
		path := ResolveSQLitePath(os.Getenv("SQLITE_PATH"))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			log.Fatalf("failed to create database directory: %v", err)
		}
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open sqlite database: %v", err)
		}
	}

	if os.Getenv("RUN_MIGRATIONS") != "false" {
		if err := db.AutoMigrate(
			&adapters.TimeSeriesModel{},
			&adapters.OverviewModel{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
