package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"

	"postdeck/pkg/config"

	"github.com/pressly/goose/v3"
	_ "github.com/lib/pq"
)

// Schema migration runner. Usage:
//
//	migrate [-dir migrations] <up|down|status|version|create NAME>
func main() {
	dir := flag.String("dir", "migrations", "directory with migration files")
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatal("Usage: migrate [-dir migrations] <up|down|status|version|create NAME>")
	}

	if err := run(*dir, flag.Arg(0), flag.Arg(1)); err != nil {
		log.Fatal(err)
	}
}

func run(dir, command, name string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode,
	)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	switch command {
	case "up":
		if err := goose.Up(db, dir); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	case "down":
		if err := goose.Down(db, dir); err != nil {
			return fmt.Errorf("roll back migration: %w", err)
		}
	case "status":
		if err := goose.Status(db, dir); err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
	case "version":
		if err := goose.Version(db, dir); err != nil {
			return fmt.Errorf("migration version: %w", err)
		}
	case "create":
		if name == "" {
			return fmt.Errorf("create requires a migration name")
		}
		if err := goose.Create(db, dir, name, "sql"); err != nil {
			return fmt.Errorf("create migration: %w", err)
		}
	default:
		return fmt.Errorf("unknown command %q", command)
	}

	return nil
}
