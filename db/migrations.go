package db

import (
	"database/sql"
	"embed"
	"errors"
	"log"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate brings the posts schema up to date.
func Migrate(conn *sql.DB) error {
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.New("failed to set dialect: " + err.Error())
	}

	if err := goose.Up(conn, "migrations"); err != nil {
		return errors.New("failed to run migrations: " + err.Error())
	}

	log.Println("database migration check complete. All migrations are up to date")
	return nil
}
