// Package migrations applies the content schema with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var embedded embed.FS

const dir = "sql"

// Command names accepted by Run.
const (
	Up     = "up"
	Down   = "down"
	Status = "status"
)

// Run opens dsn and applies the goose command to the embedded migrations.
func Run(ctx context.Context, dsn, command string) error {
	if dsn == "" {
		return fmt.Errorf("database DSN cannot be empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(embedded)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	switch command {
	case Up, "":
		err = goose.UpContext(ctx, db, dir)
	case Down:
		err = goose.DownContext(ctx, db, dir)
	case Status:
		err = goose.StatusContext(ctx, db, dir)
	default:
		return fmt.Errorf("unknown migrate command %q (want up, down or status)", command)
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	return nil
}
