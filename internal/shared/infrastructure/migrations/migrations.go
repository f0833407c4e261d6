package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed sqlite/*.sql
var sqliteFS embed.FS

//go:embed postgres/*.sql
var postgresFS embed.FS

type migration struct {
	name string
	sql  string
}

func load(fsys fs.FS, dir string) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	out := make([]migration, 0, len(names))
	for _, name := range names {
		body, err := fs.ReadFile(fsys, dir+"/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		out = append(out, migration{name: name, sql: string(body)})
	}
	return out, nil
}

// RunSQLiteMigrations applies the embedded SQLite migrations in order. Every
// statement is idempotent, so running it on each start is safe.
func RunSQLiteMigrations(ctx context.Context, db *sql.DB) error {
	migrations, err := load(sqliteFS, "sqlite")
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", m.name, err)
		}
	}
	return nil
}

// RunPostgresMigrations applies the embedded PostgreSQL migrations in order.
func RunPostgresMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrations, err := load(postgresFS, "postgres")
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := pool.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", m.name, err)
		}
	}
	return nil
}
