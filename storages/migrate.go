package storages

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

const migrationTable = "schema_migrations"

// ApplyMigrations executes the .sql files under root of migrations in name order,
// each at most once.
func ApplyMigrations(ctx context.Context, db *sql.DB, migrations fs.FS, root string) error {
	if root == "" {
		root = "."
	}
	entries, err := fs.ReadDir(migrations, root)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS `+migrationTable+` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
);
`); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, name := range names {
		content, err := fs.ReadFile(migrations, path.Join(root, name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if err := WithTx(ctx, db, func(tx Tx) error {
			var count int
			if err := tx.QueryRow(ctx,
				"SELECT COUNT(*) FROM "+migrationTable+" WHERE name = ?", name,
			).Scan(&count); err != nil {
				return fmt.Errorf("check migration %s: %w", name, err)
			}
			if count > 0 {
				return nil
			}
			if _, err := tx.Exec(ctx, string(content)); err != nil {
				return fmt.Errorf("exec migration %s: %w", name, err)
			}
			if _, err := tx.Exec(ctx,
				"INSERT INTO "+migrationTable+" (name, applied_at) VALUES (?, ?)",
				name, time.Now().UTC().UnixMilli(),
			); err != nil {
				return fmt.Errorf("record migration %s: %w", name, err)
			}
			return nil
		}); err != nil {
			return err
		}
	}

	return nil
}
