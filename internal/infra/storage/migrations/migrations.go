package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

var (
	// ErrUnsupportedDriver возвращается для драйвера без набора миграций
	ErrUnsupportedDriver = errors.New("migrations: unsupported driver")

	// ErrApply возвращается, если миграция не применилась
	ErrApply = errors.New("migrations: failed to apply migration")
)

func dirFor(driver string) (string, error) {
	switch driver {
	case "postgres":
		return "postgres", nil
	case "sqlite3":
		return "sqlite", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// Apply применяет еще не примененные миграции для драйвера
// Возвращает список примененных версий
func Apply(ctx context.Context, db *sql.DB, driver string) ([]string, error) {
	dir, err := dirFor(driver)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (version VARCHAR(255) PRIMARY KEY)`); err != nil {
		return nil, fmt.Errorf("%w: create schema_migrations: %v", ErrApply, err)
	}

	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read migrations: %v", ErrApply, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	placeholder := "$1"
	if driver == "sqlite3" {
		placeholder = "?"
	}

	applied := make([]string, 0)
	for _, name := range names {
		version := strings.TrimSuffix(name, ".sql")

		var exists int
		err := db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM schema_migrations WHERE version = "+placeholder, version).Scan(&exists)
		if err != nil {
			return applied, fmt.Errorf("%w: check %s: %v", ErrApply, version, err)
		}
		if exists > 0 {
			continue
		}

		body, err := files.ReadFile(path.Join(dir, name))
		if err != nil {
			return applied, fmt.Errorf("%w: read %s: %v", ErrApply, name, err)
		}

		if _, err := db.ExecContext(ctx, string(body)); err != nil {
			return applied, fmt.Errorf("%w: %s: %v", ErrApply, version, err)
		}
		if _, err := db.ExecContext(ctx,
			"INSERT INTO schema_migrations (version) VALUES ("+placeholder+")", version); err != nil {
			return applied, fmt.Errorf("%w: record %s: %v", ErrApply, version, err)
		}

		applied = append(applied, version)
	}

	return applied, nil
}
