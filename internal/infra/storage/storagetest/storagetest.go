// Package storagetest поднимает SQLite базу со схемой сервиса для тестов
package storagetest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/config"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/migrations"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
)

const Driver = "sqlite3"

// Open создает файл базы во временной директории теста и применяет миграции
func Open(t *testing.T) *dbmetrics.DB {
	t.Helper()

	dbCfg := config.DatabaseConfig{
		Driver: Driver,
		Path:   filepath.Join(t.TempDir(), "scheduling.db"),
	}

	db, err := sql.Open(Driver, dbCfg.DSN())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = migrations.Apply(context.Background(), db, Driver)
	require.NoError(t, err)

	return dbmetrics.Wrap(db, nil)
}
