package psqlbuilder

import (
	"github.com/Masterminds/squirrel"
)

// Драйверы, для которых известен формат плейсхолдеров
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// psql построитель запросов для PostgreSQL ($1, $2, ...)
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Select начинает SELECT в формате PostgreSQL
func Select(columns ...string) squirrel.SelectBuilder {
	return psql.Select(columns...)
}

// Insert начинает INSERT в формате PostgreSQL
func Insert(table string) squirrel.InsertBuilder {
	return psql.Insert(table)
}

// Update начинает UPDATE в формате PostgreSQL
func Update(table string) squirrel.UpdateBuilder {
	return psql.Update(table)
}

// Delete начинает DELETE в формате PostgreSQL
func Delete(table string) squirrel.DeleteBuilder {
	return psql.Delete(table)
}

// ForDriver возвращает построитель с форматом плейсхолдеров под драйвер
// Для sqlite3 используются "?", для остальных драйверов "$n"
func ForDriver(driver string) squirrel.StatementBuilderType {
	if driver == DriverSQLite {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
	}
	return psql
}
