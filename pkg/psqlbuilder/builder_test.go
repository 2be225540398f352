package psqlbuilder

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_UsesDollarPlaceholders(t *testing.T) {
	query, args, err := Select("id").From("bookings").
		Where(squirrel.Eq{"tenant_id": 1}).
		Where(squirrel.Eq{"session_id": "morning"}).
		ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id FROM bookings WHERE tenant_id = $1 AND session_id = $2", query)
	assert.Equal(t, []interface{}{1, "morning"}, args)
}

func TestForDriver(t *testing.T) {
	query, _, err := ForDriver(DriverSQLite).Update("bookings").
		Set("status", "canceled").
		Where(squirrel.Eq{"id": 7}).
		ToSql()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE bookings SET status = ? WHERE id = ?", query)

	query, _, err = ForDriver(DriverPostgres).Delete("bookings").Where(squirrel.Eq{"id": 7}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM bookings WHERE id = $1", query)
}
