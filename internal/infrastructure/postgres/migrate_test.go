package postgres

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/db?sslmode=disable", migrateURL("postgres://u:p@h:5432/db?sslmode=disable"))
	assert.Equal(t, "pgx5://u@h/db", migrateURL("postgresql://u@h/db"))
	assert.Equal(t, "pgx5://ya", migrateURL("pgx5://ya"))
}

func TestNullHelpers(t *testing.T) {
	assert.Nil(t, nullString(""))
	assert.Equal(t, "x", *nullString("x"))
	assert.Equal(t, "", derefString(nil))
	assert.Nil(t, dateOnly(nil))
}

func TestCodigosSQLState(t *testing.T) {
	badUUID := fmt.Errorf("get client: %w", &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`})
	assert.True(t, isInvalidTextRepresentation(badUUID))
	assert.True(t, noRows(badUUID))
	assert.True(t, noRows(pgx.ErrNoRows))
	assert.False(t, isUniqueViolation(badUUID))

	dup := &pgconn.PgError{Code: "23505", ConstraintName: "clients_nie_pasaporte_key"}
	assert.True(t, isUniqueViolation(dup))
	assert.False(t, noRows(dup))
	assert.Equal(t, "clients_nie_pasaporte_key", constraintName(dup))
}
