package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMetadataStatuses(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, MetadataFor(CodeValidation).HTTPStatus)
	assert.Equal(t, http.StatusNotFound, MetadataFor(CodeNotFound).HTTPStatus)
	assert.Equal(t, http.StatusConflict, MetadataFor(CodeConflict).HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, MetadataFor(CodeDependency).HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, MetadataFor(Code("bogus")).HTTPStatus)
}

func TestAsFindsWrappedError(t *testing.T) {
	typed := New(CodeNotFound, "order not found")
	wrapped := fmt.Errorf("handler: %w", typed)

	got := As(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, CodeNotFound, got.Code())
	assert.True(t, IsCode(wrapped, CodeNotFound))
	assert.False(t, IsCode(stdErrors.New("plain"), CodeNotFound))
}

func TestDumpCapturesPgDiagnostics(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "uq_orders_order_id", TableName: "orders", Message: "duplicate key value"}
	err := Wrap(CodeConflict, pgErr, "order id already taken")

	d := Dump(err)
	assert.Equal(t, CodeConflict, d.Code)
	assert.Equal(t, "pgx", d.Driver)
	assert.Equal(t, "23505", d.DBCode)
	assert.Equal(t, "uq_orders_order_id", d.DBConstraint)
	assert.Equal(t, "orders", d.DBTable)
	assert.Len(t, d.Chain, 2)
}

func TestDumpCapturesSQLiteConstraint(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.Exec("CREATE TABLE customers (id TEXT PRIMARY KEY, phone TEXT NOT NULL UNIQUE)").Error)
	require.NoError(t, conn.Exec("INSERT INTO customers (id, phone) VALUES ('a', '555-0101')").Error)

	dupErr := conn.Exec("INSERT INTO customers (id, phone) VALUES ('b', '555-0101')").Error
	require.Error(t, dupErr)

	d := Dump(Wrap(CodeConflict, dupErr, "phone already registered"))
	assert.Equal(t, "sqlite3", d.Driver)
	assert.Equal(t, "unique", d.DBConstraint)
	assert.Equal(t, "customers", d.DBTable)
	assert.Equal(t, "phone", d.DBColumn)
	assert.NotEmpty(t, d.DBCode)
}

func TestSQLiteConstraintParsing(t *testing.T) {
	kind, table, column := sqliteConstraint("UNIQUE constraint failed: custom_order_dash.order_id, custom_order_dash.status")
	assert.Equal(t, "unique", kind)
	assert.Equal(t, "custom_order_dash", table)
	assert.Equal(t, "order_id", column)

	kind, table, column = sqliteConstraint("database is locked")
	assert.Empty(t, kind+table+column)
}
