package db

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), "")
	require.Error(t, err)
}

func TestOpenSQLite_InMemoryKeepsState(t *testing.T) {
	gdb, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	require.NoError(t, gdb.Exec("CREATE TABLE probe (id INTEGER PRIMARY KEY)").Error)
	require.NoError(t, gdb.Exec("INSERT INTO probe (id) VALUES (1)").Error)

	var n int64
	require.NoError(t, gdb.Raw("SELECT COUNT(*) FROM probe").Scan(&n).Error)
	assert.EqualValues(t, 1, n)
}

type row struct {
	ID   int64
	Name string
}

func TestGormLogger_SkipsRecordNotFound(t *testing.T) {
	var buf bytes.Buffer
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: newGormLogger(&buf)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })
	require.NoError(t, gdb.AutoMigrate(&row{}))

	var r row
	err = gdb.Where("name = ?", "absent").First(&r).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	require.Error(t, gdb.Exec("SELECT * FROM no_such_table").Error)
	assert.Contains(t, buf.String(), "no_such_table")
}

func TestCloseOnError_ClosesConnection(t *testing.T) {
	gdb, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)

	got, err := closeOnError(gdb, errors.New("ping db: refused"))
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Error(t, sqlDB.Ping())

	ok, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(ok) })
	same, err := closeOnError(ok, nil)
	require.NoError(t, err)
	assert.Same(t, ok, same)
}

func TestOpen_UnreachableReturnsNoHandle(t *testing.T) {
	gdb, err := Open(context.Background(), "postgres://u:p@127.0.0.1:1/db?sslmode=disable&connect_timeout=1")
	require.Error(t, err)
	assert.Nil(t, gdb)
}
