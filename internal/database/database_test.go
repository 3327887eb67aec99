package database

import (
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDialectFor(t *testing.T) {
	cases := map[string]Dialect{
		"file:trips.db":                         DialectSQLite,
		"postgres://u:p@localhost/trips":        DialectPostgres,
		"postgresql://u:p@ep-x.neon.tech/trips": DialectPostgres,
		"mysql://u:p@db/trips":                  DialectMySQL,
	}
	for url, want := range cases {
		got, err := DialectFor(url)
		require.NoError(t, err, url)
		assert.Equal(t, want, got, url)
	}
	_, err := DialectFor("redis://localhost")
	assert.ErrorIs(t, err, ErrUnsupportedURL)
}

func TestMySQLDSN(t *testing.T) {
	dsn, err := MySQLDSN("mysql://guide:s3cret@db/trips")
	require.NoError(t, err)
	assert.Contains(t, dsn, "guide:s3cret@tcp(db:3306)/trips?")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")

	dsn, err = MySQLDSN("mysql://guide@db:3307/trips")
	require.NoError(t, err)
	assert.Contains(t, dsn, "@tcp(db:3307)/trips")
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file:x.db?_foreign_keys=on", sqliteDSN("file:x.db"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on", sqliteDSN("file:x?mode=memory"))
	assert.Equal(t, "file:x?_fk=1", sqliteDSN("file:x?_fk=1"))
}

func TestConstraintErrors(t *testing.T) {
	assert.True(t, IsUniqueViolation(fmt.Errorf("wrap: %w", &pgconn.PgError{Code: "23505"})))
	assert.True(t, IsUniqueViolation(&mysql.MySQLError{Number: 1062}))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(nil))

	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsForeignKeyViolation(&mysql.MySQLError{Number: 1452}))
	assert.True(t, IsForeignKeyViolation(gorm.ErrForeignKeyViolated))
	assert.False(t, IsForeignKeyViolation(fmt.Errorf("other")))
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	db, err := Open("file:database_open_test?mode=memory&cache=shared")
	require.NoError(t, err)
	defer Close(db)
	require.NoError(t, Migrate(db))
	for _, m := range Models() {
		assert.True(t, db.Migrator().HasTable(m), fmt.Sprintf("%T", m))
	}
}
