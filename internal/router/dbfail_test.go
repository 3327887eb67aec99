package router

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// A failing database surfaces as an opaque 500.
func TestDatabaseFailureIs500(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "amenities"`).WillReturnError(errors.New("connection reset by peer"))

	e := New(NewHandlers(db, Deps{Config: testConfig()}), Options{JWTSecret: "access-secret"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/amenities", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", gjson.Get(rec.Body.String(), "error").String())
	assert.NotContains(t, rec.Body.String(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Echo's error log and the access log both go to the configured writer.
func TestLogOutputReceivesErrorAndAccessLogs(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	mock.ExpectQuery(`SELECT \* FROM "amenities"`).WillReturnError(errors.New("connection reset by peer"))

	var logs bytes.Buffer
	e := New(NewHandlers(db, Deps{Config: testConfig()}), Options{
		JWTSecret: "access-secret",
		AccessLog: true,
		LogOutput: &logs,
	})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/amenities", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, logs.String(), "connection reset by peer")
	assert.Contains(t, logs.String(), `"uri":"/api/amenities"`)
	assert.Contains(t, logs.String(), `"status":500`)
}
