package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/config"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/handler"
)

func loginContext(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.RemoteAddr = "203.0.113.7:5555"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/auth/login")
	return c, rec
}

func TestKeyByLogin(t *testing.T) {
	e := echo.New()

	c, _ := loginContext(e, `{"username":"  Alice ","password":"x"}`)
	assert.Equal(t, "/api/auth/login:login:alice", KeyByLogin(c))
	rest, err := io.ReadAll(c.Request().Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"  Alice ","password":"x"}`, string(rest))

	c, _ = loginContext(e, `{"email":"Bob@Example.com","password":"x"}`)
	assert.Equal(t, "/api/auth/login:login:bob@example.com", KeyByLogin(c))

	c, _ = loginContext(e, `{"token":"abc","password":"x"}`)
	assert.Equal(t, "/api/auth/login:ip:203.0.113.7", KeyByLogin(c))

	c, _ = loginContext(e, `not json`)
	assert.Equal(t, "/api/auth/login:ip:203.0.113.7", KeyByLogin(c))
}

func TestKeyByLoginSeparatesAccounts(t *testing.T) {
	e := echo.New()
	a, _ := loginContext(e, `{"username":"alice"}`)
	b, _ := loginContext(e, `{"username":"bob"}`)
	assert.NotEqual(t, KeyByLogin(a), KeyByLogin(b))
}

func newLimiter(t *testing.T) (*Limiter, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	t.Cleanup(func() { _ = db.Close() })
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	l := &Limiter{
		Redis: db,
		Config: config.RateLimitConfig{
			Enabled: true, Capacity: 10, RefillTokens: 1,
			RefillInterval: 30 * time.Second, TTL: 10 * time.Minute, Prefix: "tg:rl:auth",
		},
		Key: KeyByLogin,
		Now: func() time.Time { return now },
	}
	return l, mock
}

func TestLimiterAllows(t *testing.T) {
	l, mock := newLimiter(t)
	e := echo.New()
	c, rec := loginContext(e, `{"username":"alice"}`)
	mock.ExpectEvalSha(takeToken.Hash(), []string{"tg:rl:auth:/api/auth/login:login:alice"}, l.args(l.Now())...).
		SetVal([]interface{}{int64(9), int64(0)})

	called := false
	err := l.Middleware()(func(c echo.Context) error {
		called = true
		body, _ := io.ReadAll(c.Request().Body)
		assert.JSONEq(t, `{"username":"alice"}`, string(body))
		return c.NoContent(http.StatusNoContent)
	})(c)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLimiterRejectsWhenEmpty(t *testing.T) {
	l, mock := newLimiter(t)
	e := echo.New()
	c, rec := loginContext(e, `{"username":"alice"}`)
	mock.ExpectEvalSha(takeToken.Hash(), []string{"tg:rl:auth:/api/auth/login:login:alice"}, l.args(l.Now())...).
		SetVal([]interface{}{int64(0), int64(1500)})

	err := l.Middleware()(func(echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusTooManyRequests, he.Code)
	assert.Equal(t, "too many requests", he.Message)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLimiterRejectionBody(t *testing.T) {
	l, mock := newLimiter(t)
	e := echo.New()
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	e.POST("/api/auth/login", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, l.Middleware())
	mock.ExpectEvalSha(takeToken.Hash(), []string{"tg:rl:auth:/api/auth/login:login:alice"}, l.args(l.Now())...).
		SetVal([]interface{}{int64(0), int64(30000)})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"alice"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"too many requests"}`, rec.Body.String())
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))
}

func TestLimiterFailsOpen(t *testing.T) {
	l, mock := newLimiter(t)
	e := echo.New()
	c, _ := loginContext(e, `{"username":"alice"}`)
	mock.ExpectEvalSha(takeToken.Hash(), []string{"tg:rl:auth:/api/auth/login:login:alice"}, l.args(l.Now())...).
		SetErr(errors.New("connection refused"))

	called := false
	err := l.Middleware()(func(c echo.Context) error {
		called = true
		return nil
	})(c)
	require.NoError(t, err)
	assert.True(t, called)
}

func TestTokenBucketPassThrough(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1}
	mw := NewTokenBucket(cfg, nil, KeyByIP)
	e := echo.New()
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, mw)
	for range 3 {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}
