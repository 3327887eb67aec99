package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/config"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/model"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/queue"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/utils"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func bearer(t *testing.T, id uint64, role model.Role) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, id, role.String(), time.Minute)
	require.NoError(t, err)
	return "Bearer " + tok.Token
}

func gated(gate echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.GET("/x", func(c echo.Context) error {
		id, _ := CurrentUserID(c)
		return c.JSON(http.StatusOK, echo.Map{"id": id})
	}, JWTAuth(secret), gate)
	return e
}

func do(e *echo.Echo, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRoleGates(t *testing.T) {
	cases := []struct {
		gate    echo.MiddlewareFunc
		role    model.Role
		allowed bool
	}{
		{RequireAuth(), model.RoleViewer, true},
		{RequireMediaManager(), model.RoleMediaManager, true},
		{RequireMediaManager(), model.RoleViewer, false},
		{RequireContentEditor(), model.RoleContentEditor, true},
		{RequireContentEditor(), model.RoleMediaManager, false},
		{RequireTripAdmin(), model.RoleTripAdmin, true},
		{RequireTripAdmin(), model.RoleContentEditor, false},
		{RequireSuperAdmin(), model.RoleSuperAdmin, true},
		{RequireSuperAdmin(), model.RoleTripAdmin, false},
	}
	for _, tc := range cases {
		rec := do(gated(tc.gate), bearer(t, 9, tc.role))
		if tc.allowed {
			assert.Equal(t, http.StatusOK, rec.Code, tc.role)
			assert.JSONEq(t, `{"id":9}`, rec.Body.String())
		} else {
			assert.Equal(t, http.StatusForbidden, rec.Code, tc.role)
		}
	}
}

func TestJWTAuthRejects(t *testing.T) {
	e := gated(RequireAuth())
	assert.Equal(t, http.StatusUnauthorized, do(e, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, "Bearer nope").Code)

	tok, err := utils.NewAccessToken(secret, 1, "admin", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(e, "Bearer "+tok.Token).Code)
}

func TestRequireRoleWithoutJWT(t *testing.T) {
	e := echo.New()
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RequireAuth())
	assert.Equal(t, http.StatusUnauthorized, do(e, "").Code)
}

type fakePublisher struct {
	events chan queue.AuditEvent
}

func (f *fakePublisher) Publish(_ context.Context, ev queue.AuditEvent) error {
	f.events <- ev
	return nil
}

func TestAuditPublishesOnSuccessOnly(t *testing.T) {
	pub := &fakePublisher{events: make(chan queue.AuditEvent, 4)}
	e := echo.New()
	e.PUT("/api/resorts/:id/amenities", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	}, JWTAuth(secret), Audit(pub, "admin.resort.amenities.update"))
	e.DELETE("/api/resorts/:id", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}, JWTAuth(secret), Audit(pub, "admin.resort.delete"))

	req := httptest.NewRequest(http.MethodPut, "/api/resorts/3/amenities", nil)
	req.Header.Set("Authorization", bearer(t, 5, model.RoleContentEditor))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	select {
	case ev := <-pub.events:
		assert.Equal(t, "admin.resort.amenities.update", ev.Action)
		assert.Equal(t, uint64(5), ev.UserID)
		assert.Equal(t, "content_editor", ev.Role)
		assert.Equal(t, "3", ev.ResourceID)
		assert.Equal(t, http.MethodPut, ev.Method)
	case <-time.After(2 * time.Second):
		t.Fatal("no audit event")
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/resorts/3", nil)
	req.Header.Set("Authorization", bearer(t, 5, model.RoleContentEditor))
	e.ServeHTTP(httptest.NewRecorder(), req)
	select {
	case ev := <-pub.events:
		t.Fatalf("unexpected event %s", ev.Action)
	case <-time.After(100 * time.Millisecond):
	}
}

type failingPublisher struct{ calls int }

func (f *failingPublisher) Publish(context.Context, queue.AuditEvent) error {
	f.calls++
	return errors.New("audit backlog full")
}

func TestAuditPublishFailureLoggedOnce(t *testing.T) {
	pub := &failingPublisher{}
	var logs bytes.Buffer
	e := echo.New()
	e.Logger.SetOutput(&logs)
	e.POST("/api/trips", func(c echo.Context) error {
		return c.JSON(http.StatusCreated, echo.Map{"id": 1})
	}, Audit(pub, "admin.trip.create"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/trips", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, 1, pub.calls)
	assert.Equal(t, 1, strings.Count(logs.String(), "audit: publish admin.trip.create"))
}

func TestCachePassThroughWithoutRedis(t *testing.T) {
	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}, Prefix: "c"}
	e := echo.New()
	calls := 0
	e.GET("/x", func(c echo.Context) error { calls++; return c.String(http.StatusOK, "hi") },
		NewRedisCache(cfg, nil), InvalidateOnWrite(cfg, nil))
	do(e, "")
	do(e, "")
	assert.Equal(t, 2, calls)
}

func TestCacheKeyIncludesGeneration(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "c", KeyStrategy: "route_query"}
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/resorts?x=1", nil), httptest.NewRecorder())
	c.SetPath("/api/resorts")
	assert.NotEqual(t, cacheKeyFrom(cfg, 1, c), cacheKeyFrom(cfg, 2, c))
	assert.Equal(t, cacheKeyFrom(cfg, 1, c), cacheKeyFrom(cfg, 1, c))
}

func TestPayloadRoundTrip(t *testing.T) {
	h := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(200, h, []byte(`{"a":1}`))
	require.NoError(t, err)
	status, hdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, 200, status)
	assert.Equal(t, "application/json", hdr.Get("Content-Type"))
	assert.Equal(t, `{"a":1}`, string(body))

	_, _, _, ok = decodePayload([]byte{1, 2})
	assert.False(t, ok)
}
