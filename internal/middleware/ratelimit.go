package middleware

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/tidwall/gjson"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/config"
)

// takeToken refills the bucket by whole intervals, then spends one token.
// It returns the tokens left and, when the bucket was empty, the
// milliseconds until the next refill.
//
// KEYS[1] bucket hash; ARGV now_ms, capacity, refill, interval_ms, ttl_s.
var takeToken = redis.NewScript(`
local now = tonumber(ARGV[1])
local cap = tonumber(ARGV[2])
local step = tonumber(ARGV[4])
local b = redis.call('HMGET', KEYS[1], 'n', 't')
local n = tonumber(b[1]) or cap
local t = tonumber(b[2]) or now
local gained = math.floor((now - t) / step)
if gained > 0 then
  n = math.min(cap, n + gained * tonumber(ARGV[3]))
  t = t + gained * step
end
local wait = 0
if n >= 1 then
  n = n - 1
else
  wait = math.max(1, step - (now - t))
end
redis.call('HSET', KEYS[1], 'n', n, 't', t)
redis.call('EXPIRE', KEYS[1], ARGV[5])
return {n, wait}
`)

// KeyFunc names the bucket a request draws from.
type KeyFunc func(c echo.Context) string

// KeyByIP buckets requests per client address.  The general API bucket
// runs before JWTAuth, so the caller is not known yet.
func KeyByIP(c echo.Context) string {
	return "ip:" + c.RealIP()
}

// KeyByLogin buckets auth attempts per route and account so guessing one
// user's password is throttled no matter how many addresses it comes
// from.  Requests naming no account fall back to the client address.
// The body is restored for the handler.
func KeyByLogin(c echo.Context) string {
	route := c.Path()
	req := c.Request()
	if req.Body == nil {
		return route + ":ip:" + c.RealIP()
	}
	raw, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return route + ":ip:" + c.RealIP()
	}
	for _, field := range []string{"username", "email"} {
		if v := strings.ToLower(strings.TrimSpace(gjson.GetBytes(raw, field).String())); v != "" {
			return route + ":login:" + v
		}
	}
	return route + ":ip:" + c.RealIP()
}

// Limiter is a token bucket kept in Redis so every API instance shares it.
type Limiter struct {
	Redis  redis.Scripter
	Config config.RateLimitConfig
	Key    KeyFunc
	Now    func() time.Time
}

type verdict struct {
	remaining int64
	wait      time.Duration
}

func (v verdict) allowed() bool { return v.wait == 0 }

func (l *Limiter) args(now time.Time) []any {
	return []any{
		now.UnixMilli(),
		l.Config.Capacity,
		l.Config.RefillTokens,
		l.Config.RefillInterval.Milliseconds(),
		int64(l.Config.TTL / time.Second),
	}
}

func (l *Limiter) bucket(c echo.Context) string {
	return l.Config.Prefix + ":" + l.Key(c)
}

// take spends one token from key.
func (l *Limiter) take(ctx context.Context, key string) (verdict, error) {
	now := time.Now()
	if l.Now != nil {
		now = l.Now()
	}
	res, err := takeToken.Run(ctx, l.Redis, []string{key}, l.args(now)...).Int64Slice()
	if err != nil {
		return verdict{}, err
	}
	if len(res) != 2 {
		return verdict{}, fmt.Errorf("unexpected bucket reply %v", res)
	}
	return verdict{remaining: res[0], wait: time.Duration(res[1]) * time.Millisecond}, nil
}

// Middleware rejects a request with 429 once its bucket is empty.  A
// Redis failure lets the request through.
func (l *Limiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, err := l.take(c.Request().Context(), l.bucket(c))
			if err != nil {
				c.Logger().Errorf("rate limit: %v", err)
				return next(c)
			}
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(l.Config.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(v.remaining, 10))
			if !v.allowed() {
				secs := int64((v.wait + time.Second - 1) / time.Second)
				h.Set("Retry-After", strconv.FormatInt(secs, 10))
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}

// NewTokenBucket limits requests per key.  Without Redis, or when
// disabled, every request passes.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, key KeyFunc) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	l := &Limiter{Redis: rdb, Config: cfg, Key: key}
	return l.Middleware()
}
