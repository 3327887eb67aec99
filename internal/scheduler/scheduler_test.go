package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokens struct {
	calls atomic.Int32
	at    time.Time
	err   error
}

func (f *fakeTokens) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	f.calls.Add(1)
	f.at = now
	return 4, f.err
}

type fakeAudit struct{ cutoff time.Time }

func (f *fakeAudit) PurgeBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return 2, nil
}

func fixed() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }

func TestPurgeTokens(t *testing.T) {
	tokens := &fakeTokens{}
	n, err := Jobs{Tokens: tokens, Now: fixed}.PurgeTokens(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
	assert.Equal(t, fixed(), tokens.at)

	tokens.err = errors.New("db down")
	_, err = Jobs{Tokens: tokens, Now: fixed}.PurgeTokens(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestPurgeAuditUsesRetention(t *testing.T) {
	audit := &fakeAudit{}
	j := Jobs{Audit: audit, Retention: 90 * 24 * time.Hour, Now: fixed}
	n, err := j.PurgeAudit(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, time.Date(2025, 12, 10, 12, 0, 0, 0, time.UTC), audit.cutoff)

	j.Retention = 0
	n, err = j.PurgeAudit(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStartRunsTokenPurgeImmediately(t *testing.T) {
	tokens := &fakeTokens{}
	s, err := Start(Jobs{Tokens: tokens, Audit: &fakeAudit{}, Retention: time.Hour})
	require.NoError(t, err)
	defer func() { _ = s.Shutdown() }()

	assert.Eventually(t, func() bool { return tokens.calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
	assert.Len(t, s.Jobs(), 2)
}
