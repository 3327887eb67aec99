// Package scheduler runs the periodic maintenance jobs of the API server.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

const jobTimeout = time.Minute

// TokenPurger deletes expired or spent refresh and reset tokens.
type TokenPurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// AuditPurger deletes audit entries older than a cutoff.
type AuditPurger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Jobs holds the job dependencies.  A zero Retention disables the audit
// purge.
type Jobs struct {
	Tokens    TokenPurger
	Audit     AuditPurger
	Retention time.Duration
	Now       func() time.Time
}

func (j Jobs) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now().UTC()
}

// PurgeTokens runs one token purge.
func (j Jobs) PurgeTokens(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()
	n, err := j.Tokens.PurgeExpired(ctx, j.now())
	if err != nil {
		return 0, fmt.Errorf("purge tokens: %w", err)
	}
	return n, nil
}

// PurgeAudit removes audit entries older than Retention.
func (j Jobs) PurgeAudit(ctx context.Context) (int64, error) {
	if j.Audit == nil || j.Retention <= 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()
	n, err := j.Audit.PurgeBefore(ctx, j.now().Add(-j.Retention))
	if err != nil {
		return 0, fmt.Errorf("purge audit logs: %w", err)
	}
	return n, nil
}

// Start registers the hourly token purge and the daily audit purge and
// starts the scheduler.  Callers stop it with Shutdown.
func Start(j Jobs) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, err
	}
	_, err = s.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(func() {
			if n, err := j.PurgeTokens(context.Background()); err != nil {
				log.Printf("scheduler: %v", err)
			} else if n > 0 {
				log.Printf("scheduler: purged %d token(s)", n)
			}
		}),
		gocron.WithName("purge-tokens"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return nil, fmt.Errorf("scheduler: token job: %w", err)
	}
	_, err = s.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 15, 0))),
		gocron.NewTask(func() {
			if n, err := j.PurgeAudit(context.Background()); err != nil {
				log.Printf("scheduler: %v", err)
			} else if n > 0 {
				log.Printf("scheduler: purged %d audit log(s)", n)
			}
		}),
		gocron.WithName("purge-audit-logs"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("scheduler: audit job: %w", err)
	}
	s.Start()
	return s, nil
}
