package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/covalenthq/lumberjack"

	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/config"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/database"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/handler"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/middleware"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/queue"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/repository"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/router"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/scheduler"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/service"
	"github.com/bryhearnchi-bot/kgaytripguides-sub004/internal/storage"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	logOut := setupLogging(cfg.LogFile)

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer database.Close(db)
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if created, err := service.EnsureSuperAdmin(ctx, repository.NewUserRepo(db), cfg.Bootstrap, cfg.BcryptCost); err != nil {
		log.Fatalf("bootstrap: %v", err)
	} else if created {
		log.Printf("bootstrap: created super admin %q", cfg.Bootstrap.Username)
	}

	rdb := config.NewRedisClient()

	deps := router.Deps{Config: cfg, Redis: rdb}
	if store, err := storage.New(ctx, cfg.Storage); err != nil {
		log.Printf("storage: %v; image routes answer 503", err)
	} else {
		deps.Store = store
	}
	var mailer handler.ResetMailer
	if cfg.Mail.Enabled() {
		mailer = service.NewMailer(cfg.Mail)
	}
	deps.Mailer = mailer

	var audit middleware.AuditPublisher
	if cfg.AMQPURL != "" {
		pub := service.NewAuditPublisher(cfg.AMQPURL)
		go pub.Run(ctx)
		audit = pub
		if cfg.AuditConsumerEnabled {
			go func() {
				if err := queue.StartAuditConsumer(ctx, cfg.AMQPURL, repository.NewAuditRepo(db)); err != nil && !errors.Is(err, context.Canceled) {
					log.Printf("audit-consumer: stopped: %v", err)
				}
			}()
		}
	} else {
		log.Printf("audit: no broker configured, audit events disabled")
	}

	sched, err := scheduler.Start(scheduler.Jobs{
		Tokens:    repository.NewTokenRepo(db),
		Audit:     repository.NewAuditRepo(db),
		Retention: time.Duration(cfg.AuditRetentionDays) * 24 * time.Hour,
	})
	if err != nil {
		log.Fatalf("scheduler: %v", err)
	}

	e := router.New(router.NewHandlers(db, deps), router.Options{
		JWTSecret:     cfg.JWTSecret,
		Redis:         rdb,
		Cache:         config.LoadCacheConfig(),
		RateLimit:     config.LoadRateLimitConfig(),
		AuthRateLimit: config.LoadAuthRateLimitConfig(),
		Audit:         audit,
		AccessLog:     true,
		LogOutput:     logOut,
	})

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	if err := sched.Shutdown(); err != nil {
		log.Printf("scheduler shutdown: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}

// setupLogging tees the standard logger to stdout and a rotated file and
// returns the writer so echo's logs land in the same place.
func setupLogging(path string) io.Writer {
	if path == "" {
		return os.Stdout
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("log file disabled: %v", err)
		return os.Stdout
	}
	w := io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   path,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
	log.SetOutput(w)
	return w
}
