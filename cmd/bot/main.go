package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Nelson200402/Educacion/internal/api"
	"github.com/Nelson200402/Educacion/internal/authstore"
	"github.com/Nelson200402/Educacion/internal/bot"
	"github.com/Nelson200402/Educacion/internal/config"
	"github.com/Nelson200402/Educacion/internal/dialog"
	"github.com/Nelson200402/Educacion/internal/domain/ai"
	"github.com/Nelson200402/Educacion/internal/domain/auth"
	"github.com/Nelson200402/Educacion/internal/domain/plans"
	"github.com/Nelson200402/Educacion/internal/domain/profiles"
	"github.com/Nelson200402/Educacion/internal/domain/sessions"
	"github.com/Nelson200402/Educacion/internal/domain/subjects"
	"github.com/Nelson200402/Educacion/internal/events"
	"github.com/Nelson200402/Educacion/internal/infra/db"
	httpx "github.com/Nelson200402/Educacion/internal/infra/http"
	"github.com/Nelson200402/Educacion/internal/infra/logger"
	"github.com/Nelson200402/Educacion/internal/infra/metrics"
	"github.com/Nelson200402/Educacion/internal/planner"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

// stores picks where auth state and dialogs live. The returned func releases them.
func stores(ctx context.Context, cfg config.Config, log *slog.Logger) (authstore.KV, dialog.Store, func(), error) {
	if cfg.Store.Driver == config.StoreBolt {
		kv, err := authstore.OpenBolt(cfg.Store.BoltPath)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info("bolt store opened", "path", cfg.Store.BoltPath)
		return kv, dialog.NewMemoryRepo(), func() { _ = kv.Close() }, nil
	}

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		return nil, nil, nil, err
	}
	log.Info("migrations applied")

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, nil, nil, err
	}
	log.Info("db connected")
	return authstore.NewPostgresKV(pool), dialog.NewRepo(pool), pool.Close, nil
}

func main() {
	path := "config/example.yaml"
	if p := os.Getenv("APP_CONFIG"); p != "" {
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, states, closeStores, err := stores(ctx, cfg, log)
	if err != nil {
		log.Error("store init failed", "driver", cfg.Store.Driver, "err", err)
		return
	}
	defer closeStores()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, reg)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	client := api.New(cfg.API.BaseURL, api.WithTimeout(cfg.API.Timeout), api.WithMetrics(m))
	sessionRepo := sessions.NewRepo(client)
	planRepo := plans.NewRepo(client)
	aiRepo := ai.NewRepo(client)

	bus := events.NewBus(m)
	authStore := authstore.New(kv, bus)
	loc := cfg.Location()

	gen := planner.NewGenerator(planner.Deps{
		Sessions: sessionRepo,
		AI:       aiRepo,
		Calendar: aiRepo,
		Plans:    planRepo,
		Bus:      bus,
		Metrics:  m,
		Log:      log.With("component", "planner"),
	}, planner.Options{
		BreakMinutes: cfg.Planner.BreakMinutes,
		BatchSize:    cfg.Planner.BatchSize,
	}, loc)

	tg, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram init failed", "err", err)
		return
	}
	tg.Debug = cfg.Telegram.Debug
	log.Info("telegram authorized", "username", tg.Self.UserName)

	b := bot.New(tg, log, bot.Deps{
		States:    states,
		Auth:      authStore,
		AuthAPI:   auth.NewRepo(client),
		Subjects:  subjects.NewRepo(client),
		Sessions:  sessionRepo,
		Plans:     planRepo,
		Profiles:  profiles.NewRepo(client),
		AI:        aiRepo,
		Generator: gen,
		Bus:       bus,
		Location:  loc,
	})
	if err := b.Run(ctx, cfg.Telegram.TimeoutSec); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("bot stopped", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
