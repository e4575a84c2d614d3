package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"ssh_admin/internal/adapters/alert"
	"ssh_admin/internal/adapters/backend"
	server "ssh_admin/internal/adapters/http_server"
	"ssh_admin/internal/adapters/observability"
	redisad "ssh_admin/internal/adapters/redis"
	"ssh_admin/internal/app"
	"ssh_admin/internal/domain"
	"ssh_admin/internal/shared"
	mysqlrepo "ssh_admin/internal/storage/mysql"
)

func main() {
	cfg, warns := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)
	for _, w := range warns {
		log.Warn().Str("key", w.Key).Msg(w.Msg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	client, err := backend.New(cfg.BackendBase, cfg.BackendTimeout, cfg.BackendRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("backend client")
	}

	// cache is optional; the overview falls back to the backend
	var cache domain.Cache
	rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	if err := rc.Ping(pctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable; overview cache disabled")
		_ = rc.Close()
	} else {
		cache = rc
		defer rc.Close()
	}
	cancel()

	var audit domain.AuditLog = app.NopAudit{}
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		repo := mysqlrepo.New(db)
		if err := repo.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("audit migration failed")
		}
		audit = repo
		log.Info().Msg("audit log enabled")
	}

	alerts := alert.New(cfg.AlertTimeout)
	view := app.NewViewState(cfg.AdminEmail)
	store := app.NewRegistrationStore(client)
	// GETs retry, so leave room for a few attempts per list
	store.SetLoadTimeout(3 * cfg.BackendTimeout)
	overview := app.NewOverviewService(client, cache, cfg.CacheTTL)
	workflow := app.NewWorkflow(store, client, alerts, audit, view, app.WorkflowConfig{
		AdminEmail:     cfg.AdminEmail,
		RequestTimeout: cfg.BackendTimeout,
		OnDecision:     overview.Invalidate,
	})
	shell := app.NewShell(ctx, view, store, workflow, overview, audit)

	if err := store.LoadAll(ctx); err != nil {
		log.Warn().Err(err).Msg("initial load failed; lists stay empty until reload")
	}

	srv := server.New(cfg.HTTPTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Shell: shell, Alerts: alerts})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("backend", cfg.BackendBase).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer scancel()
	if err := httpSrv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	// open modals were abandoned with ctx; wait for their actions to unwind
	shell.Wait()
}
