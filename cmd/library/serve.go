package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bookkeep/library-records/internal/api"
	"github.com/bookkeep/library-records/internal/api/handler"
	"github.com/bookkeep/library-records/internal/core/service"
	"github.com/bookkeep/library-records/internal/infrastructure/db/mongo"
	"github.com/bookkeep/library-records/internal/infrastructure/db/redis"
	"github.com/bookkeep/library-records/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	log := a.log

	db, store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info().Str("dialect", store.Dialect()).Msg("database connected")

	checks := []handler.DependencyCheck{handler.SQLCheck(db)}

	var authOpts []service.AuthOption
	borrowOpts := []service.BorrowOption{service.WithRowLock(cfg.Database.BorrowRowLock)}

	mongoCfg := mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, Timeout: cfg.Mongo.Timeout}
	if mongoCfg.Enabled() {
		client, mdb, err := mongo.Connect(ctx, mongoCfg)
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()

		if err := mongo.EnsureAuditIndexes(ctx, mdb); err != nil {
			return err
		}
		audit := mongo.NewAuditRepository(mdb)
		authOpts = append(authOpts, service.WithAuthAudit(audit))
		borrowOpts = append(borrowOpts, service.WithBorrowAudit(audit))
		checks = append(checks, handler.MongoCheck(mdb))
		log.Info().Str("database", cfg.Mongo.Database).Msg("audit trail enabled")
	} else {
		checks = append(checks, handler.MongoCheck(nil))
	}

	redisCfg := redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
		Timeout:  cfg.Redis.Timeout,
	}
	if redisCfg.Enabled() {
		rdb, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer rdb.Close()

		borrowOpts = append(borrowOpts, service.WithIdempotency(redis.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)))
		checks = append(checks, handler.RedisCheck(rdb))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotent borrows enabled")
	} else {
		checks = append(checks, handler.RedisCheck(nil))
	}

	authSvc, err := service.NewAuthService(store, service.AuthConfig{
		Secret:     cfg.Auth.JWTSecret,
		Algorithm:  cfg.Auth.JWTAlgorithm,
		TokenTTL:   cfg.Auth.TokenTTL,
		BcryptCost: cfg.Auth.BcryptCost,
	}, logger.Component("auth"), authOpts...)
	if err != nil {
		return err
	}

	e := api.NewRouter(api.Deps{
		Auth:        authSvc,
		Books:       service.NewBookService(store, logger.Component("books")),
		Members:     service.NewMemberService(store, logger.Component("members")),
		Borrow:      service.NewBorrowService(store, logger.Component("borrow"), borrowOpts...),
		Checks:      checks,
		RequireAuth: cfg.RequireAuth,
		Logger:      logger.Component("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Bool("require_auth", cfg.RequireAuth).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
