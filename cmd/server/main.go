// @title                       Blog API
// @version                     1.0
// @description                 Blog platform with JWT authentication, role based access and post ownership checks.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/quillpress/blog-api/internal/api"
	"github.com/quillpress/blog-api/internal/core/authz"
	"github.com/quillpress/blog-api/internal/core/service"
	mongodb "github.com/quillpress/blog-api/internal/infrastructure/db/mongo"
	redisdb "github.com/quillpress/blog-api/internal/infrastructure/db/redis"
	"github.com/quillpress/blog-api/internal/infrastructure/http/handlers"
	"github.com/quillpress/blog-api/internal/pkg/config"
	"github.com/quillpress/blog-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: cfg.ServiceName,
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		AppName:     cfg.ServiceName,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		ClientName: cfg.ServiceName,
		PoolSize:   cfg.Redis.PoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	userRepo := mongodb.NewUserRepository(db)
	postRepo := mongodb.NewPostRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}
	if err := postRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create post indexes")
	}
	principalCache := redisdb.NewPrincipalCache(rdb, cfg.Redis.PrincipalTTL)

	// --- Core ---
	tokens := authz.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	resolver := authz.NewIdentityResolver(tokens, userRepo, principalCache, log.With().Str("component", "identity").Logger())

	e := api.NewRouter(api.Dependencies{
		Logger:      log,
		Resolver:    resolver,
		AuthService: service.NewAuthService(userRepo, tokens, cfg.Auth.AllowSelfAssignedRoles, log.With().Str("component", "auth").Logger()),
		UserService: service.NewUserService(userRepo, postRepo, principalCache, log.With().Str("component", "users").Logger()),
		PostService: service.NewPostService(postRepo, log.With().Str("component", "posts").Logger()),
		HealthChecks: map[string]handlers.Check{
			"mongodb": handlers.MongoCheck(db),
			"redis":   handlers.RedisCheck(rdb),
		},
	})

	if cfg.Auth.AllowSelfAssignedRoles {
		log.Warn().Msg("ALLOW_SELF_ASSIGNED_ROLES is enabled: anyone can register as editor or admin")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting blog api")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
