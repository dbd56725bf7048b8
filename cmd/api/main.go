package main

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/samihashehatta/leovegs-task/internal/api"
	"github.com/samihashehatta/leovegs-task/internal/infrastructure/config"
	"github.com/samihashehatta/leovegs-task/internal/infrastructure/db/mysql"
	redisdb "github.com/samihashehatta/leovegs-task/internal/infrastructure/db/redis"
	"github.com/samihashehatta/leovegs-task/pkg/logger"
)

// @title        Leovegas User API
// @version      1.0
// @description  REST API for managing user accounts with role-based access control.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Enter your Bearer token
func main() {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	db, err := mysql.Connect(ctx, cfg.MySQL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mysql")
	}
	defer db.Close()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	e := api.NewRouter(db, rdb, cfg, log)

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting http server")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("http server stopped")
	}
}
