package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"nadlan_mcp/internal/adapters/observability"
	redisad "nadlan_mcp/internal/adapters/redis"
	"nadlan_mcp/internal/adapters/rpc"
	"nadlan_mcp/internal/app"
	"nadlan_mcp/internal/domain"
	"nadlan_mcp/internal/shared"
	"nadlan_mcp/internal/storage/csvdata"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise); stderr only,
	// stdout carries protocol responses
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// dataset, loaded once and read-only afterwards
	ds := csvdata.New(cfg.DataDir, cfg.LoadWorkers).Load(ctx)

	// deps
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	}
	svc := app.NewService(app.NewEngine(ds), cache, cfg.CacheTTL)

	srv := rpc.New(svc, os.Stdin, os.Stdout, cfg.CallRPS)
	log.Info().Int("listings", len(ds.Listings)).Msg("server ready, waiting for requests")

	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("request loop failed")
	}
	log.Info().Msg("input closed, shutting down")
}
