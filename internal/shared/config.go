package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	DataDir     string
	MetricsAddr string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	LoadWorkers int
	CallRPS     int
	CacheTTL    time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		DataDir:     env("DATA_DIR", "data"),
		MetricsAddr: env("METRICS_ADDR", ""),
		RedisAddr:   env("REDIS_ADDR", ""),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		LoadWorkers: atoi("LOAD_WORKERS", 8),
		CallRPS:     atoi("RPC_RPS", 5),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.RedisAddr == "" {
		log.Warn().Msg("REDIS_ADDR is empty, response cache disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
