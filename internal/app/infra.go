package app

import (
	"log/slog"

	"github.com/codecooknucleus/secureAuth0/internal/config"
	"github.com/codecooknucleus/secureAuth0/internal/redis"
)

type Infra struct {
	Redis *redis.Client
}

func setupInfra(cfg config.Config) (*Infra, error) {
	redisClient, err := redis.New(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, err
	}

	slog.Info("redis ready")

	return &Infra{Redis: redisClient}, nil
}
