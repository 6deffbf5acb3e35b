package exchangerate

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/slotlinelabs/slotline/internal/config"
	"github.com/slotlinelabs/slotline/internal/exchangerate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("exchangerate",
	fx.Provide(NewRedisClient),
	fx.Provide(service.New),
)

func NewRedisClient(cfg config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
