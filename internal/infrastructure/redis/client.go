package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/hurby24/Bibliobay-backend/internal/config"
	goredis "github.com/redis/go-redis/v9"
)

// NewClient connects to the configured Redis and pings it once.
func NewClient(ctx context.Context, cfg *config.Config) (*goredis.Client, error) {
	c := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	return c, nil
}
