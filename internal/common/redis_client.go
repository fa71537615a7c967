package common

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"quadramall/apienvelope/internal/logging"
)

func NewRedisClient(addr, password string) *redis.Client {
	redisDB := 0 // Default DB

	logging.Info("Initializing Redis client", "addr", addr, "db", redisDB)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           redisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Still return the client, connection pool will try to reconnect
		logging.Warn("Failed to ping Redis", "error", err.Error())
		return client
	}

	logging.Info("Successfully connected to Redis")
	return client
}
