// internal/infrastructure/cache/redis/redis_service.go
package redis

import (
	"context"
	"fmt"
	"time"

	"crypto-exchange-trading-bot/internal/infrastructure/config"
	"crypto-exchange-trading-bot/pkg/logger"

	"github.com/go-redis/redis/v8"
)

const startPingTimeout = 5 * time.Second

// RedisService подключение к Redis для дедупликации обновлений
type RedisService struct {
	config config.RedisConfig
	client *redis.Client
}

// NewRedisService создает новый Redis сервис
func NewRedisService(cfg config.RedisConfig) *RedisService {
	return &RedisService{config: cfg}
}

// Start подключается и проверяет соединение; при ошибке клиент не сохраняется
func (rs *RedisService) Start() error {
	if rs.client != nil {
		return fmt.Errorf("Redis service already running")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", rs.config.Host, rs.config.Port),
		Password: rs.config.Password,
		DB:       rs.config.DB,

		PoolSize:     rs.config.PoolSize,
		MinIdleConns: rs.config.MinIdleConns,

		DialTimeout:  rs.config.DialTimeout,
		ReadTimeout:  rs.config.ReadTimeout,
		WriteTimeout: rs.config.WriteTimeout,
		PoolTimeout:  rs.config.PoolTimeout,

		MaxRetries:      rs.config.MaxRetries,
		MinRetryBackoff: rs.config.MinRetryBackoff,
		MaxRetryBackoff: rs.config.MaxRetryBackoff,
	})

	ctx, cancel := context.WithTimeout(context.Background(), startPingTimeout)
	defer cancel()

	logger.Info("📡 Подключение к Redis: %s (DB: %d)", client.Options().Addr, rs.config.DB)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	rs.client = client
	logger.Info("✅ Redis подключен, дедупликация обновлений через Redis")
	return nil
}

// Stop закрывает клиент
func (rs *RedisService) Stop() error {
	if rs.client == nil {
		return fmt.Errorf("Redis service is not running")
	}

	err := rs.client.Close()
	rs.client = nil
	if err != nil {
		return fmt.Errorf("failed to close Redis client: %w", err)
	}
	logger.Info("🛑 Redis отключен")
	return nil
}

// GetClient возвращает клиент Redis; nil до успешного Start
func (rs *RedisService) GetClient() *redis.Client {
	return rs.client
}
