// internal/infrastructure/cache/redis/redis_service_test.go
package redis

import (
	"testing"
	"time"

	"crypto-exchange-trading-bot/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisService_StartFailureKeepsNoClient(t *testing.T) {
	rs := NewRedisService(config.RedisConfig{
		Host:        "127.0.0.1",
		Port:        1,
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})

	err := rs.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
	assert.Nil(t, rs.GetClient())
	assert.Error(t, rs.Stop())
}
