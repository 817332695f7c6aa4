// internal/delivery/telegram/app/bot/message_sender/rate_limiter.go
package message_sender

import (
	"context"
	"math"

	"golang.org/x/time/rate"
)

// RateLimiter ограничитель частоты отправки
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter создает ограничитель на perSec сообщений в секунду; 0 без ограничений
func NewRateLimiter(perSec float64) *RateLimiter {
	if perSec <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	burst := int(math.Ceil(perSec))
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(perSec), burst)}
}

// Wait ждет разрешения на отправку или отмены ctx
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.limiter.Wait(ctx)
}

// CanSend проверяет, можно ли отправлять сообщение прямо сейчас
func (rl *RateLimiter) CanSend() bool {
	return rl.limiter.Allow()
}
