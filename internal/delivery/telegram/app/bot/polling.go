// internal/delivery/telegram/app/bot/polling.go
package bot

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"crypto-exchange-trading-bot/internal/delivery/telegram"
	"crypto-exchange-trading-bot/pkg/logger"
)

// UpdatesFetcher источник обновлений для long polling
type UpdatesFetcher interface {
	GetUpdates(ctx context.Context, offset int64, timeoutSec int) ([]telegram.TelegramUpdate, error)
}

// PollingClient - клиент для polling обновлений
type PollingClient struct {
	bot     *TelegramBot
	fetcher UpdatesFetcher

	offset        int64
	timeoutSec    int
	retryInterval time.Duration

	running    atomic.Bool
	cancel     context.CancelFunc
	done       chan struct{}
	dispatcher *UpdateDispatcher
}

// NewPollingClient создает новый polling клиент
func NewPollingClient(bot *TelegramBot, fetcher UpdatesFetcher) *PollingClient {
	pc := &PollingClient{
		bot:           bot,
		fetcher:       fetcher,
		timeoutSec:    30,
		retryInterval: 5 * time.Second,
		dispatcher:    NewUpdateDispatcher(bot),
	}
	if bot != nil && bot.config != nil {
		if bot.config.Polling.Timeout > 0 {
			pc.timeoutSec = bot.config.Polling.Timeout
		}
		if bot.config.Polling.RetryInterval > 0 {
			pc.retryInterval = time.Duration(bot.config.Polling.RetryInterval) * time.Second
		}
	}
	return pc
}

// Start запускает polling обновлений
func (pc *PollingClient) Start(ctx context.Context) error {
	if !pc.running.CompareAndSwap(false, true) {
		return fmt.Errorf("polling already running")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	pc.cancel = cancel
	pc.done = make(chan struct{})

	logger.Warn("🔄 Запуск polling Telegram бота...")
	go pc.pollLoop(loopCtx, context.WithoutCancel(ctx))
	return nil
}

// Stop останавливает polling и ждет обработки уже принятых обновлений
func (pc *PollingClient) Stop(timeout time.Duration) error {
	if !pc.running.CompareAndSwap(true, false) {
		return nil
	}

	logger.Info("🛑 Остановка polling Telegram бота...")
	pc.cancel()
	<-pc.done

	waited := make(chan struct{})
	go func() {
		pc.dispatcher.Wait()
		close(waited)
	}()

	select {
	case <-waited:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("polling stop: handlers still running after %s", timeout)
	}
}

// IsRunning активен ли polling
func (pc *PollingClient) IsRunning() bool {
	return pc.running.Load()
}

// pollLoop основной цикл polling. Обработчики получают контекст,
// который не отменяется остановкой цикла.
func (pc *PollingClient) pollLoop(ctx, handlerCtx context.Context) {
	defer close(pc.done)

	for {
		if ctx.Err() != nil {
			return
		}

		updates, err := pc.fetcher.GetUpdates(ctx, pc.offset, pc.timeoutSec)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("❌ Ошибка получения обновлений: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(pc.retryInterval):
			}
			continue
		}

		for i := range updates {
			update := updates[i]
			if update.UpdateID >= pc.offset {
				pc.offset = update.UpdateID + 1
			}
			pc.dispatcher.Dispatch(handlerCtx, &update)
		}
	}
}
