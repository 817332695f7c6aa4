// internal/delivery/telegram/app/bot/dispatcher.go
package bot

import (
	"context"
	"sync"

	"crypto-exchange-trading-bot/internal/delivery/telegram"
	"crypto-exchange-trading-bot/pkg/logger"
)

type queuedUpdate struct {
	ctx    context.Context
	update *telegram.TelegramUpdate
}

// UpdateDispatcher обрабатывает обновления одного пользователя строго
// в порядке поступления; разные пользователи обрабатываются параллельно
type UpdateDispatcher struct {
	bot *TelegramBot

	mu     sync.Mutex
	queues map[int64][]queuedUpdate // есть ключ - у пользователя работает воркер

	inflight sync.WaitGroup
}

// NewUpdateDispatcher создает диспетчер обновлений
func NewUpdateDispatcher(bot *TelegramBot) *UpdateDispatcher {
	return &UpdateDispatcher{
		bot:    bot,
		queues: make(map[int64][]queuedUpdate),
	}
}

// Dispatch ставит обновление в очередь отправителя и не блокируется.
// Вызывать в порядке получения обновлений.
func (d *UpdateDispatcher) Dispatch(ctx context.Context, update *telegram.TelegramUpdate) {
	key := senderID(update)

	d.inflight.Add(1)
	d.mu.Lock()
	queue, active := d.queues[key]
	d.queues[key] = append(queue, queuedUpdate{ctx: ctx, update: update})
	d.mu.Unlock()

	if !active {
		go d.drain(key)
	}
}

// Wait ждет обработки всех принятых обновлений
func (d *UpdateDispatcher) Wait() {
	d.inflight.Wait()
}

// drain воркер пользователя, завершается на пустой очереди
func (d *UpdateDispatcher) drain(key int64) {
	for {
		d.mu.Lock()
		queue := d.queues[key]
		if len(queue) == 0 {
			delete(d.queues, key)
			d.mu.Unlock()
			return
		}
		next := queue[0]
		d.queues[key] = queue[1:]
		d.mu.Unlock()

		if err := d.bot.HandleUpdate(next.ctx, next.update); err != nil {
			logger.Error("❌ Ошибка обработки обновления %d: %v", next.update.UpdateID, err)
		}
		d.inflight.Done()
	}
}

// senderID отправитель обновления; 0 для обновлений без отправителя
func senderID(update *telegram.TelegramUpdate) int64 {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID
	}
	return 0
}
