// internal/delivery/telegram/app/bot/handlers/base/base.go
package base

import (
	"context"
	"strings"

	"crypto-exchange-trading-bot/internal/core/domain/trading"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers"
	"crypto-exchange-trading-bot/internal/infrastructure/persistence/journal"
	"crypto-exchange-trading-bot/pkg/logger"
	"crypto-exchange-trading-bot/pkg/utils"

	"github.com/shopspring/decimal"
)

// BaseHandler базовая структура для всех хэндлеров
type BaseHandler struct {
	Name    string
	Command string
	Type    handlers.HandlerType
}

// GetName возвращает имя хэндлера
func (h *BaseHandler) GetName() string {
	return h.Name
}

// GetCommand возвращает команду
func (h *BaseHandler) GetCommand() string {
	return h.Command
}

// GetType возвращает тип хэндлера
func (h *BaseHandler) GetType() handlers.HandlerType {
	return h.Type
}

// ParseAmount разбирает положительную сумму; запятая допускается как разделитель
func (h *BaseHandler) ParseAmount(arg string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(arg), ",", "."))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, trading.NewError(trading.KindInvalidInput, h.Name, "invalid amount "+arg)
	}
	return d, nil
}

// ParsePrice разбирает цену TP/SL
func (h *BaseHandler) ParsePrice(arg string) (*decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(arg), ",", "."))
	if err != nil {
		return nil, trading.NewError(trading.KindInvalidInput, h.Name, "invalid price "+arg)
	}
	return &d, nil
}

const maxDetailLength = 500

// Record пишет запись в журнал; ошибка журнала не влияет на ответ пользователю
func (h *BaseHandler) Record(ctx context.Context, repo journal.Repository, entry *journal.Entry) {
	logger.Trade(entry.UserID, entry.Action, entry.Symbol, entry.Status)
	if repo == nil {
		return
	}
	entry.Detail = utils.TruncateRunes(entry.Detail, maxDetailLength)
	// Сделка уже на бирже: запись не должна зависеть от отмены запроса
	if err := repo.Save(context.WithoutCancel(ctx), entry); err != nil {
		logger.Warn("⚠️ %s: не удалось записать в журнал: %v", h.Name, err)
	}
}

// StatusOf статус записи журнала по ошибке операции
func StatusOf(err error) string {
	if err == nil {
		return journal.StatusOK
	}
	switch trading.KindOf(err) {
	case trading.KindPartialFill:
		return journal.StatusPartial
	case trading.KindDegraded:
		return journal.StatusDegraded
	default:
		return journal.StatusFailed
	}
}
