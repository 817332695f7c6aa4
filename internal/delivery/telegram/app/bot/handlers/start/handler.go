// internal/delivery/telegram/app/bot/handlers/start/handler.go
package start

import (
	"context"
	"fmt"

	"crypto-exchange-trading-bot/internal/delivery/telegram"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/constants"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/base"
)

// startHandlerImpl обработчик команды /start
type startHandlerImpl struct {
	*base.BaseHandler
	exchange string
}

// NewHandler создает новый хэндлер команды /start
func NewHandler(exchange string) handlers.Handler {
	return &startHandlerImpl{
		BaseHandler: &base.BaseHandler{
			Name:    "start_handler",
			Command: constants.CommandStart,
			Type:    handlers.TypeCommand,
		},
		exchange: exchange,
	}
}

// Execute приветствие и быстрые кнопки
func (h *startHandlerImpl) Execute(_ context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	message := fmt.Sprintf(
		"👋 *Торговый бот %s*\n\n"+
			"/buy BTC 100 - купить на 100 USDT\n"+
			"/buy BTC 100 60000 40000 - покупка с TP и SL\n"+
			"/sell ETH 50 - продать\n"+
			"/balance - балансы и позиции\n"+
			"/help - все команды",
		h.exchange,
	)

	keyboard := telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{
				{Text: constants.ButtonTexts.Balance, CallbackData: "/" + constants.CommandBalance},
				{Text: constants.ButtonTexts.Journal, CallbackData: "/" + constants.CommandJournal},
			},
			{
				{Text: constants.ButtonTexts.Help, CallbackData: "/" + constants.CommandHelp},
			},
		},
	}

	return handlers.HandlerResult{
		Message:  message,
		Keyboard: keyboard,
		Metadata: map[string]interface{}{"user_id": params.UserID},
	}, nil
}
