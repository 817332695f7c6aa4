// internal/delivery/telegram/app/bot/handlers/commands/help/handler.go
package help

import (
	"context"
	"fmt"

	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/constants"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/base"
)

// helpCommandHandler реализация обработчика команды /help
type helpCommandHandler struct {
	*base.BaseHandler
	quoteAsset    string
	defaultAmount string
}

// NewHandler создает новый обработчик команды /help
func NewHandler(quoteAsset, defaultAmount string) handlers.Handler {
	return &helpCommandHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "help_command_handler",
			Command: constants.CommandHelp,
			Type:    handlers.TypeCommand,
		},
		quoteAsset:    quoteAsset,
		defaultAmount: defaultAmount,
	}
}

// Execute выполняет обработку команды /help
func (h *helpCommandHandler) Execute(_ context.Context, _ handlers.HandlerParams) (handlers.HandlerResult, error) {
	return handlers.HandlerResult{Message: h.createHelpMessage()}, nil
}

func (h *helpCommandHandler) createHelpMessage() string {
	return fmt.Sprintf(
		"📋 *Помощь*\n\n"+
			"*Спот:*\n"+
			"/buy BTC 100 \\[TP] \\[SL] - купить на сумму в %[1]s\n"+
			"/sell BTC 100 \\[TP] \\[SL] - продать на сумму в %[1]s\n"+
			"/buy - бот спросит тикер, сумма %[2]s %[1]s\n"+
			"/cancel BTC - отменить все заявки по паре\n"+
			"/history BTC - последние сделки\n\n"+
			"*Фьючерсы:*\n"+
			"/open BTC 100 long - открыть позицию\n"+
			"/transfer in 50 - перевод спот → фьючерсы\n"+
			"/transfer out 50 - перевод фьючерсы → спот\n\n"+
			"*Аккаунт:*\n"+
			"/balance, /position - балансы и позиции\n"+
			"/journal - журнал команд\n\n"+
			"/cancel без аргументов отменяет незавершенную команду.",
		h.quoteAsset, h.defaultAmount,
	)
}
