// internal/delivery/telegram/app/bot/handlers/commands/trade/handler.go
package trade

import (
	"context"
	"fmt"

	"crypto-exchange-trading-bot/internal/core/domain/trading"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/constants"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/base"
	"crypto-exchange-trading-bot/internal/delivery/telegram/services/trading_session"
)

// tradeCommandHandler обработчик /buy и /sell
type tradeCommandHandler struct {
	*base.BaseHandler
	side trading.Side
	deps *handlers.Dependencies
}

// NewBuyHandler создает обработчик команды /buy
func NewBuyHandler(deps *handlers.Dependencies) handlers.Handler {
	return newHandler(deps, trading.SideBuy, "buy_command_handler", constants.CommandBuy)
}

// NewSellHandler создает обработчик команды /sell
func NewSellHandler(deps *handlers.Dependencies) handlers.Handler {
	return newHandler(deps, trading.SideSell, "sell_command_handler", constants.CommandSell)
}

func newHandler(deps *handlers.Dependencies, side trading.Side, name, command string) *tradeCommandHandler {
	return &tradeCommandHandler{
		BaseHandler: &base.BaseHandler{
			Name:    name,
			Command: command,
			Type:    handlers.TypeCommand,
		},
		side: side,
		deps: deps,
	}
}

// Execute без аргументов переводит сессию в ожидание тикера,
// с аргументами сразу исполняет сделку.
func (h *tradeCommandHandler) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	if len(params.Args) == 0 {
		h.deps.Sessions.Begin(params.UserID, trading_session.AwaitingSymbol(h.side))
		return handlers.HandlerResult{Message: AskSymbol(h.deps, h.side)}, nil
	}

	intent, err := ParseIntent(h.BaseHandler, h.deps, h.side, params.Args)
	if err != nil {
		return handlers.HandlerResult{}, err
	}
	return Run(ctx, h.BaseHandler, h.deps, params.UserID, intent)
}

// AskSymbol текст запроса тикера
func AskSymbol(deps *handlers.Dependencies, side trading.Side) string {
	tmpl := constants.AskSymbolBuyText
	if side == trading.SideSell {
		tmpl = constants.AskSymbolSellText
	}
	return fmt.Sprintf(tmpl, deps.DefaultQuoteAmount.String(), deps.Trading.Format.QuoteAsset)
}
