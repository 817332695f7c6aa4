// internal/delivery/telegram/app/bot/handlers/commands/history/handler.go
package history

import (
	"context"
	"strconv"

	"crypto-exchange-trading-bot/internal/core/domain/trading"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/constants"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/base"
)

const maxLimit = 50

// historyCommandHandler обработчик /history SYMBOL [N]
type historyCommandHandler struct {
	*base.BaseHandler
	deps *handlers.Dependencies
}

// NewHandler создает обработчик команды /history
func NewHandler(deps *handlers.Dependencies) handlers.Handler {
	return &historyCommandHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "history_command_handler",
			Command: constants.CommandHistory,
			Type:    handlers.TypeCommand,
		},
		deps: deps,
	}
}

func (h *historyCommandHandler) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	if len(params.Args) == 0 || len(params.Args) > 2 {
		return handlers.HandlerResult{}, trading.NewError(trading.KindInvalidInput, h.Name, constants.UsageHistory)
	}

	symbol := h.deps.Trading.Format.Normalize(params.Args[0])
	limit := h.deps.HistoryLimit
	if len(params.Args) == 2 {
		n, err := strconv.Atoi(params.Args[1])
		if err != nil || n <= 0 {
			return handlers.HandlerResult{}, trading.NewError(trading.KindInvalidInput, h.Name, constants.UsageHistory)
		}
		limit = n
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	trades, err := h.deps.Trading.History.Recent(ctx, symbol, limit)
	if err != nil {
		return handlers.HandlerResult{}, err
	}

	return handlers.HandlerResult{
		Message:  h.deps.Formatters.Trading.Trades(symbol, trades),
		Metadata: map[string]interface{}{"trades": len(trades)},
	}, nil
}
