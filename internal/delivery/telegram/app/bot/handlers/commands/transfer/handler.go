// internal/delivery/telegram/app/bot/handlers/commands/transfer/handler.go
package transfer

import (
	"context"
	"fmt"

	"crypto-exchange-trading-bot/internal/core/domain/trading"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/constants"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/base"
	"crypto-exchange-trading-bot/internal/delivery/telegram/services/trading_session"
	"crypto-exchange-trading-bot/internal/infrastructure/persistence/journal"
)

// transferCommandHandler /transfer in|out [AMOUNT]
type transferCommandHandler struct {
	*base.BaseHandler
	deps *handlers.Dependencies
}

// NewHandler создает обработчик команды /transfer
func NewHandler(deps *handlers.Dependencies) handlers.Handler {
	return &transferCommandHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "transfer_command_handler",
			Command: constants.CommandTransfer,
			Type:    handlers.TypeCommand,
		},
		deps: deps,
	}
}

// Execute без суммы переводит сессию в ожидание суммы
func (h *transferCommandHandler) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	if len(params.Args) == 0 || len(params.Args) > 2 {
		return handlers.HandlerResult{}, trading.NewError(trading.KindInvalidInput, h.Name, constants.UsageTransfer)
	}

	direction, ok := trading.ParseTransferDirection(params.Args[0])
	if !ok {
		return handlers.HandlerResult{}, trading.NewError(trading.KindInvalidInput, h.Name, constants.UsageTransfer)
	}

	if len(params.Args) == 1 {
		h.deps.Sessions.Begin(params.UserID, trading_session.AwaitingTransferAmount(direction))
		return handlers.HandlerResult{Message: AskAmount(h.deps, direction)}, nil
	}

	amount, err := h.ParseAmount(params.Args[1])
	if err != nil {
		return handlers.HandlerResult{}, err
	}
	return Run(ctx, h.BaseHandler, h.deps, params.UserID, trading.TransferIntent{
		Direction: direction,
		Asset:     h.deps.TransferAsset,
		Amount:    amount,
	})
}

// AskAmount текст запроса суммы перевода
func AskAmount(deps *handlers.Dependencies, direction trading.TransferDirection) string {
	route := "спот → фьючерсы"
	if direction == trading.TransferToSpot {
		route = "фьючерсы → спот"
	}
	return fmt.Sprintf(constants.AskTransferAmountText, route, deps.TransferAsset)
}

// Run выполняет перевод и пишет журнал
func Run(ctx context.Context, h *base.BaseHandler, deps *handlers.Dependencies, userID int64, intent trading.TransferIntent) (handlers.HandlerResult, error) {
	ack, err := deps.Trading.Transfers.Transfer(ctx, intent)

	entry := &journal.Entry{
		UserID:      userID,
		Action:      constants.CommandTransfer,
		Symbol:      intent.Asset,
		Side:        string(intent.Direction),
		QuoteAmount: intent.Amount,
		Status:      base.StatusOf(err),
	}
	if err != nil {
		entry.Detail = err.Error()
	}
	h.Record(ctx, deps.Journal, entry)

	if err != nil {
		return handlers.HandlerResult{}, err
	}
	return handlers.HandlerResult{Message: deps.Formatters.Trading.Transfer(intent, ack)}, nil
}
