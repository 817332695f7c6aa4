// internal/delivery/telegram/app/bot/handlers/followup/handler.go
package followup

import (
	"context"

	"crypto-exchange-trading-bot/internal/core/domain/trading"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/constants"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/base"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/commands/open"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/commands/trade"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/commands/transfer"
	"crypto-exchange-trading-bot/internal/delivery/telegram/services/trading_session"
	"crypto-exchange-trading-bot/pkg/logger"
)

// followupHandler свободный текст как ответ на незавершенную команду
type followupHandler struct {
	*base.BaseHandler
	deps *handlers.Dependencies
}

// NewHandler создает обработчик свободного текста
func NewHandler(deps *handlers.Dependencies) handlers.Handler {
	return &followupHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "followup_message_handler",
			Command: "text",
			Type:    handlers.TypeMessage,
		},
		deps: deps,
	}
}

// Execute забирает сессию, выполняет сетевой вызов без блокировки
// и фиксирует следующий шаг. Если за это время пришла новая команда,
// фиксация не применяется.
func (h *followupHandler) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	claimed, ok := h.deps.Sessions.Claim(params.UserID)
	if !ok {
		if h.deps.Sessions.Get(params.UserID).Claimed {
			return handlers.HandlerResult{Message: constants.BusyText}, nil
		}
		return handlers.HandlerResult{Message: constants.NoPendingText}, nil
	}

	var (
		result handlers.HandlerResult
		err    error
		next   = trading_session.Idle()
	)

	switch claimed.Pending.State {
	case trading_session.StateAwaitingSymbol:
		// Любой ответ завершает ожидание тикера, даже неудачный
		result, err = h.resolveSymbol(ctx, params, claimed.Pending.Side)

	case trading_session.StateAwaitingFuturesSide:
		result, next, err = h.resolveFuturesSide(ctx, params, claimed.Pending)

	case trading_session.StateAwaitingTransferAmount:
		result, next, err = h.resolveTransferAmount(ctx, params, claimed.Pending)

	default:
		result = handlers.HandlerResult{Message: constants.NoPendingText}
	}

	if !h.deps.Sessions.Commit(claimed, next) {
		logger.Debug("💬 Сессия %d изменилась во время выполнения, шаг %s не сохранен", params.UserID, next.State)
	}
	return result, err
}

func (h *followupHandler) resolveSymbol(ctx context.Context, params handlers.HandlerParams, side trading.Side) (handlers.HandlerResult, error) {
	intent, err := trade.ParseIntent(h.BaseHandler, h.deps, side, params.Args)
	if err != nil {
		return handlers.HandlerResult{}, err
	}
	return trade.Run(ctx, h.BaseHandler, h.deps, params.UserID, intent)
}

// resolveFuturesSide неверный ответ оставляет ожидание
func (h *followupHandler) resolveFuturesSide(ctx context.Context, params handlers.HandlerParams, pending trading_session.Pending) (handlers.HandlerResult, trading_session.Pending, error) {
	symbol := pending.Data[trading_session.DataSymbol]
	amountArg := pending.Data[trading_session.DataAmount]

	var side trading.PositionSide
	if len(params.Args) == 1 {
		side, _ = trading.ParsePositionSide(params.Args[0])
	}
	if side == "" {
		return handlers.HandlerResult{
			Message:  open.AskSide(h.deps, symbol, amountArg),
			Keyboard: open.SideKeyboard(),
		}, pending, nil
	}

	amount, err := h.ParseAmount(amountArg)
	if err != nil {
		return handlers.HandlerResult{}, trading_session.Idle(), err
	}

	result, err := open.Run(ctx, h.BaseHandler, h.deps, params.UserID, trading.FuturesIntent{
		Side:        side,
		Symbol:      symbol,
		QuoteAmount: amount,
	})
	return result, trading_session.Idle(), err
}

// resolveTransferAmount неверная сумма оставляет ожидание
func (h *followupHandler) resolveTransferAmount(ctx context.Context, params handlers.HandlerParams, pending trading_session.Pending) (handlers.HandlerResult, trading_session.Pending, error) {
	if len(params.Args) != 1 {
		return handlers.HandlerResult{}, pending, trading.NewError(trading.KindInvalidInput, h.Name, "enter a single number")
	}
	amount, err := h.ParseAmount(params.Args[0])
	if err != nil {
		return handlers.HandlerResult{}, pending, err
	}

	result, err := transfer.Run(ctx, h.BaseHandler, h.deps, params.UserID, trading.TransferIntent{
		Direction: pending.Direction,
		Asset:     h.deps.TransferAsset,
		Amount:    amount,
	})
	return result, trading_session.Idle(), err
}
