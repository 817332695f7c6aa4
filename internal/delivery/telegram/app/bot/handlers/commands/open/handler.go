// internal/delivery/telegram/app/bot/handlers/commands/open/handler.go
package open

import (
	"context"
	"fmt"
	"strings"

	"crypto-exchange-trading-bot/internal/core/domain/trading"
	"crypto-exchange-trading-bot/internal/delivery/telegram"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/constants"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/base"
	"crypto-exchange-trading-bot/internal/delivery/telegram/services/trading_session"
	"crypto-exchange-trading-bot/internal/infrastructure/persistence/journal"
)

// openCommandHandler /open SYMBOL [AMOUNT] [long|short]
type openCommandHandler struct {
	*base.BaseHandler
	deps *handlers.Dependencies
}

// NewHandler создает обработчик команды /open
func NewHandler(deps *handlers.Dependencies) handlers.Handler {
	return &openCommandHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "open_command_handler",
			Command: constants.CommandOpen,
			Type:    handlers.TypeCommand,
		},
		deps: deps,
	}
}

// Execute без направления переводит сессию в ожидание long/short
func (h *openCommandHandler) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	if len(params.Args) == 0 || len(params.Args) > 3 {
		return handlers.HandlerResult{}, trading.NewError(trading.KindInvalidInput, h.Name, constants.UsageOpen)
	}

	symbol := h.deps.Trading.Format.Normalize(params.Args[0])
	amount := h.deps.DefaultQuoteAmount
	var side trading.PositionSide

	// Сумма и направление в любом порядке
	for _, arg := range params.Args[1:] {
		if s, ok := trading.ParsePositionSide(arg); ok && side == "" {
			side = s
			continue
		}
		a, err := h.ParseAmount(arg)
		if err != nil {
			return handlers.HandlerResult{}, err
		}
		amount = a
	}

	if side == "" {
		h.deps.Sessions.Begin(params.UserID, trading_session.AwaitingFuturesSide(symbol, amount.String()))
		return handlers.HandlerResult{
			Message:  AskSide(h.deps, symbol, amount.String()),
			Keyboard: SideKeyboard(),
		}, nil
	}

	return Run(ctx, h.BaseHandler, h.deps, params.UserID, trading.FuturesIntent{
		Side:        side,
		Symbol:      symbol,
		QuoteAmount: amount,
	})
}

// AskSide текст запроса направления позиции
func AskSide(deps *handlers.Dependencies, symbol, amount string) string {
	return fmt.Sprintf(constants.AskFuturesSideText, symbol, amount, deps.Trading.Format.QuoteAsset)
}

// SideKeyboard кнопки long/short; нажатие приходит как свободный текст
func SideKeyboard() telegram.InlineKeyboardMarkup {
	return telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{
				{Text: constants.ButtonTexts.Long, CallbackData: "long"},
				{Text: constants.ButtonTexts.Short, CallbackData: "short"},
			},
		},
	}
}

// Run открывает позицию и пишет журнал
func Run(ctx context.Context, h *base.BaseHandler, deps *handlers.Dependencies, userID int64, intent trading.FuturesIntent) (handlers.HandlerResult, error) {
	res, err := deps.Trading.Executor.OpenFutures(ctx, intent)

	entry := &journal.Entry{
		UserID:      userID,
		Action:      constants.CommandOpen,
		Symbol:      intent.Symbol,
		Side:        strings.ToUpper(string(intent.Side)),
		QuoteAmount: intent.QuoteAmount,
		Status:      base.StatusOf(err),
	}
	if res != nil {
		entry.Quantity = res.Quantity
	}
	if err != nil {
		entry.Detail = err.Error()
	}
	h.Record(ctx, deps.Journal, entry)

	if err != nil {
		return handlers.HandlerResult{}, err
	}
	return handlers.HandlerResult{
		Message:  deps.Formatters.Trading.Futures(res),
		Metadata: map[string]interface{}{"order_id": res.OrderID},
	}, nil
}
