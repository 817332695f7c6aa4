// internal/delivery/telegram/app/bot/handlers/commands/trade/run.go
package trade

import (
	"context"
	"strings"

	"crypto-exchange-trading-bot/internal/core/domain/trading"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/constants"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/base"
	"crypto-exchange-trading-bot/internal/infrastructure/persistence/journal"

	"github.com/shopspring/decimal"
)

// ParseIntent разбирает "SYMBOL [AMOUNT] [TP] [SL]".
// Без суммы берется сумма по умолчанию, "-" пропускает TP.
func ParseIntent(h *base.BaseHandler, deps *handlers.Dependencies, side trading.Side, args []string) (trading.TradeIntent, error) {
	if len(args) == 0 || len(args) > 4 {
		return trading.TradeIntent{}, trading.NewError(trading.KindInvalidInput, h.Name, constants.UsageTrade)
	}

	symbol := deps.Trading.Format.Normalize(args[0])
	amount := deps.DefaultQuoteAmount
	if len(args) > 1 {
		var err error
		if amount, err = h.ParseAmount(args[1]); err != nil {
			return trading.TradeIntent{}, err
		}
	}

	var takeProfit, stopLoss *decimal.Decimal
	if len(args) > 2 && args[2] != "-" {
		var err error
		if takeProfit, err = h.ParsePrice(args[2]); err != nil {
			return trading.TradeIntent{}, err
		}
	}
	if len(args) > 3 && args[3] != "-" {
		var err error
		if stopLoss, err = h.ParsePrice(args[3]); err != nil {
			return trading.TradeIntent{}, err
		}
	}

	return trading.NewTradeIntent(side, symbol, amount, takeProfit, stopLoss)
}

// Run исполняет намерение, пишет журнал и форматирует ответ.
// Частичное исполнение возвращается как обычный ответ со списком неудачных заявок.
func Run(ctx context.Context, h *base.BaseHandler, deps *handlers.Dependencies, userID int64, intent trading.TradeIntent) (handlers.HandlerResult, error) {
	res, err := deps.Trading.Executor.Execute(ctx, intent)

	entry := &journal.Entry{
		UserID:      userID,
		Action:      strings.ToLower(string(intent.Side())),
		Symbol:      intent.Symbol(),
		Side:        string(intent.Side()),
		QuoteAmount: intent.QuoteAmount(),
		Status:      base.StatusOf(err),
	}
	if res != nil {
		entry.Quantity = res.Quantity
	}
	if err != nil {
		entry.Detail = err.Error()
	}
	h.Record(ctx, deps.Journal, entry)

	if res == nil {
		return handlers.HandlerResult{}, err
	}
	return handlers.HandlerResult{
		Message: deps.Formatters.Trading.Execution(res),
		Metadata: map[string]interface{}{
			"order_id":        res.PrimaryOrderID,
			"take_profit_set": res.TakeProfitSet,
			"stop_loss_set":   res.StopLossSet,
		},
	}, nil
}
