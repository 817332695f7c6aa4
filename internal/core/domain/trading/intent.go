// internal/core/domain/trading/intent.go
package trading

import (
	"github.com/shopspring/decimal"
)

// TradeIntent неизменяемое намерение пользователя купить или продать
type TradeIntent struct {
	side        Side
	symbol      string
	quoteAmount decimal.Decimal
	takeProfit  *decimal.Decimal
	stopLoss    *decimal.Decimal
}

// NewTradeIntent проверяет входные данные; symbol уже нормализован
func NewTradeIntent(side Side, symbol string, quoteAmount decimal.Decimal, takeProfit, stopLoss *decimal.Decimal) (TradeIntent, error) {
	const op = "NewTradeIntent"

	if side != SideBuy && side != SideSell {
		return TradeIntent{}, NewError(KindInvalidInput, op, "unknown side")
	}
	if symbol == "" {
		return TradeIntent{}, NewError(KindInvalidInput, op, "symbol is empty")
	}
	if !quoteAmount.IsPositive() {
		return TradeIntent{}, NewError(KindInvalidInput, op, "amount must be positive")
	}
	if takeProfit != nil && !takeProfit.IsPositive() {
		return TradeIntent{}, NewError(KindInvalidBracketPrice, op, "take profit must be positive")
	}
	if stopLoss != nil && !stopLoss.IsPositive() {
		return TradeIntent{}, NewError(KindInvalidBracketPrice, op, "stop loss must be positive")
	}

	return TradeIntent{
		side:        side,
		symbol:      symbol,
		quoteAmount: quoteAmount,
		takeProfit:  copyDecimal(takeProfit),
		stopLoss:    copyDecimal(stopLoss),
	}, nil
}

func (i TradeIntent) Side() Side { return i.side }
func (i TradeIntent) Symbol() string { return i.symbol }
func (i TradeIntent) QuoteAmount() decimal.Decimal { return i.quoteAmount }

func (i TradeIntent) TakeProfit() (decimal.Decimal, bool) {
	if i.takeProfit == nil {
		return decimal.Zero, false
	}
	return *i.takeProfit, true
}

func (i TradeIntent) StopLoss() (decimal.Decimal, bool) {
	if i.stopLoss == nil {
		return decimal.Zero, false
	}
	return *i.stopLoss, true
}

// checkBrackets сверяет TP/SL с текущей ценой.
// Покупка: TP выше цены, SL ниже. Продажа: наоборот.
func (i TradeIntent) checkBrackets(price decimal.Decimal) error {
	const op = "checkBrackets"

	if tp, ok := i.TakeProfit(); ok {
		if i.side == SideBuy && !tp.GreaterThan(price) {
			return NewError(KindInvalidBracketPrice, op, "take profit must be above current price "+price.String())
		}
		if i.side == SideSell && !tp.LessThan(price) {
			return NewError(KindInvalidBracketPrice, op, "take profit must be below current price "+price.String())
		}
	}
	if sl, ok := i.StopLoss(); ok {
		if i.side == SideBuy && !sl.LessThan(price) {
			return NewError(KindInvalidBracketPrice, op, "stop loss must be below current price "+price.String())
		}
		if i.side == SideSell && !sl.GreaterThan(price) {
			return NewError(KindInvalidBracketPrice, op, "stop loss must be above current price "+price.String())
		}
	}
	return nil
}

// FuturesIntent открытие фьючерсной позиции по рынку
type FuturesIntent struct {
	Side        PositionSide
	Symbol      string
	QuoteAmount decimal.Decimal
}

// TransferIntent перевод между спотом и фьючерсами
type TransferIntent struct {
	Direction TransferDirection
	Asset     string
	Amount    decimal.Decimal
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
