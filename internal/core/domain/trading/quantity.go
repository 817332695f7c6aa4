// internal/core/domain/trading/quantity.go
package trading

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Quote цена и рассчитанное количество базового актива
type Quote struct {
	Symbol   string
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// QuantityCalculator переводит сумму в котируемой валюте в количество
type QuantityCalculator struct {
	gateway Gateway
	timeout time.Duration
}

func NewQuantityCalculator(gw Gateway, timeout time.Duration) *QuantityCalculator {
	return &QuantityCalculator{gateway: gw, timeout: timeout}
}

// Compute запрашивает цену и делит на нее сумму
func (c *QuantityCalculator) Compute(ctx context.Context, symbol string, quoteAmount decimal.Decimal) (*Quote, error) {
	price, err := c.Price(ctx, symbol)
	if err != nil {
		return nil, err
	}

	qty, err := ComputeQuantity(quoteAmount, price)
	if err != nil {
		return nil, err
	}

	return &Quote{Symbol: symbol, Price: price, Quantity: qty}, nil
}

// Price текущая цена пары
func (c *QuantityCalculator) Price(ctx context.Context, symbol string) (decimal.Decimal, error) {
	const op = "QuantityCalculator.Price"

	callCtx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	ticker, err := c.gateway.GetTickerPrice(callCtx, symbol)
	if err != nil {
		return decimal.Zero, classify(op, KindPriceUnavailable, err)
	}
	if ticker == nil || !ticker.Price.IsPositive() {
		return decimal.Zero, NewError(KindPriceUnavailable, op, "no price for "+symbol)
	}
	return ticker.Price, nil
}

// ComputeQuantity quoteAmount / price с округлением до 5 знаков
func ComputeQuantity(quoteAmount, price decimal.Decimal) (decimal.Decimal, error) {
	const op = "ComputeQuantity"

	if !quoteAmount.IsPositive() {
		return decimal.Zero, NewError(KindInvalidInput, op, "amount must be positive")
	}
	if !price.IsPositive() {
		return decimal.Zero, NewError(KindPriceUnavailable, op, "price must be positive")
	}

	// Точное частное: q усечено до 5 знаков, остаток решает округление вверх
	step := decimal.New(1, -QuantityPrecision)
	qty, rem := quoteAmount.QuoRem(price, QuantityPrecision)
	if rem.Add(rem).GreaterThanOrEqual(price.Mul(step)) {
		qty = qty.Add(step)
	}
	if !qty.IsPositive() {
		return decimal.Zero, NewError(KindQuantityTooSmall, op,
			"amount "+quoteAmount.String()+" at price "+price.String()+" rounds to zero")
	}
	return qty, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
