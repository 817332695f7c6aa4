// internal/core/domain/trading/helpers_test.go
package trading_test

import (
	"crypto-exchange-trading-bot/internal/core/domain/trading"

	"github.com/shopspring/decimal"
)

var testFormat = trading.SymbolFormat{QuoteAsset: "USDT", ReferenceAsset: "SHIB"}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}
