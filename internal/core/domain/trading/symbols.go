// internal/core/domain/trading/symbols.go
package trading

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	QuantityPrecision       int32 = 5
	PricePrecision          int32 = 4
	ReferencePricePrecision int32 = 8
)

// SymbolFormat правила записи торговых пар
type SymbolFormat struct {
	QuoteAsset     string // USDT
	ReferenceAsset string // актив с дробной ценой, SHIB
}

// Normalize приводит "btc" к "BTCUSDT"; уже полная пара не меняется
func (f SymbolFormat) Normalize(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	s = strings.ReplaceAll(s, "/", "")
	if s == "" {
		return ""
	}
	quote := strings.ToUpper(f.QuoteAsset)
	if quote == "" || (strings.HasSuffix(s, quote) && len(s) > len(quote)) {
		return s
	}
	return s + quote
}

// BaseAsset отрезает котируемую валюту
func (f SymbolFormat) BaseAsset(symbol string) string {
	s := strings.ToUpper(symbol)
	quote := strings.ToUpper(f.QuoteAsset)
	if quote != "" && strings.HasSuffix(s, quote) && len(s) > len(quote) {
		return strings.TrimSuffix(s, quote)
	}
	return s
}

// PricePrecision 8 знаков для опорного актива, 4 для остальных
func (f SymbolFormat) PricePrecision(symbol string) int32 {
	if f.ReferenceAsset != "" && strings.EqualFold(f.BaseAsset(symbol), f.ReferenceAsset) {
		return ReferencePricePrecision
	}
	return PricePrecision
}

// FormatPrice строка цены для биржи и ответов
func (f SymbolFormat) FormatPrice(symbol string, price decimal.Decimal) string {
	return price.StringFixed(f.PricePrecision(symbol))
}

// FormatQuantity строка количества для биржи
func FormatQuantity(q decimal.Decimal) string {
	return q.StringFixed(QuantityPrecision)
}
