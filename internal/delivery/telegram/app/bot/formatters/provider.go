// internal/delivery/telegram/app/bot/formatters/provider.go
package formatters

import (
	"strings"

	"crypto-exchange-trading-bot/internal/core/domain/trading"
)

// FormatterProvider предоставляет доступ ко всем форматтерам
type FormatterProvider struct {
	Errors  *ErrorFormatter
	Trading *TradingFormatter
	Account *AccountFormatter
	Journal *JournalFormatter
}

// NewFormatterProvider создает новый провайдер форматтеров
func NewFormatterProvider(format trading.SymbolFormat) *FormatterProvider {
	return &FormatterProvider{
		Errors:  NewErrorFormatter(),
		Trading: NewTradingFormatter(format),
		Account: NewAccountFormatter(),
		Journal: NewJournalFormatter(),
	}
}

var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"`", "\\`",
	"[", "\\[",
)

// Escape экранирует спецсимволы Markdown в тексте от биржи или пользователя
func Escape(s string) string {
	return markdownEscaper.Replace(s)
}
