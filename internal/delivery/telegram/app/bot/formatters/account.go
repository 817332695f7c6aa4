// internal/delivery/telegram/app/bot/formatters/account.go
package formatters

import (
	"fmt"
	"strings"

	"crypto-exchange-trading-bot/internal/core/domain/trading"
)

// AccountFormatter балансы и позиции
type AccountFormatter struct{}

// NewAccountFormatter создает форматтер аккаунта
func NewAccountFormatter() *AccountFormatter {
	return &AccountFormatter{}
}

// Snapshot рендерит снимок; недоступная половина помечается отдельно
func (f *AccountFormatter) Snapshot(s *trading.AccountSnapshot) string {
	var b strings.Builder

	b.WriteString("💰 *Спот*\n")
	switch {
	case s.SpotErr != nil:
		b.WriteString("⚠️ недоступно\n")
	case len(s.Balances) == 0:
		b.WriteString("пусто\n")
	default:
		writeBalances(&b, s.Balances)
	}

	b.WriteString("\n📊 *Фьючерсы*\n")
	switch {
	case s.FuturesErr != nil:
		b.WriteString("⚠️ недоступно\n")
	default:
		if len(s.FuturesBalances) == 0 && len(s.Positions) == 0 {
			b.WriteString("пусто\n")
		}
		writeBalances(&b, s.FuturesBalances)
		for _, p := range s.Positions {
			icon := "🟢"
			if p.Side == trading.PositionShort {
				icon = "🔴"
			}
			fmt.Fprintf(&b, "%s %s %s `%s`, вход `%s`, PnL `%s`\n",
				icon, Escape(p.Symbol), p.Side, p.Amount.Abs().String(),
				p.EntryPrice.String(), p.UnrealizedPnL.StringFixed(2))
		}
	}

	if s.Degraded() {
		b.WriteString("\n⚠️ Часть данных не получена, показано то, что ответила биржа.")
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeBalances(b *strings.Builder, balances []trading.Balance) {
	for _, bal := range balances {
		fmt.Fprintf(b, "• %s: `%s`", Escape(bal.Asset), bal.Free.String())
		if bal.Locked.IsPositive() {
			fmt.Fprintf(b, " (в заявках `%s`)", bal.Locked.String())
		}
		b.WriteString("\n")
	}
}
