// internal/delivery/telegram/app/bot/formatters/trading.go
package formatters

import (
	"fmt"
	"strings"

	"crypto-exchange-trading-bot/internal/core/domain/trading"
)

// TradingFormatter ответы на торговые команды
type TradingFormatter struct {
	format trading.SymbolFormat
}

// NewTradingFormatter создает форматтер торговых ответов
func NewTradingFormatter(format trading.SymbolFormat) *TradingFormatter {
	return &TradingFormatter{format: format}
}

func sideLabel(side trading.Side) string {
	if side == trading.SideSell {
		return "🔴 Продажа"
	}
	return "🟢 Покупка"
}

// Execution итог покупки или продажи с TP/SL
func (f *TradingFormatter) Execution(res *trading.ExecutionResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s *%s*\n\n", sideLabel(res.PrimarySide), Escape(res.Symbol))
	fmt.Fprintf(&b, "Количество: `%s`\n", trading.FormatQuantity(res.Quantity))
	fmt.Fprintf(&b, "Цена: `%s`\n", f.format.FormatPrice(res.Symbol, res.Price))
	if res.PrimaryOrderID != "" {
		fmt.Fprintf(&b, "Заявка: `%s`\n", res.PrimaryOrderID)
	}

	for _, leg := range res.Legs {
		if leg.Leg == trading.LegPrimary {
			continue
		}
		price := leg.Request.Price
		if leg.Err != nil {
			fmt.Fprintf(&b, "❌ %s %s: %s\n",
				LegName(leg.Leg), f.format.FormatPrice(res.Symbol, price), Escape(cause(leg.Err)))
			continue
		}
		fmt.Fprintf(&b, "✅ %s %s", LegName(leg.Leg), f.format.FormatPrice(res.Symbol, price))
		if leg.OrderID != "" {
			fmt.Fprintf(&b, " (`%s`)", leg.OrderID)
		}
		b.WriteString("\n")
	}

	if len(res.Errors) > 0 {
		b.WriteString("\n⚠️ Основная заявка исполнена, но часть защитных заявок не выставлена. Выставьте их вручную.")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Futures итог открытия фьючерсной позиции
func (f *TradingFormatter) Futures(res *trading.FuturesResult) string {
	icon := "🟢"
	if res.Side == trading.PositionShort {
		icon = "🔴"
	}
	return fmt.Sprintf("%s *%s %s* открыта\n\nКоличество: `%s`\nЦена: `%s`\nЗаявка: `%s`",
		icon, res.Side, Escape(res.Symbol),
		trading.FormatQuantity(res.Quantity),
		f.format.FormatPrice(res.Symbol, res.Price),
		res.OrderID)
}

// Cancel итог отмены всех заявок
func (f *TradingFormatter) Cancel(report *trading.CancelReport) string {
	if len(report.Canceled) == 0 && len(report.Failed) == 0 {
		return fmt.Sprintf("📭 Открытых заявок по *%s* нет.", Escape(report.Symbol))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🧹 *Отмена заявок %s*\n\n", Escape(report.Symbol))
	for _, id := range report.Canceled {
		fmt.Fprintf(&b, "✅ `%s` отменена\n", id)
	}
	for _, failed := range report.Failed {
		fmt.Fprintf(&b, "❌ `%s`: %s\n", failed.OrderID, Escape(cause(failed.Err)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Trades последние сделки по паре
func (f *TradingFormatter) Trades(symbol string, trades []trading.Trade) string {
	if len(trades) == 0 {
		return fmt.Sprintf("📭 Сделок по *%s* нет.", Escape(symbol))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📜 *Сделки %s*\n\n", Escape(symbol))
	for _, t := range trades {
		icon := "🟢"
		if t.Side == trading.SideSell {
			icon = "🔴"
		}
		fmt.Fprintf(&b, "%s %s `%s` по `%s`",
			icon, t.Time.UTC().Format("02.01 15:04"),
			trading.FormatQuantity(t.Quantity),
			f.format.FormatPrice(symbol, t.Price))
		if t.Commission.IsPositive() {
			fmt.Fprintf(&b, ", комиссия %s %s", t.Commission.String(), Escape(t.CommissionAsset))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Transfer подтверждение перевода
func (f *TradingFormatter) Transfer(intent trading.TransferIntent, ack *trading.TransferAck) string {
	route := "спот → фьючерсы"
	if intent.Direction == trading.TransferToSpot {
		route = "фьючерсы → спот"
	}
	msg := fmt.Sprintf("🔁 *Перевод выполнен*\n\n%s %s, %s", intent.Amount.String(), Escape(intent.Asset), route)
	if ack != nil && ack.TransferID != "" {
		msg += fmt.Sprintf("\nID: `%s`", ack.TransferID)
	}
	return msg
}
