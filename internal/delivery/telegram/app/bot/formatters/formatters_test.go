// internal/delivery/telegram/app/bot/formatters/formatters_test.go
package formatters

import (
	"strings"
	"testing"
	"time"

	"crypto-exchange-trading-bot/internal/core/domain/trading"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/constants"
	"crypto-exchange-trading-bot/internal/infrastructure/persistence/journal"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var testFormat = trading.SymbolFormat{QuoteAsset: "USDT", ReferenceAsset: "SHIB"}

func TestEscape(t *testing.T) {
	assert.Equal(t, "BTC\\_USDT \\*x\\* \\`y\\` \\[z]", Escape("BTC_USDT *x* `y` [z]"))
	assert.Equal(t, "plain", Escape("plain"))
}

func TestErrorFormatter_Kinds(t *testing.T) {
	f := NewErrorFormatter()

	assert.Equal(t, constants.UnauthorizedText, f.Format(trading.NewError(trading.KindUnauthorized, "op", "x")))

	msg := f.Format(trading.NewError(trading.KindInvalidInput, "ParseAmount", "amount must be positive"))
	assert.Contains(t, msg, "Неверный ввод")
	assert.Contains(t, msg, "amount must be positive")
	assert.NotContains(t, msg, "ParseAmount")

	rejected := &trading.Error{
		Kind:   trading.KindOrderRejected,
		Op:     "Executor.Execute",
		Reason: "Filter failure: LOT_SIZE",
		Err:    &trading.RejectionError{Code: -1013, Message: "Filter failure: LOT_SIZE"},
	}
	assert.Contains(t, f.Format(rejected), `LOT\_SIZE`)

	down := &trading.Error{Kind: trading.KindGatewayUnavailable, Op: "op", Err: errors.New("dial tcp: i/o timeout")}
	assert.Contains(t, f.Format(down), "Нет ответа от биржи")

	assert.Contains(t, f.Format(errors.New("nil pointer")), "Внутренняя ошибка")
	assert.Empty(t, f.Format(nil))
}

func TestErrorFormatter_PartialFillListsLegs(t *testing.T) {
	res := &trading.ExecutionResult{
		Errors: []trading.LegError{
			{Leg: trading.LegStopLoss, Err: &trading.RejectionError{Code: -2010, Message: "Stop price would trigger immediately."}},
		},
	}

	msg := NewErrorFormatter().Format(res.Err())
	assert.Contains(t, msg, "Исполнено частично")
	assert.Contains(t, msg, "Stop-loss: Stop price would trigger immediately.")
}

func TestTradingFormatter_Execution(t *testing.T) {
	f := NewTradingFormatter(testFormat)
	res := &trading.ExecutionResult{
		PrimarySide:    trading.SideBuy,
		Symbol:         "BTCUSDT",
		Quantity:       decimal.RequireFromString("0.002"),
		Price:          decimal.NewFromInt(50000),
		PrimaryOrderID: "1",
		Legs: []trading.LegResult{
			{Leg: trading.LegPrimary, OrderID: "1"},
			{Leg: trading.LegTakeProfit, OrderID: "2", Request: trading.OrderRequest{Price: decimal.NewFromInt(60000)}},
			{Leg: trading.LegStopLoss, Request: trading.OrderRequest{Price: decimal.NewFromInt(40000)},
				Err: &trading.RejectionError{Message: "rejected"}},
		},
		Errors: []trading.LegError{{Leg: trading.LegStopLoss, Err: &trading.RejectionError{Message: "rejected"}}},
	}

	msg := f.Execution(res)
	assert.True(t, strings.HasPrefix(msg, "🟢 Покупка *BTCUSDT*"))
	assert.Contains(t, msg, "`0.00200`")
	assert.Contains(t, msg, "`50000.0000`")
	assert.Contains(t, msg, "✅ Take-profit 60000.0000 (`2`)")
	assert.Contains(t, msg, "❌ Stop-loss 40000.0000: rejected")
	assert.Contains(t, msg, "Выставьте их вручную")
}

func TestTradingFormatter_ReferencePrecision(t *testing.T) {
	f := NewTradingFormatter(testFormat)
	msg := f.Futures(&trading.FuturesResult{
		Side:     trading.PositionShort,
		Symbol:   "SHIBUSDT",
		Quantity: decimal.NewFromInt(1000000),
		Price:    decimal.RequireFromString("0.00001234"),
		OrderID:  "9",
	})
	assert.Contains(t, msg, "🔴")
	assert.Contains(t, msg, "`0.00001234`")
}

func TestTradingFormatter_CancelAndTrades(t *testing.T) {
	f := NewTradingFormatter(testFormat)

	assert.Contains(t, f.Cancel(&trading.CancelReport{Symbol: "BTCUSDT"}), "нет")

	msg := f.Cancel(&trading.CancelReport{
		Symbol:   "BTCUSDT",
		Canceled: []string{"1"},
		Failed:   []trading.CancelFailure{{OrderID: "2", Err: &trading.RejectionError{Message: "Unknown order sent."}}},
	})
	assert.Contains(t, msg, "✅ `1` отменена")
	assert.Contains(t, msg, "❌ `2`: Unknown order sent.")

	trades := f.Trades("ETHUSDT", []trading.Trade{{
		Side:            trading.SideSell,
		Price:           decimal.NewFromInt(2500),
		Quantity:        decimal.RequireFromString("0.1"),
		Commission:      decimal.RequireFromString("0.25"),
		CommissionAsset: "USDT",
		Time:            time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC),
	}})
	assert.Contains(t, trades, "🔴 05.03 14:07 `0.10000` по `2500.0000`, комиссия 0.25 USDT")
}

func TestAccountFormatter_DegradedSnapshot(t *testing.T) {
	f := NewAccountFormatter()
	msg := f.Snapshot(&trading.AccountSnapshot{
		Balances:   []trading.Balance{{Asset: "USDT", Free: decimal.NewFromInt(100)}},
		FuturesErr: errors.New("timeout"),
	})

	assert.Contains(t, msg, "USDT")
	assert.Contains(t, msg, "⚠️ недоступно")
	assert.Contains(t, msg, "Часть данных не получена")
}

func TestJournalFormatter_Entries(t *testing.T) {
	msg := NewJournalFormatter().Entries([]*journal.Entry{{
		Action:    "buy",
		Symbol:    "BTCUSDT",
		Side:      "BUY",
		Quantity:  decimal.RequireFromString("0.002"),
		Status:    journal.StatusPartial,
		Detail:    "failed legs: stop_loss",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC),
	}})

	assert.Contains(t, msg, "⚠️ 02.01 03:04 buy BTCUSDT BUY `0.002`")
	assert.Contains(t, msg, `stop\_loss`)
}
