// internal/core/domain/trading/types.go
package trading

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Side направление ордера
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Opposite возвращает противоположную сторону
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// ParseSide разбирает "buy"/"sell" без учета регистра
func ParseSide(s string) (Side, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return SideBuy, true
	case "SELL":
		return SideSell, true
	}
	return "", false
}

// OrderType тип ордера
type OrderType string

const (
	OrderTypeMarket    OrderType = "MARKET"
	OrderTypeLimit     OrderType = "LIMIT"
	OrderTypeStopLimit OrderType = "STOP_LIMIT"
)

// PositionSide сторона фьючерсной позиции
type PositionSide string

const (
	PositionLong  PositionSide = "LONG"
	PositionShort PositionSide = "SHORT"
)

// ParsePositionSide разбирает long/short
func ParsePositionSide(s string) (PositionSide, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LONG":
		return PositionLong, true
	case "SHORT":
		return PositionShort, true
	}
	return "", false
}

// OrderSide сторона ордера, открывающего позицию
func (p PositionSide) OrderSide() Side {
	if p == PositionShort {
		return SideSell
	}
	return SideBuy
}

// TransferDirection направление перевода между кошельками
type TransferDirection string

const (
	TransferToFutures TransferDirection = "TO_FUTURES"
	TransferToSpot    TransferDirection = "TO_SPOT"
)

// ParseTransferDirection принимает in/out и синонимы
func ParseTransferDirection(s string) (TransferDirection, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in", "futures", "to_futures":
		return TransferToFutures, true
	case "out", "spot", "to_spot":
		return TransferToSpot, true
	}
	return "", false
}

// OrderRequest одна заявка из плана
type OrderRequest struct {
	Side      Side
	Symbol    string
	Type      OrderType
	Quantity  decimal.Decimal
	Price     decimal.Decimal // Limit и StopLimit
	StopPrice decimal.Decimal // только StopLimit
	Leg       Leg
}

// Leg роль заявки в плане
type Leg string

const (
	LegPrimary    Leg = "primary"
	LegTakeProfit Leg = "take_profit"
	LegStopLoss   Leg = "stop_loss"
)

// OrderPlan основная рыночная заявка и до двух защитных
type OrderPlan struct {
	Primary  OrderRequest
	Brackets []OrderRequest
}

// OrderAck подтверждение биржи
type OrderAck struct {
	OrderID       string
	ClientOrderID string
	Status        string
}

// Ticker текущая цена
type Ticker struct {
	Symbol string
	Price  decimal.Decimal
}

// Balance свободный остаток актива
type Balance struct {
	Asset  string
	Free   decimal.Decimal
	Locked decimal.Decimal
}

// SpotAccount спотовый кошелек
type SpotAccount struct {
	Balances []Balance
}

// FuturesAccount фьючерсный кошелек
type FuturesAccount struct {
	Balances []Balance
}

// Position открытая фьючерсная позиция
type Position struct {
	Symbol        string
	Amount        decimal.Decimal
	Side          PositionSide
	EntryPrice    decimal.Decimal
	MarkPrice     decimal.Decimal
	UnrealizedPnL decimal.Decimal
	Leverage      string
}

// Order открытая заявка
type Order struct {
	OrderID  string
	Symbol   string
	Side     Side
	Type     string
	Price    decimal.Decimal
	Quantity decimal.Decimal
	Created  time.Time
}

// Trade исполненная сделка
type Trade struct {
	ID              string
	Symbol          string
	Side            Side
	Price           decimal.Decimal
	Quantity        decimal.Decimal
	QuoteQuantity   decimal.Decimal
	Commission      decimal.Decimal
	CommissionAsset string
	Time            time.Time
}

// TransferAck подтверждение перевода
type TransferAck struct {
	TransferID string
}
