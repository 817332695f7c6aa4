// internal/core/domain/trading/tradingtest/gateway.go
package tradingtest

import (
	"context"
	"fmt"
	"sync"

	"crypto-exchange-trading-bot/internal/core/domain/trading"

	"github.com/shopspring/decimal"
)

// Placed заявка, дошедшая до шлюза
type Placed struct {
	Kind      string
	Symbol    string
	Side      trading.Side
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	StopPrice decimal.Decimal
}

// Gateway шлюз в памяти для тестов слоя доставки
type Gateway struct {
	mu sync.Mutex

	Prices    map[string]decimal.Decimal
	Spot      *trading.SpotAccount
	Futures   *trading.FuturesAccount
	Positions []trading.Position
	Open      []trading.Order
	Trades    []trading.Trade

	// Errs ошибки по имени метода
	Errs map[string]error
	// CancelErrs ошибки отмены по номеру заявки
	CancelErrs map[string]error

	calls  []string
	placed []Placed
	nextID int
}

// NewGateway создает шлюз с заданными ценами, "BTCUSDT" -> "50000"
func NewGateway(prices map[string]string) *Gateway {
	g := &Gateway{
		Prices:     map[string]decimal.Decimal{},
		Spot:       &trading.SpotAccount{},
		Futures:    &trading.FuturesAccount{},
		Errs:       map[string]error{},
		CancelErrs: map[string]error{},
	}
	for s, p := range prices {
		g.Prices[s] = decimal.RequireFromString(p)
	}
	return g
}

// Calls все вызовы по порядку
func (g *Gateway) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

// CallCount сколько раз вызван метод
func (g *Gateway) CallCount(name string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		if c == name {
			n++
		}
	}
	return n
}

// PlacedOrders заявки по порядку
func (g *Gateway) PlacedOrders() []Placed {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Placed(nil), g.placed...)
}

func (g *Gateway) record(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, name)
	return g.Errs[name]
}

func (g *Gateway) place(p Placed) *trading.OrderAck {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.placed = append(g.placed, p)
	g.nextID++
	return &trading.OrderAck{OrderID: fmt.Sprintf("%d", g.nextID), Status: "NEW"}
}

func (g *Gateway) Name() string { return "test" }

func (g *Gateway) GetTickerPrice(_ context.Context, symbol string) (*trading.Ticker, error) {
	if err := g.record("GetTickerPrice"); err != nil {
		return nil, err
	}
	p, ok := g.Prices[symbol]
	if !ok {
		return nil, &trading.RejectionError{Code: -1121, Message: "Invalid symbol."}
	}
	return &trading.Ticker{Symbol: symbol, Price: p}, nil
}

func (g *Gateway) PlaceMarketOrder(_ context.Context, symbol string, side trading.Side, quantity decimal.Decimal, _ string) (*trading.OrderAck, error) {
	if err := g.record("PlaceMarketOrder"); err != nil {
		return nil, err
	}
	return g.place(Placed{Kind: "market", Symbol: symbol, Side: side, Quantity: quantity}), nil
}

func (g *Gateway) PlaceLimitOrder(_ context.Context, symbol string, side trading.Side, quantity, price decimal.Decimal, _ string) (*trading.OrderAck, error) {
	if err := g.record("PlaceLimitOrder"); err != nil {
		return nil, err
	}
	return g.place(Placed{Kind: "limit", Symbol: symbol, Side: side, Quantity: quantity, Price: price}), nil
}

func (g *Gateway) PlaceStopLimitOrder(_ context.Context, symbol string, side trading.Side, quantity, price, stopPrice decimal.Decimal, _ string) (*trading.OrderAck, error) {
	if err := g.record("PlaceStopLimitOrder"); err != nil {
		return nil, err
	}
	return g.place(Placed{Kind: "stop_limit", Symbol: symbol, Side: side, Quantity: quantity, Price: price, StopPrice: stopPrice}), nil
}

func (g *Gateway) GetAccount(_ context.Context) (*trading.SpotAccount, error) {
	if err := g.record("GetAccount"); err != nil {
		return nil, err
	}
	return g.Spot, nil
}

func (g *Gateway) GetFuturesAccount(_ context.Context) (*trading.FuturesAccount, error) {
	if err := g.record("GetFuturesAccount"); err != nil {
		return nil, err
	}
	return g.Futures, nil
}

func (g *Gateway) GetFuturesPositions(_ context.Context) ([]trading.Position, error) {
	if err := g.record("GetFuturesPositions"); err != nil {
		return nil, err
	}
	return g.Positions, nil
}

func (g *Gateway) GetOpenOrders(_ context.Context, symbol string) ([]trading.Order, error) {
	if err := g.record("GetOpenOrders"); err != nil {
		return nil, err
	}
	var out []trading.Order
	for _, o := range g.Open {
		if o.Symbol == symbol {
			out = append(out, o)
		}
	}
	return out, nil
}

func (g *Gateway) CancelOrder(_ context.Context, _ string, orderID string) error {
	if err := g.record("CancelOrder"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.CancelErrs[orderID]
}

func (g *Gateway) GetMyTrades(_ context.Context, _ string, _ int) ([]trading.Trade, error) {
	if err := g.record("GetMyTrades"); err != nil {
		return nil, err
	}
	return append([]trading.Trade(nil), g.Trades...), nil
}

func (g *Gateway) PlaceFuturesMarketOrder(_ context.Context, symbol string, side trading.Side, quantity decimal.Decimal, _ string) (*trading.OrderAck, error) {
	if err := g.record("PlaceFuturesMarketOrder"); err != nil {
		return nil, err
	}
	return g.place(Placed{Kind: "futures_market", Symbol: symbol, Side: side, Quantity: quantity}), nil
}

func (g *Gateway) Transfer(_ context.Context, _ string, _ decimal.Decimal, _ trading.TransferDirection) (*trading.TransferAck, error) {
	if err := g.record("Transfer"); err != nil {
		return nil, err
	}
	return &trading.TransferAck{TransferID: "tr-1"}, nil
}
