// internal/core/domain/trading/gateway.go
package trading

import (
	"context"

	"github.com/shopspring/decimal"
)

// Gateway операции биржи, которые использует бот.
// Ошибки: *RejectionError для отказа биржи, ErrGatewayUnavailable (через %w) для сетевых сбоев.
type Gateway interface {
	Name() string

	GetTickerPrice(ctx context.Context, symbol string) (*Ticker, error)
	PlaceMarketOrder(ctx context.Context, symbol string, side Side, quantity decimal.Decimal, clientID string) (*OrderAck, error)
	PlaceLimitOrder(ctx context.Context, symbol string, side Side, quantity, price decimal.Decimal, clientID string) (*OrderAck, error)
	PlaceStopLimitOrder(ctx context.Context, symbol string, side Side, quantity, price, stopPrice decimal.Decimal, clientID string) (*OrderAck, error)

	GetAccount(ctx context.Context) (*SpotAccount, error)
	GetFuturesAccount(ctx context.Context) (*FuturesAccount, error)
	GetFuturesPositions(ctx context.Context) ([]Position, error)

	GetOpenOrders(ctx context.Context, symbol string) ([]Order, error)
	CancelOrder(ctx context.Context, symbol, orderID string) error
	GetMyTrades(ctx context.Context, symbol string, limit int) ([]Trade, error)

	PlaceFuturesMarketOrder(ctx context.Context, symbol string, side Side, quantity decimal.Decimal, clientID string) (*OrderAck, error)
	Transfer(ctx context.Context, asset string, amount decimal.Decimal, direction TransferDirection) (*TransferAck, error)
}
