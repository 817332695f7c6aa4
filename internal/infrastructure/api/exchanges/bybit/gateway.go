// internal/infrastructure/api/exchanges/bybit/gateway.go
package bybit

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"crypto-exchange-trading-bot/internal/core/domain/trading"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gateway реализация trading.Gateway поверх Bybit v5
type Gateway struct {
	client *BybitClient

	// Типы кошельков для спота и фьючерсов
	SpotAccountType    string
	FuturesAccountType string
	SettleCoin         string

	// format точность цен в заявках
	format trading.SymbolFormat
}

var _ trading.Gateway = (*Gateway)(nil)

func NewGateway(client *BybitClient, format trading.SymbolFormat) *Gateway {
	settleCoin := format.QuoteAsset
	if settleCoin == "" {
		settleCoin = "USDT"
	}
	return &Gateway{
		client:             client,
		SpotAccountType:    AccountTypeUnified,
		FuturesAccountType: AccountTypeContract,
		SettleCoin:         settleCoin,
		format:             format,
	}
}

func (g *Gateway) Name() string { return "bybit" }

func (g *Gateway) GetTickerPrice(ctx context.Context, symbol string) (*trading.Ticker, error) {
	params := url.Values{}
	params.Set("category", CategorySpot)
	params.Set("symbol", symbol)

	var res listResult[TickerData]
	if err := g.client.sendPublicRequest(ctx, "/v5/market/tickers", params, &res); err != nil {
		return nil, err
	}
	if len(res.List) == 0 {
		return nil, &trading.RejectionError{Code: ErrCodeSymbolNotFound, Message: "symbol not found: " + symbol}
	}
	return &trading.Ticker{Symbol: symbol, Price: parseDecimal(res.List[0].LastPrice)}, nil
}

func (g *Gateway) PlaceMarketOrder(ctx context.Context, symbol string, side trading.Side, quantity decimal.Decimal, clientID string) (*trading.OrderAck, error) {
	return g.createOrder(ctx, CreateOrderRequest{
		Category:    CategorySpot,
		Symbol:      symbol,
		Side:        toSide(side),
		OrderType:   "Market",
		Qty:         trading.FormatQuantity(quantity),
		MarketUnit:  "baseCoin",
		OrderLinkID: clientID,
	})
}

func (g *Gateway) PlaceLimitOrder(ctx context.Context, symbol string, side trading.Side, quantity, price decimal.Decimal, clientID string) (*trading.OrderAck, error) {
	return g.createOrder(ctx, CreateOrderRequest{
		Category:    CategorySpot,
		Symbol:      symbol,
		Side:        toSide(side),
		OrderType:   "Limit",
		Qty:         trading.FormatQuantity(quantity),
		Price:       g.format.FormatPrice(symbol, price),
		TimeInForce: "GTC",
		OrderLinkID: clientID,
	})
}

func (g *Gateway) PlaceStopLimitOrder(ctx context.Context, symbol string, side trading.Side, quantity, price, stopPrice decimal.Decimal, clientID string) (*trading.OrderAck, error) {
	return g.createOrder(ctx, CreateOrderRequest{
		Category:     CategorySpot,
		Symbol:       symbol,
		Side:         toSide(side),
		OrderType:    "Limit",
		Qty:          trading.FormatQuantity(quantity),
		Price:        g.format.FormatPrice(symbol, price),
		TriggerPrice: g.format.FormatPrice(symbol, stopPrice),
		OrderFilter:  "StopOrder",
		TimeInForce:  "GTC",
		OrderLinkID:  clientID,
	})
}

func (g *Gateway) PlaceFuturesMarketOrder(ctx context.Context, symbol string, side trading.Side, quantity decimal.Decimal, clientID string) (*trading.OrderAck, error) {
	return g.createOrder(ctx, CreateOrderRequest{
		Category:    CategoryLinear,
		Symbol:      symbol,
		Side:        toSide(side),
		OrderType:   "Market",
		Qty:         trading.FormatQuantity(quantity),
		OrderLinkID: clientID,
	})
}

func (g *Gateway) createOrder(ctx context.Context, req CreateOrderRequest) (*trading.OrderAck, error) {
	var res OrderResult
	if err := g.client.sendPrivateRequest(ctx, http.MethodPost, "/v5/order/create", nil, req, &res); err != nil {
		return nil, err
	}
	return &trading.OrderAck{OrderID: res.OrderID, ClientOrderID: res.OrderLinkID}, nil
}

func (g *Gateway) GetAccount(ctx context.Context) (*trading.SpotAccount, error) {
	balances, err := g.walletBalance(ctx, g.SpotAccountType)
	if err != nil {
		return nil, err
	}
	return &trading.SpotAccount{Balances: balances}, nil
}

func (g *Gateway) GetFuturesAccount(ctx context.Context) (*trading.FuturesAccount, error) {
	balances, err := g.walletBalance(ctx, g.FuturesAccountType)
	if err != nil {
		return nil, err
	}
	return &trading.FuturesAccount{Balances: balances}, nil
}

func (g *Gateway) walletBalance(ctx context.Context, accountType string) ([]trading.Balance, error) {
	params := url.Values{}
	params.Set("accountType", accountType)

	var res listResult[WalletAccount]
	if err := g.client.sendPrivateRequest(ctx, http.MethodGet, "/v5/account/wallet-balance", params, nil, &res); err != nil {
		return nil, err
	}

	var balances []trading.Balance
	for _, acc := range res.List {
		for _, c := range acc.Coin {
			total := parseDecimal(c.WalletBalance)
			locked := parseDecimal(c.Locked)
			balances = append(balances, trading.Balance{
				Asset:  c.Coin,
				Free:   total.Sub(locked),
				Locked: locked,
			})
		}
	}
	return balances, nil
}

func (g *Gateway) GetFuturesPositions(ctx context.Context) ([]trading.Position, error) {
	params := url.Values{}
	params.Set("category", CategoryLinear)
	params.Set("settleCoin", g.SettleCoin)

	var res listResult[PositionData]
	if err := g.client.sendPrivateRequest(ctx, http.MethodGet, "/v5/position/list", params, nil, &res); err != nil {
		return nil, err
	}

	positions := make([]trading.Position, 0, len(res.List))
	for _, p := range res.List {
		side := trading.PositionLong
		if p.Side == "Sell" {
			side = trading.PositionShort
		}
		positions = append(positions, trading.Position{
			Symbol:        p.Symbol,
			Amount:        parseDecimal(p.Size),
			Side:          side,
			EntryPrice:    parseDecimal(p.AvgPrice),
			MarkPrice:     parseDecimal(p.MarkPrice),
			UnrealizedPnL: parseDecimal(p.UnrealisedPnl),
			Leverage:      p.Leverage,
		})
	}
	return positions, nil
}

func (g *Gateway) GetOpenOrders(ctx context.Context, symbol string) ([]trading.Order, error) {
	params := url.Values{}
	params.Set("category", CategorySpot)
	params.Set("symbol", symbol)

	var res listResult[OpenOrderData]
	if err := g.client.sendPrivateRequest(ctx, http.MethodGet, "/v5/order/realtime", params, nil, &res); err != nil {
		return nil, err
	}

	orders := make([]trading.Order, 0, len(res.List))
	for _, o := range res.List {
		orders = append(orders, trading.Order{
			OrderID:  o.OrderID,
			Symbol:   o.Symbol,
			Side:     fromSide(o.Side),
			Type:     o.OrderType,
			Price:    parseDecimal(o.Price),
			Quantity: parseDecimal(o.Qty),
			Created:  parseMillis(o.CreatedTime),
		})
	}
	return orders, nil
}

func (g *Gateway) CancelOrder(ctx context.Context, symbol, orderID string) error {
	req := CancelOrderRequest{Category: CategorySpot, Symbol: symbol, OrderID: orderID}
	return g.client.sendPrivateRequest(ctx, http.MethodPost, "/v5/order/cancel", nil, req, nil)
}

func (g *Gateway) GetMyTrades(ctx context.Context, symbol string, limit int) ([]trading.Trade, error) {
	params := url.Values{}
	params.Set("category", CategorySpot)
	params.Set("symbol", symbol)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var res listResult[ExecutionData]
	if err := g.client.sendPrivateRequest(ctx, http.MethodGet, "/v5/execution/list", params, nil, &res); err != nil {
		return nil, err
	}

	trades := make([]trading.Trade, 0, len(res.List))
	for _, e := range res.List {
		trades = append(trades, trading.Trade{
			ID:              e.ExecID,
			Symbol:          e.Symbol,
			Side:            fromSide(e.Side),
			Price:           parseDecimal(e.ExecPrice),
			Quantity:        parseDecimal(e.ExecQty),
			QuoteQuantity:   parseDecimal(e.ExecValue),
			Commission:      parseDecimal(e.ExecFee),
			CommissionAsset: e.FeeCurrency,
			Time:            parseMillis(e.ExecTime),
		})
	}
	return trades, nil
}

func (g *Gateway) Transfer(ctx context.Context, asset string, amount decimal.Decimal, direction trading.TransferDirection) (*trading.TransferAck, error) {
	from, to := g.SpotAccountType, g.FuturesAccountType
	if direction == trading.TransferToSpot {
		from, to = to, from
	}

	req := TransferRequest{
		TransferID:      uuid.NewString(),
		Coin:            asset,
		Amount:          amount.String(),
		FromAccountType: from,
		ToAccountType:   to,
	}

	var res TransferResult
	if err := g.client.sendPrivateRequest(ctx, http.MethodPost, "/v5/asset/transfer/inter-transfer", nil, req, &res); err != nil {
		return nil, err
	}
	return &trading.TransferAck{TransferID: res.TransferID}, nil
}

func toSide(s trading.Side) string {
	if s == trading.SideSell {
		return "Sell"
	}
	return "Buy"
}

func fromSide(s string) trading.Side {
	if strings.EqualFold(s, "Sell") {
		return trading.SideSell
	}
	return trading.SideBuy
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseMillis(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
