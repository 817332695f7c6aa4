// internal/infrastructure/api/exchanges/binance/client.go
package binance

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"crypto-exchange-trading-bot/internal/core/domain/trading"
	"crypto-exchange-trading-bot/pkg/logger"

	gobinance "github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Options параметры подключения
type Options struct {
	ApiKey         string
	ApiSecret      string
	BaseURL        string // пусто: боевой или тестовый адрес по Testnet
	FuturesBaseURL string
	Testnet        bool
	Timeout        time.Duration
	Format         trading.SymbolFormat // точность цен в заявках
}

// BinanceClient - реализация trading.Gateway поверх go-binance
type BinanceClient struct {
	spot    *gobinance.Client
	futures *futures.Client
	format  trading.SymbolFormat
}

var _ trading.Gateway = (*BinanceClient)(nil)

// NewBinanceClient создает клиентов спота и USDT-M фьючерсов
func NewBinanceClient(opts Options) *BinanceClient {
	if opts.Testnet {
		gobinance.UseTestnet = true
		futures.UseTestnet = true
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	httpClient := &http.Client{Timeout: opts.Timeout}

	spot := gobinance.NewClient(opts.ApiKey, opts.ApiSecret)
	spot.HTTPClient = httpClient
	if opts.BaseURL != "" {
		spot.BaseURL = opts.BaseURL
	}

	fut := gobinance.NewFuturesClient(opts.ApiKey, opts.ApiSecret)
	fut.HTTPClient = httpClient
	if opts.FuturesBaseURL != "" {
		fut.BaseURL = opts.FuturesBaseURL
	}

	return &BinanceClient{spot: spot, futures: fut, format: opts.Format}
}

func (c *BinanceClient) Name() string { return "binance" }

func (c *BinanceClient) GetTickerPrice(ctx context.Context, symbol string) (*trading.Ticker, error) {
	prices, err := c.spot.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return nil, classify("ticker", err)
	}
	for _, p := range prices {
		if p.Symbol == symbol {
			return &trading.Ticker{Symbol: symbol, Price: parseDecimal(p.Price)}, nil
		}
	}
	return nil, &trading.RejectionError{Code: -1121, Message: "Invalid symbol."}
}

func (c *BinanceClient) PlaceMarketOrder(ctx context.Context, symbol string, side trading.Side, quantity decimal.Decimal, clientID string) (*trading.OrderAck, error) {
	res, err := c.spot.NewCreateOrderService().
		Symbol(symbol).
		Side(toSide(side)).
		Type(gobinance.OrderTypeMarket).
		Quantity(trading.FormatQuantity(quantity)).
		NewClientOrderID(clientID).
		Do(ctx)
	if err != nil {
		return nil, classify("market order", err)
	}
	return toAck(res), nil
}

func (c *BinanceClient) PlaceLimitOrder(ctx context.Context, symbol string, side trading.Side, quantity, price decimal.Decimal, clientID string) (*trading.OrderAck, error) {
	res, err := c.spot.NewCreateOrderService().
		Symbol(symbol).
		Side(toSide(side)).
		Type(gobinance.OrderTypeLimit).
		TimeInForce(gobinance.TimeInForceTypeGTC).
		Quantity(trading.FormatQuantity(quantity)).
		Price(c.format.FormatPrice(symbol, price)).
		NewClientOrderID(clientID).
		Do(ctx)
	if err != nil {
		return nil, classify("limit order", err)
	}
	return toAck(res), nil
}

func (c *BinanceClient) PlaceStopLimitOrder(ctx context.Context, symbol string, side trading.Side, quantity, price, stopPrice decimal.Decimal, clientID string) (*trading.OrderAck, error) {
	res, err := c.spot.NewCreateOrderService().
		Symbol(symbol).
		Side(toSide(side)).
		Type(gobinance.OrderTypeStopLossLimit).
		TimeInForce(gobinance.TimeInForceTypeGTC).
		Quantity(trading.FormatQuantity(quantity)).
		Price(c.format.FormatPrice(symbol, price)).
		StopPrice(c.format.FormatPrice(symbol, stopPrice)).
		NewClientOrderID(clientID).
		Do(ctx)
	if err != nil {
		return nil, classify("stop-limit order", err)
	}
	return toAck(res), nil
}

func (c *BinanceClient) PlaceFuturesMarketOrder(ctx context.Context, symbol string, side trading.Side, quantity decimal.Decimal, clientID string) (*trading.OrderAck, error) {
	futSide := futures.SideTypeBuy
	if side == trading.SideSell {
		futSide = futures.SideTypeSell
	}

	res, err := c.futures.NewCreateOrderService().
		Symbol(symbol).
		Side(futSide).
		Type(futures.OrderTypeMarket).
		Quantity(trading.FormatQuantity(quantity)).
		NewClientOrderID(clientID).
		Do(ctx)
	if err != nil {
		return nil, classify("futures order", err)
	}
	return &trading.OrderAck{
		OrderID:       strconv.FormatInt(res.OrderID, 10),
		ClientOrderID: res.ClientOrderID,
		Status:        string(res.Status),
	}, nil
}

func (c *BinanceClient) GetAccount(ctx context.Context) (*trading.SpotAccount, error) {
	acc, err := c.spot.NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, classify("account", err)
	}

	balances := make([]trading.Balance, 0, len(acc.Balances))
	for _, b := range acc.Balances {
		balances = append(balances, trading.Balance{
			Asset:  b.Asset,
			Free:   parseDecimal(b.Free),
			Locked: parseDecimal(b.Locked),
		})
	}
	return &trading.SpotAccount{Balances: balances}, nil
}

func (c *BinanceClient) GetFuturesAccount(ctx context.Context) (*trading.FuturesAccount, error) {
	acc, err := c.futures.NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, classify("futures account", err)
	}

	balances := make([]trading.Balance, 0, len(acc.Assets))
	for _, a := range acc.Assets {
		balances = append(balances, trading.Balance{
			Asset: a.Asset,
			Free:  parseDecimal(a.AvailableBalance),
		})
	}
	return &trading.FuturesAccount{Balances: balances}, nil
}

func (c *BinanceClient) GetFuturesPositions(ctx context.Context) ([]trading.Position, error) {
	risks, err := c.futures.NewGetPositionRiskService().Do(ctx)
	if err != nil {
		return nil, classify("positions", err)
	}

	positions := make([]trading.Position, 0, len(risks))
	for _, r := range risks {
		amount := parseDecimal(r.PositionAmt)
		side := trading.PositionLong
		if amount.IsNegative() || r.PositionSide == string(futures.PositionSideTypeShort) {
			side = trading.PositionShort
		}
		positions = append(positions, trading.Position{
			Symbol:        r.Symbol,
			Amount:        amount.Abs(),
			Side:          side,
			EntryPrice:    parseDecimal(r.EntryPrice),
			MarkPrice:     parseDecimal(r.MarkPrice),
			UnrealizedPnL: parseDecimal(r.UnRealizedProfit),
			Leverage:      r.Leverage,
		})
	}
	return positions, nil
}

func (c *BinanceClient) GetOpenOrders(ctx context.Context, symbol string) ([]trading.Order, error) {
	open, err := c.spot.NewListOpenOrdersService().Symbol(symbol).Do(ctx)
	if err != nil {
		return nil, classify("open orders", err)
	}

	orders := make([]trading.Order, 0, len(open))
	for _, o := range open {
		orders = append(orders, trading.Order{
			OrderID:  strconv.FormatInt(o.OrderID, 10),
			Symbol:   o.Symbol,
			Side:     fromSide(o.Side),
			Type:     string(o.Type),
			Price:    parseDecimal(o.Price),
			Quantity: parseDecimal(o.OrigQuantity),
			Created:  time.UnixMilli(o.Time),
		})
	}
	return orders, nil
}

func (c *BinanceClient) CancelOrder(ctx context.Context, symbol, orderID string) error {
	id, err := strconv.ParseInt(orderID, 10, 64)
	if err != nil {
		return &trading.RejectionError{Code: -1102, Message: "invalid order id " + orderID}
	}
	if _, err := c.spot.NewCancelOrderService().Symbol(symbol).OrderID(id).Do(ctx); err != nil {
		return classify("cancel order", err)
	}
	return nil
}

func (c *BinanceClient) GetMyTrades(ctx context.Context, symbol string, limit int) ([]trading.Trade, error) {
	svc := c.spot.NewListTradesService().Symbol(symbol)
	if limit > 0 {
		svc = svc.Limit(limit)
	}
	list, err := svc.Do(ctx)
	if err != nil {
		return nil, classify("trades", err)
	}

	trades := make([]trading.Trade, 0, len(list))
	for _, t := range list {
		side := trading.SideSell
		if t.IsBuyer {
			side = trading.SideBuy
		}
		trades = append(trades, trading.Trade{
			ID:              strconv.FormatInt(t.ID, 10),
			Symbol:          t.Symbol,
			Side:            side,
			Price:           parseDecimal(t.Price),
			Quantity:        parseDecimal(t.Quantity),
			QuoteQuantity:   parseDecimal(t.QuoteQuantity),
			Commission:      parseDecimal(t.Commission),
			CommissionAsset: t.CommissionAsset,
			Time:            time.UnixMilli(t.Time),
		})
	}
	return trades, nil
}

func (c *BinanceClient) Transfer(ctx context.Context, asset string, amount decimal.Decimal, direction trading.TransferDirection) (*trading.TransferAck, error) {
	transferType := gobinance.FuturesTransferTypeToFutures
	if direction == trading.TransferToSpot {
		transferType = gobinance.FuturesTransferTypeToMain
	}

	res, err := c.spot.NewFuturesTransferService().
		Asset(asset).
		Amount(amount.String()).
		Type(transferType).
		Do(ctx)
	if err != nil {
		return nil, classify("transfer", err)
	}
	return &trading.TransferAck{TransferID: strconv.FormatInt(res.TranID, 10)}, nil
}

// classify отделяет отказ биржи от сетевого сбоя
func classify(op string, err error) error {
	// Ответ 5xx без тела тоже приходит как APIError, но с нулевым кодом
	var apiErr *common.APIError
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		return &trading.RejectionError{Code: apiErr.Code, Message: apiErr.Message}
	}
	logger.Warn("⚠️ Binance %s: %v", op, err)
	return errors.Wrapf(trading.ErrGatewayUnavailable, "binance %s: %v", op, err)
}

func toAck(res *gobinance.CreateOrderResponse) *trading.OrderAck {
	return &trading.OrderAck{
		OrderID:       strconv.FormatInt(res.OrderID, 10),
		ClientOrderID: res.ClientOrderID,
		Status:        string(res.Status),
	}
}

func toSide(s trading.Side) gobinance.SideType {
	if s == trading.SideSell {
		return gobinance.SideTypeSell
	}
	return gobinance.SideTypeBuy
}

func fromSide(s gobinance.SideType) trading.Side {
	if s == gobinance.SideTypeSell {
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
