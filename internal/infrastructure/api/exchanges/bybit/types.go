// internal/infrastructure/api/exchanges/bybit/types.go
package bybit

import "encoding/json"

const (
	CategorySpot   = "spot"
	CategoryLinear = "linear" // USDT-M фьючерсы

	AccountTypeUnified  = "UNIFIED"
	AccountTypeSpot     = "SPOT"
	AccountTypeContract = "CONTRACT"

	// Ошибки API
	ErrCodeInvalidParams  = 10001
	ErrCodeRateLimit      = 10006
	ErrCodeSymbolNotFound = 30001
)

// APIResponse - базовый ответ API Bybit
type APIResponse struct {
	RetCode int             `json:"retCode"`
	RetMsg  string          `json:"retMsg"`
	Result  json.RawMessage `json:"result"`
	Time    int64           `json:"time"`
}

type listResult[T any] struct {
	Category string `json:"category"`
	List     []T    `json:"list"`
}

// TickerData тикер /v5/market/tickers
type TickerData struct {
	Symbol    string `json:"symbol"`
	LastPrice string `json:"lastPrice"`
}

// CreateOrderRequest тело /v5/order/create
type CreateOrderRequest struct {
	Category     string `json:"category"`
	Symbol       string `json:"symbol"`
	Side         string `json:"side"`
	OrderType    string `json:"orderType"`
	Qty          string `json:"qty"`
	Price        string `json:"price,omitempty"`
	TimeInForce  string `json:"timeInForce,omitempty"`
	TriggerPrice string `json:"triggerPrice,omitempty"`
	OrderFilter  string `json:"orderFilter,omitempty"`
	MarketUnit   string `json:"marketUnit,omitempty"`
	OrderLinkID  string `json:"orderLinkId,omitempty"`
}

// OrderResult ответ на создание и отмену
type OrderResult struct {
	OrderID     string `json:"orderId"`
	OrderLinkID string `json:"orderLinkId"`
}

// CancelOrderRequest тело /v5/order/cancel
type CancelOrderRequest struct {
	Category string `json:"category"`
	Symbol   string `json:"symbol"`
	OrderID  string `json:"orderId"`
}

// WalletAccount кошелек из /v5/account/wallet-balance
type WalletAccount struct {
	AccountType string       `json:"accountType"`
	Coin        []WalletCoin `json:"coin"`
}

// WalletCoin баланс монеты
type WalletCoin struct {
	Coin          string `json:"coin"`
	WalletBalance string `json:"walletBalance"`
	Locked        string `json:"locked"`
	UnrealisedPnl string `json:"unrealisedPnl"`
}

// PositionData позиция /v5/position/list
type PositionData struct {
	Symbol        string `json:"symbol"`
	Side          string `json:"side"` // Buy | Sell | ""
	Size          string `json:"size"`
	AvgPrice      string `json:"avgPrice"`
	MarkPrice     string `json:"markPrice"`
	UnrealisedPnl string `json:"unrealisedPnl"`
	Leverage      string `json:"leverage"`
}

// OpenOrderData заявка /v5/order/realtime
type OpenOrderData struct {
	OrderID     string `json:"orderId"`
	Symbol      string `json:"symbol"`
	Side        string `json:"side"`
	OrderType   string `json:"orderType"`
	Price       string `json:"price"`
	Qty         string `json:"qty"`
	CreatedTime string `json:"createdTime"`
}

// ExecutionData сделка /v5/execution/list
type ExecutionData struct {
	ExecID      string `json:"execId"`
	Symbol      string `json:"symbol"`
	Side        string `json:"side"`
	ExecPrice   string `json:"execPrice"`
	ExecQty     string `json:"execQty"`
	ExecValue   string `json:"execValue"`
	ExecFee     string `json:"execFee"`
	FeeCurrency string `json:"feeCurrency"`
	ExecTime    string `json:"execTime"`
}

// TransferRequest тело /v5/asset/transfer/inter-transfer
type TransferRequest struct {
	TransferID      string `json:"transferId"`
	Coin            string `json:"coin"`
	Amount          string `json:"amount"`
	FromAccountType string `json:"fromAccountType"`
	ToAccountType   string `json:"toAccountType"`
}

// TransferResult ответ перевода
type TransferResult struct {
	TransferID string `json:"transferId"`
}
