// internal/infrastructure/api/exchanges/binance/client_test.go
package binance

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crypto-exchange-trading-bot/internal/core/domain/trading"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *BinanceClient {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return NewBinanceClient(Options{
		ApiKey:         "key",
		ApiSecret:      "secret",
		BaseURL:        srv.URL,
		FuturesBaseURL: srv.URL,
		Timeout:        2 * time.Second,
		Format:         trading.SymbolFormat{QuoteAsset: "USDT", ReferenceAsset: "SHIB"},
	})
}

func TestBinanceClient_GetTickerPrice(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/ticker/price", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		_, _ = w.Write([]byte(`{"symbol":"BTCUSDT","price":"50000.00000000"}`))
	})
	c := newTestClient(t, mux)

	ticker, err := c.GetTickerPrice(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.True(t, ticker.Price.Equal(decimal.NewFromInt(50000)))
}

func TestBinanceClient_MarketOrder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/order", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "BUY", r.Form.Get("side"))
		assert.Equal(t, "MARKET", r.Form.Get("type"))
		assert.Equal(t, "0.00200", r.Form.Get("quantity"))
		assert.Equal(t, "tb1", r.Form.Get("newClientOrderId"))
		assert.NotEmpty(t, r.Form.Get("signature"))
		_, _ = w.Write([]byte(`{"symbol":"BTCUSDT","orderId":28,"clientOrderId":"tb1","status":"FILLED"}`))
	})
	c := newTestClient(t, mux)

	ack, err := c.PlaceMarketOrder(context.Background(), "BTCUSDT", trading.SideBuy, decimal.RequireFromString("0.002"), "tb1")
	require.NoError(t, err)
	assert.Equal(t, "28", ack.OrderID)
	assert.Equal(t, "FILLED", ack.Status)
}

func TestBinanceClient_BracketPricesUseSymbolPrecision(t *testing.T) {
	var forms []map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/order", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		forms = append(forms, map[string]string{
			"type":      r.Form.Get("type"),
			"price":     r.Form.Get("price"),
			"stopPrice": r.Form.Get("stopPrice"),
		})
		_, _ = w.Write([]byte(`{"symbol":"X","orderId":1,"status":"NEW"}`))
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	_, err := c.PlaceLimitOrder(ctx, "BTCUSDT", trading.SideSell, decimal.RequireFromString("0.002"), decimal.NewFromInt(60000), "tp")
	require.NoError(t, err)
	_, err = c.PlaceStopLimitOrder(ctx, "SHIBUSDT", trading.SideSell, decimal.NewFromInt(1000000),
		decimal.RequireFromString("0.0000123"), decimal.RequireFromString("0.0000123"), "sl")
	require.NoError(t, err)

	require.Len(t, forms, 2)
	assert.Equal(t, "LIMIT", forms[0]["type"])
	assert.Equal(t, "60000.0000", forms[0]["price"])
	assert.Equal(t, "STOP_LOSS_LIMIT", forms[1]["type"])
	assert.Equal(t, "0.00001230", forms[1]["price"])
	assert.Equal(t, "0.00001230", forms[1]["stopPrice"])
}

func TestBinanceClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantRejection bool
	}{
		{name: "insufficient balance", status: http.StatusBadRequest, body: `{"code":-2010,"msg":"Account has insufficient balance for requested action."}`, wantRejection: true},
		{name: "gateway error", status: http.StatusBadGateway, body: `<html>bad gateway</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/api/v3/order", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			c := newTestClient(t, mux)

			_, err := c.PlaceMarketOrder(context.Background(), "BTCUSDT", trading.SideBuy, decimal.NewFromInt(1), "x")
			require.Error(t, err)

			var rej *trading.RejectionError
			if tt.wantRejection {
				require.True(t, errors.As(err, &rej))
				assert.Equal(t, int64(-2010), rej.Code)
				return
			}
			assert.ErrorIs(t, err, trading.ErrGatewayUnavailable)
		})
	}
}

func TestBinanceClient_GetAccountAndPositions(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/account", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"balances":[{"asset":"BTC","free":"0.1","locked":"0"},{"asset":"ETH","free":"0","locked":"0"}]}`))
	})
	mux.HandleFunc("/fapi/v2/positionRisk", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"symbol":"ETHUSDT","positionAmt":"-0.5","entryPrice":"2000","markPrice":"1990","unRealizedProfit":"5","leverage":"10","positionSide":"BOTH"}]`))
	})
	mux.HandleFunc("/fapi/v3/positionRisk", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"symbol":"ETHUSDT","positionAmt":"-0.5","entryPrice":"2000","markPrice":"1990","unRealizedProfit":"5","leverage":"10","positionSide":"BOTH"}]`))
	})
	c := newTestClient(t, mux)

	acc, err := c.GetAccount(context.Background())
	require.NoError(t, err)
	require.Len(t, acc.Balances, 2)
	assert.Equal(t, "BTC", acc.Balances[0].Asset)

	positions, err := c.GetFuturesPositions(context.Background())
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, trading.PositionShort, positions[0].Side)
	assert.True(t, positions[0].Amount.Equal(decimal.RequireFromString("0.5")))
}

func TestBinanceClient_CancelOrderBadID(t *testing.T) {
	c := newTestClient(t, http.NewServeMux())

	err := c.CancelOrder(context.Background(), "BTCUSDT", "not-a-number")
	assert.True(t, trading.IsRejection(err))
}
