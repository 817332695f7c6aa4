// internal/infrastructure/api/exchanges/bybit/client.go
package bybit

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"crypto-exchange-trading-bot/internal/core/domain/trading"
	"crypto-exchange-trading-bot/pkg/logger"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const (
	DefaultBaseURL    = "https://api.bybit.com"
	TestnetBaseURL    = "https://api-testnet.bybit.com"
	defaultRecvWindow = "5000"
	userAgent         = "CryptoExchangeTradingBot/1.0"
)

// BybitClient - клиент для работы с API Bybit v5
type BybitClient struct {
	http       *resty.Client
	apiKey     string
	apiSecret  string
	recvWindow string
	now        func() time.Time
}

// NewBybitClient создает клиент; повторы выключены, пользователь повторяет команду сам
func NewBybitClient(baseURL, apiKey, apiSecret string, timeout time.Duration) *BybitClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", userAgent)

	return &BybitClient{
		http:       client,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		recvWindow: defaultRecvWindow,
		now:        time.Now,
	}
}

// generateSignature создает подпись HMAC-SHA256
func (c *BybitClient) generateSignature(timestamp, recvWindow, params string) string {
	signString := timestamp + c.apiKey + recvWindow + params

	h := hmac.New(sha256.New, []byte(c.apiSecret))
	h.Write([]byte(signString))

	return hex.EncodeToString(h.Sum(nil))
}

// sendPublicRequest отправляет публичный GET запрос
func (c *BybitClient) sendPublicRequest(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	req := c.http.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryString(params.Encode())
	}

	resp, err := req.Get(endpoint)
	return c.decode(endpoint, resp, err, out)
}

// sendPrivateRequest отправляет подписанный запрос.
// GET подписывает query string, POST подписывает JSON тело.
func (c *BybitClient) sendPrivateRequest(ctx context.Context, method, endpoint string, params url.Values, body interface{}, out interface{}) error {
	timestamp := strconv.FormatInt(c.now().UnixMilli(), 10)

	req := c.http.R().SetContext(ctx)

	var paramsStr string
	if method == http.MethodGet {
		paramsStr = params.Encode()
		if paramsStr != "" {
			req.SetQueryString(paramsStr)
		}
	} else if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to marshal params")
		}
		paramsStr = string(data)
		req.SetBody(data)
	}

	req.SetHeaders(map[string]string{
		"X-BAPI-API-KEY":     c.apiKey,
		"X-BAPI-TIMESTAMP":   timestamp,
		"X-BAPI-SIGN":        c.generateSignature(timestamp, c.recvWindow, paramsStr),
		"X-BAPI-RECV-WINDOW": c.recvWindow,
	})

	resp, err := req.Execute(method, endpoint)
	return c.decode(endpoint, resp, err, out)
}

// decode разбирает конверт retCode/retMsg и классифицирует ошибки
func (c *BybitClient) decode(endpoint string, resp *resty.Response, err error, out interface{}) error {
	if err != nil {
		logger.Warn("⚠️ Bybit %s: %v", endpoint, err)
		return errors.Wrapf(trading.ErrGatewayUnavailable, "bybit %s: %v", endpoint, err)
	}

	if resp.StatusCode() >= http.StatusInternalServerError {
		return errors.Wrapf(trading.ErrGatewayUnavailable, "bybit %s: status %d", endpoint, resp.StatusCode())
	}
	if !resp.IsSuccess() {
		return &trading.RejectionError{
			Code:    int64(resp.StatusCode()),
			Message: strings.TrimSpace(string(resp.Body())),
		}
	}

	var envelope APIResponse
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return errors.Wrapf(trading.ErrGatewayUnavailable, "bybit %s: malformed response: %v", endpoint, err)
	}
	if envelope.RetCode != 0 {
		return &trading.RejectionError{Code: int64(envelope.RetCode), Message: envelope.RetMsg}
	}

	if out == nil || len(envelope.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return errors.Wrapf(trading.ErrGatewayUnavailable, "bybit %s: failed to parse result: %v", endpoint, err)
	}
	return nil
}
