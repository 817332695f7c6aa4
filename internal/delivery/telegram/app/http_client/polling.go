// internal/delivery/telegram/app/http_client/polling.go
package http_client

import (
	"context"
	"strconv"
	"time"

	"crypto-exchange-trading-bot/internal/delivery/telegram"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// PollingClient клиент для getUpdates с увеличенным таймаутом
type PollingClient struct {
	http *resty.Client
}

// NewPollingClient создает клиент; HTTP таймаут больше long-polling таймаута Telegram
func NewPollingClient(baseURL string, pollTimeout time.Duration) *PollingClient {
	return &PollingClient{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(pollTimeout + 5*time.Second),
	}
}

// GetUpdates забирает обновления начиная с offset
func (c *PollingClient) GetUpdates(ctx context.Context, offset int64, timeoutSec int) ([]telegram.TelegramUpdate, error) {
	var apiResp struct {
		OK          bool                      `json:"ok"`
		Result      []telegram.TelegramUpdate `json:"result"`
		ErrorCode   int                       `json:"error_code"`
		Description string                    `json:"description"`
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("offset", strconv.FormatInt(offset, 10)).
		SetQueryParam("timeout", strconv.Itoa(timeoutSec)).
		SetQueryParam("allowed_updates", `["message","callback_query"]`).
		SetResult(&apiResp).
		SetError(&apiResp).
		Get("getUpdates")
	if err != nil {
		return nil, errors.Wrap(err, "telegram getUpdates")
	}
	if !apiResp.OK {
		code := apiResp.ErrorCode
		if code == 0 {
			code = resp.StatusCode()
		}
		return nil, &APIError{Method: "getUpdates", Code: code, Description: apiResp.Description}
	}
	return apiResp.Result, nil
}
