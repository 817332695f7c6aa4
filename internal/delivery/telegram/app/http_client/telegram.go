// internal/delivery/telegram/app/http_client/telegram.go
package http_client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"crypto-exchange-trading-bot/internal/delivery/telegram"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// APIError ответ Bot API с ok=false
type APIError struct {
	Method      string
	Code        int
	Description string
	RetryAfter  time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.Code, e.Description)
}

// TelegramClient клиент для работы с Telegram API
type TelegramClient struct {
	http    *resty.Client
	baseURL string
}

// NewTelegramClient создает новый клиент Telegram; baseURL вида https://api.telegram.org/bot<token>/
func NewTelegramClient(baseURL string, timeout time.Duration) *TelegramClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TelegramClient{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
		baseURL: baseURL,
	}
}

// call выполняет метод Bot API и раскладывает result в out
func (c *TelegramClient) call(ctx context.Context, method string, payload interface{}, out interface{}) error {
	var apiResp telegram.APIResponse

	req := c.http.R().SetContext(ctx).SetResult(&apiResp).SetError(&apiResp)
	if payload != nil {
		req.SetBody(payload)
	}

	resp, err := req.Post(method)
	if err != nil {
		return errors.Wrapf(err, "telegram %s", method)
	}
	if !apiResp.OK {
		code := apiResp.ErrorCode
		if code == 0 {
			code = resp.StatusCode()
		}
		apiErr := &APIError{Method: method, Code: code, Description: apiResp.Description}
		if apiResp.Parameters != nil {
			apiErr.RetryAfter = time.Duration(apiResp.Parameters.RetryAfter) * time.Second
		}
		return apiErr
	}
	if out != nil && len(apiResp.Result) > 0 {
		if err := json.Unmarshal(apiResp.Result, out); err != nil {
			return errors.Wrapf(err, "telegram %s: decode result", method)
		}
	}
	return nil
}

// SendMessage отправляет сообщение; parseMode пустой для простого текста
func (c *TelegramClient) SendMessage(ctx context.Context, chatID int64, text, parseMode string, keyboard interface{}) error {
	payload := map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	}
	if parseMode != "" {
		payload["parse_mode"] = parseMode
	}
	if keyboard != nil {
		payload["reply_markup"] = keyboard
	}
	return c.call(ctx, "sendMessage", payload, nil)
}

// AnswerCallbackQuery убирает индикатор загрузки на кнопке
func (c *TelegramClient) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	return c.call(ctx, "answerCallbackQuery", map[string]interface{}{
		"callback_query_id": callbackID,
	}, nil)
}

// SetMyCommands устанавливает меню команд
func (c *TelegramClient) SetMyCommands(ctx context.Context, commands []telegram.BotCommand) error {
	return c.call(ctx, "setMyCommands", map[string]interface{}{
		"commands": commands,
	}, nil)
}

// SetWebhook регистрирует адрес webhook и секрет для заголовка X-Telegram-Bot-Api-Secret-Token
func (c *TelegramClient) SetWebhook(ctx context.Context, url, secretToken string) error {
	payload := map[string]interface{}{
		"url":             url,
		"allowed_updates": []string{"message", "callback_query"},
	}
	if secretToken != "" {
		payload["secret_token"] = secretToken
	}
	return c.call(ctx, "setWebhook", payload, nil)
}

// DeleteWebhook снимает webhook перед переходом на polling
func (c *TelegramClient) DeleteWebhook(ctx context.Context) error {
	return c.call(ctx, "deleteWebhook", nil, nil)
}

// GetBaseURL возвращает базовый URL
func (c *TelegramClient) GetBaseURL() string {
	return c.baseURL
}
