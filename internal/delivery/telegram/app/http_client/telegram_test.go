// internal/delivery/telegram/app/http_client/telegram_test.go
package http_client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	Path string
	Body map[string]interface{}
}

func newServer(t *testing.T, status int, reply string, got *recorded) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got != nil {
			got.Path = r.URL.Path
			_ = json.NewDecoder(r.Body).Decode(&got.Body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTelegramClient_SendMessage(t *testing.T) {
	var got recorded
	srv := newServer(t, http.StatusOK, `{"ok":true,"result":{"message_id":1}}`, &got)
	client := NewTelegramClient(srv.URL+"/botTOKEN/", time.Second)

	err := client.SendMessage(context.Background(), 42, "*hi*", "Markdown", map[string]interface{}{"inline_keyboard": []interface{}{}})
	require.NoError(t, err)

	assert.Equal(t, "/botTOKEN/sendMessage", got.Path)
	assert.Equal(t, float64(42), got.Body["chat_id"])
	assert.Equal(t, "*hi*", got.Body["text"])
	assert.Equal(t, "Markdown", got.Body["parse_mode"])
	assert.Contains(t, got.Body, "reply_markup")
}

func TestTelegramClient_PlainTextOmitsParseMode(t *testing.T) {
	var got recorded
	srv := newServer(t, http.StatusOK, `{"ok":true,"result":{}}`, &got)
	client := NewTelegramClient(srv.URL+"/botTOKEN/", time.Second)

	require.NoError(t, client.SendMessage(context.Background(), 1, "x", "", nil))
	assert.NotContains(t, got.Body, "parse_mode")
	assert.NotContains(t, got.Body, "reply_markup")
}

func TestTelegramClient_APIError(t *testing.T) {
	srv := newServer(t, http.StatusTooManyRequests,
		`{"ok":false,"error_code":429,"description":"Too Many Requests: retry after 3","parameters":{"retry_after":3}}`, nil)
	client := NewTelegramClient(srv.URL+"/botTOKEN/", time.Second)

	err := client.SendMessage(context.Background(), 1, "x", "", nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "sendMessage", apiErr.Method)
	assert.Equal(t, 429, apiErr.Code)
	assert.Equal(t, 3*time.Second, apiErr.RetryAfter)
}

func TestTelegramClient_SetWebhookSendsSecret(t *testing.T) {
	var got recorded
	srv := newServer(t, http.StatusOK, `{"ok":true,"result":true}`, &got)
	client := NewTelegramClient(srv.URL+"/botTOKEN/", time.Second)

	require.NoError(t, client.SetWebhook(context.Background(), "https://bot.example.com/webhook", "s3cret"))
	assert.Equal(t, "/botTOKEN/setWebhook", got.Path)
	assert.Equal(t, "s3cret", got.Body["secret_token"])
	assert.Equal(t, "https://bot.example.com/webhook", got.Body["url"])
}

func TestPollingClient_GetUpdates(t *testing.T) {
	var path, offset string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		offset = r.URL.Query().Get("offset")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"message_id":1,"from":{"id":42},"chat":{"id":42,"type":"private"},"text":"/start"}}]}`))
	}))
	defer srv.Close()

	client := NewPollingClient(srv.URL+"/botTOKEN/", time.Second)
	updates, err := client.GetUpdates(context.Background(), 7, 0)
	require.NoError(t, err)

	assert.Equal(t, "/botTOKEN/getUpdates", path)
	assert.Equal(t, "7", offset)
	require.Len(t, updates, 1)
	assert.Equal(t, int64(7), updates[0].UpdateID)
	require.NotNil(t, updates[0].Message)
	assert.Equal(t, "/start", updates[0].Message.Text)
	assert.Equal(t, int64(42), updates[0].Message.From.ID)
}

func TestPollingClient_Unauthorized(t *testing.T) {
	srv := newServer(t, http.StatusUnauthorized, `{"ok":false,"error_code":401,"description":"Unauthorized"}`, nil)
	client := NewPollingClient(srv.URL+"/botTOKEN/", time.Second)

	_, err := client.GetUpdates(context.Background(), 0, 0)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 401, apiErr.Code)
}
