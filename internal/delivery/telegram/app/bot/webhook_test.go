// internal/delivery/telegram/app/bot/webhook_test.go
package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postUpdate(t *testing.T, h http.Handler, secret, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	if secret != "" {
		req.Header.Set(secretTokenHeader, secret)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWebhook_RejectsWrongSecret(t *testing.T) {
	env := newTestEnv(t, nil)
	ws := NewWebhookServer(testConfig(), env.bot)

	body := `{"update_id":1,"message":{"message_id":1,"from":{"id":42},"chat":{"id":42,"type":"private"},"text":"/buy BTC 100"}}`

	rec := postUpdate(t, ws.Handler(), "wrong", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postUpdate(t, ws.Handler(), "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	ws.Wait()
	assert.Empty(t, env.gateway.Calls())
	assert.Empty(t, env.client.messages())
}

func TestWebhook_ProcessesUpdate(t *testing.T) {
	env := newTestEnv(t, nil)
	ws := NewWebhookServer(testConfig(), env.bot)

	body := `{"update_id":1,"message":{"message_id":1,"from":{"id":42},"chat":{"id":42,"type":"private"},"text":"/buy BTC 100"}}`
	rec := postUpdate(t, ws.Handler(), "s3cret", body)
	require.Equal(t, http.StatusOK, rec.Code)

	ws.Wait()
	assert.Len(t, env.gateway.PlacedOrders(), 1)
	assert.Len(t, env.client.messages(), 1)
}

func TestWebhook_BadBody(t *testing.T) {
	env := newTestEnv(t, nil)
	ws := NewWebhookServer(testConfig(), env.bot)

	rec := postUpdate(t, ws.Handler(), "s3cret", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhook_MethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, nil)
	ws := NewWebhookServer(testConfig(), env.bot)

	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestWebhook_Health(t *testing.T) {
	env := newTestEnv(t, nil)
	ws := NewWebhookServer(testConfig(), env.bot)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["webhook_mode"])
}

func TestWebhook_StartRegistersWebhook(t *testing.T) {
	env := newTestEnv(t, nil)
	cfg := testConfig()
	cfg.Webhook.Port = 0
	ws := NewWebhookServer(cfg, env.bot)

	require.NoError(t, ws.Start(context.Background()))
	defer func() { _ = ws.Stop(context.Background()) }()

	assert.Equal(t, cfg.GetWebhookURL(), env.client.webhook)
	assert.Equal(t, "s3cret", env.client.secret)
}

func TestWebhook_KeepsOrderForOneUser(t *testing.T) {
	env := newTestEnv(t, nil)
	ws := NewWebhookServer(testConfig(), env.bot)

	first := `{"update_id":1,"message":{"message_id":1,"from":{"id":42},"chat":{"id":42,"type":"private"},"text":"/buy"}}`
	second := `{"update_id":2,"message":{"message_id":2,"from":{"id":42},"chat":{"id":42,"type":"private"},"text":"btc"}}`
	require.Equal(t, http.StatusOK, postUpdate(t, ws.Handler(), "s3cret", first).Code)
	require.Equal(t, http.StatusOK, postUpdate(t, ws.Handler(), "s3cret", second).Code)

	ws.Wait()
	assert.True(t, env.sessions.Get(ownerID).Pending.IsIdle())
	require.Len(t, env.gateway.PlacedOrders(), 1)
	assert.Equal(t, "BTCUSDT", env.gateway.PlacedOrders()[0].Symbol)
}
