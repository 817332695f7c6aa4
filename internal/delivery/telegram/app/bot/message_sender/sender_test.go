// internal/delivery/telegram/app/bot/message_sender/sender_test.go
package message_sender

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"crypto-exchange-trading-bot/internal/delivery/telegram/app/http_client"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sendCall struct {
	Text      string
	ParseMode string
	Keyboard  interface{}
}

// scriptedAPI возвращает ошибки по очереди, затем nil
type scriptedAPI struct {
	errs  []error
	calls []sendCall
}

func (s *scriptedAPI) SendMessage(_ context.Context, _ int64, text, parseMode string, keyboard interface{}) error {
	s.calls = append(s.calls, sendCall{Text: text, ParseMode: parseMode, Keyboard: keyboard})
	if len(s.errs) == 0 {
		return nil
	}
	err := s.errs[0]
	s.errs = s.errs[1:]
	return err
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, SplitMessage("short", 10))

	text := strings.Repeat("line\n", 10)
	chunks := SplitMessage(text, 12)
	require.Greater(t, len(chunks), 1)
	assert.Equal(t, text, strings.Join(chunks, ""))
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 12)
	}

	long := strings.Repeat("ж", 25)
	chunks = SplitMessage(long, 10)
	require.Len(t, chunks, 3)
	assert.Equal(t, long, strings.Join(chunks, ""))
}

func TestSendTextMessage_KeyboardOnLastChunk(t *testing.T) {
	api := &scriptedAPI{}
	sender := NewMessageSender(api, 0)
	keyboard := map[string]string{"k": "v"}

	text := strings.Repeat(strings.Repeat("x", 100)+"\n", 60)
	require.NoError(t, sender.SendTextMessage(context.Background(), 1, text, keyboard))

	require.Greater(t, len(api.calls), 1)
	for _, c := range api.calls[:len(api.calls)-1] {
		assert.Nil(t, c.Keyboard)
	}
	assert.Equal(t, keyboard, api.calls[len(api.calls)-1].Keyboard)
}

func TestSendTextMessage_FallsBackToPlainText(t *testing.T) {
	api := &scriptedAPI{errs: []error{
		&http_client.APIError{Method: "sendMessage", Code: 400, Description: "Bad Request: can't parse entities: unmatched"},
	}}
	sender := NewMessageSender(api, 0)

	require.NoError(t, sender.SendTextMessage(context.Background(), 1, "BTC_USDT *", nil))
	require.Len(t, api.calls, 2)
	assert.Equal(t, "Markdown", api.calls[0].ParseMode)
	assert.Equal(t, "", api.calls[1].ParseMode)
}

func TestSendTextMessage_RetriesAfterShortFloodWait(t *testing.T) {
	api := &scriptedAPI{errs: []error{
		&http_client.APIError{Method: "sendMessage", Code: 429, RetryAfter: 10 * time.Millisecond},
	}}
	sender := NewMessageSender(api, 0)

	require.NoError(t, sender.SendTextMessage(context.Background(), 1, "hi", nil))
	assert.Len(t, api.calls, 2)
}

func TestSendTextMessage_LongFloodWaitNotRetried(t *testing.T) {
	api := &scriptedAPI{errs: []error{
		&http_client.APIError{Method: "sendMessage", Code: 429, RetryAfter: time.Minute},
	}}
	sender := NewMessageSender(api, 0)

	err := sender.SendTextMessage(context.Background(), 1, "hi", nil)
	require.Error(t, err)
	assert.Len(t, api.calls, 1)
}

func TestSendTextMessage_TransportErrorReturned(t *testing.T) {
	api := &scriptedAPI{errs: []error{errors.New("connection refused")}}
	sender := NewMessageSender(api, 0)

	err := sender.SendTextMessage(context.Background(), 1, "hi", nil)
	require.Error(t, err)
	assert.Len(t, api.calls, 1)
}

func TestRateLimiter(t *testing.T) {
	unlimited := NewRateLimiter(0)
	for i := 0; i < 100; i++ {
		assert.True(t, unlimited.CanSend())
	}

	limited := NewRateLimiter(1)
	assert.True(t, limited.CanSend())
	assert.False(t, limited.CanSend())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, limited.Wait(ctx))
}
