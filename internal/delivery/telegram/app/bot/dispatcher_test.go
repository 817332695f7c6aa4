// internal/delivery/telegram/app/bot/dispatcher_test.go
package bot

import (
	"context"
	"testing"

	"crypto-exchange-trading-bot/internal/delivery/telegram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSenderID(t *testing.T) {
	assert.Equal(t, ownerID, senderID(textUpdate(1, ownerID, "/help")))
	assert.Equal(t, int64(9), senderID(&telegram.TelegramUpdate{
		CallbackQuery: &telegram.CallbackQuery{ID: "cb", From: telegram.User{ID: 9}},
	}))
	assert.Equal(t, int64(0), senderID(&telegram.TelegramUpdate{UpdateID: 3}))
}

func TestDispatcher_SameUserInArrivalOrder(t *testing.T) {
	env := newTestEnv(t, nil)
	d := NewUpdateDispatcher(env.bot)
	ctx := context.Background()

	d.Dispatch(ctx, textUpdate(1, ownerID, "/buy"))
	d.Dispatch(ctx, textUpdate(2, ownerID, "eth 50"))
	d.Dispatch(ctx, textUpdate(3, ownerID, "btc"))
	d.Wait()

	placed := env.gateway.PlacedOrders()
	require.Len(t, placed, 1)
	assert.Equal(t, "ETHUSDT", placed[0].Symbol)
	assert.Len(t, env.client.messages(), 3)

	d.mu.Lock()
	assert.Empty(t, d.queues)
	d.mu.Unlock()
}
