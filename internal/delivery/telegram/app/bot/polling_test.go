// internal/delivery/telegram/app/bot/polling_test.go
package bot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"crypto-exchange-trading-bot/internal/delivery/telegram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedFetcher отдает пачки по очереди, затем ждет отмены
type scriptedFetcher struct {
	mu      sync.Mutex
	batches [][]telegram.TelegramUpdate
	errs    []error
	offsets []int64
}

func (f *scriptedFetcher) GetUpdates(ctx context.Context, offset int64, _ int) ([]telegram.TelegramUpdate, error) {
	f.mu.Lock()
	f.offsets = append(f.offsets, offset)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		f.mu.Unlock()
		return nil, err
	}
	if len(f.batches) > 0 {
		batch := f.batches[0]
		f.batches = f.batches[1:]
		f.mu.Unlock()
		return batch, nil
	}
	f.mu.Unlock()

	<-ctx.Done()
	return nil, ctx.Err()
}

func (f *scriptedFetcher) seenOffsets() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.offsets...)
}

func TestPolling_DispatchesAndAdvancesOffset(t *testing.T) {
	env := newTestEnv(t, nil)
	fetcher := &scriptedFetcher{
		batches: [][]telegram.TelegramUpdate{
			{*textUpdate(10, ownerID, "/buy BTC 100"), *textUpdate(11, ownerID, "/buy ETH 50")},
			{*textUpdate(12, ownerID, "/help")},
		},
	}
	pc := NewPollingClient(env.bot, fetcher)

	require.NoError(t, pc.Start(context.Background()))
	assert.Error(t, pc.Start(context.Background()))

	require.Eventually(t, func() bool {
		return len(env.client.messages()) == 3
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, pc.Stop(time.Second))
	assert.False(t, pc.IsRunning())

	offsets := fetcher.seenOffsets()
	require.GreaterOrEqual(t, len(offsets), 3)
	assert.Equal(t, []int64{0, 12, 13}, offsets[:3])
	assert.Len(t, env.gateway.PlacedOrders(), 2)
}

func TestPolling_RetriesAfterError(t *testing.T) {
	env := newTestEnv(t, nil)
	fetcher := &scriptedFetcher{
		errs:    []error{errors.New("connection reset")},
		batches: [][]telegram.TelegramUpdate{{*textUpdate(1, ownerID, "/help")}},
	}
	pc := NewPollingClient(env.bot, fetcher)
	pc.retryInterval = 10 * time.Millisecond

	require.NoError(t, pc.Start(context.Background()))
	require.Eventually(t, func() bool {
		return len(env.client.messages()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, pc.Stop(time.Second))
}

func TestStartPolling_DeletesWebhook(t *testing.T) {
	env := newTestEnv(t, nil)
	env.bot.pollingHandler = NewPollingClient(env.bot, &scriptedFetcher{})

	require.NoError(t, env.bot.StartPolling(context.Background()))
	assert.True(t, env.bot.IsPolling())
	require.NoError(t, env.bot.StopPolling(time.Second))

	assert.Equal(t, 1, env.client.unhooked)
}

func TestPolling_KeepsOrderWithinBatchForOneUser(t *testing.T) {
	for i := 0; i < 20; i++ {
		env := newTestEnv(t, nil)
		fetcher := &scriptedFetcher{
			batches: [][]telegram.TelegramUpdate{
				{*textUpdate(1, ownerID, "/buy"), *textUpdate(2, ownerID, "btc")},
			},
		}
		pc := NewPollingClient(env.bot, fetcher)

		require.NoError(t, pc.Start(context.Background()))
		require.Eventually(t, func() bool {
			return len(env.client.messages()) == 2
		}, 2*time.Second, 5*time.Millisecond)
		require.NoError(t, pc.Stop(time.Second))

		msgs := env.client.messages()
		assert.Contains(t, msgs[0].Text, "Покупка")
		assert.True(t, env.sessions.Get(ownerID).Pending.IsIdle())
		require.Len(t, env.gateway.PlacedOrders(), 1)
		assert.Equal(t, "BTCUSDT", env.gateway.PlacedOrders()[0].Symbol)
	}
}

func TestPolling_OtherUsersDoNotWaitForOwner(t *testing.T) {
	env := newTestEnv(t, nil)
	stranger := int64(7)
	fetcher := &scriptedFetcher{
		batches: [][]telegram.TelegramUpdate{
			{*textUpdate(1, ownerID, "/buy"), *textUpdate(2, stranger, "/buy"), *textUpdate(3, ownerID, "eth")},
		},
	}
	pc := NewPollingClient(env.bot, fetcher)

	require.NoError(t, pc.Start(context.Background()))
	require.Eventually(t, func() bool {
		return len(env.client.messages()) == 3
	}, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, pc.Stop(time.Second))

	var own []string
	for _, m := range env.client.messages() {
		if m.ChatID == ownerID {
			own = append(own, m.Text)
		}
	}
	require.Len(t, own, 2)
	assert.Contains(t, own[0], "Покупка")
	assert.True(t, env.sessions.Get(ownerID).Pending.IsIdle())
	require.Len(t, env.gateway.PlacedOrders(), 1)
	assert.Equal(t, "ETHUSDT", env.gateway.PlacedOrders()[0].Symbol)
}
