// internal/delivery/telegram/services/trading_session/service_test.go
package trading_session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"crypto-exchange-trading-bot/internal/core/domain/trading"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestService(ttl time.Duration) (*serviceImpl, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	return newService(ttl, clock.Now), clock
}

func TestService_BuyWithoutSymbolThenFreeText(t *testing.T) {
	svc, _ := newTestService(time.Minute)

	assert.True(t, svc.Get(1).Pending.IsIdle())

	svc.Begin(1, AwaitingSymbol(trading.SideBuy))
	got := svc.Get(1)
	assert.Equal(t, StateAwaitingSymbol, got.Pending.State)
	assert.Equal(t, trading.SideBuy, got.Pending.Side)

	claimed, ok := svc.Claim(1)
	require.True(t, ok)
	assert.True(t, claimed.Claimed)

	// результат исполнения не важен, сессия возвращается в Idle
	require.True(t, svc.Commit(claimed, Idle()))
	assert.True(t, svc.Get(1).Pending.IsIdle())
	assert.False(t, svc.Get(1).Claimed)
}

func TestService_ClaimRefusesIdleAndDoubleClaim(t *testing.T) {
	svc, _ := newTestService(time.Minute)

	_, ok := svc.Claim(1)
	assert.False(t, ok, "unknown user")

	svc.Begin(1, AwaitingSymbol(trading.SideSell))
	_, ok = svc.Claim(1)
	require.True(t, ok)

	_, ok = svc.Claim(1)
	assert.False(t, ok, "second claim while first is in flight")
}

func TestService_NewCommandWinsOverInFlightCommit(t *testing.T) {
	svc, _ := newTestService(time.Minute)

	svc.Begin(1, AwaitingSymbol(trading.SideBuy))
	claimed, ok := svc.Claim(1)
	require.True(t, ok)

	// пока идет сетевой вызов, пользователь начал перевод
	svc.Begin(1, AwaitingTransferAmount(trading.TransferToFutures))

	assert.False(t, svc.Commit(claimed, Idle()))
	got := svc.Get(1)
	assert.Equal(t, StateAwaitingTransferAmount, got.Pending.State)
	assert.Equal(t, trading.TransferToFutures, got.Pending.Direction)
}

func TestService_CommitKeepsPendingForRetry(t *testing.T) {
	svc, _ := newTestService(time.Minute)

	svc.Begin(1, AwaitingFuturesSide("BTCUSDT", "100"))
	claimed, ok := svc.Claim(1)
	require.True(t, ok)

	require.True(t, svc.Commit(claimed, claimed.Pending))
	got := svc.Get(1)
	assert.Equal(t, StateAwaitingFuturesSide, got.Pending.State)
	assert.Equal(t, "BTCUSDT", got.Pending.Data[DataSymbol])

	_, ok = svc.Claim(1)
	assert.True(t, ok)
}

func TestService_Abandon(t *testing.T) {
	svc, _ := newTestService(time.Minute)

	assert.False(t, svc.Abandon(1))

	svc.Begin(1, AwaitingSymbol(trading.SideBuy))
	assert.True(t, svc.Abandon(1))
	assert.True(t, svc.Get(1).Pending.IsIdle())
	assert.False(t, svc.Abandon(1))
}

func TestService_Expiry(t *testing.T) {
	svc, clock := newTestService(5 * time.Minute)

	svc.Begin(1, AwaitingSymbol(trading.SideBuy))
	svc.Begin(2, AwaitingSymbol(trading.SideSell))

	clock.Advance(3 * time.Minute)
	svc.Begin(2, AwaitingSymbol(trading.SideSell))
	clock.Advance(3 * time.Minute)

	_, ok := svc.Claim(1)
	assert.False(t, ok, "expired session must not resolve")
	assert.True(t, svc.Get(1).Pending.IsIdle())
	assert.Equal(t, StateAwaitingSymbol, svc.Get(2).Pending.State)

	removed := svc.Sweep()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, svc.Count())
}

func TestService_DataIsCopied(t *testing.T) {
	svc, _ := newTestService(time.Minute)

	p := AwaitingFuturesSide("ETHUSDT", "50")
	svc.Begin(1, p)
	p.Data[DataSymbol] = "HACK"

	got := svc.Get(1)
	assert.Equal(t, "ETHUSDT", got.Pending.Data[DataSymbol])
	got.Pending.Data[DataSymbol] = "HACK"
	assert.Equal(t, "ETHUSDT", svc.Get(1).Pending.Data[DataSymbol])
}

func TestService_ConcurrentClaimsSingleWinner(t *testing.T) {
	svc, _ := newTestService(time.Minute)
	svc.Begin(1, AwaitingSymbol(trading.SideBuy))

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := svc.Claim(1); ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
}

func TestService_UsersAreIndependent(t *testing.T) {
	svc, _ := newTestService(time.Minute)

	var wg sync.WaitGroup
	for u := int64(1); u <= 20; u++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				svc.Begin(userID, AwaitingSymbol(trading.SideBuy))
				if c, ok := svc.Claim(userID); ok {
					svc.Commit(c, Idle())
				}
			}
		}(u)
	}
	wg.Wait()

	for u := int64(1); u <= 20; u++ {
		assert.True(t, svc.Get(u).Pending.IsIdle())
	}
}

func TestService_RunExpiryStopsOnCancel(t *testing.T) {
	svc, _ := newTestService(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		svc.RunExpiry(ctx, 5*time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunExpiry did not stop")
	}
}
