// internal/core/domain/trading/account.go
package trading

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// AccountSnapshot балансы и позиции одного запроса
type AccountSnapshot struct {
	Balances        []Balance
	FuturesBalances []Balance
	Positions       []Position
	SpotErr         error
	FuturesErr      error
	FetchedAt       time.Time
}

// Degraded одна из половин не получена
func (s *AccountSnapshot) Degraded() bool {
	return s.SpotErr != nil || s.FuturesErr != nil
}

// Err возвращает ошибку Degraded для частичного снимка
func (s *AccountSnapshot) Err() error {
	switch {
	case s.SpotErr != nil:
		return &Error{Kind: KindDegraded, Op: "AccountService.Snapshot", Reason: "spot account unavailable", Err: s.SpotErr}
	case s.FuturesErr != nil:
		return &Error{Kind: KindDegraded, Op: "AccountService.Snapshot", Reason: "futures account unavailable", Err: s.FuturesErr}
	}
	return nil
}

// AccountService строит AccountSnapshot на каждый запрос, без кеша
type AccountService struct {
	gateway Gateway
	timeout time.Duration
	now     func() time.Time
}

func NewAccountService(gw Gateway, timeout time.Duration) *AccountService {
	return &AccountService{gateway: gw, timeout: timeout, now: time.Now}
}

// Snapshot опрашивает спот и фьючерсы параллельно.
// Ошибка возвращается только когда недоступны обе половины.
func (s *AccountService) Snapshot(ctx context.Context) (*AccountSnapshot, error) {
	const op = "AccountService.Snapshot"

	var (
		spot      *SpotAccount
		futures   *FuturesAccount
		positions []Position
		spotErr   error
		futErr    error
		posErr    error
	)

	// Каждая горутина сохраняет свою ошибку, чтобы сбой одной половины не отменял другую
	var g errgroup.Group
	g.Go(func() error {
		callCtx, cancel := withTimeout(ctx, s.timeout)
		defer cancel()
		spot, spotErr = s.gateway.GetAccount(callCtx)
		return nil
	})
	g.Go(func() error {
		callCtx, cancel := withTimeout(ctx, s.timeout)
		defer cancel()
		futures, futErr = s.gateway.GetFuturesAccount(callCtx)
		return nil
	})
	g.Go(func() error {
		callCtx, cancel := withTimeout(ctx, s.timeout)
		defer cancel()
		positions, posErr = s.gateway.GetFuturesPositions(callCtx)
		return nil
	})
	_ = g.Wait()

	if futErr == nil {
		futErr = posErr
	}

	if spotErr != nil && futErr != nil {
		return nil, &Error{Kind: KindGatewayUnavailable, Op: op, Reason: "spot and futures queries failed", Err: spotErr}
	}

	snap := &AccountSnapshot{SpotErr: spotErr, FuturesErr: futErr, FetchedAt: s.now()}
	if spotErr == nil && spot != nil {
		snap.Balances = nonZeroBalances(spot.Balances)
	}
	if futErr == nil {
		if futures != nil {
			snap.FuturesBalances = nonZeroBalances(futures.Balances)
		}
		snap.Positions = openPositions(positions)
	}
	return snap, nil
}

func nonZeroBalances(in []Balance) []Balance {
	out := make([]Balance, 0, len(in))
	for _, b := range in {
		if b.Free.IsZero() {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Asset < out[j].Asset })
	return out
}

func openPositions(in []Position) []Position {
	out := make([]Position, 0, len(in))
	for _, p := range in {
		if p.Amount.IsZero() {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}
