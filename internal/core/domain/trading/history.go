// internal/core/domain/trading/history.go
package trading

import (
	"context"
	"sort"
	"time"
)

// HistoryService последние сделки по паре
type HistoryService struct {
	gateway      Gateway
	timeout      time.Duration
	defaultLimit int
}

func NewHistoryService(gw Gateway, timeout time.Duration, defaultLimit int) *HistoryService {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &HistoryService{gateway: gw, timeout: timeout, defaultLimit: defaultLimit}
}

// Recent возвращает сделки от новых к старым
func (s *HistoryService) Recent(ctx context.Context, symbol string, limit int) ([]Trade, error) {
	const op = "HistoryService.Recent"

	if symbol == "" {
		return nil, NewError(KindInvalidInput, op, "symbol is required")
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}

	callCtx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	trades, err := s.gateway.GetMyTrades(callCtx, symbol, limit)
	if err != nil {
		return nil, classify(op, KindInvalidInput, err)
	}

	sort.SliceStable(trades, func(i, j int) bool { return trades[i].Time.After(trades[j].Time) })
	if len(trades) > limit {
		trades = trades[:limit]
	}
	return trades, nil
}
