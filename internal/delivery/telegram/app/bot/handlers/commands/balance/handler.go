// internal/delivery/telegram/app/bot/handlers/commands/balance/handler.go
package balance

import (
	"context"

	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/constants"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/base"
	"crypto-exchange-trading-bot/pkg/logger"
)

// balanceCommandHandler обработчик /balance и /position
type balanceCommandHandler struct {
	*base.BaseHandler
	deps *handlers.Dependencies
}

// NewHandler создает обработчик команды /balance
func NewHandler(deps *handlers.Dependencies) handlers.Handler {
	return &balanceCommandHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "balance_command_handler",
			Command: constants.CommandBalance,
			Type:    handlers.TypeCommand,
		},
		deps: deps,
	}
}

// Execute свежий снимок аккаунта на каждый вызов
func (h *balanceCommandHandler) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	snapshot, err := h.deps.Trading.Accounts.Snapshot(ctx)
	if err != nil {
		return handlers.HandlerResult{}, err
	}
	if snapshot.Degraded() {
		logger.Warn("⚠️ Неполный снимок аккаунта для %d: %v", params.UserID, snapshot.Err())
	}

	return handlers.HandlerResult{
		Message: h.deps.Formatters.Account.Snapshot(snapshot),
		Metadata: map[string]interface{}{
			"degraded":  snapshot.Degraded(),
			"positions": len(snapshot.Positions),
		},
	}, nil
}
