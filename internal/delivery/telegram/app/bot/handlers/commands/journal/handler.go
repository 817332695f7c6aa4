// internal/delivery/telegram/app/bot/handlers/commands/journal/handler.go
package journal

import (
	"context"
	"strconv"

	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/constants"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/base"
	"crypto-exchange-trading-bot/pkg/logger"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

// journalCommandHandler /journal [N] последние записи журнала
type journalCommandHandler struct {
	*base.BaseHandler
	deps *handlers.Dependencies
}

// NewHandler создает обработчик команды /journal
func NewHandler(deps *handlers.Dependencies) handlers.Handler {
	return &journalCommandHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "journal_command_handler",
			Command: constants.CommandJournal,
			Type:    handlers.TypeCommand,
		},
		deps: deps,
	}
}

func (h *journalCommandHandler) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	if h.deps.Journal == nil {
		return handlers.HandlerResult{Message: constants.JournalDisabledText}, nil
	}

	limit := defaultLimit
	if len(params.Args) > 0 {
		if n, err := strconv.Atoi(params.Args[0]); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	entries, err := h.deps.Journal.ListRecent(ctx, params.UserID, limit)
	if err != nil {
		logger.Error("❌ Ошибка чтения журнала: %v", err)
		return handlers.HandlerResult{Message: constants.JournalErrorText}, nil
	}
	if len(entries) == 0 {
		return handlers.HandlerResult{Message: constants.JournalEmptyText}, nil
	}

	return handlers.HandlerResult{Message: h.deps.Formatters.Journal.Entries(entries)}, nil
}
