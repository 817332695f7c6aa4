// internal/delivery/telegram/app/bot/handlers/commands/cancel/handler.go
package cancel

import (
	"context"
	"fmt"
	"strings"

	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/constants"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/base"
	"crypto-exchange-trading-bot/internal/infrastructure/persistence/journal"
)

// cancelCommandHandler /cancel SYMBOL отменяет заявки, /cancel без аргументов сбрасывает диалог
type cancelCommandHandler struct {
	*base.BaseHandler
	deps *handlers.Dependencies
}

// NewHandler создает обработчик команды /cancel
func NewHandler(deps *handlers.Dependencies) handlers.Handler {
	return &cancelCommandHandler{
		BaseHandler: &base.BaseHandler{
			Name:    "cancel_command_handler",
			Command: constants.CommandCancel,
			Type:    handlers.TypeCommand,
		},
		deps: deps,
	}
}

func (h *cancelCommandHandler) Execute(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	// Незавершенную сессию уже сбросил роутер
	if len(params.Args) == 0 {
		if params.Abandoned {
			return handlers.HandlerResult{Message: constants.SessionCanceledText}, nil
		}
		return handlers.HandlerResult{Message: constants.NothingToCancelText}, nil
	}

	symbol := h.deps.Trading.Format.Normalize(params.Args[0])
	report, err := h.deps.Trading.Executor.CancelAll(ctx, symbol)

	entry := &journal.Entry{
		UserID: params.UserID,
		Action: constants.CommandCancel,
		Symbol: symbol,
		Status: base.StatusOf(err),
	}
	switch {
	case err != nil:
		entry.Detail = err.Error()
	case len(report.Failed) > 0:
		entry.Status = journal.StatusPartial
		ids := make([]string, 0, len(report.Failed))
		for _, f := range report.Failed {
			ids = append(ids, f.OrderID)
		}
		entry.Detail = fmt.Sprintf("canceled %d, failed: %s", len(report.Canceled), strings.Join(ids, ", "))
	default:
		entry.Detail = fmt.Sprintf("canceled %d", len(report.Canceled))
	}
	h.Record(ctx, h.deps.Journal, entry)

	if err != nil {
		return handlers.HandlerResult{}, err
	}
	return handlers.HandlerResult{
		Message: h.deps.Formatters.Trading.Cancel(report),
		Metadata: map[string]interface{}{
			"canceled": len(report.Canceled),
			"failed":   len(report.Failed),
		},
	}, nil
}
