// internal/delivery/telegram/app/bot/middlewares/auth.go
package middlewares

import (
	"crypto-exchange-trading-bot/internal/core/domain/trading"
	"crypto-exchange-trading-bot/internal/delivery/telegram"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers"
	"crypto-exchange-trading-bot/pkg/logger"

	"github.com/pkg/errors"
)

// ErrNoSender обновление без пользователя или текста, отвечать некому
var ErrNoSender = errors.New("update has no sender")

// AuthMiddleware - доступ только для владельца бота
type AuthMiddleware struct {
	ownerID int64
}

// NewAuthMiddleware создает middleware с идентификатором владельца
func NewAuthMiddleware(ownerID int64) *AuthMiddleware {
	return &AuthMiddleware{ownerID: ownerID}
}

// Authorize сравнивает отправителя с владельцем. Побочных эффектов нет.
func (m *AuthMiddleware) Authorize(userID int64) bool {
	return m.ownerID != 0 && userID == m.ownerID
}

// ProcessUpdate извлекает параметры из обновления и проверяет доступ.
// При отказе параметры все равно содержат ChatID для ответа,
// а ошибка имеет категорию Unauthorized.
func (m *AuthMiddleware) ProcessUpdate(update *telegram.TelegramUpdate) (handlers.HandlerParams, error) {
	params := handlers.HandlerParams{UpdateID: update.UpdateID}

	switch {
	case update.Message != nil && update.Message.From != nil:
		params.UserID = update.Message.From.ID
		params.ChatID = update.Message.Chat.ID
		params.Text = update.Message.Text

	case update.CallbackQuery != nil:
		params.UserID = update.CallbackQuery.From.ID
		params.Text = update.CallbackQuery.Data
		if update.CallbackQuery.Message != nil {
			params.ChatID = update.CallbackQuery.Message.Chat.ID
		} else {
			params.ChatID = params.UserID
		}

	default:
		logger.Debug("ProcessUpdate: обновление %d без отправителя", update.UpdateID)
		return params, ErrNoSender
	}

	if params.UserID == 0 {
		return params, ErrNoSender
	}

	if !m.Authorize(params.UserID) {
		logger.Warn("⛔ ProcessUpdate: отказ в доступе пользователю %d (чат %d)", params.UserID, params.ChatID)
		return params, trading.NewError(trading.KindUnauthorized, "AuthMiddleware", "not the owner")
	}

	params.Command, params.Args = handlers.ParseCommand(params.Text)
	logger.Debug("🔍 ProcessUpdate: пользователь %d, команда %q, аргументов %d",
		params.UserID, params.Command, len(params.Args))
	return params, nil
}
