// internal/delivery/telegram/app/bot/handlers/types.go
package handlers

import (
	"context"
	"strings"

	"crypto-exchange-trading-bot/internal/core/domain/trading"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/formatters"
	"crypto-exchange-trading-bot/internal/delivery/telegram/services/trading_session"
	"crypto-exchange-trading-bot/internal/infrastructure/persistence/journal"

	"github.com/shopspring/decimal"
)

// HandlerType тип хэндлера
type HandlerType string

const (
	TypeCommand HandlerType = "command"
	TypeMessage HandlerType = "message"
)

// Handler интерфейс для всех хэндлеров
type Handler interface {
	Execute(ctx context.Context, params HandlerParams) (HandlerResult, error)
	GetName() string
	GetCommand() string
	GetType() HandlerType
}

// HandlerParams параметры вызова хэндлера
type HandlerParams struct {
	UserID   int64
	ChatID   int64
	Command  string   // без "/", пусто для свободного текста
	Args     []string // аргументы команды
	Text     string   // исходный текст
	UpdateID int64

	// Abandoned true, если новая команда сбросила незавершенную
	Abandoned bool
}

// HandlerResult результат хэндлера
type HandlerResult struct {
	Message  string                 `json:"message"`
	Keyboard interface{}            `json:"keyboard,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Dependencies контекст сервисов, создается один раз при старте
type Dependencies struct {
	Trading    *trading.Service
	Sessions   trading_session.Service
	Journal    journal.Repository
	Formatters *formatters.FormatterProvider

	DefaultQuoteAmount decimal.Decimal
	TransferAsset      string
	HistoryLimit       int
}

// ParseCommand разбирает "/buy@bot BTC 100" на команду и аргументы.
// Для текста без "/" команда пустая, аргументы это слова текста.
func ParseCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", nil
	}
	if !strings.HasPrefix(fields[0], "/") {
		return "", fields
	}

	command := strings.TrimPrefix(fields[0], "/")
	if at := strings.Index(command, "@"); at >= 0 {
		command = command[:at]
	}
	return strings.ToLower(command), fields[1:]
}
