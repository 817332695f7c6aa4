// internal/delivery/telegram/app/bot/handlers/router/router.go
package router

import (
	"context"
	"sort"
	"strings"

	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/constants"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers"
	"crypto-exchange-trading-bot/internal/delivery/telegram/services/trading_session"
	"crypto-exchange-trading-bot/pkg/logger"
)

// Router интерфейс маршрутизатора хэндлеров
type Router interface {
	RegisterHandler(handler handlers.Handler)                // по GetCommand()
	RegisterCommand(command string, handler handlers.Handler) // псевдоним команды
	SetMessageHandler(handler handlers.Handler)               // свободный текст
	Handle(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error)
	GetHandler(command string) (handlers.Handler, bool)
	GetCommands() []string
}

// routerImpl реализация Router. Регистрация только при старте.
type routerImpl struct {
	handlers map[string]handlers.Handler
	message  handlers.Handler
	sessions trading_session.Service
}

// NewRouter создает новый роутер; sessions сбрасываются при каждой новой команде
func NewRouter(sessions trading_session.Service) Router {
	return &routerImpl{
		handlers: make(map[string]handlers.Handler),
		sessions: sessions,
	}
}

// RegisterHandler регистрирует хэндлер команды
func (r *routerImpl) RegisterHandler(handler handlers.Handler) {
	if handler.GetType() == handlers.TypeMessage {
		r.SetMessageHandler(handler)
		return
	}
	r.RegisterCommand(handler.GetCommand(), handler)
}

// RegisterCommand регистрирует команду (с "/" или без)
func (r *routerImpl) RegisterCommand(command string, handler handlers.Handler) {
	command = strings.ToLower(strings.TrimPrefix(command, "/"))
	r.handlers[command] = handler
	logger.Debug("Зарегистрирована команда: /%s → %s", command, handler.GetName())
}

// SetMessageHandler задает обработчик ответов на незавершенные команды
func (r *routerImpl) SetMessageHandler(handler handlers.Handler) {
	r.message = handler
	logger.Debug("Зарегистрирован обработчик текста: %s", handler.GetName())
}

// Handle обрабатывает команду или свободный текст.
// Любая известная команда сначала сбрасывает незавершенную сессию.
func (r *routerImpl) Handle(ctx context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	if params.Command == "" {
		if r.message == nil {
			return handlers.HandlerResult{Message: constants.NoPendingText}, nil
		}
		return r.executeHandler(ctx, r.message, "text", params)
	}

	handler, exists := r.handlers[params.Command]
	if !exists {
		logger.Debug("Неизвестная команда /%s от %d", params.Command, params.UserID)
		return handlers.HandlerResult{Message: constants.UnknownCommandText}, nil
	}

	if r.sessions != nil {
		params.Abandoned = r.sessions.Abandon(params.UserID)
		if params.Abandoned {
			logger.Debug("💬 Команда /%s сбросила незавершенную сессию %d", params.Command, params.UserID)
		}
	}

	return r.executeHandler(ctx, handler, "/"+params.Command, params)
}

// executeHandler выполняет обработчик
func (r *routerImpl) executeHandler(ctx context.Context, handler handlers.Handler, command string, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	logger.Debug("Вызов хэндлера: %s для: %s", handler.GetName(), command)

	result, err := handler.Execute(ctx, params)
	if err != nil {
		logger.Warn("Ошибка в хэндлере %s для %s: %v", handler.GetName(), command, err)
		return handlers.HandlerResult{}, err
	}

	logger.Debug("Хэндлер %s для %s выполнен успешно", handler.GetName(), command)
	return result, nil
}

// GetHandler возвращает хэндлер по команде
func (r *routerImpl) GetHandler(command string) (handlers.Handler, bool) {
	handler, exists := r.handlers[strings.TrimPrefix(command, "/")]
	return handler, exists
}

// GetCommands возвращает отсортированный список команд (с /)
func (r *routerImpl) GetCommands() []string {
	commands := make([]string, 0, len(r.handlers))
	for cmd := range r.handlers {
		commands = append(commands, "/"+cmd)
	}
	sort.Strings(commands)
	return commands
}

var _ Router = (*routerImpl)(nil)
