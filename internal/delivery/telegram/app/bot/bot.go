// internal/delivery/telegram/app/bot/bot.go
package bot

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"crypto-exchange-trading-bot/internal/core/domain/trading"
	"crypto-exchange-trading-bot/internal/delivery/telegram"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/constants"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/formatters"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/router"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/message_sender"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/middlewares"
	telegram_http "crypto-exchange-trading-bot/internal/delivery/telegram/app/http_client"
	redis_cache "crypto-exchange-trading-bot/internal/infrastructure/cache/redis"
	"crypto-exchange-trading-bot/internal/infrastructure/config"
	"crypto-exchange-trading-bot/pkg/logger"

	"github.com/pkg/errors"
)

// TelegramAPI методы Bot API, которые использует бот
type TelegramAPI interface {
	message_sender.TelegramAPI
	AnswerCallbackQuery(ctx context.Context, callbackID string) error
	SetMyCommands(ctx context.Context, commands []telegram.BotCommand) error
	SetWebhook(ctx context.Context, url, secretToken string) error
	DeleteWebhook(ctx context.Context) error
}

// TelegramBot - торговый бот одного владельца
type TelegramBot struct {
	config *config.Config

	telegramClient TelegramAPI
	messageSender  message_sender.MessageSender

	router         router.Router
	authMiddleware *middlewares.AuthMiddleware
	errors         *formatters.ErrorFormatter
	dedup          redis_cache.UpdateDeduplicator

	pollingHandler *PollingClient

	startupTime time.Time
}

// Dependencies зависимости для TelegramBot
type Dependencies struct {
	Services handlers.Dependencies
	// Dedup отбрасывает повторно доставленные обновления; nil без проверки
	Dedup redis_cache.UpdateDeduplicator
	// Client Bot API; nil создает HTTP клиент по конфигурации
	Client TelegramAPI
}

// NewTelegramBot создает новый экземпляр TelegramBot
func NewTelegramBot(cfg *config.Config, deps *Dependencies) *TelegramBot {
	baseURL := cfg.GetTelegramBaseURL()

	client := deps.Client
	if client == nil {
		client = telegram_http.NewTelegramClient(baseURL, 30*time.Second)
	}

	services := deps.Services
	if services.Formatters == nil {
		services.Formatters = formatters.NewFormatterProvider(services.Trading.Format)
	}

	rt := router.NewRouter(services.Sessions)
	InitHandlers(rt, cfg, &services)

	bot := &TelegramBot{
		config:         cfg,
		telegramClient: client,
		messageSender:  message_sender.NewMessageSender(client, cfg.Telegram.SendRatePerSec),
		router:         rt,
		authMiddleware: middlewares.NewAuthMiddleware(cfg.Telegram.OwnerID),
		errors:         services.Formatters.Errors,
		dedup:          deps.Dedup,
		startupTime:    time.Now(),
	}

	pollTimeout := time.Duration(cfg.Polling.Timeout) * time.Second
	bot.pollingHandler = NewPollingClient(bot, telegram_http.NewPollingClient(baseURL, pollTimeout))

	return bot
}

// HandleUpdate обрабатывает одно обновление. Обновления разных пользователей
// приходят конкурентно, одного пользователя - по очереди из UpdateDispatcher.
func (b *TelegramBot) HandleUpdate(ctx context.Context, update *telegram.TelegramUpdate) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("🔥 Паника при обработке обновления %d: %v\n%s", update.UpdateID, r, debug.Stack())
			err = fmt.Errorf("panic in update %d: %v", update.UpdateID, r)
		}
	}()

	if b.dedup != nil && !b.dedup.FirstSeen(ctx, update.UpdateID) {
		logger.Debug("Повторное обновление %d пропущено", update.UpdateID)
		return nil
	}

	params, err := b.authMiddleware.ProcessUpdate(update)
	if err != nil {
		if trading.KindOf(err) == trading.KindUnauthorized && params.ChatID != 0 {
			return b.messageSender.SendTextMessage(ctx, params.ChatID, constants.UnauthorizedText, nil)
		}
		return nil
	}

	if update.CallbackQuery != nil {
		if err := b.telegramClient.AnswerCallbackQuery(ctx, update.CallbackQuery.ID); err != nil {
			logger.Debug("answerCallbackQuery: %v", err)
		}
	}

	result, err := b.router.Handle(ctx, params)
	if err != nil {
		result = handlers.HandlerResult{Message: b.errors.Format(err)}
	}
	if result.Message == "" {
		return nil
	}

	if err := b.messageSender.SendTextMessage(ctx, params.ChatID, result.Message, result.Keyboard); err != nil {
		return errors.Wrapf(err, "send reply to %d", params.ChatID)
	}
	return nil
}

// StartPolling снимает webhook и запускает long polling
func (b *TelegramBot) StartPolling(ctx context.Context) error {
	if err := b.telegramClient.DeleteWebhook(ctx); err != nil {
		logger.Warn("⚠️ Не удалось снять webhook: %v", err)
	}
	return b.pollingHandler.Start(ctx)
}

// StopPolling останавливает polling и ждет обработки принятых обновлений
func (b *TelegramBot) StopPolling(timeout time.Duration) error {
	return b.pollingHandler.Stop(timeout)
}

func (b *TelegramBot) IsPolling() bool {
	return b.pollingHandler != nil && b.pollingHandler.IsRunning()
}

// GetRouter возвращает роутер
func (b *TelegramBot) GetRouter() router.Router {
	return b.router
}

// Uptime время с момента создания бота
func (b *TelegramBot) Uptime() time.Duration {
	return time.Since(b.startupTime)
}

// SetMyCommands устанавливает меню команд в Telegram
func (b *TelegramBot) SetMyCommands(ctx context.Context) error {
	logger.Info("Установка меню команд в Telegram API")

	commands := []telegram.BotCommand{
		{Command: constants.CommandStart, Description: constants.CommandDescriptions.Start},
		{Command: constants.CommandBuy, Description: constants.CommandDescriptions.Buy},
		{Command: constants.CommandSell, Description: constants.CommandDescriptions.Sell},
		{Command: constants.CommandBalance, Description: constants.CommandDescriptions.Balance},
		{Command: constants.CommandHistory, Description: constants.CommandDescriptions.History},
		{Command: constants.CommandCancel, Description: constants.CommandDescriptions.Cancel},
		{Command: constants.CommandOpen, Description: constants.CommandDescriptions.Open},
		{Command: constants.CommandTransfer, Description: constants.CommandDescriptions.Transfer},
		{Command: constants.CommandJournal, Description: constants.CommandDescriptions.Journal},
		{Command: constants.CommandHelp, Description: constants.CommandDescriptions.Help},
	}

	if err := b.telegramClient.SetMyCommands(ctx, commands); err != nil {
		logger.Error("Ошибка установки меню команд: %v", err)
		return fmt.Errorf("ошибка настройки меню команд: %w", err)
	}

	for _, cmd := range commands {
		logger.Debug("   • /%s - %s", cmd.Command, cmd.Description)
	}
	logger.Info("Меню команд успешно отправлено в Telegram API")
	return nil
}
