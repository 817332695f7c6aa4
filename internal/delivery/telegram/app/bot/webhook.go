// internal/delivery/telegram/app/bot/webhook.go
package bot

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"crypto-exchange-trading-bot/internal/delivery/telegram"
	"crypto-exchange-trading-bot/internal/infrastructure/config"
	"crypto-exchange-trading-bot/pkg/logger"
	"crypto-exchange-trading-bot/pkg/utils"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// secretTokenHeader заголовок с секретом, заданным при setWebhook
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

const maxUpdateBodyBytes = 1 << 20

// WebhookServer - сервер для обработки webhook запросов от Telegram
type WebhookServer struct {
	config *config.Config
	bot    *TelegramBot
	server *http.Server

	// baseCtx контекст обработчиков, живет дольше HTTP запроса
	baseCtx    context.Context
	dispatcher *UpdateDispatcher
}

// NewWebhookServer создает новый сервер webhook
func NewWebhookServer(cfg *config.Config, bot *TelegramBot) *WebhookServer {
	return &WebhookServer{
		config:     cfg,
		bot:        bot,
		baseCtx:    context.Background(),
		dispatcher: NewUpdateDispatcher(bot),
	}
}

// Handler роутер webhook сервера
func (ws *WebhookServer) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)

	r.Post(ws.config.Webhook.Path, ws.handleWebhook)
	r.Get("/health", ws.handleHealthCheck)

	return r
}

// Start регистрирует webhook в Telegram и запускает HTTP сервер
func (ws *WebhookServer) Start(ctx context.Context) error {
	if ws.bot == nil {
		return fmt.Errorf("telegram bot not initialized")
	}
	ws.baseCtx = context.WithoutCancel(ctx)

	url := ws.config.GetWebhookURL()
	if err := ws.bot.telegramClient.SetWebhook(ctx, url, ws.config.Webhook.SecretToken); err != nil {
		return fmt.Errorf("setWebhook %s: %w", url, err)
	}

	addr := fmt.Sprintf(":%d", ws.config.Webhook.Port)
	ws.server = &http.Server{
		Addr:              addr,
		Handler:           ws.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	logger.Warn("🚀 Запуск webhook сервера на %s%s", addr, ws.config.Webhook.Path)

	go func() {
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("❌ Ошибка webhook сервера: %v", err)
		}
	}()
	return nil
}

// Stop останавливает сервер и ждет обработки принятых обновлений
func (ws *WebhookServer) Stop(ctx context.Context) error {
	if ws.server != nil {
		if err := ws.server.Shutdown(ctx); err != nil {
			return err
		}
	}

	done := make(chan struct{})
	go func() {
		ws.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait ждет завершения обработки всех принятых обновлений
func (ws *WebhookServer) Wait() {
	ws.dispatcher.Wait()
}

// handleWebhook отвечает Telegram сразу, обновление обрабатывается асинхронно
// в очереди отправителя
func (ws *WebhookServer) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if secret := ws.config.Webhook.SecretToken; secret != "" {
		got := r.Header.Get(secretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			logger.Warn("⛔ Webhook запрос с неверным секретом от %s", r.RemoteAddr)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
	}

	var update telegram.TelegramUpdate
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUpdateBodyBytes)).Decode(&update); err != nil {
		logger.Warn("Webhook: невалидное тело запроса: %v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	ws.dispatcher.Dispatch(ws.baseCtx, &update)
	w.WriteHeader(http.StatusOK)
}

// handleHealthCheck обрабатывает запросы проверки здоровья
func (ws *WebhookServer) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	response := map[string]interface{}{
		"status":         "ok",
		"time":           time.Now().Format(time.RFC3339),
		"uptime":         utils.FormatDuration(ws.bot.Uptime()),
		"webhook_mode":   true,
		"webhook_domain": ws.config.Webhook.Domain,
		"webhook_port":   ws.config.Webhook.Port,
	}
	_ = json.NewEncoder(w).Encode(response)
}
