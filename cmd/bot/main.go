// cmd/bot/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"crypto-exchange-trading-bot/internal/core/domain/trading"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/formatters"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers"
	"crypto-exchange-trading-bot/internal/delivery/telegram/services/trading_session"
	"crypto-exchange-trading-bot/internal/infrastructure/api/exchanges/binance"
	"crypto-exchange-trading-bot/internal/infrastructure/api/exchanges/bybit"
	redis_cache "crypto-exchange-trading-bot/internal/infrastructure/cache/redis"
	"crypto-exchange-trading-bot/internal/infrastructure/config"
	"crypto-exchange-trading-bot/internal/infrastructure/persistence/journal"
	"crypto-exchange-trading-bot/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	envFile := flag.String("env", ".env", "путь к .env файлу")
	flag.Parse()

	cfg, err := config.LoadConfig(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Не удалось загрузить конфигурацию: %v\n", err)
		os.Exit(1)
	}
	cfg.PrintSummary()

	if err := logger.InitGlobalWithOptions(logger.Options{
		Path:       cfg.Logging.File,
		Level:      cfg.Logging.Level,
		Debug:      cfg.DebugMode,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Не удалось инициализировать логгер: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	if err := run(cfg); err != nil {
		logger.Error("❌ %v", err)
		logger.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	format := trading.SymbolFormat{
		QuoteAsset:     cfg.Trading.QuoteAsset,
		ReferenceAsset: cfg.Trading.ReferenceAsset,
	}

	gateway, err := newGateway(cfg, format)
	if err != nil {
		return err
	}
	logger.Info("🏦 Биржа: %s", gateway.Name())

	repo, closeJournal := newJournal(cfg)
	defer closeJournal()

	dedup, closeDedup := newDeduplicator(cfg)
	defer closeDedup()

	service := trading.NewService(gateway, trading.Settings{
		Format:       format,
		CallTimeout:  cfg.Trading.GatewayTimeout,
		HistoryLimit: cfg.Trading.HistoryLimit,
	})

	sessions := trading_session.NewService(cfg.Session.TTL)
	go sessions.RunExpiry(ctx, cfg.Session.SweepInterval)

	telegramBot := bot.NewTelegramBot(cfg, &bot.Dependencies{
		Services: handlers.Dependencies{
			Trading:            service,
			Sessions:           sessions,
			Journal:            repo,
			Formatters:         formatters.NewFormatterProvider(format),
			DefaultQuoteAmount: cfg.Trading.DefaultQuoteAmount,
			TransferAsset:      cfg.Trading.TransferAsset,
			HistoryLimit:       cfg.Trading.HistoryLimit,
		},
		Dedup: dedup,
	})

	if err := telegramBot.SetMyCommands(ctx); err != nil {
		logger.Warn("⚠️ %v", err)
	}

	if cfg.IsWebhookMode() {
		return runWebhook(ctx, cfg, telegramBot)
	}
	return runPolling(ctx, telegramBot)
}

func runPolling(ctx context.Context, telegramBot *bot.TelegramBot) error {
	if err := telegramBot.StartPolling(ctx); err != nil {
		return fmt.Errorf("запуск polling: %w", err)
	}
	logger.Warn("✅ Бот запущен в режиме polling")

	<-ctx.Done()
	logger.Warn("🛑 Получен сигнал остановки")
	return telegramBot.StopPolling(shutdownTimeout)
}

func runWebhook(ctx context.Context, cfg *config.Config, telegramBot *bot.TelegramBot) error {
	server := bot.NewWebhookServer(cfg, telegramBot)
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("запуск webhook: %w", err)
	}
	logger.Warn("✅ Бот запущен в режиме webhook: %s", cfg.GetWebhookURL())

	<-ctx.Done()
	logger.Warn("🛑 Получен сигнал остановки")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Stop(shutdownCtx)
}

// newGateway шлюз биржи по EXCHANGE
func newGateway(cfg *config.Config, format trading.SymbolFormat) (trading.Gateway, error) {
	switch strings.ToLower(cfg.Exchange.Name) {
	case "", "binance":
		return binance.NewBinanceClient(binance.Options{
			ApiKey:    cfg.Exchange.ApiKey,
			ApiSecret: cfg.Exchange.ApiSecret,
			BaseURL:   cfg.Exchange.BaseURL,
			Testnet:   cfg.Exchange.Testnet,
			Timeout:   cfg.Trading.GatewayTimeout,
			Format:    format,
		}), nil
	case "bybit":
		baseURL := cfg.Exchange.BaseURL
		if cfg.Exchange.Testnet && (baseURL == "" || baseURL == bybit.DefaultBaseURL) {
			baseURL = bybit.TestnetBaseURL
		}
		client := bybit.NewBybitClient(baseURL, cfg.Exchange.ApiKey, cfg.Exchange.ApiSecret, cfg.Trading.GatewayTimeout)
		return bybit.NewGateway(client, format), nil
	default:
		return nil, fmt.Errorf("неизвестная биржа %q", cfg.Exchange.Name)
	}
}

// newJournal журнал команд; при ошибке БД бот работает без журнала
func newJournal(cfg *config.Config) (journal.Repository, func()) {
	if !cfg.Journal.Enabled {
		logger.Info("🗒 Журнал команд отключен")
		return nil, func() {}
	}

	db := journal.NewDatabaseService(cfg)
	if err := db.Start(); err != nil {
		logger.Warn("⚠️ Журнал недоступен, продолжаем без него: %v", err)
		return journal.NopRepository{}, func() {}
	}
	return journal.NewRepository(db.GetDB()), func() {
		if err := db.Stop(); err != nil {
			logger.Warn("⚠️ Ошибка остановки журнала: %v", err)
		}
	}
}

// newDeduplicator Redis если включен, иначе память процесса
func newDeduplicator(cfg *config.Config) (redis_cache.UpdateDeduplicator, func()) {
	if cfg.Redis.Enabled {
		rs := redis_cache.NewRedisService(cfg.Redis)
		err := rs.Start()
		if err == nil {
			return redis_cache.NewRedisDeduplicator(rs.GetClient(), cfg.Redis.UpdateDedupTTL), func() {
				_ = rs.Stop()
			}
		}
		logger.Warn("⚠️ Redis недоступен, дедупликация в памяти: %v", err)
	}
	return redis_cache.NewMemoryDeduplicator(cfg.Redis.UpdateDedupTTL), func() {}
}
