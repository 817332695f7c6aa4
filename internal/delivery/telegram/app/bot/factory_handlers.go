// internal/delivery/telegram/app/bot/factory_handlers.go
package bot

import (
	"strings"

	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/constants"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers"
	balance_command "crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/commands/balance"
	cancel_command "crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/commands/cancel"
	help_command "crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/commands/help"
	history_command "crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/commands/history"
	journal_command "crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/commands/journal"
	open_command "crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/commands/open"
	trade_command "crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/commands/trade"
	transfer_command "crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/commands/transfer"
	followup_handler "crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/followup"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/router"
	start_command "crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/start"
	"crypto-exchange-trading-bot/internal/infrastructure/config"
	"crypto-exchange-trading-bot/pkg/logger"
)

// InitHandlers регистрирует все хэндлеры в роутере
func InitHandlers(rt router.Router, cfg *config.Config, deps *handlers.Dependencies) {
	logger.Info("🔧 Регистрация хэндлеров...")

	rt.RegisterHandler(start_command.NewHandler(strings.ToUpper(cfg.Exchange.Name)))
	rt.RegisterHandler(help_command.NewHandler(deps.Trading.Format.QuoteAsset, deps.DefaultQuoteAmount.String()))

	rt.RegisterHandler(trade_command.NewBuyHandler(deps))
	rt.RegisterHandler(trade_command.NewSellHandler(deps))
	rt.RegisterHandler(cancel_command.NewHandler(deps))
	rt.RegisterHandler(history_command.NewHandler(deps))
	rt.RegisterHandler(open_command.NewHandler(deps))
	rt.RegisterHandler(transfer_command.NewHandler(deps))
	rt.RegisterHandler(journal_command.NewHandler(deps))

	balance := balance_command.NewHandler(deps)
	rt.RegisterHandler(balance)
	rt.RegisterCommand(constants.CommandPosition, balance)

	rt.RegisterHandler(followup_handler.NewHandler(deps))

	logger.Info("✅ Зарегистрировано команд: %d", len(rt.GetCommands()))
}
