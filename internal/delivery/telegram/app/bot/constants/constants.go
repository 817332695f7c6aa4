// internal/delivery/telegram/app/bot/constants/constants.go
package constants

// Команды бота (без "/")
const (
	CommandStart    = "start"
	CommandHelp     = "help"
	CommandBuy      = "buy"
	CommandSell     = "sell"
	CommandBalance  = "balance"
	CommandPosition = "position"
	CommandHistory  = "history"
	CommandCancel   = "cancel"
	CommandOpen     = "open"
	CommandTransfer = "transfer"
	CommandJournal  = "journal"
)

// CommandDescriptions описания для меню команд
var CommandDescriptions = struct {
	Start    string
	Help     string
	Buy      string
	Sell     string
	Balance  string
	History  string
	Cancel   string
	Open     string
	Transfer string
	Journal  string
}{
	Start:    "Начало работы",
	Help:     "Справка по командам",
	Buy:      "Купить: /buy BTC 100 [TP] [SL]",
	Sell:     "Продать: /sell BTC 100 [TP] [SL]",
	Balance:  "Балансы и позиции",
	History:  "Последние сделки: /history BTC",
	Cancel:   "Отменить заявки: /cancel BTC",
	Open:     "Фьючерсы: /open BTC 100 long",
	Transfer: "Перевод: /transfer in|out 50",
	Journal:  "Журнал команд",
}

// ButtonTexts тексты кнопок
var ButtonTexts = struct {
	Balance string
	Journal string
	Help    string
	Long    string
	Short   string
}{
	Balance: "💰 Баланс",
	Journal: "🗒 Журнал",
	Help:    "📋 Помощь",
	Long:    "🟢 LONG",
	Short:   "🔴 SHORT",
}

// ParseModeMarkdown режим разметки исходящих сообщений
const ParseModeMarkdown = "Markdown"

// MaxMessageLength лимит длины сообщения Telegram
const MaxMessageLength = 4096

// Тексты ответов
const (
	UnauthorizedText = "⛔ Вам не разрешено пользоваться этим ботом."

	UnknownCommandText = "🤔 Неизвестная команда. Список команд: /help"

	NoPendingText = "🤔 Не понимаю. Начните с команды, например /buy BTC 100. Список команд: /help"

	BusyText = "⏳ Предыдущая команда еще выполняется, дождитесь ответа."

	AskSymbolBuyText = "🟢 *Покупка*\n\nВведите тикер, например `BTC` или `ETH 50`.\n" +
		"Без суммы будет использовано %s %s.\n/cancel для отмены."

	AskSymbolSellText = "🔴 *Продажа*\n\nВведите тикер, например `BTC` или `ETH 50`.\n" +
		"Без суммы будет использовано %s %s.\n/cancel для отмены."

	AskFuturesSideText = "📈 *Фьючерсы %s* на %s %s\n\nНапишите `long` или `short`.\n/cancel для отмены."

	AskTransferAmountText = "🔁 *Перевод %s*\n\nВведите сумму в %s.\n/cancel для отмены."

	SessionCanceledText = "❎ Незавершенная команда отменена."

	NothingToCancelText = "Нечего отменять. Для отмены заявок: /cancel BTC"

	JournalDisabledText = "🗒 Журнал команд отключен."

	JournalEmptyText = "🗒 Журнал пуст."

	JournalErrorText = "❌ Журнал временно недоступен."
)

// Подсказки по формату команд
const (
	UsageTrade    = "Формат: /buy BTC 100 [TP] [SL]"
	UsageHistory  = "Формат: /history BTC [кол-во]"
	UsageOpen     = "Формат: /open BTC [сумма] [long|short]"
	UsageTransfer = "Формат: /transfer in|out [сумма]"
)
