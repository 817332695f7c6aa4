// internal/delivery/telegram/app/bot/formatters/journal.go
package formatters

import (
	"fmt"
	"strings"

	"crypto-exchange-trading-bot/internal/infrastructure/persistence/journal"
)

// JournalFormatter записи журнала команд
type JournalFormatter struct{}

// NewJournalFormatter создает форматтер журнала
func NewJournalFormatter() *JournalFormatter {
	return &JournalFormatter{}
}

var statusIcons = map[string]string{
	journal.StatusOK:       "✅",
	journal.StatusPartial:  "⚠️",
	journal.StatusFailed:   "❌",
	journal.StatusDegraded: "🟡",
}

// Entries список последних записей
func (f *JournalFormatter) Entries(entries []*journal.Entry) string {
	var b strings.Builder
	b.WriteString("🗒 *Журнал команд*\n\n")
	for _, e := range entries {
		icon, ok := statusIcons[e.Status]
		if !ok {
			icon = "•"
		}
		fmt.Fprintf(&b, "%s %s %s", icon, e.CreatedAt.UTC().Format("02.01 15:04"), Escape(e.Action))
		if e.Symbol != "" {
			fmt.Fprintf(&b, " %s", Escape(e.Symbol))
		}
		if e.Side != "" {
			fmt.Fprintf(&b, " %s", Escape(e.Side))
		}
		if e.Quantity.IsPositive() {
			fmt.Fprintf(&b, " `%s`", e.Quantity.String())
		}
		if e.Detail != "" {
			fmt.Fprintf(&b, "\n   %s", Escape(e.Detail))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
