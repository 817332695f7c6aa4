// internal/infrastructure/persistence/journal/models.go
package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// Статусы записи журнала
const (
	StatusOK       = "ok"
	StatusPartial  = "partial"
	StatusFailed   = "failed"
	StatusDegraded = "degraded"
)

// Entry запись об исполненной команде
type Entry struct {
	ID          string          `db:"id"           json:"id"`
	UserID      int64           `db:"user_id"      json:"user_id"`
	Action      string          `db:"action"       json:"action"`
	Symbol      string          `db:"symbol"       json:"symbol"`
	Side        string          `db:"side"         json:"side"`
	Quantity    decimal.Decimal `db:"quantity"     json:"quantity"`
	QuoteAmount decimal.Decimal `db:"quote_amount" json:"quote_amount"`
	Status      string          `db:"status"       json:"status"`
	Detail      string          `db:"detail"       json:"detail"`
	CreatedAt   time.Time       `db:"created_at"   json:"created_at"`
}
