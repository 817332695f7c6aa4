// internal/delivery/telegram/services/trading_session/interface.go
package trading_session

import (
	"context"
	"time"

	"crypto-exchange-trading-bot/internal/core/domain/trading"
)

// State шаг незавершенной команды
type State string

const (
	StateIdle                   State = "idle"
	StateAwaitingSymbol         State = "awaiting_symbol"
	StateAwaitingFuturesSide    State = "awaiting_futures_side"
	StateAwaitingTransferAmount State = "awaiting_transfer_amount"
)

// Ключи partial data
const (
	DataSymbol = "symbol"
	DataAmount = "amount"
)

// Pending ожидаемое продолжение команды
type Pending struct {
	State     State
	Side      trading.Side              // AwaitingSymbol
	Direction trading.TransferDirection // AwaitingTransferAmount
	Data      map[string]string
}

// Idle пустое ожидание
func Idle() Pending {
	return Pending{State: StateIdle}
}

// AwaitingSymbol ожидание тикера для покупки или продажи
func AwaitingSymbol(side trading.Side) Pending {
	return Pending{State: StateAwaitingSymbol, Side: side}
}

// AwaitingFuturesSide ожидание long/short для уже известных пары и суммы
func AwaitingFuturesSide(symbol, amount string) Pending {
	return Pending{
		State: StateAwaitingFuturesSide,
		Data:  map[string]string{DataSymbol: symbol, DataAmount: amount},
	}
}

// AwaitingTransferAmount ожидание суммы перевода
func AwaitingTransferAmount(direction trading.TransferDirection) Pending {
	return Pending{State: StateAwaitingTransferAmount, Direction: direction}
}

func (p Pending) IsIdle() bool {
	return p.State == "" || p.State == StateIdle
}

// Session состояние диалога одного пользователя
type Session struct {
	UserID    int64
	Pending   Pending
	Version   uint64
	Claimed   bool
	TouchedAt time.Time
}

// Service хранилище сессий в памяти процесса
type Service interface {
	// Get возвращает копию сессии; истекшая читается как Idle
	Get(userID int64) Session
	// Begin переводит пользователя в ожидание
	Begin(userID int64, pending Pending) Session
	// Abandon сбрасывает ожидание; true если что-то было
	Abandon(userID int64) bool
	// Claim помечает ожидание как обрабатываемое. Второй Claim до Commit получает false.
	Claim(userID int64) (Session, bool)
	// Commit применяет next, только если с момента Claim сессию никто не менял
	Commit(claimed Session, next Pending) bool
	// Sweep удаляет сессии, не тронутые дольше TTL
	Sweep() int
	// RunExpiry периодически вызывает Sweep до отмены ctx
	RunExpiry(ctx context.Context, interval time.Duration)
	// Count число хранимых сессий
	Count() int
}
