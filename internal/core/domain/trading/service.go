// internal/core/domain/trading/service.go
package trading

import "time"

// Settings общие параметры торговых сервисов
type Settings struct {
	Format       SymbolFormat
	CallTimeout  time.Duration
	HistoryLimit int
}

// Service набор торговых операций поверх одного шлюза биржи
type Service struct {
	Gateway   Gateway
	Format    SymbolFormat
	Executor  *Executor
	Accounts  *AccountService
	History   *HistoryService
	Transfers *TransferService
}

func NewService(gw Gateway, s Settings) *Service {
	return &Service{
		Gateway:   gw,
		Format:    s.Format,
		Executor:  NewExecutor(gw, s.Format, s.CallTimeout),
		Accounts:  NewAccountService(gw, s.CallTimeout),
		History:   NewHistoryService(gw, s.CallTimeout, s.HistoryLimit),
		Transfers: NewTransferService(gw, s.CallTimeout),
	}
}
