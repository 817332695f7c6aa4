// internal/core/domain/trading/transfer.go
package trading

import (
	"context"
	"time"
)

// TransferService переводы между спотовым и фьючерсным кошельком
type TransferService struct {
	gateway Gateway
	timeout time.Duration
}

func NewTransferService(gw Gateway, timeout time.Duration) *TransferService {
	return &TransferService{gateway: gw, timeout: timeout}
}

func (s *TransferService) Transfer(ctx context.Context, intent TransferIntent) (*TransferAck, error) {
	const op = "TransferService.Transfer"

	if intent.Direction != TransferToFutures && intent.Direction != TransferToSpot {
		return nil, NewError(KindInvalidInput, op, "direction must be in or out")
	}
	if intent.Asset == "" {
		return nil, NewError(KindInvalidInput, op, "asset is required")
	}
	if !intent.Amount.IsPositive() {
		return nil, NewError(KindInvalidInput, op, "amount must be positive")
	}

	callCtx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	ack, err := s.gateway.Transfer(callCtx, intent.Asset, intent.Amount, intent.Direction)
	if err != nil {
		return nil, classify(op, KindOrderRejected, err)
	}
	return ack, nil
}
