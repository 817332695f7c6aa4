// internal/core/domain/trading/executor.go
package trading

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LegResult итог одной заявки
type LegResult struct {
	Leg     Leg
	Request OrderRequest
	OrderID string
	Err     error
}

// ExecutionResult итог исполнения TradeIntent
type ExecutionResult struct {
	PrimarySide    Side
	Symbol         string
	Quantity       decimal.Decimal
	Price          decimal.Decimal
	PrimaryOrderID string
	TakeProfitSet  bool
	StopLossSet    bool
	Legs           []LegResult
	Errors         []LegError
}

// Err возвращает PartialFill, если хотя бы одна защитная заявка не выставлена
func (r *ExecutionResult) Err() error {
	if r == nil || len(r.Errors) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		names = append(names, string(e.Leg))
	}
	return &Error{
		Kind:   KindPartialFill,
		Op:     "Executor.Execute",
		Reason: "failed legs: " + strings.Join(names, ", "),
		Legs:   append([]LegError(nil), r.Errors...),
	}
}

// CancelFailure заявка, которую не удалось отменить
type CancelFailure struct {
	OrderID string
	Err     error
}

// CancelReport итог отмены всех заявок по паре
type CancelReport struct {
	Symbol   string
	Canceled []string
	Failed   []CancelFailure
}

// FuturesResult итог открытия фьючерсной позиции
type FuturesResult struct {
	Side     PositionSide
	Symbol   string
	Quantity decimal.Decimal
	Price    decimal.Decimal
	OrderID  string
}

// Executor выставляет рыночную заявку и защитные TP/SL
type Executor struct {
	gateway    Gateway
	calculator *QuantityCalculator
	format     SymbolFormat
	timeout    time.Duration
	clientID   func() string
}

func NewExecutor(gw Gateway, format SymbolFormat, timeout time.Duration) *Executor {
	return &Executor{
		gateway:    gw,
		calculator: NewQuantityCalculator(gw, timeout),
		format:     format,
		timeout:    timeout,
		clientID:   newClientOrderID,
	}
}

// newClientOrderID укладывается в 36 символов Binance и Bybit
func newClientOrderID() string {
	return "tb" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// BuildPlan строит основную заявку и защитные на противоположной стороне
func BuildPlan(intent TradeIntent, quantity decimal.Decimal) OrderPlan {
	plan := OrderPlan{
		Primary: OrderRequest{
			Side:     intent.Side(),
			Symbol:   intent.Symbol(),
			Type:     OrderTypeMarket,
			Quantity: quantity,
			Leg:      LegPrimary,
		},
	}

	exit := intent.Side().Opposite()
	if tp, ok := intent.TakeProfit(); ok {
		plan.Brackets = append(plan.Brackets, OrderRequest{
			Side:     exit,
			Symbol:   intent.Symbol(),
			Type:     OrderTypeLimit,
			Quantity: quantity,
			Price:    tp,
			Leg:      LegTakeProfit,
		})
	}
	if sl, ok := intent.StopLoss(); ok {
		plan.Brackets = append(plan.Brackets, OrderRequest{
			Side:      exit,
			Symbol:    intent.Symbol(),
			Type:      OrderTypeStopLimit,
			Quantity:  quantity,
			Price:     sl,
			StopPrice: sl,
			Leg:       LegStopLoss,
		})
	}
	return plan
}

// Execute проверяет намерение, выставляет рыночную заявку и затем TP/SL.
// После успешной основной заявки результат не nil; ошибка в этом случае
// равна result.Err() и означает PartialFill.
func (e *Executor) Execute(ctx context.Context, intent TradeIntent) (*ExecutionResult, error) {
	const op = "Executor.Execute"

	if intent.Symbol() == "" || !intent.QuoteAmount().IsPositive() {
		return nil, NewError(KindInvalidInput, op, "symbol and positive amount are required")
	}

	quote, err := e.calculator.Compute(ctx, intent.Symbol(), intent.QuoteAmount())
	if err != nil {
		return nil, err
	}
	if err := intent.checkBrackets(quote.Price); err != nil {
		return nil, err
	}

	plan := BuildPlan(intent, quote.Quantity)

	ack, err := e.place(ctx, plan.Primary)
	if err != nil {
		return nil, classify(op, KindOrderRejected, err)
	}

	result := &ExecutionResult{
		PrimarySide:    plan.Primary.Side,
		Symbol:         plan.Primary.Symbol,
		Quantity:       quote.Quantity,
		Price:          quote.Price,
		PrimaryOrderID: ack.OrderID,
		Legs:           []LegResult{{Leg: LegPrimary, Request: plan.Primary, OrderID: ack.OrderID}},
	}

	for _, req := range plan.Brackets {
		leg := LegResult{Leg: req.Leg, Request: req}
		ack, err := e.place(ctx, req)
		if err != nil {
			leg.Err = err
			result.Errors = append(result.Errors, LegError{Leg: req.Leg, Err: err})
		} else {
			leg.OrderID = ack.OrderID
			switch req.Leg {
			case LegTakeProfit:
				result.TakeProfitSet = true
			case LegStopLoss:
				result.StopLossSet = true
			}
		}
		result.Legs = append(result.Legs, leg)
	}

	return result, result.Err()
}

func (e *Executor) place(ctx context.Context, req OrderRequest) (*OrderAck, error) {
	callCtx, cancel := withTimeout(ctx, e.timeout)
	defer cancel()

	switch req.Type {
	case OrderTypeMarket:
		return e.gateway.PlaceMarketOrder(callCtx, req.Symbol, req.Side, req.Quantity, e.clientID())
	case OrderTypeLimit:
		return e.gateway.PlaceLimitOrder(callCtx, req.Symbol, req.Side, req.Quantity, e.roundPrice(req.Symbol, req.Price), e.clientID())
	case OrderTypeStopLimit:
		return e.gateway.PlaceStopLimitOrder(callCtx, req.Symbol, req.Side, req.Quantity,
			e.roundPrice(req.Symbol, req.Price), e.roundPrice(req.Symbol, req.StopPrice), e.clientID())
	default:
		return nil, fmt.Errorf("unsupported order type %s", req.Type)
	}
}

func (e *Executor) roundPrice(symbol string, price decimal.Decimal) decimal.Decimal {
	return price.Round(e.format.PricePrecision(symbol))
}

// CancelAll отменяет все открытые заявки по паре. Ошибка отмены одной
// заявки не останавливает остальные.
func (e *Executor) CancelAll(ctx context.Context, symbol string) (*CancelReport, error) {
	const op = "Executor.CancelAll"

	if symbol == "" {
		return nil, NewError(KindInvalidInput, op, "symbol is required")
	}

	listCtx, cancel := withTimeout(ctx, e.timeout)
	orders, err := e.gateway.GetOpenOrders(listCtx, symbol)
	cancel()
	if err != nil {
		return nil, classify(op, KindOrderRejected, err)
	}

	report := &CancelReport{Symbol: symbol}
	for _, o := range orders {
		callCtx, cancel := withTimeout(ctx, e.timeout)
		err := e.gateway.CancelOrder(callCtx, symbol, o.OrderID)
		cancel()

		if err != nil {
			report.Failed = append(report.Failed, CancelFailure{OrderID: o.OrderID, Err: err})
			continue
		}
		report.Canceled = append(report.Canceled, o.OrderID)
	}
	return report, nil
}

// OpenFutures открывает позицию по рынку на сумму в котируемой валюте
func (e *Executor) OpenFutures(ctx context.Context, intent FuturesIntent) (*FuturesResult, error) {
	const op = "Executor.OpenFutures"

	if intent.Symbol == "" || !intent.QuoteAmount.IsPositive() {
		return nil, NewError(KindInvalidInput, op, "symbol and positive amount are required")
	}
	if intent.Side != PositionLong && intent.Side != PositionShort {
		return nil, NewError(KindInvalidInput, op, "side must be LONG or SHORT")
	}

	quote, err := e.calculator.Compute(ctx, intent.Symbol, intent.QuoteAmount)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := withTimeout(ctx, e.timeout)
	defer cancel()

	ack, err := e.gateway.PlaceFuturesMarketOrder(callCtx, intent.Symbol, intent.Side.OrderSide(), quote.Quantity, e.clientID())
	if err != nil {
		return nil, classify(op, KindOrderRejected, err)
	}

	return &FuturesResult{
		Side:     intent.Side,
		Symbol:   intent.Symbol,
		Quantity: quote.Quantity,
		Price:    quote.Price,
		OrderID:  ack.OrderID,
	}, nil
}
