// internal/core/domain/trading/errors.go
package trading

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind категория ошибки торговой команды
type ErrorKind string

const (
	KindUnauthorized        ErrorKind = "unauthorized"
	KindInvalidInput        ErrorKind = "invalid_input"
	KindPriceUnavailable    ErrorKind = "price_unavailable"
	KindQuantityTooSmall    ErrorKind = "quantity_too_small"
	KindInvalidBracketPrice ErrorKind = "invalid_bracket_price"
	KindOrderRejected       ErrorKind = "order_rejected"
	KindPartialFill         ErrorKind = "partial_fill"
	KindGatewayUnavailable  ErrorKind = "gateway_unavailable"
	KindDegraded            ErrorKind = "degraded"
)

// ErrGatewayUnavailable сетевой сбой или таймаут биржи.
// Адаптеры оборачивают его через %w.
var ErrGatewayUnavailable = errors.New("exchange gateway unavailable")

// RejectionError отказ биржи по бизнес-правилу
type RejectionError struct {
	Code    int64
	Message string
}

func (e *RejectionError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("exchange rejected request (code %d): %s", e.Code, e.Message)
	}
	return "exchange rejected request: " + e.Message
}

// LegError ошибка одной из защитных заявок
type LegError struct {
	Leg Leg
	Err error
}

func (e LegError) Error() string {
	return fmt.Sprintf("%s: %v", e.Leg, e.Err)
}

// Error ошибка с категорией для пользовательского ответа
type Error struct {
	Kind   ErrorKind
	Op     string
	Reason string
	Legs   []LegError
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Kind))
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is сравнивает по категории: errors.Is(err, &Error{Kind: KindOrderRejected})
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewError создает ошибку категории kind
func NewError(kind ErrorKind, op, reason string) *Error {
	return &Error{Kind: kind, Op: op, Reason: reason}
}

// KindOf возвращает категорию ошибки или пустую строку
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsRejection проверяет, что биржа отклонила запрос
func IsRejection(err error) bool {
	var r *RejectionError
	return errors.As(err, &r)
}

// classify превращает ошибку шлюза в категорию.
// Отказ биржи получает kind rejected, все остальное считается недоступностью.
func classify(op string, rejected ErrorKind, err error) *Error {
	var r *RejectionError
	if errors.As(err, &r) {
		return &Error{Kind: rejected, Op: op, Reason: r.Message, Err: err}
	}
	return &Error{Kind: KindGatewayUnavailable, Op: op, Err: err}
}
