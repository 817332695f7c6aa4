// internal/delivery/telegram/app/bot/formatters/errors.go
package formatters

import (
	"fmt"
	"strings"

	"crypto-exchange-trading-bot/internal/core/domain/trading"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/constants"

	"github.com/pkg/errors"
)

// ErrorFormatter превращает категорию ошибки в фиксированный шаблон ответа
type ErrorFormatter struct {
	templates map[trading.ErrorKind]string
}

// NewErrorFormatter создает форматтер с шаблонами по категориям
func NewErrorFormatter() *ErrorFormatter {
	return &ErrorFormatter{
		templates: map[trading.ErrorKind]string{
			trading.KindUnauthorized:        constants.UnauthorizedText,
			trading.KindInvalidInput:        "⚠️ *Неверный ввод*\n\n%s\n\nИсправьте команду и отправьте снова.",
			trading.KindPriceUnavailable:    "💤 *Цена недоступна*\n\n%s\n\nПроверьте тикер.",
			trading.KindQuantityTooSmall:    "📉 *Слишком маленькая сумма*\n\n%s\n\nУвеличьте сумму.",
			trading.KindInvalidBracketPrice: "🎯 *Неверная цена TP/SL*\n\n%s",
			trading.KindOrderRejected:       "❌ *Биржа отклонила заявку*\n\n%s",
			trading.KindPartialFill:         "⚠️ *Исполнено частично*\n\n%s",
			trading.KindGatewayUnavailable:  "🔌 *Биржа недоступна*\n\n%s\n\nПовторите команду позже.",
			trading.KindDegraded:            "⚠️ *Данные неполные*\n\n%s",
		},
	}
}

// Format возвращает текст ответа для ошибки
func (f *ErrorFormatter) Format(err error) string {
	if err == nil {
		return ""
	}

	var e *trading.Error
	if !errors.As(err, &e) {
		return "❌ *Внутренняя ошибка*\n\nПовторите команду позже."
	}

	tmpl, ok := f.templates[e.Kind]
	if !ok {
		return "❌ *Ошибка*\n\n" + Escape(err.Error())
	}
	if !strings.Contains(tmpl, "%s") {
		return tmpl
	}
	return fmt.Sprintf(tmpl, Escape(f.detail(e)))
}

// detail причина для пользователя без служебного префикса операции
func (f *ErrorFormatter) detail(e *trading.Error) string {
	switch {
	case len(e.Legs) > 0:
		parts := make([]string, 0, len(e.Legs))
		for _, leg := range e.Legs {
			parts = append(parts, fmt.Sprintf("%s: %v", LegName(leg.Leg), cause(leg.Err)))
		}
		return strings.Join(parts, "\n")
	case e.Reason != "":
		return e.Reason
	case e.Kind == trading.KindGatewayUnavailable:
		return "Нет ответа от биржи"
	case e.Err != nil:
		return cause(e.Err)
	default:
		return string(e.Kind)
	}
}

// cause сообщение биржи, если это отказ
func cause(err error) string {
	var r *trading.RejectionError
	if errors.As(err, &r) {
		return r.Message
	}
	var e *trading.Error
	if errors.As(err, &e) && e.Reason != "" {
		return e.Reason
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// LegName название защитной заявки
func LegName(leg trading.Leg) string {
	switch leg {
	case trading.LegTakeProfit:
		return "Take-profit"
	case trading.LegStopLoss:
		return "Stop-loss"
	default:
		return "Основная заявка"
	}
}
