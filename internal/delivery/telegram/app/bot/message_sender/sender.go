// internal/delivery/telegram/app/bot/message_sender/sender.go
package message_sender

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/constants"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/http_client"
	"crypto-exchange-trading-bot/pkg/logger"

	"github.com/pkg/errors"
)

// MessageSender интерфейс для отправки сообщений
type MessageSender interface {
	SendTextMessage(ctx context.Context, chatID int64, text string, keyboard interface{}) error
}

// TelegramAPI методы Bot API, нужные отправителю
type TelegramAPI interface {
	SendMessage(ctx context.Context, chatID int64, text, parseMode string, keyboard interface{}) error
}

// MessageSenderImpl реализация MessageSender
type MessageSenderImpl struct {
	client        TelegramAPI
	rateLimiter   *RateLimiter
	maxRetryAfter time.Duration
}

// NewMessageSender создает отправителя с лимитом perSec сообщений в секунду
func NewMessageSender(client TelegramAPI, perSec float64) *MessageSenderImpl {
	return &MessageSenderImpl{
		client:        client,
		rateLimiter:   NewRateLimiter(perSec),
		maxRetryAfter: 10 * time.Second,
	}
}

// SendTextMessage отправляет текст в Markdown, длинный текст режется на части.
// Клавиатура прикрепляется к последней части.
func (ms *MessageSenderImpl) SendTextMessage(ctx context.Context, chatID int64, text string, keyboard interface{}) error {
	chunks := SplitMessage(text, constants.MaxMessageLength)
	for i, chunk := range chunks {
		var kb interface{}
		if i == len(chunks)-1 {
			kb = keyboard
		}
		if err := ms.sendChunk(ctx, chatID, chunk, kb); err != nil {
			return err
		}
	}
	return nil
}

func (ms *MessageSenderImpl) sendChunk(ctx context.Context, chatID int64, text string, keyboard interface{}) error {
	if err := ms.rateLimiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limiter")
	}

	err := ms.client.SendMessage(ctx, chatID, text, constants.ParseModeMarkdown, keyboard)
	if err == nil {
		return nil
	}

	var apiErr *http_client.APIError
	if !errors.As(err, &apiErr) {
		logger.Error("❌ Ошибка отправки сообщения в чат %d: %v", chatID, err)
		return err
	}

	switch {
	case apiErr.Code == 400 && strings.Contains(apiErr.Description, "can't parse entities"):
		// Битая разметка: отправляем как есть
		logger.Warn("⚠️ Разметка не принята Telegram, отправка без форматирования")
		err = ms.client.SendMessage(ctx, chatID, text, "", keyboard)
	case apiErr.Code == 429 && apiErr.RetryAfter > 0 && apiErr.RetryAfter <= ms.maxRetryAfter:
		logger.Warn("⚠️ Telegram просит подождать %v", apiErr.RetryAfter)
		select {
		case <-time.After(apiErr.RetryAfter):
		case <-ctx.Done():
			return ctx.Err()
		}
		err = ms.client.SendMessage(ctx, chatID, text, constants.ParseModeMarkdown, keyboard)
	}

	if err != nil {
		logger.Error("❌ Ошибка отправки сообщения в чат %d: %v", chatID, err)
	}
	return err
}

// SplitMessage режет текст по строкам так, чтобы каждая часть была не длиннее limit символов
func SplitMessage(text string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var (
		chunks  []string
		current strings.Builder
		size    int
	)
	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			size = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		n := utf8.RuneCountInString(line)
		if size+n > limit {
			flush()
		}
		// Одна строка длиннее лимита режется по символам
		for n > limit {
			runes := []rune(line)
			chunks = append(chunks, string(runes[:limit]))
			line = string(runes[limit:])
			n = utf8.RuneCountInString(line)
		}
		current.WriteString(line)
		size += n
	}
	flush()
	return chunks
}
