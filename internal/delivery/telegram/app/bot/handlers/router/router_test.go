// internal/delivery/telegram/app/bot/handlers/router/router_test.go
package router

import (
	"context"
	"testing"
	"time"

	"crypto-exchange-trading-bot/internal/core/domain/trading"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/constants"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers"
	"crypto-exchange-trading-bot/internal/delivery/telegram/app/bot/handlers/base"
	"crypto-exchange-trading-bot/internal/delivery/telegram/services/trading_session"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoHandler возвращает заданный ответ и запоминает параметры
type echoHandler struct {
	*base.BaseHandler
	reply string
	err   error
	got   []handlers.HandlerParams
}

func newEcho(command string, typ handlers.HandlerType, reply string) *echoHandler {
	return &echoHandler{
		BaseHandler: &base.BaseHandler{Name: command + "_handler", Command: command, Type: typ},
		reply:       reply,
	}
}

func (h *echoHandler) Execute(_ context.Context, params handlers.HandlerParams) (handlers.HandlerResult, error) {
	h.got = append(h.got, params)
	if h.err != nil {
		return handlers.HandlerResult{}, h.err
	}
	return handlers.HandlerResult{Message: h.reply}, nil
}

func TestRouter_CommandAbandonsPendingSession(t *testing.T) {
	sessions := trading_session.NewService(time.Minute)
	r := NewRouter(sessions)
	cancel := newEcho("cancel", handlers.TypeCommand, "ok")
	r.RegisterHandler(cancel)

	sessions.Begin(1, trading_session.AwaitingSymbol(trading.SideBuy))

	res, err := r.Handle(context.Background(), handlers.HandlerParams{UserID: 1, Command: "cancel"})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Message)
	require.Len(t, cancel.got, 1)
	assert.True(t, cancel.got[0].Abandoned)
	assert.True(t, sessions.Get(1).Pending.IsIdle())

	_, err = r.Handle(context.Background(), handlers.HandlerParams{UserID: 1, Command: "cancel"})
	require.NoError(t, err)
	assert.False(t, cancel.got[1].Abandoned)
}

func TestRouter_UnknownCommand(t *testing.T) {
	sessions := trading_session.NewService(time.Minute)
	r := NewRouter(sessions)
	sessions.Begin(1, trading_session.AwaitingSymbol(trading.SideSell))

	res, err := r.Handle(context.Background(), handlers.HandlerParams{UserID: 1, Command: "nope"})
	require.NoError(t, err)
	assert.Equal(t, constants.UnknownCommandText, res.Message)
	assert.Equal(t, trading_session.StateAwaitingSymbol, sessions.Get(1).Pending.State)
}

func TestRouter_FreeTextGoesToMessageHandler(t *testing.T) {
	r := NewRouter(trading_session.NewService(time.Minute))

	res, err := r.Handle(context.Background(), handlers.HandlerParams{UserID: 1, Args: []string{"BTC"}})
	require.NoError(t, err)
	assert.Equal(t, constants.NoPendingText, res.Message)

	text := newEcho("text", handlers.TypeMessage, "followup")
	r.RegisterHandler(text)

	res, err = r.Handle(context.Background(), handlers.HandlerParams{UserID: 1, Args: []string{"BTC"}})
	require.NoError(t, err)
	assert.Equal(t, "followup", res.Message)
	assert.Empty(t, r.GetCommands())
}

func TestRouter_AliasAndErrors(t *testing.T) {
	r := NewRouter(nil)
	balance := newEcho("balance", handlers.TypeCommand, "")
	balance.err = errors.New("boom")
	r.RegisterHandler(balance)
	r.RegisterCommand("/Position", balance)

	_, err := r.Handle(context.Background(), handlers.HandlerParams{UserID: 1, Command: "position"})
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"/balance", "/position"}, r.GetCommands())

	h, ok := r.GetHandler("/position")
	require.True(t, ok)
	assert.Equal(t, "balance_handler", h.GetName())
}
