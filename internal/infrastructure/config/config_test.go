// internal/infrastructure/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TG_API_KEY", "123456:token-value-for-tests")
	t.Setenv("TELEGRAM_OWNER_ID", "777")
	t.Setenv("BINANCE_API_KEY", "key")
	t.Setenv("BINANCE_API_SECRET", "secret")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "binance", cfg.Exchange.Name)
	assert.Equal(t, int64(777), cfg.Telegram.OwnerID)
	assert.True(t, cfg.IsPollingMode())
	assert.Equal(t, "USDT", cfg.Trading.QuoteAsset)
	assert.Equal(t, "SHIB", cfg.Trading.ReferenceAsset)
	assert.True(t, cfg.Trading.DefaultQuoteAmount.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 10*time.Second, cfg.Trading.GatewayTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "sqlite", cfg.Journal.Driver)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadConfig_FromEnvFile(t *testing.T) {
	setBaseEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	content := "EXCHANGE=bybit\nBYBIT_API_KEY=bk\nBYBIT_SECRET_KEY=bs\nDEFAULT_QUOTE_AMOUNT=25.5\nSESSION_TTL=90s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Cleanup(func() {
		for _, k := range []string{"EXCHANGE", "BYBIT_API_KEY", "BYBIT_SECRET_KEY", "DEFAULT_QUOTE_AMOUNT", "SESSION_TTL"} {
			os.Unsetenv(k)
		}
	})

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "bybit", cfg.Exchange.Name)
	assert.Equal(t, "bk", cfg.Exchange.ApiKey)
	assert.Equal(t, "https://api.bybit.com", cfg.Exchange.BaseURL)
	assert.Equal(t, "25.5", cfg.Trading.DefaultQuoteAmount.String())
	assert.Equal(t, 90*time.Second, cfg.Session.TTL)
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing owner",
			env:     map[string]string{"TELEGRAM_OWNER_ID": ""},
			wantErr: "TELEGRAM_OWNER_ID is required",
		},
		{
			name:    "webhook without domain",
			env:     map[string]string{"TELEGRAM_MODE": "webhook"},
			wantErr: "WEBHOOK_DOMAIN is required",
		},
		{
			name:    "unknown exchange",
			env:     map[string]string{"EXCHANGE": "kraken"},
			wantErr: "unsupported EXCHANGE",
		},
		{
			name:    "negative default amount",
			env:     map[string]string{"DEFAULT_QUOTE_AMOUNT": "-1"},
			wantErr: "DEFAULT_QUOTE_AMOUNT must be positive",
		},
		{
			name:    "postgres journal without db name",
			env:     map[string]string{"JOURNAL_DRIVER": "postgres"},
			wantErr: "DB_NAME is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_GetWebhookURL(t *testing.T) {
	cfg := &Config{Webhook: WebhookConfig{Domain: "bot.example.com/", Path: "/webhook"}}
	assert.Equal(t, "https://bot.example.com/webhook", cfg.GetWebhookURL())

	cfg.Webhook.Domain = "http://localhost:8080"
	assert.Equal(t, "http://localhost:8080/webhook", cfg.GetWebhookURL())
}
