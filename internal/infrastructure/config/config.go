// /internal/infrastructure/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// ============================================
// КОНФИГУРАЦИЯ БАЗЫ ДАННЫХ
// ============================================

// DatabaseConfig - конфигурация PostgreSQL для журнала сделок
type DatabaseConfig struct {
	Host     string `mapstructure:"DB_HOST"`
	Port     int    `mapstructure:"DB_PORT"`
	User     string `mapstructure:"DB_USER"`
	Password string `mapstructure:"DB_PASSWORD"`
	Name     string `mapstructure:"DB_NAME"`
	SSLMode  string `mapstructure:"DB_SSLMODE"`

	// Настройки пула соединений
	MaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	MaxConnLifetime time.Duration `mapstructure:"DB_MAX_CONN_LIFETIME"`
	MaxConnIdleTime time.Duration `mapstructure:"DB_MAX_CONN_IDLE_TIME"`
}

// JournalConfig журнал исполненных команд
type JournalConfig struct {
	Enabled    bool   `mapstructure:"JOURNAL_ENABLED"`
	Driver     string `mapstructure:"JOURNAL_DRIVER"` // sqlite | postgres
	SQLitePath string `mapstructure:"JOURNAL_SQLITE_PATH"`
}

// RedisConfig конфигурация Redis
type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`     // localhost
	Port     int    `mapstructure:"REDIS_PORT"`     // 6379
	Password string `mapstructure:"REDIS_PASSWORD"` // пустой или пароль
	DB       int    `mapstructure:"REDIS_DB"`       // 0

	Enabled bool `mapstructure:"REDIS_ENABLED"`

	// Настройки пула соединений
	PoolSize        int           `mapstructure:"REDIS_POOL_SIZE"`         // 10
	MinIdleConns    int           `mapstructure:"REDIS_MIN_IDLE_CONNS"`    // 5
	MaxRetries      int           `mapstructure:"REDIS_MAX_RETRIES"`       // 3
	MinRetryBackoff time.Duration `mapstructure:"REDIS_MIN_RETRY_BACKOFF"` // 8ms
	MaxRetryBackoff time.Duration `mapstructure:"REDIS_MAX_RETRY_BACKOFF"` // 512ms
	DialTimeout     time.Duration `mapstructure:"REDIS_DIAL_TIMEOUT"`      // 5s
	ReadTimeout     time.Duration `mapstructure:"REDIS_READ_TIMEOUT"`      // 3s
	WriteTimeout    time.Duration `mapstructure:"REDIS_WRITE_TIMEOUT"`     // 3s
	PoolTimeout     time.Duration `mapstructure:"REDIS_POOL_TIMEOUT"`      // 4s

	// Время жизни ключа дедупликации апдейтов
	UpdateDedupTTL time.Duration `mapstructure:"REDIS_UPDATE_DEDUP_TTL"` // 10m
}

// TelegramConfig настройки бота
type TelegramConfig struct {
	BotToken string `mapstructure:"TG_API_KEY"`
	APIURL   string `mapstructure:"TELEGRAM_API_URL"`
	OwnerID  int64  `mapstructure:"TELEGRAM_OWNER_ID"`
	Mode     string `mapstructure:"TELEGRAM_MODE"` // polling | webhook
	// Лимит исходящих сообщений в секунду
	SendRatePerSec float64 `mapstructure:"SEND_RATE_PER_SEC"`
}

// WebhookConfig настройки webhook режима
type WebhookConfig struct {
	Domain      string `mapstructure:"WEBHOOK_DOMAIN"`
	Port        int    `mapstructure:"WEBHOOK_PORT"`
	Path        string `mapstructure:"WEBHOOK_PATH"`
	SecretToken string `mapstructure:"WEBHOOK_SECRET_TOKEN"`
}

// PollingConfig настройки long polling
type PollingConfig struct {
	Timeout       int `mapstructure:"POLLING_TIMEOUT"`        // секунды
	RetryInterval int `mapstructure:"POLLING_RETRY_INTERVAL"` // секунды
}

// ExchangeConfig ключи биржи
type ExchangeConfig struct {
	Name      string `mapstructure:"EXCHANGE"` // binance | bybit
	ApiKey    string
	ApiSecret string
	BaseURL   string
	Testnet   bool
}

// TradingConfig параметры торговых команд
type TradingConfig struct {
	QuoteAsset         string          `mapstructure:"QUOTE_ASSET"`
	DefaultQuoteAmount decimal.Decimal `mapstructure:"DEFAULT_QUOTE_AMOUNT"`
	ReferenceAsset     string          `mapstructure:"REFERENCE_ASSET"`
	GatewayTimeout     time.Duration   `mapstructure:"GATEWAY_TIMEOUT"`
	HistoryLimit       int             `mapstructure:"HISTORY_LIMIT"`
	TransferAsset      string          `mapstructure:"TRANSFER_ASSET"`
}

// SessionConfig время жизни незавершенного диалога
type SessionConfig struct {
	TTL           time.Duration `mapstructure:"SESSION_TTL"`
	SweepInterval time.Duration `mapstructure:"SESSION_SWEEP_INTERVAL"`
}

// LoggingConfig настройки логирования
type LoggingConfig struct {
	Level      string `mapstructure:"LOG_LEVEL"`
	File       string `mapstructure:"LOG_FILE"`
	MaxSizeMB  int    `mapstructure:"LOG_MAX_SIZE_MB"`
	MaxBackups int    `mapstructure:"LOG_MAX_BACKUPS"`
	MaxAgeDays int    `mapstructure:"LOG_MAX_AGE_DAYS"`
}

// Config корневая конфигурация приложения
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	DebugMode   bool   `mapstructure:"DEBUG_MODE"`

	Telegram TelegramConfig
	Webhook  WebhookConfig
	Polling  PollingConfig
	Exchange ExchangeConfig
	Trading  TradingConfig
	Session  SessionConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Journal  JournalConfig
	Logging  LoggingConfig
}

func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil {
		fmt.Printf("⚠️  Config file not found, using environment variables\n")
	}

	cfg := &Config{}

	// ======================
	// ОСНОВНЫЕ НАСТРОЙКИ
	// ======================
	cfg.Environment = getEnv("ENVIRONMENT", "production")
	cfg.DebugMode = getEnvBool("DEBUG_MODE", false)

	// ======================
	// TELEGRAM
	// ======================
	cfg.Telegram.BotToken = getEnv("TG_API_KEY", "")
	cfg.Telegram.APIURL = getEnv("TELEGRAM_API_URL", "https://api.telegram.org")
	cfg.Telegram.OwnerID = getEnvInt64("TELEGRAM_OWNER_ID", 0)
	cfg.Telegram.Mode = strings.ToLower(getEnv("TELEGRAM_MODE", "polling"))
	cfg.Telegram.SendRatePerSec = getEnvFloat("SEND_RATE_PER_SEC", 25)

	cfg.Webhook.Domain = getEnv("WEBHOOK_DOMAIN", "")
	cfg.Webhook.Port = getEnvInt("WEBHOOK_PORT", 8443)
	cfg.Webhook.Path = getEnv("WEBHOOK_PATH", "/webhook")
	cfg.Webhook.SecretToken = getEnv("WEBHOOK_SECRET_TOKEN", "")

	cfg.Polling.Timeout = getEnvInt("POLLING_TIMEOUT", 30)
	cfg.Polling.RetryInterval = getEnvInt("POLLING_RETRY_INTERVAL", 5)

	// ======================
	// БИРЖА И API КЛЮЧИ
	// ======================
	cfg.Exchange.Name = strings.ToLower(getEnv("EXCHANGE", "binance"))
	switch cfg.Exchange.Name {
	case "bybit":
		cfg.Exchange.ApiKey = getEnv("BYBIT_API_KEY", "")
		cfg.Exchange.ApiSecret = getEnv("BYBIT_SECRET_KEY", "")
		cfg.Exchange.BaseURL = getEnv("BYBIT_API_URL", "https://api.bybit.com")
		cfg.Exchange.Testnet = getEnvBool("BYBIT_TESTNET", false)
	default:
		cfg.Exchange.ApiKey = getEnv("BINANCE_API_KEY", "")
		cfg.Exchange.ApiSecret = getEnv("BINANCE_API_SECRET", "")
		cfg.Exchange.BaseURL = getEnv("BINANCE_API_URL", "")
		cfg.Exchange.Testnet = getEnvBool("BINANCE_TESTNET", false)
	}

	// ======================
	// ТОРГОВЛЯ
	// ======================
	cfg.Trading.QuoteAsset = strings.ToUpper(getEnv("QUOTE_ASSET", "USDT"))
	cfg.Trading.DefaultQuoteAmount = getEnvDecimal("DEFAULT_QUOTE_AMOUNT", decimal.NewFromInt(10))
	cfg.Trading.ReferenceAsset = strings.ToUpper(getEnv("REFERENCE_ASSET", "SHIB"))
	cfg.Trading.GatewayTimeout = getEnvDuration("GATEWAY_TIMEOUT", 10*time.Second)
	cfg.Trading.HistoryLimit = getEnvInt("HISTORY_LIMIT", 10)
	cfg.Trading.TransferAsset = strings.ToUpper(getEnv("TRANSFER_ASSET", cfg.Trading.QuoteAsset))

	cfg.Session.TTL = getEnvDuration("SESSION_TTL", 5*time.Minute)
	cfg.Session.SweepInterval = getEnvDuration("SESSION_SWEEP_INTERVAL", time.Minute)

	// ======================
	// REDIS
	// ======================
	cfg.Redis.Host = getEnv("REDIS_HOST", "localhost")
	cfg.Redis.Port = getEnvInt("REDIS_PORT", 6379)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)
	cfg.Redis.PoolSize = getEnvInt("REDIS_POOL_SIZE", 10)
	cfg.Redis.MinIdleConns = getEnvInt("REDIS_MIN_IDLE_CONNS", 5)
	cfg.Redis.MaxRetries = getEnvInt("REDIS_MAX_RETRIES", 3)
	cfg.Redis.MinRetryBackoff = getEnvDuration("REDIS_MIN_RETRY_BACKOFF", 8*time.Millisecond)
	cfg.Redis.MaxRetryBackoff = getEnvDuration("REDIS_MAX_RETRY_BACKOFF", 512*time.Millisecond)
	cfg.Redis.DialTimeout = getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.Redis.ReadTimeout = getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.Redis.WriteTimeout = getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.Redis.PoolTimeout = getEnvDuration("REDIS_POOL_TIMEOUT", 4*time.Second)
	cfg.Redis.UpdateDedupTTL = getEnvDuration("REDIS_UPDATE_DEDUP_TTL", 10*time.Minute)
	cfg.Redis.Enabled = getEnvBool("REDIS_ENABLED", false)

	// ======================
	// ЖУРНАЛ СДЕЛОК
	// ======================
	cfg.Journal.Enabled = getEnvBool("JOURNAL_ENABLED", true)
	cfg.Journal.Driver = strings.ToLower(getEnv("JOURNAL_DRIVER", "sqlite"))
	cfg.Journal.SQLitePath = getEnv("JOURNAL_SQLITE_PATH", "data/journal.db")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "")
	cfg.Database.Password = getEnv("DB_PASSWORD", "")
	cfg.Database.Name = getEnv("DB_NAME", "")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	cfg.Database.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 5)
	cfg.Database.MaxConnLifetime = getEnvDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute)
	cfg.Database.MaxConnIdleTime = getEnvDuration("DB_MAX_CONN_IDLE_TIME", 10*time.Minute)

	// ======================
	// ЛОГИРОВАНИЕ
	// ======================
	cfg.Logging.Level = getEnv("LOG_LEVEL", "info")
	cfg.Logging.File = getEnv("LOG_FILE", "logs/bot.log")
	cfg.Logging.MaxSizeMB = getEnvInt("LOG_MAX_SIZE_MB", 50)
	cfg.Logging.MaxBackups = getEnvInt("LOG_MAX_BACKUPS", 5)
	cfg.Logging.MaxAgeDays = getEnvInt("LOG_MAX_AGE_DAYS", 14)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	var validationErrors []string

	switch c.Exchange.Name {
	case "bybit":
		if c.Exchange.ApiKey == "" {
			validationErrors = append(validationErrors, "BYBIT_API_KEY is required")
		}
		if c.Exchange.ApiSecret == "" {
			validationErrors = append(validationErrors, "BYBIT_SECRET_KEY is required")
		}
	case "binance":
		if c.Exchange.ApiKey == "" {
			validationErrors = append(validationErrors, "BINANCE_API_KEY is required")
		}
		if c.Exchange.ApiSecret == "" {
			validationErrors = append(validationErrors, "BINANCE_API_SECRET is required")
		}
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("unsupported EXCHANGE %q", c.Exchange.Name))
	}

	if c.Telegram.BotToken == "" {
		validationErrors = append(validationErrors, "TG_API_KEY is required")
	}
	if c.Telegram.OwnerID == 0 {
		validationErrors = append(validationErrors, "TELEGRAM_OWNER_ID is required")
	}
	switch c.Telegram.Mode {
	case "polling":
	case "webhook":
		if c.Webhook.Domain == "" {
			validationErrors = append(validationErrors, "WEBHOOK_DOMAIN is required in webhook mode")
		}
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("unsupported TELEGRAM_MODE %q", c.Telegram.Mode))
	}

	if c.Trading.QuoteAsset == "" {
		validationErrors = append(validationErrors, "QUOTE_ASSET must not be empty")
	}
	if !c.Trading.DefaultQuoteAmount.IsPositive() {
		validationErrors = append(validationErrors, "DEFAULT_QUOTE_AMOUNT must be positive")
	}
	if c.Trading.GatewayTimeout <= 0 {
		validationErrors = append(validationErrors, "GATEWAY_TIMEOUT must be positive")
	}
	if c.Session.TTL <= 0 {
		validationErrors = append(validationErrors, "SESSION_TTL must be positive")
	}

	if c.Journal.Enabled {
		switch c.Journal.Driver {
		case "sqlite":
		case "postgres":
			if c.Database.Name == "" {
				validationErrors = append(validationErrors, "DB_NAME is required for postgres journal")
			}
		default:
			validationErrors = append(validationErrors, fmt.Sprintf("unsupported JOURNAL_DRIVER %q", c.Journal.Driver))
		}
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(validationErrors, "; "))
	}
	return nil
}

// Validate публичная проверка конфигурации
func (c *Config) Validate() error {
	return c.validate()
}

// GetPostgresDSN возвращает DSN для подключения к PostgreSQL
func (c *Config) GetPostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) IsWebhookMode() bool {
	return c.Telegram.Mode == "webhook"
}

func (c *Config) IsPollingMode() bool {
	return c.Telegram.Mode == "polling"
}

// GetWebhookURL полный адрес webhook для setWebhook
func (c *Config) GetWebhookURL() string {
	domain := strings.TrimSuffix(c.Webhook.Domain, "/")
	if !strings.HasPrefix(domain, "http") {
		domain = "https://" + domain
	}
	return domain + c.Webhook.Path
}

// GetTelegramBaseURL адрес методов Bot API с токеном
func (c *Config) GetTelegramBaseURL() string {
	return strings.TrimSuffix(c.Telegram.APIURL, "/") + "/bot" + c.Telegram.BotToken + "/"
}

func (c *Config) GetRedisAddress() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func (c *Config) IsDev() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// PrintSummary выводит ключевые настройки при старте
func (c *Config) PrintSummary() {
	log.Printf("📋 Конфигурация приложения:")
	log.Printf("   • Окружение: %s", c.Environment)
	log.Printf("   • Биржа: %s (testnet: %v)", strings.ToUpper(c.Exchange.Name), c.Exchange.Testnet)
	log.Printf("   • Уровень логирования: %s", c.Logging.Level)
	log.Printf("   • Telegram режим: %s", c.Telegram.Mode)
	log.Printf("   • Владелец: %d", c.Telegram.OwnerID)
	log.Printf("   • Котируемая валюта: %s, сумма по умолчанию: %s",
		c.Trading.QuoteAsset, c.Trading.DefaultQuoteAmount.String())
	log.Printf("   • Таймаут биржи: %v", c.Trading.GatewayTimeout)
	log.Printf("   • Сессия: TTL %v, очистка каждые %v", c.Session.TTL, c.Session.SweepInterval)

	if c.Journal.Enabled {
		log.Printf("   • Журнал сделок: %s", c.Journal.Driver)
	}
	if c.Redis.Enabled {
		log.Printf("   • Redis: %s (DB: %d, Pool: %d)", c.GetRedisAddress(), c.Redis.DB, c.Redis.PoolSize)
	}

	if c.IsWebhookMode() {
		log.Printf("   • Webhook URL: %s", c.GetWebhookURL())
		log.Printf("   • Webhook порт: %d", c.Webhook.Port)
	} else {
		log.Printf("   • Polling timeout: %d сек", c.Polling.Timeout)
	}

	token := c.Telegram.BotToken
	if len(token) > 10 {
		token = token[:5] + "..." + token[len(token)-5:]
	}
	log.Printf("   • Telegram Token: %s", token)
}

// ============================================
// ВСПОМОГАТЕЛЬНЫЕ ФУНКЦИИ
// ============================================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}
