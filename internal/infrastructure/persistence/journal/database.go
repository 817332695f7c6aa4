// internal/infrastructure/persistence/journal/database.go
package journal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"crypto-exchange-trading-bot/internal/infrastructure/config"
	"crypto-exchange-trading-bot/pkg/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

const schema = `
CREATE TABLE IF NOT EXISTS trade_journal (
	id           TEXT PRIMARY KEY,
	user_id      BIGINT NOT NULL,
	action       TEXT NOT NULL,
	symbol       TEXT NOT NULL DEFAULT '',
	side         TEXT NOT NULL DEFAULT '',
	quantity     TEXT NOT NULL DEFAULT '0',
	quote_amount TEXT NOT NULL DEFAULT '0',
	status       TEXT NOT NULL,
	detail       TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trade_journal_user_created ON trade_journal (user_id, created_at);
`

// ServiceState состояние сервиса
type ServiceState string

const (
	StateStopped ServiceState = "stopped"
	StateRunning ServiceState = "running"
	StateError   ServiceState = "error"
)

// DatabaseService подключение к хранилищу журнала
type DatabaseService struct {
	driver string
	dsn    string
	pool   config.DatabaseConfig

	mu    sync.RWMutex
	db    *sqlx.DB
	state ServiceState
}

// NewDatabaseService выбирает драйвер по конфигурации журнала
func NewDatabaseService(cfg *config.Config) *DatabaseService {
	ds := &DatabaseService{
		driver: cfg.Journal.Driver,
		pool:   cfg.Database,
		state:  StateStopped,
	}
	if ds.driver == DriverPostgres {
		ds.dsn = cfg.GetPostgresDSN()
	} else {
		ds.driver = DriverSQLite
		ds.dsn = cfg.Journal.SQLitePath
	}
	return ds
}

// NewSQLiteService открывает sqlite по пути или ":memory:"
func NewSQLiteService(path string) *DatabaseService {
	return &DatabaseService{driver: DriverSQLite, dsn: path, state: StateStopped}
}

// Start открывает соединение, проверяет его и создает схему
func (ds *DatabaseService) Start() error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.state == StateRunning {
		return fmt.Errorf("database service already running")
	}

	logger.Info("🔄 Starting journal database (%s)...", ds.driver)

	if ds.driver == DriverSQLite && ds.dsn != ":memory:" {
		if dir := filepath.Dir(ds.dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				ds.state = StateError
				return fmt.Errorf("failed to create journal dir: %w", err)
			}
		}
	}

	db, err := sqlx.Open(ds.driver, ds.dsn)
	if err != nil {
		ds.state = StateError
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if ds.driver == DriverSQLite {
		// Одно соединение: :memory: живет в пределах соединения, а запись в sqlite последовательна
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(ds.pool.MaxOpenConns)
		db.SetMaxIdleConns(ds.pool.MaxIdleConns)
		db.SetConnMaxLifetime(ds.pool.MaxConnLifetime)
		db.SetConnMaxIdleTime(ds.pool.MaxConnIdleTime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		ds.state = StateError
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		ds.state = StateError
		return fmt.Errorf("failed to apply journal schema: %w", err)
	}

	ds.db = db
	ds.state = StateRunning
	logger.Info("✅ Journal database ready (%s)", ds.driver)
	return nil
}

// Stop закрывает соединение
func (ds *DatabaseService) Stop() error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.state != StateRunning {
		return nil
	}
	err := ds.db.Close()
	ds.db = nil
	ds.state = StateStopped
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	logger.Info("✅ Journal database stopped")
	return nil
}

// GetDB возвращает подключение
func (ds *DatabaseService) GetDB() *sqlx.DB {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.db
}

func (ds *DatabaseService) State() ServiceState {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.state
}
