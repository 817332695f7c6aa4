// internal/infrastructure/persistence/journal/repository.go
package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository доступ к журналу сделок
type Repository interface {
	// Save присваивает ID и время, если они пусты, и сохраняет запись
	Save(ctx context.Context, entry *Entry) error
	// ListRecent последние записи пользователя, новые первыми
	ListRecent(ctx context.Context, userID int64, limit int) ([]*Entry, error)
}

type repositoryImpl struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewRepository создает реализацию Repository
func NewRepository(db *sqlx.DB) Repository {
	return &repositoryImpl{db: db, now: time.Now}
}

func (r *repositoryImpl) Save(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now().UTC()
	}

	query := `
		INSERT INTO trade_journal (id, user_id, action, symbol, side, quantity, quote_amount, status, detail, created_at)
		VALUES (:id, :user_id, :action, :symbol, :side, :quantity, :quote_amount, :status, :detail, :created_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("JournalRepo.Save: %w", err)
	}
	return nil
}

func (r *repositoryImpl) ListRecent(ctx context.Context, userID int64, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 10
	}

	query := r.db.Rebind(`
		SELECT id, user_id, action, symbol, side, quantity, quote_amount, status, detail, created_at
		FROM trade_journal
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`)

	var entries []*Entry
	if err := r.db.SelectContext(ctx, &entries, query, userID, limit); err != nil {
		return nil, fmt.Errorf("JournalRepo.ListRecent: %w", err)
	}
	return entries, nil
}

// NopRepository журнал выключен
type NopRepository struct{}

func (NopRepository) Save(context.Context, *Entry) error { return nil }

func (NopRepository) ListRecent(context.Context, int64, int) ([]*Entry, error) {
	return nil, nil
}
