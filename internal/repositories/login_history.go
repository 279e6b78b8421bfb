package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/ncmx/internal/models"
	"github.com/desertthunder/ncmx/internal/shared"
)

// DefaultHistoryLimit is used by [LoginHistoryRepository.List] for non-positive limits.
const DefaultHistoryLimit = 20

// LoginHistoryRepository persists [models.LoginRecord] rows.
type LoginHistoryRepository struct {
	db *sql.DB
}

// NewLoginHistoryRepository creates a new [LoginHistoryRepository] with the given database connection
func NewLoginHistoryRepository(db *sql.DB) *LoginHistoryRepository {
	return &LoginHistoryRepository{db: db}
}

// Create inserts record with a generated ID
func (r *LoginHistoryRepository) Create(ctx context.Context, record *models.LoginRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()
	query := `
		INSERT INTO login_history (id, username, user_id, nickname, created_at) VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, id, record.Username(), record.UserID(), record.Nickname(), record.CreatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert login record: %w", err)
	}

	record.SetID(id)
	return nil
}

// List returns the most recent logins first, at most limit of them
func (r *LoginHistoryRepository) List(ctx context.Context, limit int) ([]*models.LoginRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := `
		SELECT id, username, user_id, nickname, created_at
		FROM login_history
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query login history: %w", err)
	}
	defer rows.Close()

	var records []*models.LoginRecord
	for rows.Next() {
		var (
			id        string
			username  string
			userID    int64
			nickname  string
			createdAt time.Time
		)

		if err := rows.Scan(&id, &username, &userID, &nickname, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan login record: %w", err)
		}
		records = append(records, models.RestoreLoginRecord(id, username, userID, nickname, createdAt))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return records, nil
}
