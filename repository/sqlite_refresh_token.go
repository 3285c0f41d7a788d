package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shareshelf/shareshelf/models"
)

// sqliteRefreshTokenRepo, RefreshTokenRepository'nin SQLite implementasyonu.
type sqliteRefreshTokenRepo struct {
	db *sql.DB
}

// NewSQLiteRefreshTokenRepo, constructor.
func NewSQLiteRefreshTokenRepo(db *sql.DB) RefreshTokenRepository {
	return &sqliteRefreshTokenRepo{db: db}
}

func (r *sqliteRefreshTokenRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (token, user_id, expires_at)
		VALUES (?, ?, ?)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		token.Token,
		token.UserID,
		token.ExpiresAt,
	).Scan(&token.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create refresh token record: %w", err)
	}

	return nil
}

// Consume, kaydı siler ve silinen satır sayısına bakar.
//
// DELETE tek statement'tır — SQLite bunu atomik çalıştırır. Aynı token
// için iki eşzamanlı Consume'dan yalnızca biri affected=1 görür; diğeri
// affected=0 alır ve caller bunu "token bulunamadı" olarak değerlendirir.
func (r *sqliteRefreshTokenRepo) Consume(ctx context.Context, token string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = ?`, token)
	if err != nil {
		return false, fmt.Errorf("failed to consume refresh token: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}

	return affected > 0, nil
}

func (r *sqliteRefreshTokenRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at < CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("failed to delete expired refresh tokens: %w", err)
	}
	return nil
}
