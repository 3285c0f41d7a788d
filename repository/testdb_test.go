package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shareshelf/shareshelf/database"
	"github.com/shareshelf/shareshelf/models"
)

// newTestDB, in-memory SQLite açar ve migration'ları uygular.
// Her test kendi izole veritabanını alır — testler birbirini göremez.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(":memory:", database.Migrations())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db.Conn
}

// createTestUser, FK constraint'leri için gerçek bir kullanıcı satırı oluşturur.
func createTestUser(t *testing.T, repo UserRepository, username, email string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$12$notarealhashbutlongenough1234567890abcdef",
	}
	require.NoError(t, repo.Create(context.Background(), user))
	require.NotEmpty(t, user.ID)

	return user
}
