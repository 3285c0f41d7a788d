package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shareshelf/shareshelf/models"
	"github.com/shareshelf/shareshelf/pkg"
)

func TestUserCreateDefaults(t *testing.T) {
	conn := newTestDB(t)
	repo := NewSQLiteUserRepo(conn)

	user := createTestUser(t, repo, "alice", "alice@example.com")

	// DB tarafından atanan default'lar struct'a geri yazılır.
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, models.AccountActive, user.AccountStatus)
	assert.NotEmpty(t, user.ResponseTime)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestUserUniqueConstraints(t *testing.T) {
	conn := newTestDB(t)
	repo := NewSQLiteUserRepo(conn)
	ctx := context.Background()

	createTestUser(t, repo, "bob", "bob@example.com")

	// Aynı email, farklı username.
	err := repo.Create(ctx, &models.User{
		Username:     "bob2",
		Email:        "bob@example.com",
		PasswordHash: "hash",
	})
	require.ErrorIs(t, err, pkg.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "email")

	// Aynı username, farklı email.
	err = repo.Create(ctx, &models.User{
		Username:     "bob",
		Email:        "other@example.com",
		PasswordHash: "hash",
	})
	require.ErrorIs(t, err, pkg.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "username")
}

func TestUserGetByEmail(t *testing.T) {
	conn := newTestDB(t)
	repo := NewSQLiteUserRepo(conn)
	ctx := context.Background()

	created := createTestUser(t, repo, "carol", "carol@example.com")

	got, err := repo.GetByEmail(ctx, "carol@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "carol", got.Username)
	assert.NotEmpty(t, got.PasswordHash) // GetByEmail hash'i döner — signin karşılaştırması için

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestUserLocationRoundTrip(t *testing.T) {
	conn := newTestDB(t)
	repo := NewSQLiteUserRepo(conn)
	ctx := context.Background()

	user := &models.User{
		Username:     "dave",
		Email:        "dave@example.com",
		PasswordHash: "hash",
		Location: &models.Location{
			City:    "Ankara",
			Country: "Turkey",
		},
	}
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Location)
	assert.Equal(t, "Ankara", got.Location.City)
	assert.Equal(t, "Turkey", got.Location.Country)
	assert.Empty(t, got.Location.State)
}

func TestUserPartialUpdate(t *testing.T) {
	conn := newTestDB(t)
	repo := NewSQLiteUserRepo(conn)
	ctx := context.Background()

	user := createTestUser(t, repo, "erin", "erin@example.com")

	bio := "Collector of rare journals"
	name := "Erin"
	require.NoError(t, repo.Update(ctx, user.ID, &models.UpdateUserRequest{
		Name: &name,
		Bio:  &bio,
	}))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Name)
	assert.Equal(t, "Erin", *got.Name)
	require.NotNil(t, got.Bio)
	assert.Equal(t, bio, *got.Bio)
	// Dokunulmayan alanlar değişmedi.
	assert.Equal(t, "erin", got.Username)
}

func TestUserUpdateNoFields(t *testing.T) {
	conn := newTestDB(t)
	repo := NewSQLiteUserRepo(conn)

	user := createTestUser(t, repo, "frank", "frank@example.com")

	// Boş request no-op — hata dönmez.
	require.NoError(t, repo.Update(context.Background(), user.ID, &models.UpdateUserRequest{}))
}

func TestUserUpdateNotFound(t *testing.T) {
	conn := newTestDB(t)
	repo := NewSQLiteUserRepo(conn)

	name := "Ghost"
	err := repo.Update(context.Background(), "no-such-id", &models.UpdateUserRequest{Name: &name})
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}
