package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shareshelf/shareshelf/models"
	"github.com/shareshelf/shareshelf/pkg"
)

// newTestResource, tüm JSON kolonlarını dolduran örnek bir kaynak üretir.
func newTestResource(uploaderID string) *models.Resource {
	license := models.LicenseAuthor
	return &models.Resource{
		UploaderID:       uploaderID,
		ResourceType:     models.ResourceBook,
		Author:           "Donald Knuth",
		Title:            "The Art of Computer Programming",
		Format:           models.FormatBoth,
		License:          &license,
		LicenseFiles:     []string{"/api/uploads/lic1.pdf"},
		Description:      "Volume 1: Fundamental Algorithms",
		ShortDescription: "Classic CS reference",
		CoverImageURLs:   []string{"/api/uploads/cover1.jpg"},
		ResourceImages:   []string{"/api/uploads/img1.jpg", "/api/uploads/img2.jpg"},
		Tags:             []string{"algorithms", "classic"},
		Specifications:   map[string]string{"edition": "3rd", "pages": "672"},
		Stock:            2,
		RentPrice:        5.5,
		SellPrice:        120,
		RentPeriod:       models.RentPeriod{Min: 7, Max: 90, Value: 30},
		Shipping: models.ShippingInfo{
			FreeShipping:  true,
			EstimatedDays: "2-4 days",
			ReturnPolicy:  "14 days return policy",
		},
	}
}

func TestResourceCreateAndGetByID(t *testing.T) {
	conn := newTestDB(t)
	userRepo := NewSQLiteUserRepo(conn)
	repo := NewSQLiteResourceRepo(conn)
	ctx := context.Background()

	user := createTestUser(t, userRepo, "uploader", "uploader@example.com")

	res := newTestResource(user.ID)
	require.NoError(t, repo.Create(ctx, res))
	require.NotEmpty(t, res.ID)

	// DB default'ları geri yazıldı.
	assert.Equal(t, models.StatusAvailable, res.Status)
	assert.True(t, res.IsActive)
	assert.Zero(t, res.Views)

	got, err := repo.GetByID(ctx, res.ID)
	require.NoError(t, err)

	// JSON kolonları kayıpsız geri gelir.
	assert.Equal(t, res.Tags, got.Tags)
	assert.Equal(t, res.CoverImageURLs, got.CoverImageURLs)
	assert.Equal(t, res.ResourceImages, got.ResourceImages)
	assert.Equal(t, res.LicenseFiles, got.LicenseFiles)
	assert.Equal(t, res.Specifications, got.Specifications)
	assert.Equal(t, res.RentPeriod, got.RentPeriod)
	assert.Equal(t, res.Shipping, got.Shipping)
	require.NotNil(t, got.License)
	assert.Equal(t, models.LicenseAuthor, *got.License)

	// Uploader JOIN ile dolduruldu, hassas alanlar boş.
	require.NotNil(t, got.Uploader)
	assert.Equal(t, user.ID, got.Uploader.ID)
	assert.Equal(t, "uploader", got.Uploader.Username)
	assert.Empty(t, got.Uploader.PasswordHash)
}

func TestResourceGetByIDNotFound(t *testing.T) {
	conn := newTestDB(t)
	repo := NewSQLiteResourceRepo(conn)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestResourceGetAllFiltersByType(t *testing.T) {
	conn := newTestDB(t)
	userRepo := NewSQLiteUserRepo(conn)
	repo := NewSQLiteResourceRepo(conn)
	ctx := context.Background()

	user := createTestUser(t, userRepo, "multi", "multi@example.com")

	book := newTestResource(user.ID)
	require.NoError(t, repo.Create(ctx, book))

	notes := newTestResource(user.ID)
	notes.ResourceType = models.ResourceNotes
	notes.Title = "Calculus II Notes"
	require.NoError(t, repo.Create(ctx, notes))

	all, err := repo.GetAll(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyNotes, err := repo.GetAll(ctx, models.ResourceNotes)
	require.NoError(t, err)
	require.Len(t, onlyNotes, 1)
	assert.Equal(t, "Calculus II Notes", onlyNotes[0].Title)
}

func TestResourceIncrementViews(t *testing.T) {
	conn := newTestDB(t)
	userRepo := NewSQLiteUserRepo(conn)
	repo := NewSQLiteResourceRepo(conn)
	ctx := context.Background()

	user := createTestUser(t, userRepo, "viewer", "viewer@example.com")
	res := newTestResource(user.ID)
	require.NoError(t, repo.Create(ctx, res))

	require.NoError(t, repo.IncrementViews(ctx, res.ID))
	require.NoError(t, repo.IncrementViews(ctx, res.ID))

	got, err := repo.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Views)
}
