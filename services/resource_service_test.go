package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shareshelf/shareshelf/database"
	"github.com/shareshelf/shareshelf/models"
	"github.com/shareshelf/shareshelf/pkg"
	"github.com/shareshelf/shareshelf/pkg/cache"
	"github.com/shareshelf/shareshelf/repository"
	"github.com/shareshelf/shareshelf/ws"
)

// recordingPublisher, broadcast edilen event'leri yakalar.
type recordingPublisher struct {
	mu     sync.Mutex
	events []ws.Event
}

func (p *recordingPublisher) BroadcastToAll(event ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) BroadcastToUser(userID string, event ws.Event) {
	p.BroadcastToAll(event)
}

func (p *recordingPublisher) GetOnlineUserIDs() []string { return nil }

func (p *recordingPublisher) all() []ws.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ws.Event(nil), p.events...)
}

type resourceTestEnv struct {
	svc      ResourceService
	pub      *recordingPublisher
	cache    *cache.TTLCache[models.ResourceType, []models.Resource]
	uploader *models.User
}

func newResourceTestEnv(t *testing.T) *resourceTestEnv {
	t.Helper()

	db, err := database.New(":memory:", database.Migrations())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	userRepo := repository.NewSQLiteUserRepo(db.Conn)
	resourceRepo := repository.NewSQLiteResourceRepo(db.Conn)

	uploader := &models.User{
		Username:     "seller",
		Email:        "seller@example.com",
		PasswordHash: "hash",
	}
	require.NoError(t, userRepo.Create(context.Background(), uploader))

	pub := &recordingPublisher{}
	listCache := cache.New[models.ResourceType, []models.Resource](time.Minute, time.Hour)
	t.Cleanup(listCache.Close)

	return &resourceTestEnv{
		svc:      NewResourceService(resourceRepo, pub, listCache),
		pub:      pub,
		cache:    listCache,
		uploader: uploader,
	}
}

func validResourceReq() *models.CreateResourceRequest {
	return &models.CreateResourceRequest{
		ResourceType:     models.ResourceBook,
		Author:           "Ursula K. Le Guin",
		Title:            "Always Coming Home",
		Format:           models.FormatPhysical,
		ShortDescription: "anthropology of the future",
		Stock:            1,
		SellPrice:        25,
		Tags:             []string{"fiction"},
	}
}

func TestResourceCreateBroadcastsEvent(t *testing.T) {
	env := newResourceTestEnv(t)

	res, err := env.svc.Create(context.Background(), env.uploader.ID, validResourceReq())
	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, env.uploader.ID, res.UploaderID)

	events := env.pub.all()
	require.Len(t, events, 1)
	assert.Equal(t, ws.OpResourceCreate, events[0].Op)
}

func TestResourceCreateValidation(t *testing.T) {
	env := newResourceTestEnv(t)

	req := validResourceReq()
	req.Title = ""
	_, err := env.svc.Create(context.Background(), env.uploader.ID, req)
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
	// Geçersiz istek event üretmez.
	assert.Empty(t, env.pub.all())
}

func TestResourceGetAllUsesCache(t *testing.T) {
	env := newResourceTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, env.uploader.ID, validResourceReq())
	require.NoError(t, err)

	first, err := env.svc.GetAll(ctx, "")
	require.NoError(t, err)
	require.Len(t, first, 1)

	// İkinci çağrı cache'ten gelir — cache'i elle zehirleyerek kanıtla.
	env.cache.Set("", []models.Resource{})
	second, err := env.svc.GetAll(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestResourceCreateInvalidatesCache(t *testing.T) {
	env := newResourceTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, env.uploader.ID, validResourceReq())
	require.NoError(t, err)

	list, err := env.svc.GetAll(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 1)

	// Yeni kayıt cache'i temizler — liste hemen taze gelir.
	req := validResourceReq()
	req.Title = "Second Resource"
	_, err = env.svc.Create(ctx, env.uploader.ID, req)
	require.NoError(t, err)

	list, err = env.svc.GetAll(ctx, "")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestResourceGetByIDIncrementsViews(t *testing.T) {
	env := newResourceTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.Create(ctx, env.uploader.ID, validResourceReq())
	require.NoError(t, err)

	got, err := env.svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Views)

	got, err = env.svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Views)
}

func TestResourceGetByIDNotFound(t *testing.T) {
	env := newResourceTestEnv(t)

	_, err := env.svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}
