package services

import (
	"context"
	"fmt"
	"log"

	"github.com/shareshelf/shareshelf/models"
	"github.com/shareshelf/shareshelf/pkg"
	"github.com/shareshelf/shareshelf/pkg/cache"
	"github.com/shareshelf/shareshelf/repository"
	"github.com/shareshelf/shareshelf/ws"
)

// ResourceService — akademik kaynak listeleme ve görüntüleme.
type ResourceService interface {
	Create(ctx context.Context, uploaderID string, req *models.CreateResourceRequest) (*models.Resource, error)
	// GetAll, kaynakları listeler. resourceType boşsa tümü döner.
	GetAll(ctx context.Context, resourceType models.ResourceType) ([]models.Resource, error)
	// GetByID, tek kaynağı döner ve görüntülenme sayacını artırır.
	GetByID(ctx context.Context, id string) (*models.Resource, error)
}

type resourceService struct {
	resourceRepo repository.ResourceRepository
	hub          ws.EventPublisher
	// listCache: liste endpoint'i anasayfada her gezinmede çağrılır —
	// kısa TTL'li cache JOIN'li sorguyu request başına tekrarlamaz.
	// Key: resource type filtresi ("" = tümü).
	listCache *cache.TTLCache[models.ResourceType, []models.Resource]
}

// NewResourceService, constructor.
func NewResourceService(
	resourceRepo repository.ResourceRepository,
	hub ws.EventPublisher,
	listCache *cache.TTLCache[models.ResourceType, []models.Resource],
) ResourceService {
	return &resourceService{
		resourceRepo: resourceRepo,
		hub:          hub,
		listCache:    listCache,
	}
}

// Create, yeni kaynak listeler.
//
// Başarılı kayıttan sonra resource_create event'i tüm bağlı kullanıcılara
// broadcast edilir ve liste cache'i invalidate edilir — yeni kaynak bir
// sonraki listede görünür.
func (s *resourceService) Create(ctx context.Context, uploaderID string, req *models.CreateResourceRequest) (*models.Resource, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	resource := &models.Resource{
		UploaderID:       uploaderID,
		ResourceType:     req.ResourceType,
		Author:           req.Author,
		Title:            req.Title,
		Format:           req.Format,
		License:          req.License,
		LicenseFiles:     req.LicenseFiles,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		CoverImageURLs:   req.CoverImageURLs,
		ResourceImages:   req.ResourceImages,
		Tags:             req.Tags,
		Specifications:   req.Specifications,
		Stock:            req.Stock,
		RentPrice:        req.RentPrice,
		SellPrice:        req.SellPrice,
		RentPeriod:       req.RentPeriod,
		Shipping:         req.Shipping,
	}

	if err := s.resourceRepo.Create(ctx, resource); err != nil {
		return nil, err
	}

	s.listCache.Clear()

	s.hub.BroadcastToAll(ws.Event{
		Op:   ws.OpResourceCreate,
		Data: resource,
	})

	return resource, nil
}

// GetAll, kaynakları listeler (cache-aside).
func (s *resourceService) GetAll(ctx context.Context, resourceType models.ResourceType) ([]models.Resource, error) {
	if cached, ok := s.listCache.Get(resourceType); ok {
		return cached, nil
	}

	resources, err := s.resourceRepo.GetAll(ctx, resourceType)
	if err != nil {
		return nil, err
	}

	s.listCache.Set(resourceType, resources)
	return resources, nil
}

// GetByID, tek kaynağı döner.
//
// Görüntülenme sayacı best effort artırılır — sayaç güncellemesi
// başarısız olsa bile detay sayfası açılır, hata sadece loglanır.
func (s *resourceService) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	resource, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.resourceRepo.IncrementViews(ctx, id); err != nil {
		log.Printf("[resource] failed to increment views for %s: %v", id, err)
	} else {
		resource.Views++
	}

	return resource, nil
}
