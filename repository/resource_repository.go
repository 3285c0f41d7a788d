package repository

import (
	"context"

	"github.com/shareshelf/shareshelf/models"
)

// ResourceRepository, akademik kaynak listeleme işlemleri için interface.
type ResourceRepository interface {
	Create(ctx context.Context, resource *models.Resource) error
	// GetAll, kaynakları uploader bilgisiyle birlikte döner (JOIN).
	// resourceType boş değilse o türle filtrelenir.
	GetAll(ctx context.Context, resourceType models.ResourceType) ([]models.Resource, error)
	GetByID(ctx context.Context, id string) (*models.Resource, error)
	// IncrementViews, görüntülenme sayacını artırır — detay sayfası her
	// açıldığında çağrılır, kaybı tolere edilebilir (best effort).
	IncrementViews(ctx context.Context, id string) error
}
