package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/qs3c/api_access_gate/internal/model"
)

type EndpointRepository struct {
	db *gorm.DB
}

func NewEndpointRepository(db *gorm.DB) *EndpointRepository {
	return &EndpointRepository{db: db}
}

func (r *EndpointRepository) Create(ctx context.Context, endpoint *model.Endpoint) error {
	return r.db.WithContext(ctx).Create(endpoint).Error
}

func (r *EndpointRepository) List(ctx context.Context) ([]*model.Endpoint, error) {
	var endpoints []*model.Endpoint
	err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&endpoints).Error
	return endpoints, err
}

func (r *EndpointRepository) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Endpoint{})
	return result.RowsAffected, result.Error
}

func (r *EndpointRepository) ExistsByIdentifier(ctx context.Context, identifier string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Endpoint{}).Where("endpoint = ?", identifier).Count(&count).Error
	return count > 0, err
}
