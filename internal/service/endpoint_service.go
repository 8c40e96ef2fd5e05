package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/qs3c/api_access_gate/internal/model"
	"github.com/qs3c/api_access_gate/internal/model/dto"
	"github.com/qs3c/api_access_gate/internal/repository"
)

var (
	ErrEndpointExists   = errors.New("接口已登记")
	ErrEndpointNotFound = errors.New("接口不存在")
)

// EndpointService 接口目录。套餐可以引用未登记的接口标识，目录仅供运营参考
type EndpointService struct {
	endpointRepo *repository.EndpointRepository
	logger       *slog.Logger
}

func NewEndpointService(endpointRepo *repository.EndpointRepository, logger *slog.Logger) *EndpointService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EndpointService{
		endpointRepo: endpointRepo,
		logger:       logger.With("component", "endpoint_catalog"),
	}
}

// AddEndpoint 登记接口
func (s *EndpointService) AddEndpoint(ctx context.Context, name, identifier, description string) (*dto.EndpointInfo, error) {
	identifier = strings.TrimSpace(identifier)

	exists, err := s.endpointRepo.ExistsByIdentifier(ctx, identifier)
	if err != nil {
		return nil, storageError(err)
	}
	if exists {
		return nil, ErrEndpointExists
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	endpoint := &model.Endpoint{
		ID:          id.String(),
		Name:        name,
		Identifier:  identifier,
		Description: description,
	}
	if err := s.endpointRepo.Create(ctx, endpoint); err != nil {
		return nil, translateErr(err, nil, ErrEndpointExists)
	}

	s.logger.InfoContext(ctx, "endpoint added", "endpoint_id", endpoint.ID, "endpoint", identifier)
	return buildEndpointInfo(endpoint), nil
}

// ListEndpoints 按登记顺序列出接口
func (s *EndpointService) ListEndpoints(ctx context.Context) ([]*dto.EndpointInfo, error) {
	endpoints, err := s.endpointRepo.List(ctx)
	if err != nil {
		return nil, storageError(err)
	}

	items := make([]*dto.EndpointInfo, 0, len(endpoints))
	for _, e := range endpoints {
		items = append(items, buildEndpointInfo(e))
	}
	return items, nil
}

// DeleteEndpoint 删除接口目录项，不影响已引用它的套餐
func (s *EndpointService) DeleteEndpoint(ctx context.Context, id string) error {
	affected, err := s.endpointRepo.Delete(ctx, id)
	if err != nil {
		return storageError(err)
	}
	if affected == 0 {
		return ErrEndpointNotFound
	}

	s.logger.InfoContext(ctx, "endpoint deleted", "endpoint_id", id)
	return nil
}

func buildEndpointInfo(e *model.Endpoint) *dto.EndpointInfo {
	return &dto.EndpointInfo{
		ID:          e.ID,
		Name:        e.Name,
		Endpoint:    e.Identifier,
		Description: e.Description,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}
