// Package authsvc - service khóa API (ApiKey).
package authsvc

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	models "access_governance/internal/api/auth/models"
	basesvc "access_governance/internal/api/base/service"
	"access_governance/internal/common"
	"access_governance/internal/global"
)

// ApiKeyService là cấu trúc chứa các phương thức liên quan đến khóa API
type ApiKeyService struct {
	*basesvc.BaseServiceMongoImpl[models.ApiKey]
}

// NewApiKeyService tạo mới ApiKeyService
func NewApiKeyService() (*ApiKeyService, error) {
	apiKeyCollection, exist := global.RegistryCollections.Get(global.ColNames.ApiKeys)
	if !exist {
		return nil, fmt.Errorf("failed to get api_keys collection: %v", common.ErrNotFound)
	}

	return &ApiKeyService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.ApiKey](apiKeyCollection),
	}, nil
}

// InsertOne override để tự sinh giá trị key, client không được tự chỉ định
func (s *ApiKeyService) InsertOne(ctx context.Context, data models.ApiKey) (models.ApiKey, error) {
	data.Key = uuid.NewString()
	data.IsActive = true
	return s.BaseServiceMongoImpl.InsertOne(ctx, data)
}
