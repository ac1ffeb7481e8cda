package authhdl

import (
	"fmt"

	authdto "access_governance/internal/api/auth/dto"
	models "access_governance/internal/api/auth/models"
	authsvc "access_governance/internal/api/auth/service"
	basehdl "access_governance/internal/api/base/handler"
)

// OrganizationHandler xử lý các request quản lý tổ chức
type OrganizationHandler struct {
	*basehdl.BaseHandler[models.Organization, authdto.OrganizationCreateInput, authdto.OrganizationUpdateInput]
	organizationService *authsvc.OrganizationService
}

// NewOrganizationHandler tạo instance mới của OrganizationHandler
func NewOrganizationHandler() (*OrganizationHandler, error) {
	organizationService, err := authsvc.NewOrganizationService()
	if err != nil {
		return nil, fmt.Errorf("failed to create organization service: %v", err)
	}
	return &OrganizationHandler{
		BaseHandler:         basehdl.NewBaseHandler[models.Organization, authdto.OrganizationCreateInput, authdto.OrganizationUpdateInput](organizationService),
		organizationService: organizationService,
	}, nil
}

// ApiKeyHandler xử lý các request quản lý khóa API
type ApiKeyHandler struct {
	*basehdl.BaseHandler[models.ApiKey, authdto.ApiKeyCreateInput, authdto.ApiKeyUpdateInput]
}

// NewApiKeyHandler tạo instance mới của ApiKeyHandler
func NewApiKeyHandler() (*ApiKeyHandler, error) {
	apiKeyService, err := authsvc.NewApiKeyService()
	if err != nil {
		return nil, fmt.Errorf("failed to create api key service: %v", err)
	}
	return &ApiKeyHandler{
		BaseHandler: basehdl.NewBaseHandler[models.ApiKey, authdto.ApiKeyCreateInput, authdto.ApiKeyUpdateInput](apiKeyService),
	}, nil
}
