package authdto

// OrganizationCreateInput dùng cho tạo tổ chức.
type OrganizationCreateInput struct {
	Name     string `json:"name" validate:"required"`
	Code     string `json:"code" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=system company department team"`
	ParentID string `json:"parentId,omitempty"`
	IsActive bool   `json:"isActive"`
}

// OrganizationUpdateInput dùng cho cập nhật tổ chức.
type OrganizationUpdateInput struct {
	Name     string `json:"name"`
	Type     string `json:"type" validate:"omitempty,oneof=system company department team"`
	IsActive *bool  `json:"isActive,omitempty"`
}

// ApiKeyCreateInput dùng cho tạo khóa API.
type ApiKeyCreateInput struct {
	Name string `json:"name" validate:"required"`
}

// ApiKeyUpdateInput dùng cho cập nhật khóa API.
type ApiKeyUpdateInput struct {
	Name     string `json:"name"`
	IsActive *bool  `json:"isActive,omitempty"`
}
