package authdto

// RoleCreateInput dùng cho tạo vai trò.
type RoleCreateInput struct {
	Name                string `json:"name" validate:"required"`
	Describe            string `json:"describe,omitempty"`
	OwnerOrganizationID string `json:"ownerOrganizationId,omitempty"`
}

// RoleUpdateInput dùng cho cập nhật vai trò.
type RoleUpdateInput struct {
	Name     string `json:"name"`
	Describe string `json:"describe"`
}

// PermissionCreateInput dùng cho tạo quyền.
type PermissionCreateInput struct {
	Name     string `json:"name" validate:"required"`
	Describe string `json:"describe,omitempty"`
	Category string `json:"category,omitempty"`
	Group    string `json:"group,omitempty"`
}

// PermissionUpdateInput dùng cho cập nhật quyền.
type PermissionUpdateInput struct {
	Describe string `json:"describe"`
	Category string `json:"category"`
	Group    string `json:"group"`
}

// RolePermissionCreateInput dùng cho gán quyền vào vai trò.
type RolePermissionCreateInput struct {
	RoleID       string `json:"roleId" validate:"required"`
	PermissionID string `json:"permissionId" validate:"required"`
	Scope        byte   `json:"scope"`
}

// RolePermissionUpdateInput dùng cho cập nhật phạm vi quyền.
type RolePermissionUpdateInput struct {
	Scope byte `json:"scope"`
}

// UserRoleCreateInput dùng cho gán vai trò cho người dùng.
type UserRoleCreateInput struct {
	UserID string `json:"userId" validate:"required"`
	RoleID string `json:"roleId" validate:"required"`
}

// UserRoleUpdateInput dùng cho cập nhật vai trò người dùng.
type UserRoleUpdateInput struct {
	RoleID string `json:"roleId" validate:"required"`
}
