package global

import (
	"access_governance/config"
	"access_governance/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionName chứa tên các collection trong MongoDB
type CollectionName struct {
	Users           string // Tên collection cho người dùng
	Permissions     string // Tên collection cho quyền
	Roles           string // Tên collection cho vai trò
	RolePermissions string // Tên collection cho quan hệ vai trò-quyền
	UserRoles       string // Tên collection cho quan hệ người dùng-vai trò
	Organizations   string // Tên collection cho tổ chức (tenant)
	ApiKeys         string // Tên collection cho API keys

	// IAM Portal Collections
	AccessRequests string // Tên collection cho yêu cầu cấp quyền
	AuditLogs      string // Tên collection cho audit trail

	// Access Review Collections
	ReviewCampaigns string // Tên collection cho access review campaigns
}

// Các biến toàn cục
var Validate *validator.Validate         // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client        // Phiên kết nối tới MongoDB
var ServerConfig *config.Configuration   // Cấu hình của server
var ColNames CollectionName              // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
var RegistryDatabases = registry.NewRegistry[*mongo.Database]()     // Registry chứa các databases
