package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"access_governance/config"
	auditmodels "access_governance/internal/api/audit/models"
	authmodels "access_governance/internal/api/auth/models"
	requestmodels "access_governance/internal/api/request/models"
	reviewmodels "access_governance/internal/api/review/models"
	"access_governance/internal/database"
	"access_governance/internal/global"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
}

// Hàm khởi tạo tên các collection trong database
func initColNames() {
	global.ColNames.Users = "auth_users"
	global.ColNames.Permissions = "auth_permissions"
	global.ColNames.Roles = "auth_roles"
	global.ColNames.RolePermissions = "auth_role_permissions"
	global.ColNames.UserRoles = "auth_user_roles"
	global.ColNames.Organizations = "auth_organizations"
	global.ColNames.ApiKeys = "auth_api_keys"

	// IAM Portal Collections
	global.ColNames.AccessRequests = "iam_access_requests"
	global.ColNames.AuditLogs = "iam_audit_logs"

	// Access Review Collections
	global.ColNames.ReviewCampaigns = "review_campaigns"

	logrus.Info("Initialized collection names")
}

// Hàm khởi tạo validator
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.ServerConfig = config.NewConfig()
	if global.ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}
	logrus.Info("Initialized server config")
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	logrus.Info("Connected to MongoDB")

	db := global.MongoDB_Session.Database(global.ServerConfig.MongoDB_DBName)

	// Đảm bảo các collection tồn tại trước khi tạo index
	if err := database.EnsureCollections(context.TODO(), db, allCollectionNames()); err != nil {
		logrus.Fatalf("Failed to ensure collections: %v", err)
	}
	logrus.Info("Ensured database and collections")

	// Khởi tạo các index cho các collection theo tag `index` trên model
	database.CreateIndexes(context.TODO(), db.Collection(global.ColNames.Users), authmodels.User{})
	database.CreateIndexes(context.TODO(), db.Collection(global.ColNames.Permissions), authmodels.Permission{})
	database.CreateIndexes(context.TODO(), db.Collection(global.ColNames.Roles), authmodels.Role{})
	database.CreateIndexes(context.TODO(), db.Collection(global.ColNames.RolePermissions), authmodels.RolePermission{})
	database.CreateIndexes(context.TODO(), db.Collection(global.ColNames.UserRoles), authmodels.UserRole{})
	database.CreateIndexes(context.TODO(), db.Collection(global.ColNames.Organizations), authmodels.Organization{})
	database.CreateIndexes(context.TODO(), db.Collection(global.ColNames.ApiKeys), authmodels.ApiKey{})
	database.CreateIndexes(context.TODO(), db.Collection(global.ColNames.AccessRequests), requestmodels.AccessRequest{})
	database.CreateIndexes(context.TODO(), db.Collection(global.ColNames.AuditLogs), auditmodels.AuditLog{})
	database.CreateIndexes(context.TODO(), db.Collection(global.ColNames.ReviewCampaigns), reviewmodels.Campaign{})
}

// allCollectionNames trả về tên mọi collection hệ thống dùng
func allCollectionNames() []string {
	return []string{
		global.ColNames.Users,
		global.ColNames.Permissions,
		global.ColNames.Roles,
		global.ColNames.RolePermissions,
		global.ColNames.UserRoles,
		global.ColNames.Organizations,
		global.ColNames.ApiKeys,
		global.ColNames.AccessRequests,
		global.ColNames.AuditLogs,
		global.ColNames.ReviewCampaigns,
	}
}
