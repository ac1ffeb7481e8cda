package main

import (
	"access_governance/internal/api/initsvc"
	"access_governance/internal/logger"
)

func InitDefaultData() {
	log := logger.GetAppLogger()
	log.Info("🔄 [INIT] Starting InitDefaultData...")

	initService, err := initsvc.NewInitService()
	if err != nil {
		log.Fatalf("Failed to initialize init service: %v", err)
	}

	// Khởi tạo permissions, root organization và role Administrator.
	// Các bước đều idempotent, chạy lại không tạo trùng dữ liệu.
	if err := initService.InitAllData(); err != nil {
		log.Fatalf("Failed to initialize default data: %v", err)
	}

	log.Info("✅ [INIT] Default data initialized successfully")
}
