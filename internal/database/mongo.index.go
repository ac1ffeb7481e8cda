package database

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"access_governance/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureCollections đảm bảo các collection cần thiết tồn tại trong database.
// Collection chưa tồn tại sẽ được tạo tường minh để index creation không race
// với insert đầu tiên.
func EnsureCollections(ctx context.Context, db *mongo.Database, names []string) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	existingSet := make(map[string]bool, len(existing))
	for _, name := range existing {
		existingSet[name] = true
	}

	for _, name := range names {
		if existingSet[name] {
			continue
		}
		if err := db.CreateCollection(ctx, name); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
		logger.GetAppLogger().Infof("Created collection %s", name)
	}
	return nil
}

// CreateIndexes tạo các index cho collection dựa trên struct tag `index` của model.
// Tag hỗ trợ các dạng:
//   - index:"single:1"                    — index đơn, 1 = tăng dần, -1 = giảm dần
//   - index:"unique"                      — unique index
//   - index:"unique,sparse"               — unique sparse index
//   - index:"compound:<tên nhóm>"         — field tham gia compound index theo tên nhóm
//
// Nhiều cấu hình phân cách bởi dấu chấm phẩy, ví dụ: index:"single:1;compound:org_status".
func CreateIndexes(ctx context.Context, collection *mongo.Collection, model interface{}) error {
	modelType := reflect.TypeOf(model)
	if modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}

	compoundGroups := map[string]bson.D{}
	var indexModels []mongo.IndexModel

	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		tag, ok := field.Tag.Lookup("index")
		if !ok {
			continue
		}

		bsonField := strings.Split(field.Tag.Get("bson"), ",")[0]
		if bsonField == "" || bsonField == "-" {
			continue
		}

		for _, part := range strings.Split(tag, ";") {
			part = strings.TrimSpace(part)
			switch {
			case strings.HasPrefix(part, "single:"):
				order := 1
				if strings.TrimPrefix(part, "single:") == "-1" {
					order = -1
				}
				indexModels = append(indexModels, mongo.IndexModel{
					Keys:    bson.D{{Key: bsonField, Value: order}},
					Options: options.Index().SetName(bsonField + "_single"),
				})
			case strings.HasPrefix(part, "unique"):
				opts := options.Index().SetName(bsonField + "_unique").SetUnique(true)
				if strings.Contains(part, "sparse") {
					opts = opts.SetSparse(true)
				}
				indexModels = append(indexModels, mongo.IndexModel{
					Keys:    bson.D{{Key: bsonField, Value: 1}},
					Options: opts,
				})
			case strings.HasPrefix(part, "compound:"):
				group := strings.TrimPrefix(part, "compound:")
				compoundGroups[group] = append(compoundGroups[group], bson.E{Key: bsonField, Value: 1})
			}
		}
	}

	// Các compound index gom theo tên nhóm, thứ tự field theo thứ tự khai báo trong struct
	for group, keys := range compoundGroups {
		indexModels = append(indexModels, mongo.IndexModel{
			Keys:    keys,
			Options: options.Index().SetName(group),
		})
	}

	if len(indexModels) == 0 {
		return nil
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexModels); err != nil {
		// Index đã tồn tại với cùng spec không phải là lỗi
		if isIndexExistsError(err) {
			return nil
		}
		return fmt.Errorf("failed to create indexes for %s: %w", collection.Name(), err)
	}

	logger.GetAppLogger().Infof("Created %d indexes for collection %s", len(indexModels), collection.Name())
	return nil
}

// isIndexExistsError kiểm tra lỗi index đã tồn tại (IndexOptionsConflict / IndexKeySpecsConflict)
func isIndexExistsError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "IndexOptionsConflict") ||
		strings.Contains(msg, "IndexKeySpecsConflict") ||
		strings.Contains(msg, "already exists")
}
