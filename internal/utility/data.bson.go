// Package utility chứa các hàm tiện ích dùng chung (chuyển đổi dữ liệu, cache).
package utility

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// ToMap chuyển đổi một struct thành map[string]interface{} thông qua BSON marshal/unmarshal.
// Các field tôn trọng bson tag của struct (kể cả omitempty).
func ToMap(s interface{}) (map[string]interface{}, error) {
	var stringInterfaceMap map[string]interface{}
	raw, err := bson.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("bson marshal failed: %w", err)
	}
	if err := bson.Unmarshal(raw, &stringInterfaceMap); err != nil {
		return nil, fmt.Errorf("bson unmarshal failed: %w", err)
	}
	return stringInterfaceMap, nil
}

// ToStruct chuyển đổi map hoặc struct nguồn sang struct đích thông qua BSON.
func ToStruct(src interface{}, dst interface{}) error {
	raw, err := bson.Marshal(src)
	if err != nil {
		return fmt.Errorf("bson marshal failed: %w", err)
	}
	if err := bson.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("bson unmarshal failed: %w", err)
	}
	return nil
}
