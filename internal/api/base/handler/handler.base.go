package basehdl

// Package basehdl cung cấp handler CRUD cơ bản và các tiện ích parse/validate
// request dùng chung cho các domain handler.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "access_governance/internal/api/base/service"
	"access_governance/internal/common"
	"access_governance/internal/global"
	"access_governance/internal/utility"
)

// FilterOptions cấu hình validate filter từ query string
type FilterOptions struct {
	// Các field không cho phép filter (tránh lộ dữ liệu nhạy cảm)
	DeniedFields []string
	// Các toán tử MongoDB được phép dùng trong filter
	AllowedOperators []string
	// Số field tối đa trong một filter
	MaxFields int
}

// BaseHandler xử lý các request CRUD cơ bản cho một model
//
// Type parameters:
// - T: Kiểu dữ liệu của model
// - CreateInput: Kiểu dữ liệu của input khi tạo mới
// - UpdateInput: Kiểu dữ liệu của input khi cập nhật
type BaseHandler[T any, CreateInput any, UpdateInput any] struct {
	BaseService   basesvc.BaseServiceMongo[T]
	filterOptions FilterOptions
}

// NewBaseHandler tạo mới một BaseHandler với BaseService được cung cấp
func NewBaseHandler[T any, CreateInput any, UpdateInput any](baseService basesvc.BaseServiceMongo[T]) *BaseHandler[T, CreateInput, UpdateInput] {
	return &BaseHandler[T, CreateInput, UpdateInput]{
		BaseService: baseService,
		filterOptions: FilterOptions{
			DeniedFields: []string{
				"password",
				"token",
				"secret",
				"key",
				"hash",
			},
			AllowedOperators: []string{
				"$eq",
				"$gt",
				"$gte",
				"$lt",
				"$lte",
				"$in",
				"$nin",
				"$exists",
			},
			MaxFields: 10,
		},
	}
}

// ParseRequestBody parse và validate dữ liệu từ request body.
// Sử dụng json.Decoder với UseNumber() để xử lý chính xác các số.
func (h *BaseHandler[T, CreateInput, UpdateInput]) ParseRequestBody(c fiber.Ctx, input interface{}) error {
	body := c.Body()
	reader := bytes.NewReader(body)
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()
	if err := decoder.Decode(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgValidationError, common.StatusBadRequest, err)
	}

	return h.validateInput(input)
}

// ParseRequestParams parse và validate các tham số từ URI
func (h *BaseHandler[T, CreateInput, UpdateInput]) ParseRequestParams(c fiber.Ctx, input interface{}) error {
	if err := c.Bind().URI(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgValidationError, common.StatusBadRequest, err)
	}

	if err := global.Validate.Struct(input); err != nil {
		return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err)
	}

	return nil
}

// validateInput thực hiện validate dữ liệu đầu vào với validator từ global
func (h *BaseHandler[T, CreateInput, UpdateInput]) validateInput(input interface{}) error {
	if err := global.Validate.Struct(input); err != nil {
		return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err)
	}
	return nil
}

// transformCreateInput chuyển DTO tạo mới sang model qua vòng bson
func (h *BaseHandler[T, CreateInput, UpdateInput]) transformCreateInput(input *CreateInput) (*T, error) {
	dataMap, err := utility.ToMap(input)
	if err != nil {
		return nil, err
	}
	var model T
	if err := utility.ToStruct(dataMap, &model); err != nil {
		return nil, err
	}
	return &model, nil
}

// processFilter xử lý và validate filter từ query string
func (h *BaseHandler[T, CreateInput, UpdateInput]) processFilter(c fiber.Ctx) (bson.M, error) {
	var filter map[string]interface{}

	filterStr := c.Query("filter", "{}")
	if err := json.Unmarshal([]byte(filterStr), &filter); err != nil {
		return nil, common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Filter không đúng định dạng JSON. Chi tiết lỗi: %v. Giá trị filter nhận được: %s", err, filterStr),
			common.StatusBadRequest,
			err,
		)
	}

	filter = h.normalizeFilter(filter)

	if err := h.validateFilter(filter); err != nil {
		return nil, err
	}

	return filter, nil
}

// normalizeFilter chuyển các giá trị string dạng ObjectID hex sang primitive.ObjectID
func (h *BaseHandler[T, CreateInput, UpdateInput]) normalizeFilter(filter map[string]interface{}) bson.M {
	normalized := bson.M{}
	for key, value := range filter {
		switch v := value.(type) {
		case string:
			if primitive.IsValidObjectID(v) {
				oid, err := primitive.ObjectIDFromHex(v)
				if err == nil {
					normalized[key] = oid
					continue
				}
			}
			normalized[key] = v
		case map[string]interface{}:
			normalized[key] = h.normalizeFilter(v)
		default:
			normalized[key] = v
		}
	}
	return normalized
}

// validateFilter kiểm tra filter theo FilterOptions
func (h *BaseHandler[T, CreateInput, UpdateInput]) validateFilter(filter map[string]interface{}) error {
	if len(filter) > h.filterOptions.MaxFields {
		return common.NewError(
			common.ErrCodeValidationInput,
			fmt.Sprintf("Filter có quá nhiều điều kiện (tối đa %d field)", h.filterOptions.MaxFields),
			common.StatusBadRequest,
			nil,
		)
	}

	for key, value := range filter {
		for _, denied := range h.filterOptions.DeniedFields {
			if key == denied {
				return common.NewError(
					common.ErrCodeValidationInput,
					fmt.Sprintf("Không được phép filter theo trường %s", key),
					common.StatusBadRequest,
					nil,
				)
			}
		}

		if subFilter, ok := value.(map[string]interface{}); ok {
			for op := range subFilter {
				if len(op) > 0 && op[0] == '$' && !h.isAllowedOperator(op) {
					return common.NewError(
						common.ErrCodeValidationInput,
						fmt.Sprintf("Toán tử %s không được phép trong filter", op),
						common.StatusBadRequest,
						nil,
					)
				}
			}
		}
	}

	return nil
}

func (h *BaseHandler[T, CreateInput, UpdateInput]) isAllowedOperator(op string) bool {
	for _, allowed := range h.filterOptions.AllowedOperators {
		if op == allowed {
			return true
		}
	}
	return false
}

// hasOrganizationIDField kiểm tra model có field OwnerOrganizationID không (dùng reflection).
// Field này dùng cho phân quyền dữ liệu, xác định dữ liệu thuộc về tổ chức nào.
func (h *BaseHandler[T, CreateInput, UpdateInput]) hasOrganizationIDField() bool {
	var zero T
	val := reflect.ValueOf(zero)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return false
	}
	return val.FieldByName("OwnerOrganizationID").IsValid()
}

// getActiveOrganizationID lấy active organization ID từ context
func (h *BaseHandler[T, CreateInput, UpdateInput]) getActiveOrganizationID(c fiber.Ctx) *primitive.ObjectID {
	orgIDStr, ok := c.Locals("active_organization_id").(string)
	if !ok || orgIDStr == "" {
		return nil
	}
	orgID, err := primitive.ObjectIDFromHex(orgIDStr)
	if err != nil {
		return nil
	}
	return &orgID
}

// setOrganizationID gán ownerOrganizationId vào model nếu model có field này
// và chưa có giá trị từ request body
func (h *BaseHandler[T, CreateInput, UpdateInput]) setOrganizationID(model interface{}, orgID primitive.ObjectID) {
	if !h.hasOrganizationIDField() || orgID.IsZero() {
		return
	}

	val := reflect.ValueOf(model)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	field := val.FieldByName("OwnerOrganizationID")
	if !field.IsValid() || !field.CanSet() {
		return
	}

	currentOrgID, ok := field.Interface().(primitive.ObjectID)
	if !ok || !currentOrgID.IsZero() {
		return
	}
	field.Set(reflect.ValueOf(orgID))
}

// applyOrganizationFilter thêm điều kiện ownerOrganizationId vào filter
// nếu model có field OwnerOrganizationID và context có active organization
func (h *BaseHandler[T, CreateInput, UpdateInput]) applyOrganizationFilter(c fiber.Ctx, baseFilter bson.M) bson.M {
	if !h.hasOrganizationIDField() {
		return baseFilter
	}

	orgID := h.getActiveOrganizationID(c)
	if orgID == nil {
		return baseFilter
	}

	orgFilter := bson.M{"ownerOrganizationId": *orgID}
	if len(baseFilter) == 0 {
		return orgFilter
	}

	return bson.M{
		"$and": []bson.M{baseFilter, orgFilter},
	}
}
