package reviewsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	auditsvc "access_governance/internal/api/audit/service"
	basemodels "access_governance/internal/api/base/models"
	basesvc "access_governance/internal/api/base/service"
	"access_governance/internal/api/review/dto"
	"access_governance/internal/api/review/models"
	"access_governance/internal/common"
	"access_governance/internal/global"
	"access_governance/internal/utility"
)

// maxCASRetries số lần thử lại tối đa khi optimistic lock thất bại
const maxCASRetries = 3

// Actor người thực hiện thao tác, dùng cho audit
type Actor struct {
	ID    primitive.ObjectID
	Email string
}

// auditRecorder ghi bản audit cho một thao tác thay đổi dữ liệu
type auditRecorder interface {
	Record(ctx context.Context, input auditsvc.RecordInput)
}

// CampaignService xử lý nghiệp vụ chiến dịch rà soát quyền truy cập.
// Mọi thao tác ghi đều đi qua UpdateWithMutator để đảm bảo optimistic
// concurrency trên trường version.
type CampaignService struct {
	*basesvc.BaseServiceMongoImpl[models.Campaign]
	audit auditRecorder

	// Hai bước nạp/ghi của vòng CAS, tách thành field để test thay được
	// bằng store trong bộ nhớ
	loadCampaign func(ctx context.Context, id primitive.ObjectID) (models.Campaign, error)
	writeCAS     func(ctx context.Context, id primitive.ObjectID, currentVersion int64, campaign *models.Campaign) (models.Campaign, error)
}

// NewCampaignService khởi tạo CampaignService với collection từ registry
func NewCampaignService() (*CampaignService, error) {
	campaignCollection, exist := global.RegistryCollections.Get(global.ColNames.ReviewCampaigns)
	if !exist {
		return nil, fmt.Errorf("failed to get review_campaigns collection: %v", common.ErrNotFound)
	}

	auditService, err := auditsvc.NewAuditLogService()
	if err != nil {
		return nil, err
	}

	s := &CampaignService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Campaign](campaignCollection),
		audit:                auditService,
	}
	s.loadCampaign = s.FindOneById
	s.writeCAS = s.casWrite
	return s, nil
}

// notDeletedFilter loại các chiến dịch đã soft delete khỏi mọi truy vấn đọc
func notDeletedFilter(filter bson.M) bson.M {
	if filter == nil {
		filter = bson.M{}
	}
	filter["deletedAt"] = bson.M{"$exists": false}
	return filter
}

// FindOneById tìm chiến dịch theo id, bỏ qua bản ghi đã xóa mềm
func (s *CampaignService) FindOneById(ctx context.Context, id primitive.ObjectID) (models.Campaign, error) {
	return s.FindOne(ctx, bson.M{"_id": id}, nil)
}

// FindOne tìm một chiến dịch theo filter, bỏ qua bản ghi đã xóa mềm
func (s *CampaignService) FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (models.Campaign, error) {
	return s.BaseServiceMongoImpl.FindOne(ctx, s.mergeNotDeleted(filter), opts)
}

// Find liệt kê chiến dịch, bỏ qua bản ghi đã xóa mềm
func (s *CampaignService) Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.Campaign, error) {
	return s.BaseServiceMongoImpl.Find(ctx, s.mergeNotDeleted(filter), opts)
}

// FindWithPagination phân trang chiến dịch, bỏ qua bản ghi đã xóa mềm
func (s *CampaignService) FindWithPagination(ctx context.Context, filter interface{}, page int64, limit int64) (*basemodels.PaginateResult[models.Campaign], error) {
	return s.BaseServiceMongoImpl.FindWithPagination(ctx, s.mergeNotDeleted(filter), page, limit)
}

// CountDocuments đếm chiến dịch khớp filter, bỏ qua bản ghi đã xóa mềm
func (s *CampaignService) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return s.BaseServiceMongoImpl.CountDocuments(ctx, s.mergeNotDeleted(filter))
}

func (s *CampaignService) mergeNotDeleted(filter interface{}) interface{} {
	if filter == nil {
		return notDeletedFilter(nil)
	}
	return bson.M{"$and": []interface{}{filter, notDeletedFilter(nil)}}
}

// normalizeSubjects gán id còn thiếu và đưa mọi decision chưa có về PENDING
func normalizeSubjects(subjects []models.Subject) {
	for si := range subjects {
		if subjects[si].SubjectID == "" {
			subjects[si].SubjectID = uuid.NewString()
		}
		for ii := range subjects[si].Items {
			item := &subjects[si].Items[ii]
			if item.ItemID == "" {
				item.ItemID = uuid.NewString()
			}
			if item.Decision.DecisionType == "" {
				item.Decision.DecisionType = models.DecisionTypePending
			}
		}
	}
}

// validateCampaignData kiểm tra các ràng buộc cấu trúc của chiến dịch
func validateCampaignData(periodStart, periodEnd, dueDate int64, subjects []models.Subject) error {
	var errs []string
	if len(subjects) == 0 {
		errs = append(errs, "chiến dịch phải có ít nhất một subject cần rà soát")
	}
	if periodEnd <= periodStart {
		errs = append(errs, "thời điểm kết thúc kỳ rà soát phải sau thời điểm bắt đầu")
	}
	if dueDate == 0 {
		errs = append(errs, "chiến dịch phải có hạn chót (dueDate)")
	}
	for si := range subjects {
		errs = append(errs, ValidateSubject(&subjects[si])...)
	}
	if len(errs) > 0 {
		return common.NewValidationError(errs)
	}
	return nil
}

// Create tạo chiến dịch mới ở trạng thái DRAFT
func (s *CampaignService) Create(ctx context.Context, input *dto.CampaignCreateInput, orgID primitive.ObjectID, actor Actor) (models.Campaign, error) {
	var zero models.Campaign
	if err := validateCampaignData(input.PeriodStart, input.PeriodEnd, input.DueDate, input.Subjects); err != nil {
		return zero, err
	}
	normalizeSubjects(input.Subjects)

	campaign := models.Campaign{
		Name:                input.Name,
		Description:         input.Description,
		SystemName:          input.SystemName,
		Environment:         input.Environment,
		BusinessUnit:        input.BusinessUnit,
		ReviewType:          input.ReviewType,
		TriggerReason:       input.TriggerReason,
		PeriodStart:         input.PeriodStart,
		PeriodEnd:           input.PeriodEnd,
		Status:              models.CampaignStatusDraft,
		Subjects:            input.Subjects,
		Workflow:            models.Workflow{DueDate: input.DueDate},
		Version:             0,
		OwnerOrganizationID: orgID,
	}

	created, err := s.InsertOne(ctx, campaign)
	if err != nil {
		return zero, err
	}
	s.emitAudit(ctx, "campaign_create", actor, &created, nil, map[string]interface{}{"status": created.Status})
	return created, nil
}

// UpdateWithMutator nạp chiến dịch, áp mutator trên bản trong bộ nhớ rồi ghi
// lại bằng compare-and-swap trên version. Khi version đã bị thay đổi bởi
// người khác, nạp lại và thử lại tối đa maxCASRetries lần trước khi trả
// ErrVersionConflict.
func (s *CampaignService) UpdateWithMutator(ctx context.Context, id primitive.ObjectID, mutate func(*models.Campaign) error) (models.Campaign, error) {
	var zero models.Campaign
	for attempt := 0; attempt < maxCASRetries; attempt++ {
		campaign, err := s.loadCampaign(ctx, id)
		if err != nil {
			return zero, err
		}
		currentVersion := campaign.Version

		if err := mutate(&campaign); err != nil {
			return zero, err
		}

		updated, err := s.writeCAS(ctx, id, currentVersion, &campaign)
		if err == nil {
			return updated, nil
		}
		// Không khớp filter nghĩa là version đã nhảy, thử lại từ đầu
		if !errors.Is(err, common.ErrNotFound) {
			return zero, err
		}
	}
	return zero, common.ErrVersionConflict
}

// casWrite ghi chiến dịch đã biến đổi xuống Mongo, chỉ khi version chưa đổi
func (s *CampaignService) casWrite(ctx context.Context, id primitive.ObjectID, currentVersion int64, campaign *models.Campaign) (models.Campaign, error) {
	var zero models.Campaign
	doc, err := utility.ToMap(campaign)
	if err != nil {
		return zero, common.NewError(common.ErrCodeValidationFormat, "Lỗi chuyển đổi dữ liệu chiến dịch", common.StatusInternalServerError, err)
	}
	delete(doc, "_id")
	delete(doc, "version")
	delete(doc, "createdAt")
	doc["updatedAt"] = time.Now().UnixMilli()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return s.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "version": currentVersion},
		bson.M{"$set": doc, "$inc": bson.M{"version": 1}},
		opts,
	)
}

// Update chỉnh sửa thuộc tính chiến dịch, chỉ khi còn DRAFT/IN_REVIEW
func (s *CampaignService) Update(ctx context.Context, id primitive.ObjectID, input *dto.CampaignUpdateInput, actor Actor) (models.Campaign, error) {
	updated, err := s.UpdateWithMutator(ctx, id, func(campaign *models.Campaign) error {
		if !campaign.IsEditable() {
			return common.NewStateConflictError(fmt.Sprintf("không thể chỉnh sửa chiến dịch ở trạng thái %s", campaign.Status))
		}
		applyCampaignUpdate(campaign, input)
		return validateCampaignData(campaign.PeriodStart, campaign.PeriodEnd, campaign.Workflow.DueDate, campaign.Subjects)
	})
	if err != nil {
		return updated, err
	}
	s.emitAudit(ctx, "campaign_update", actor, &updated, nil, nil)
	return updated, nil
}

// UpdateById giữ chữ ký CRUD chung. Route HTTP đi qua handler ghi đè nên
// luôn gọi Update với actor đầy đủ.
func (s *CampaignService) UpdateById(ctx context.Context, id primitive.ObjectID, data interface{}) (models.Campaign, error) {
	input, ok := data.(*dto.CampaignUpdateInput)
	if !ok {
		return models.Campaign{}, common.ErrInvalidInput
	}
	return s.Update(ctx, id, input, Actor{})
}

func applyCampaignUpdate(campaign *models.Campaign, input *dto.CampaignUpdateInput) {
	if input.Name != "" {
		campaign.Name = input.Name
	}
	if input.Description != "" {
		campaign.Description = input.Description
	}
	if input.SystemName != "" {
		campaign.SystemName = input.SystemName
	}
	if input.Environment != "" {
		campaign.Environment = input.Environment
	}
	if input.BusinessUnit != "" {
		campaign.BusinessUnit = input.BusinessUnit
	}
	if input.ReviewType != "" {
		campaign.ReviewType = input.ReviewType
	}
	if input.TriggerReason != "" {
		campaign.TriggerReason = input.TriggerReason
	}
	if input.PeriodStart != 0 {
		campaign.PeriodStart = input.PeriodStart
	}
	if input.PeriodEnd != 0 {
		campaign.PeriodEnd = input.PeriodEnd
	}
	if input.DueDate != 0 {
		campaign.Workflow.DueDate = input.DueDate
	}
	if input.Subjects != nil {
		normalizeSubjects(input.Subjects)
		campaign.Subjects = input.Subjects
	}
}

// RecordItemDecision ghi quyết định của reviewer lên một item
func (s *CampaignService) RecordItemDecision(ctx context.Context, id primitive.ObjectID, input *dto.ItemDecisionInput, actor Actor) (models.Campaign, error) {
	updated, err := s.UpdateWithMutator(ctx, id, func(campaign *models.Campaign) error {
		return ApplyItemDecision(campaign, input, time.Now().UnixMilli())
	})
	if err != nil {
		return updated, err
	}
	s.emitAudit(ctx, "campaign_item_decide", actor, &updated, nil, map[string]interface{}{
		"itemId":       input.ItemID,
		"decisionType": input.DecisionType,
	})
	return updated, nil
}

// Submit nộp chiến dịch để phê duyệt
func (s *CampaignService) Submit(ctx context.Context, id primitive.ObjectID, input *dto.SubmitInput, actor Actor) (models.Campaign, error) {
	var before string
	updated, err := s.UpdateWithMutator(ctx, id, func(campaign *models.Campaign) error {
		before = campaign.Status
		return SubmitCampaign(campaign, input, time.Now().UnixMilli())
	})
	if err != nil {
		return updated, err
	}
	s.emitAudit(ctx, "campaign_submit", actor, &updated,
		map[string]interface{}{"status": before},
		map[string]interface{}{
			"secondLevelRequired": updated.Approvals.SecondLevelRequired,
			"reviewerEmail":       input.ReviewerEmail,
		})
	return updated, nil
}

// RecordApproval ghi kết quả phê duyệt cấp hai
func (s *CampaignService) RecordApproval(ctx context.Context, id primitive.ObjectID, input *dto.ApprovalInput, actor Actor) (models.Campaign, error) {
	var before string
	updated, err := s.UpdateWithMutator(ctx, id, func(campaign *models.Campaign) error {
		before = campaign.Status
		return RecordApprovalOn(campaign, input, time.Now().UnixMilli())
	})
	if err != nil {
		return updated, err
	}
	s.emitAudit(ctx, "campaign_second_level_approval", actor, &updated,
		map[string]interface{}{"status": before},
		map[string]interface{}{
			"decision":      input.Decision,
			"approverEmail": input.ApproverEmail,
		})
	return updated, nil
}

// ApplyBulk áp quyết định hàng loạt. Toàn bộ thay đổi được tính trong bộ
// nhớ rồi ghi một lần duy nhất qua CAS nên không xen kẽ với chỉnh sửa
// đơn lẻ đồng thời.
func (s *CampaignService) ApplyBulk(ctx context.Context, id primitive.ObjectID, input *dto.BulkDecisionInput, actor Actor) (*BulkReport, models.Campaign, error) {
	var report *BulkReport
	updated, err := s.UpdateWithMutator(ctx, id, func(campaign *models.Campaign) error {
		r, err := ApplyBulkDecision(campaign, input)
		if err != nil {
			return err
		}
		report = r
		return nil
	})
	if err != nil {
		return nil, updated, err
	}
	s.emitAudit(ctx, "campaign_bulk_decision", actor, &updated, nil, map[string]interface{}{
		"targetType":     input.TargetType,
		"decisionType":   input.Decision.DecisionType,
		"totalProcessed": report.TotalProcessed,
		"successful":     report.Successful,
		"skipped":        report.Skipped,
		"failed":         report.Failed,
	})
	return report, updated, nil
}

// RecordRemediation cập nhật trạng thái ticket remediation
func (s *CampaignService) RecordRemediation(ctx context.Context, id primitive.ObjectID, input *dto.RemediationInput, actor Actor) (models.Campaign, error) {
	updated, err := s.UpdateWithMutator(ctx, id, func(campaign *models.Campaign) error {
		return RecordRemediationOn(campaign, input, time.Now().UnixMilli())
	})
	if err != nil {
		return updated, err
	}
	s.emitAudit(ctx, "campaign_remediation", actor, &updated, nil, map[string]interface{}{
		"ticketId": input.TicketID,
		"status":   input.Status,
	})
	return updated, nil
}

// Complete đóng chiến dịch sau khi xác minh
func (s *CampaignService) Complete(ctx context.Context, id primitive.ObjectID, input *dto.CompleteInput, actor Actor) (models.Campaign, error) {
	var before string
	updated, err := s.UpdateWithMutator(ctx, id, func(campaign *models.Campaign) error {
		before = campaign.Status
		return CompleteOn(campaign, input, time.Now().UnixMilli())
	})
	if err != nil {
		return updated, err
	}
	s.emitAudit(ctx, "campaign_complete", actor, &updated,
		map[string]interface{}{"status": before},
		map[string]interface{}{"verifiedBy": input.VerifiedBy})
	return updated, nil
}

// Delete xóa mềm chiến dịch, chỉ khi còn DRAFT/IN_REVIEW.
// Bản ghi vẫn nằm trong collection để phục vụ audit trail.
func (s *CampaignService) Delete(ctx context.Context, id primitive.ObjectID, actor Actor) error {
	updated, err := s.UpdateWithMutator(ctx, id, func(campaign *models.Campaign) error {
		if !campaign.IsEditable() {
			return common.NewStateConflictError(fmt.Sprintf("không thể xóa chiến dịch ở trạng thái %s", campaign.Status))
		}
		campaign.DeletedAt = time.Now().UnixMilli()
		return nil
	})
	if err != nil {
		return err
	}
	s.emitAudit(ctx, "campaign_delete", actor, &updated, nil, nil)
	return nil
}

// DeleteById giữ chữ ký CRUD chung. Route HTTP đi qua handler ghi đè nên
// luôn gọi Delete với actor đầy đủ.
func (s *CampaignService) DeleteById(ctx context.Context, id primitive.ObjectID) error {
	return s.Delete(ctx, id, Actor{})
}

// emitAudit ghi đúng một bản audit cho mỗi thao tác thay đổi trạng thái
func (s *CampaignService) emitAudit(ctx context.Context, action string, actor Actor, campaign *models.Campaign, before, details map[string]interface{}) {
	if details == nil {
		details = map[string]interface{}{}
	}
	details["version"] = campaign.Version
	s.audit.Record(ctx, auditsvc.RecordInput{
		Action:              action,
		ActorID:             actor.ID,
		ActorEmail:          actor.Email,
		TargetType:          "AccessReviewCampaign",
		TargetID:            campaign.ID.Hex(),
		Before:              before,
		After:               map[string]interface{}{"status": campaign.Status},
		Details:             details,
		OwnerOrganizationID: campaign.OwnerOrganizationID,
	})
}
