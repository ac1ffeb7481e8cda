package reviewsvc

import (
	"fmt"
	"strings"

	"access_governance/internal/api/review/dto"
	"access_governance/internal/api/review/models"
	"access_governance/internal/common"
)

// Các targetType hợp lệ của bulk decision
const (
	BulkTargetAll      = "ALL"
	BulkTargetFiltered = "FILTERED"
	BulkTargetSelected = "SELECTED"
)

// SkipReasonHighRisk lý do bỏ qua item rủi ro cao khi skipHighRisk bật
const SkipReasonHighRisk = "high risk, manual review required"

// SkippedItem một item bị bỏ qua hoặc thất bại trong bulk decision
type SkippedItem struct {
	ItemID string `json:"itemId"`
	Reason string `json:"reason"`
}

// BulkReport báo cáo kết quả của một lần bulk decision
type BulkReport struct {
	TotalProcessed int           `json:"totalProcessed"`
	Successful     int           `json:"successful"`
	Skipped        int           `json:"skipped"`
	Failed         int           `json:"failed"`
	SkippedItems   []SkippedItem `json:"skippedItems"`
}

// matchesBulkFilter so khớp chính xác, các trường không rỗng AND với nhau
func matchesBulkFilter(item *models.Item, filter *dto.BulkFilter) bool {
	if filter == nil {
		return true
	}
	if filter.PrivilegeLevel != "" && item.PrivilegeLevel != filter.PrivilegeLevel {
		return false
	}
	if filter.EntitlementType != "" && item.EntitlementType != filter.EntitlementType {
		return false
	}
	if filter.DataClassification != "" && item.DataClassification != filter.DataClassification {
		return false
	}
	return true
}

// mergeBulkDecision trộn payload bulk vào decision hiện tại của item.
// Chỉ chạm ba trường decisionType, reasonCode, comments; các trường
// theo item (evidenceProvided, evidenceLink, requestedChange,
// effectiveDate) giữ nguyên.
func mergeBulkDecision(current models.Decision, payload *dto.BulkDecisionPayload) models.Decision {
	merged := current
	merged.DecisionType = payload.DecisionType
	merged.ReasonCode = payload.ReasonCode
	merged.Comments = payload.Comments
	return merged
}

// selectBulkTargets trả về danh sách item là đích của request, theo thứ tự
// duyệt subject rồi item
func selectBulkTargets(campaign *models.Campaign, input *dto.BulkDecisionInput) []*models.Item {
	var selected map[string]bool
	if input.TargetType == BulkTargetSelected {
		selected = make(map[string]bool, len(input.ItemIDs))
		for _, id := range input.ItemIDs {
			selected[id] = true
		}
	}

	var targets []*models.Item
	for si := range campaign.Subjects {
		for ii := range campaign.Subjects[si].Items {
			item := &campaign.Subjects[si].Items[ii]
			switch input.TargetType {
			case BulkTargetAll:
				targets = append(targets, item)
			case BulkTargetFiltered:
				if matchesBulkFilter(item, input.Filter) {
					targets = append(targets, item)
				}
			case BulkTargetSelected:
				if selected[item.ItemID] {
					targets = append(targets, item)
				}
			}
		}
	}
	return targets
}

// ApplyBulkDecision áp một quyết định lên tập item đích trên bản campaign
// trong bộ nhớ. Item thất bại từng cái được ghi nhận trong báo cáo thay vì
// làm hỏng cả đợt; việc ghi một lần duy nhất do tầng service đảm nhiệm.
func ApplyBulkDecision(campaign *models.Campaign, input *dto.BulkDecisionInput) (*BulkReport, error) {
	if !campaign.IsEditable() {
		return nil, common.NewStateConflictError(fmt.Sprintf("không thể áp quyết định hàng loạt cho chiến dịch ở trạng thái %s", campaign.Status))
	}

	report := &BulkReport{SkippedItems: []SkippedItem{}}
	for _, item := range selectBulkTargets(campaign, input) {
		report.TotalProcessed++

		if input.SkipHighRisk && IsHighRisk(item) {
			report.Skipped++
			report.SkippedItems = append(report.SkippedItems, SkippedItem{ItemID: item.ItemID, Reason: SkipReasonHighRisk})
			continue
		}

		candidate := mergeBulkDecision(item.Decision, &input.Decision)
		probe := *item
		probe.Decision = candidate
		if errs := ValidateItemDecision(&probe); len(errs) > 0 {
			report.Failed++
			report.SkippedItems = append(report.SkippedItems, SkippedItem{ItemID: item.ItemID, Reason: strings.Join(errs, "; ")})
			continue
		}

		item.Decision = candidate
		report.Successful++
	}
	return report, nil
}
