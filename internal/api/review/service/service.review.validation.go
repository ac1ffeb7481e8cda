// Package reviewsvc - nghiệp vụ chiến dịch rà soát quyền truy cập.
// File này chứa các hàm kiểm tra thuần (không chạm DB) cho quyết định,
// subject và điều kiện nộp chiến dịch.
package reviewsvc

import (
	"fmt"

	"access_governance/internal/api/review/models"
)

// ValidateItemDecision kiểm tra tính hợp lệ của quyết định trên một item.
// Gom tất cả lỗi thay vì dừng ở lỗi đầu tiên.
func ValidateItemDecision(item *models.Item) []string {
	var errs []string
	d := item.Decision

	switch d.DecisionType {
	case models.DecisionTypeRevoke, models.DecisionTypeModify:
		if d.Comments == "" {
			errs = append(errs, "comments required")
		}
	}
	if d.DecisionType == models.DecisionTypeModify && d.RequestedChange == "" {
		errs = append(errs, "requested change required")
	}
	if item.DataClassification == models.DataClassificationRestricted && !hasEvidence(&d) {
		errs = append(errs, "evidence required for RESTRICTED classification")
	}
	return errs
}

// hasEvidence bằng chứng được coi là có khi evidenceProvided=true
// hoặc evidenceLink không rỗng
func hasEvidence(d *models.Decision) bool {
	return d.EvidenceProvided || d.EvidenceLink != ""
}

// ValidateSubject kiểm tra ràng buộc trên một subject.
// Subject dạng CONTRACTOR hoặc VENDOR bắt buộc phải có endDate.
func ValidateSubject(subject *models.Subject) []string {
	var errs []string
	switch subject.EmploymentType {
	case models.EmploymentTypeContractor, models.EmploymentTypeVendor:
		if subject.EndDate == 0 {
			errs = append(errs, fmt.Sprintf("subject %s requires an end date", subject.SubjectID))
		}
	}
	if len(subject.Items) == 0 {
		errs = append(errs, fmt.Sprintf("subject %s has no review items", subject.SubjectID))
	}
	return errs
}

// SubmissionCheck kết quả kiểm tra điều kiện nộp chiến dịch
type SubmissionCheck struct {
	Valid              bool     `json:"valid"`
	Errors             []string `json:"errors,omitempty"`
	HasPrivilegedItems bool     `json:"hasPrivilegedItems"`
}

// IsPrivilegedTier cho biết item ở mức đặc quyền ADMIN hoặc SUPER_ADMIN.
// Đây là tiêu chí duy nhất quyết định yêu cầu phê duyệt cấp hai.
func IsPrivilegedTier(item *models.Item) bool {
	return item.PrivilegeLevel == models.PrivilegeLevelAdmin ||
		item.PrivilegeLevel == models.PrivilegeLevelSuperAdmin
}

// IsHighRisk cho biết item có thuộc nhóm rủi ro cao không.
// Rộng hơn IsPrivilegedTier: tính cả cờ isPrivileged. Dùng cho bulk skip.
func IsHighRisk(item *models.Item) bool {
	return IsPrivilegedTier(item) || item.IsPrivileged
}

// ValidateForSubmission kiểm tra toàn bộ chiến dịch trước khi nộp.
// Item được đánh số toàn cục bắt đầu từ 1, theo thứ tự duyệt subject rồi item.
func ValidateForSubmission(campaign *models.Campaign) SubmissionCheck {
	check := SubmissionCheck{Valid: true}
	position := 0
	for si := range campaign.Subjects {
		subject := &campaign.Subjects[si]
		for ii := range subject.Items {
			position++
			item := &subject.Items[ii]
			if IsPrivilegedTier(item) {
				check.HasPrivilegedItems = true
			}
			if item.Decision.DecisionType == "" || item.Decision.DecisionType == models.DecisionTypePending {
				check.Errors = append(check.Errors, fmt.Sprintf("Item %d is missing a decision", position))
			}
			if item.DataClassification == models.DataClassificationRestricted && !hasEvidence(&item.Decision) {
				check.Errors = append(check.Errors, fmt.Sprintf("Item %d requires evidence for RESTRICTED classification", position))
			}
		}
	}
	if len(check.Errors) > 0 {
		check.Valid = false
	}
	return check
}

// RequiresSecondLevel cho biết chiến dịch có cần phê duyệt cấp hai không.
// Bắt buộc khi tồn tại item ở mức đặc quyền ADMIN/SUPER_ADMIN.
func RequiresSecondLevel(campaign *models.Campaign) bool {
	for si := range campaign.Subjects {
		for ii := range campaign.Subjects[si].Items {
			if IsPrivilegedTier(&campaign.Subjects[si].Items[ii]) {
				return true
			}
		}
	}
	return false
}
