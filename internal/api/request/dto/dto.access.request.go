package requestdto

// AccessRequestCreateInput đầu vào tạo yêu cầu truy cập.
type AccessRequestCreateInput struct {
	SubjectID          string `json:"subjectId" validate:"required"`
	SubjectDisplayName string `json:"subjectDisplayName" validate:"required"`
	EntitlementID      string `json:"entitlementId" validate:"required"`
	EntitlementName    string `json:"entitlementName" validate:"required"`
	Justification      string `json:"justification" validate:"required,no_xss"`
}

// AccessRequestUpdateInput đầu vào cập nhật yêu cầu truy cập (chỉ khi còn PENDING).
type AccessRequestUpdateInput struct {
	Justification string `json:"justification" validate:"omitempty,no_xss"`
}

// AccessRequestDecisionInput đầu vào duyệt hoặc từ chối yêu cầu truy cập.
type AccessRequestDecisionInput struct {
	Approve bool   `json:"approve"`
	Comment string `json:"comment" validate:"omitempty,no_xss"`
}
