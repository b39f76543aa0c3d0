package dto

// ── 时段模块 DTO ──

// CreateSlotRequest 创建时段请求；day_of_week 与 specific_date 至少填写其一
type CreateSlotRequest struct {
	TeamID       string `json:"team_id"      binding:"required"`
	WorkTypeID   string `json:"work_type_id" binding:"required"`
	EmployeeID   string `json:"employee_id"`
	PetGroupID   string `json:"pet_group_id"`
	DayOfWeek    string `json:"day_of_week"`
	SpecificDate string `json:"specific_date"` // "2026-01-05"
	StartTime    string `json:"start_time"   binding:"required"`
	EndTime      string `json:"end_time"     binding:"required"`
	MaxCapacity  int    `json:"max_capacity"`
	Status       string `json:"status"`
	SpecialNotes string `json:"special_notes"`
}

// UpdateSlotRequest 更新时段请求
type UpdateSlotRequest struct {
	WorkTypeID   *string `json:"work_type_id"`
	EmployeeID   *string `json:"employee_id"` // 空字符串表示解除员工
	PetGroupID   *string `json:"pet_group_id"`
	DayOfWeek    *string `json:"day_of_week"`
	SpecificDate *string `json:"specific_date"`
	StartTime    *string `json:"start_time"`
	EndTime      *string `json:"end_time"`
	MaxCapacity  *int    `json:"max_capacity"`
	Status       *string `json:"status"`
	SpecialNotes *string `json:"special_notes"`
}

// SlotListRequest 时段列表查询参数
type SlotListRequest struct {
	TeamID    string `form:"team_id"`
	DayOfWeek string `form:"day_of_week"`
	Status    string `form:"status"`
}

// SlotResponse 时段响应
//
// ScheduleHint 为该时段窗口对所属团队班次的匹配结果，仅作提示，不影响写入。
type SlotResponse struct {
	ID           string `json:"id"`
	TeamID       string `json:"team_id"`
	WorkTypeID   string `json:"work_type_id"`
	EmployeeID   string `json:"employee_id,omitempty"`
	PetGroupID   string `json:"pet_group_id,omitempty"`
	DayOfWeek    string `json:"day_of_week,omitempty"`
	SpecificDate string `json:"specific_date,omitempty"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	MaxCapacity  int    `json:"max_capacity"`
	Status       string `json:"status"`
	SpecialNotes string `json:"special_notes,omitempty"`
	ScheduleHint string `json:"schedule_hint,omitempty"`
	AuditResponse
}
