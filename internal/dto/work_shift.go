package dto

// ── 工作班次模块 DTO ──

// CreateWorkShiftRequest 创建班次请求
type CreateWorkShiftRequest struct {
	Name           string   `json:"name"       binding:"required"`
	Description    string   `json:"description"`
	StartTime      string   `json:"start_time" binding:"required"` // "07:30" 或 "07:30:00"
	EndTime        string   `json:"end_time"   binding:"required"`
	ApplicableDays []string `json:"applicable_days"`
	IsActive       *bool    `json:"is_active"`
}

// UpdateWorkShiftRequest 更新班次请求；ApplicableDays 非 nil 时整体替换
type UpdateWorkShiftRequest struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	StartTime      *string  `json:"start_time"`
	EndTime        *string  `json:"end_time"`
	ApplicableDays []string `json:"applicable_days"`
	IsActive       *bool    `json:"is_active"`
}

// WorkShiftListRequest 班次列表查询参数
type WorkShiftListRequest struct {
	DayOfWeek string `form:"day_of_week"`
}

// WorkShiftResponse 班次响应
type WorkShiftResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	StartTime      string   `json:"start_time"`
	EndTime        string   `json:"end_time"`
	ApplicableDays []string `json:"applicable_days"`
	IsActive       bool     `json:"is_active"`
	AuditResponse
}
