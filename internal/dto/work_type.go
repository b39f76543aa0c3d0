package dto

// ── 工作类型模块 DTO ──

// CreateWorkTypeRequest 创建工作类型请求
type CreateWorkTypeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"` // 缺省为 true
}

// UpdateWorkTypeRequest 更新工作类型请求
type UpdateWorkTypeRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// WorkTypeResponse 工作类型响应
type WorkTypeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
	AuditResponse
}
