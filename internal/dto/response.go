package dto

import (
	"time"

	"pet-cafe/backend/internal/model"
)

// ── 通用响应片段 ──

// AuditResponse 审计字段（嵌入各实体响应）
type AuditResponse struct {
	CreatedAt string `json:"created_at"`
	CreatedBy string `json:"created_by,omitempty"`
	UpdatedAt string `json:"updated_at"`
	UpdatedBy string `json:"updated_by,omitempty"`
	IsDeleted bool   `json:"is_deleted"`
}

// NewAuditResponse 由模型审计字段生成响应
func NewAuditResponse(m model.BaseModel) AuditResponse {
	return AuditResponse{
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
		CreatedBy: m.CreatedBy,
		UpdatedAt: m.UpdatedAt.Format(time.RFC3339),
		UpdatedBy: m.UpdatedBy,
		IsDeleted: m.IsDeleted,
	}
}
