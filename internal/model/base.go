package model

import "time"

// BaseModel 通用审计字段（所有实体与关联行嵌入）
//
// IsDeleted 只允许 false → true 单向变化，软删除后的行仍可按 ID 审计查询，
// 但默认列表与关联解析均不可见。
type BaseModel struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `json:"updated_by,omitempty"`
	IsDeleted bool      `json:"is_deleted"`
}

// Touch 写入更新审计信息
func (m *BaseModel) Touch(at time.Time, by string) {
	m.UpdatedAt = at
	m.UpdatedBy = by
}

// Stamp 写入创建审计信息，创建与更新字段取相同值
func (m *BaseModel) Stamp(at time.Time, by string) {
	m.CreatedAt = at
	m.CreatedBy = by
	m.Touch(at, by)
	m.IsDeleted = false
}
